package cmd

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()

	greenCheck = color.GreenString("✓")
	redCross   = color.RedString("✗")
)

// BeQuietError signals that the error was already presented to the user
// and should not be logged again by Execute.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "(suppressed)"
}

func logError(err error, correlation, msg string) error {
	if correlation != "" {
		log.Error().Str("correlation_id", correlation).Err(err).Msg(msg)
	} else {
		log.Error().Err(err).Msg(msg)
	}
	return BeQuietError{}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
