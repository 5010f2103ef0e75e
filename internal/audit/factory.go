package audit

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/edgegate/edgegate/internal/core"
)

const (
	TypeFile   = "file"
	TypeMemory = "memory"
	TypeNoop   = "noop"
)

// FileConfig are the options of the file auditor, decoded from the inline
// audit config block.
type FileConfig struct {
	Path string `mapstructure:"path"`
}

// New builds an auditor from its configured type and inline options.
func New(auditorType string, options map[string]any) (core.Auditor, error) {
	switch auditorType {
	case TypeFile:
		var conf FileConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Metadata: nil,
			Result:   &conf,
		})
		if err != nil {
			return nil, fmt.Errorf("creating decoder for file auditor config: %w", err)
		}
		if err := decoder.Decode(options); err != nil {
			return nil, fmt.Errorf("decoding file auditor config: %w", err)
		}
		if conf.Path == "" {
			return nil, fmt.Errorf("file auditor requires 'path'")
		}
		return NewFileAuditor(conf.Path)
	case TypeMemory:
		return NewInMemoryAuditor(), nil
	case TypeNoop, "":
		return NewNoopAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown auditor type %q", auditorType)
	}
}
