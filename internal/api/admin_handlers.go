package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/edgegate/edgegate/internal/api/presenter"
	"github.com/edgegate/edgegate/internal/core"
)

const defaultListLimit = 25

func limitParam(r *http.Request) int {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}

// handleAdminDecisions lists recent decisions from the store.
func (s *Server) handleAdminDecisions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		presenter.Error(w, r, "decision store not configured", http.StatusNotImplemented)
		return
	}

	records, err := s.store.ListRecent(r.Context(), limitParam(r))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to list decisions")
		presenter.Error(w, r, "failed to list decisions", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, records, http.StatusOK)
}

// handleAdminAudits lists recent audit entries, if the configured auditor
// can serve them back.
func (s *Server) handleAdminAudits(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.auditor.(core.RecentLister)
	if !ok {
		presenter.Error(w, r, "configured auditor does not support listing", http.StatusNotImplemented)
		return
	}

	entries, err := lister.GetRecent(limitParam(r))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to list audit entries")
		presenter.Error(w, r, "failed to list audit entries", http.StatusInternalServerError)
		return
	}

	presenter.JSON(w, r, entries, http.StatusOK)
}
