package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edgegate/edgegate/internal/api/presenter"
	"github.com/edgegate/edgegate/internal/buildinfo"
	"github.com/edgegate/edgegate/internal/gateway"
)

// handleHealth responds with a simple OK status to indicate the server is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleAbout responds with service information including version and commit hash.
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, buildinfo.GetBuildInfo(), http.StatusOK)
}

func DecodePayload(r *http.Request, dest any, allowEmpty bool) error {
	switch r.Header.Get("Content-Type") {
	case "application/json", "":
		// strict encoding for JSON
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(dest); err != nil {
			if !errors.Is(err, io.EOF) || !allowEmpty {
				return err
			}
		}
		if dec.More() {
			return errors.New("extra data in request body")
		}
		return nil
	default:
		return errors.New("unsupported content type")
	}
}

// handleAuthorize runs the authorizer on a gateway event. The response is
// always a structured policy response, never an error status: a broken
// event is the only thing that earns a 400 here.
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var event gateway.Event
	if err := DecodePayload(r, &event, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode authorize event")
		presenter.Error(w, r, "invalid event payload", http.StatusBadRequest)
		return
	}
	if event.MethodArn == "" {
		presenter.Error(w, r, "event is missing methodArn", http.StatusBadRequest)
		return
	}

	decision := s.authorizer.Authorize(ctx, event.Request())

	logger.Info().
		Bool("allowed", decision.Allowed()).
		Str("principal", decision.PrincipalID).
		Msg("authorization decided")

	presenter.JSON(w, r, gateway.FromDecision(decision), http.StatusOK)
}

// handleKeys lists the key ids of the resolved issuer key set.
func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	type keyInfo struct {
		KeyID     string `json:"kid"`
		Algorithm string `json:"alg,omitempty"`
	}

	resp := struct {
		Warm bool      `json:"warm"`
		Keys []keyInfo `json:"keys"`
	}{
		Warm: s.keys.Warm(),
		Keys: make([]keyInfo, 0),
	}
	for _, k := range s.keys.Keys() {
		resp.Keys = append(resp.Keys, keyInfo{KeyID: k.KeyID, Algorithm: k.Algorithm})
	}

	presenter.JSON(w, r, resp, http.StatusOK)
}
