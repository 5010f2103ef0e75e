// Package api exposes the authorizer over HTTP for standalone and local
// use: the gateway event goes in, the policy response comes out. The
// hosted deployment invokes the authorizer directly; this facade exists
// for development, operations, and integration testing.
package api

import (
	"net/http"

	"github.com/edgegate/edgegate/internal/api/middleware"
	"github.com/edgegate/edgegate/internal/authorizer"
	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/jwks"
)

type Server struct {
	authorizer *authorizer.Authorizer
	keys       *jwks.Cache
	store      core.DecisionStore
	auditor    core.Auditor
}

func NewServer(
	auth *authorizer.Authorizer,
	keys *jwks.Cache,
	store core.DecisionStore,
	auditor core.Auditor,
) *Server {
	return &Server{
		authorizer: auth,
		keys:       keys,
		store:      store,
		auditor:    auditor,
	}
}

func (s *Server) Routes(adminToken string) http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	mux.HandleFunc("GET "+KeysRoute, s.handleKeys)

	// the authorizer itself
	mux.HandleFunc("POST "+AuthorizeRoute, s.handleAuthorize)

	// admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("GET "+ListDecisionsRoute, s.handleAdminDecisions)
	adminMux.HandleFunc("GET "+ListAuditsRoute, s.handleAdminAudits)
	mux.Handle(AdminParent, middleware.AdminAuth(adminToken)(adminMux))

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
