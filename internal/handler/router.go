/*
Package handler provides the HTTP handlers and routing setup for the token service.

This file defines the main Router, applying the shared middleware (request IDs, logging,
CORS, panic recovery) and the per-IP rate limit on credential issuance.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"roomkey/internal/pkg/limiter"
	"roomkey/internal/pkg/logx"
	"roomkey/internal/pkg/resp"
)

// TokenPath is the base path of the issuance and directory API.
const TokenPath = "/api/livekit-token"

// Router sets up the main HTTP routing table (chi.Router) for the application.
// Background work started here (limiter cleanup) stops when ctx is cancelled.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	issueLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.IssueRate), deps.Config.IssueBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := deps.Config.AllowedOrigins
	if deps.Config.IsDevelopment() || len(corsAllowedOrigins) == 0 {
		corsAllowedOrigins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:       corsAllowedOrigins,
		AllowedMethods:       []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		MaxAge:               300,
		OptionsPassthrough:   true,
		OptionsSuccessStatus: http.StatusOK,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger("/health", "/metrics"))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":            "ok",
			"service":           "roomkey",
			"livekitConfigured": deps.Issuer.Ready() == nil,
		})
	})

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.With(issueLimiter.Middleware).Post(TokenPath, HandleIssueTokens(deps))
	r.Get(TokenPath, HandleListRooms(deps))
	r.Options(TokenPath, HandleTokenPreflight)

	// Operator-only: lists issued identities per room.
	r.With(RequireOperator(deps.Config.AuditToken)).Get("/api/issuances", HandleListIssuances(deps))

	return r
}
