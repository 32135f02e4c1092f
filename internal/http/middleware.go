package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/expiry-tracker/internal/auth"
	"github.com/rogerio-castellano/expiry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's actor in the request context. When users is set, the actor is
// rebuilt from the stored account so role changes and deletions apply to
// tokens already issued.
func AuthMiddleware(tokens *auth.Tokens, users *auth.Users, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := tokens.TokenClaims(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "missing or invalid token", http.StatusUnauthorized)
				return
			}

			actor, err := auth.ActorFromClaims(claims)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if users != nil {
				user, err := users.Get(r.Context(), actor.UserID)
				switch {
				case errors.Is(err, auth.ErrUserNotFound):
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				case err != nil:
					log.Error(r.Context(), "loading token user failed", err)
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				actor = models.ActorFor(user)
			}

			ctx := handlers.WithActor(r.Context(), actor)
			ctx = log.WithUserID(ctx, actor.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches the chi request id to the log context and logs
// every completed request.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := log.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			log.Zerolog(ctx).Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
