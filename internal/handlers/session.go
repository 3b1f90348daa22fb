package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stravamcp/internal/handlers/render"
	"stravamcp/internal/logger"
	"stravamcp/internal/service/session"
)

type sessionService interface {
	Create(ctx context.Context, code string) (session.CreatedSession, error)
	Revoke(ctx context.Context, bearer string) error
}

type CreateSessionRequest struct {
	// One-time OAuth authorization code
	Code string `json:"code" validate:"required"`
}

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Bearer    string    `json:"bearer"`
	ExpiresAt time.Time `json:"expires_at"`
}

func handleCreateSession(svc sessionService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[CreateSessionRequest](w, r)
		if err != nil {
			return
		}

		created, err := svc.Create(r.Context(), req.Code)
		if err != nil {
			log.Warn("Failed to create session", "error", err)
			render.AppError(w, err)
			return
		}

		render.JSON(w, CreateSessionResponse{
			SessionID: created.Session.ID,
			Bearer:    created.Bearer,
			ExpiresAt: created.ExpiresAt,
		})
	})
}

func handleRevokeSession(svc sessionService, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		bearer, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || bearer == "" {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Revoke(r.Context(), bearer); err != nil {
			log.Warn("Failed to revoke session", "error", err)
			render.AppError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
