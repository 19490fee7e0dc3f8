package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pet-manager-api/internal/auth"
	"pet-manager-api/internal/httpjson"
)

func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, struct {
		Message string       `json:"message"`
		User    *auth.Claims `json:"user"`
	}{"You accessed a protected route!", claims(r)})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, struct {
		Message string `json:"message"`
		UserID  int64  `json:"userId"`
	}{"Welcome to your dashboard", claims(r).UserID})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Pet Manager API is running!"))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports 503 while the database does not answer.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.users.Ping(ctx); err != nil {
		h.log.Warn("readiness check failed", zap.Error(err))
		httpjson.Write(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable"})
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
