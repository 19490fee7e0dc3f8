package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"pet-manager-api/internal/auth"
	"pet-manager-api/internal/httpjson"
	"pet-manager-api/internal/store"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	User        loginUser `json:"user"`
	AccessToken string    `json:"accessToken"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	if _, err := h.users.UserByEmail(ctx, req.Email); err == nil {
		httpjson.Error(w, http.StatusConflict, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.log.Error("signup lookup", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "User creation failed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "User creation failed")
		return
	}

	id, err := h.users.CreateUser(ctx, req.Email, hash)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		// lost a race with a concurrent signup
		httpjson.Error(w, http.StatusConflict, "User already exists")
		return
	case err != nil:
		h.log.Error("create user", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "User creation failed")
		return
	}

	h.log.Info("user created", zap.Int64("user_id", id))
	httpjson.Write(w, http.StatusOK, httpjson.Message{Message: "User created successfully"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	u, err := h.users.UserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		if h.uniform {
			if _, err := auth.CheckPassword(h.dummyHash, req.Password); err != nil {
				h.log.Error("uniform login hash unreadable", zap.Error(err))
			}
			httpjson.Error(w, http.StatusUnauthorized, "Invalid Login Credentials")
			return
		}
		httpjson.Error(w, http.StatusBadRequest, "User not found")
		return
	}
	if err != nil {
		h.log.Error("login lookup", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login Failed")
		return
	}

	match, err := auth.CheckPassword(u.PasswordHash, req.Password)
	if err != nil {
		h.log.Error("stored hash unreadable", zap.Int64("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login Failed")
		return
	}
	if !match {
		h.log.Info("bad login", zap.Int64("user_id", u.ID))
		httpjson.Error(w, http.StatusUnauthorized, "Invalid Login Credentials")
		return
	}

	tok, err := h.issuer.Issue(u.ID, u.Email)
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Login Failed")
		return
	}

	httpjson.Write(w, http.StatusOK, loginResponse{
		Success:     true,
		Message:     "Login successful",
		User:        loginUser{ID: u.ID, Email: u.Email},
		AccessToken: tok,
	})
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the caller's password after checking the current
// one. Existing tokens stay valid until they expire.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordChange
	if err := decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpjson.Error(w, http.StatusBadRequest, "Current and new password are required")
		return
	}

	ctx := r.Context()
	c := claims(r)
	u, err := h.users.UserByID(ctx, c.UserID)
	if errors.Is(err, store.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("password lookup", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Password update failed")
		return
	}

	match, err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword)
	if err != nil {
		h.log.Error("stored hash unreadable", zap.Int64("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Password update failed")
		return
	}
	if !match {
		httpjson.Error(w, http.StatusUnauthorized, "Invalid Login Credentials")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Password update failed")
		return
	}
	if err := h.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error("update password", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Password update failed")
		return
	}

	h.log.Info("password updated", zap.Int64("user_id", u.ID))
	httpjson.Write(w, http.StatusOK, httpjson.Message{Message: "Password updated successfully"})
}
