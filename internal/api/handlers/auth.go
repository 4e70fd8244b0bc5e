package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pankhokiudaan/server/internal/api/middleware"
	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/audit"
	"github.com/pankhokiudaan/server/internal/auth"
	"github.com/pankhokiudaan/server/internal/domain/admins"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (admins.LoginResult, error)
	Verify(ctx context.Context, token string) (admins.Summary, error)
	Register(ctx context.Context, params admins.RegisterParams, caller *admins.Summary) (admins.Summary, error)
}

type AuthHandler struct {
	service   AuthService
	responder respond.Responder
	audit     *audit.Logger
}

func NewAuthHandler(service AuthService, responder respond.Responder, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{service: service, responder: responder, audit: auditLog}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	attempt := admins.Summary{ID: result.Admin.ID, Username: req.Username}
	h.audit.Record(r.WithContext(middleware.WithAdmin(r.Context(), attempt)), "admin.login", "admin", attempt.ID, err)
	if err != nil {
		h.responder.Error(w, r, err, "Login failed. Please try again.")
		return
	}

	respond.JSON(w, http.StatusOK, struct {
		Success   bool      `json:"success"`
		Message   string    `json:"message"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		User      adminJSON `json:"user"`
	}{
		Success:   true,
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC(),
		User:      toAdminJSON(result.Admin),
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, _ := auth.TokenFromHeader(r.Header.Get("Authorization"))
	admin, err := h.service.Verify(r.Context(), token)
	if err != nil {
		h.responder.Error(w, r, err, "Token verification failed")
		return
	}
	respond.JSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		User    adminJSON `json:"user"`
	}{Success: true, User: toAdminJSON(admin)})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an admin. Whether a token is required is decided by the
// router; the caller, when known, limits which roles may be granted.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}

	var caller *admins.Summary
	if admin, ok := middleware.AdminFromContext(r.Context()); ok {
		caller = &admin
	}

	created, err := h.service.Register(r.Context(), admins.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, caller)
	if err != nil {
		h.audit.Record(r, "admin.register", "admin", "", err)
		h.responder.Error(w, r, err, "Failed to create admin")
		return
	}
	h.audit.Record(r, "admin.register", "admin", created.ID, nil)

	respond.JSON(w, http.StatusCreated, struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Admin   adminJSON `json:"admin"`
	}{Success: true, Message: "Admin created successfully", Admin: toAdminJSON(created)})
}
