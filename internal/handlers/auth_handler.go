package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/portfolio-site/backend/internal/auth"
	"go.uber.org/zap"
)

// SessionGate is the interface that wraps the owner login and logout
type SessionGate interface {
	// Method Login checks the owner credentials and returns a signed session token.
	//
	// If the credentials do not match, auth.ErrInvalidCredentials will be returned.
	Login(email, password string) (string, *auth.Session, error)
	// Method Logout revokes a session token.
	//
	// If the token is not a valid session, auth.ErrInvalidSession will be returned.
	Logout(token string) error
}

// LoginRequest represents the owner login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthHandler handles owner session HTTP requests
type AuthHandler struct {
	BaseHandler
	gate          SessionGate
	secureCookies bool
}

// NewAuthHandler creates a new auth handler.
// secureCookies marks the session cookie Secure, which browsers only send over HTTPS.
func NewAuthHandler(gate SessionGate, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		gate:          gate,
		secureCookies: secureCookies,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})
}

// Login handles POST /auth/login
// @Summary Owner login
// @Description Check the owner credentials. The session token is returned and set as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.RespondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, session, err := h.gate.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.Logger.Warn("failed owner login attempt")
			h.RespondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Logger.Error("failed to login", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: session.ExpiresAt})
}

// Logout handles POST /auth/logout
// @Summary Owner logout
// @Description Revoke the current session token and clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 401 {object} map[string]string "Invalid session"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.gate.Logout(token); err != nil {
		h.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}
