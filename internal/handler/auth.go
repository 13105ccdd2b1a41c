package handler

import (
	"net/http"
	"time"

	"github.com/templui/goalpace/internal/ctxkeys"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.issueToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.issueToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, status, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	})
}
