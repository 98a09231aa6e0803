package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mmc102/partner-finder/internal/middleware"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	userService *services.UserService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// AccountResponse is a user as seen by its owner. Unlike the public
// user view it includes the email.
type AccountResponse struct {
	*models.User
	Email string `json:"email"`
}

func newAccountResponse(user *models.User) AccountResponse {
	return AccountResponse{User: user, Email: user.Email}
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register user")
		respondServiceError(w, err, "Failed to register user")
		return
	}

	log.Info().Int64("user_id", user.ID).Msg("User registered")

	respondJSON(w, http.StatusCreated, newAccountResponse(user))
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := h.userService.Login(r.Context(), req)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Failed login")
		respondServiceError(w, err, "Failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Int64("user_id", user.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: newAccountResponse(user)})
}

// Logout handles POST /api/v1/logout by expiring the access token cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}
