package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, v *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 auth routes. Both endpoints are unauthenticated.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/signup", h.signup)
	mux.HandleFunc("/auth/login", h.login)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.SignupRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.authService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			http.Error(w, "email already registered", http.StatusConflict)
		default:
			h.logger.Error().Err(err).Msg("Failed to create account")
			http.Error(w, "failed to create account", http.StatusInternalServerError)
		}
		return
	}

	resp := dto.UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		Premium:   user.Premium,
		CreatedAt: user.CreatedAt,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
		default:
			h.logger.Error().Err(err).Msg("Failed to log in")
			http.Error(w, "failed to log in", http.StatusInternalServerError)
		}
		return
	}

	resp := dto.LoginResponseDTO{
		Token: token,
		User: dto.UserResponseDTO{
			ID:        user.ID,
			Email:     user.Email,
			Premium:   user.Premium,
			CreatedAt: user.CreatedAt,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
