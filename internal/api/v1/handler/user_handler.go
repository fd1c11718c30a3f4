package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.getUser)))
	mux.Handle("/users/me/usage", authMw(http.HandlerFunc(h.getUsage)))
	mux.Handle("/users/me/history", authMw(http.HandlerFunc(h.getHistory)))
}

func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: session not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error().Err(err).Msg("Failed to fetch user")
			http.Error(w, err.Error(), http.StatusInternalServerError)
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
	json.NewEncoder(w).Encode(resp)
}

// getUsage reports the advisory view of the daily quota so a client can warn
// before submitting; the generation endpoint enforces the limit regardless.
func (h *UserHandler) getUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: session not found in context", http.StatusUnauthorized)
		return
	}

	usage, err := h.userService.Usage(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("Failed to fetch usage")
		http.Error(w, "failed to fetch usage", http.StatusInternalServerError)
		return
	}

	resp := dto.UsageResponseDTO{
		CountToday:  usage.CountToday,
		DailyLimit:  usage.DailyLimit,
		Premium:     usage.Premium,
		MayGenerate: usage.MayGenerate,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *UserHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: session not found in context", http.StatusUnauthorized)
		return
	}

	limit := 10
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	entries, err := h.userService.History(r.Context(), session.UserID, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("Failed to fetch history")
		http.Error(w, "failed to fetch history", http.StatusInternalServerError)
		return
	}

	entryDTOs := make([]dto.HistoryEntryResponseDTO, 0, len(entries))
	for _, e := range entries {
		entryDTOs = append(entryDTOs, dto.HistoryEntryResponseDTO{
			ID:        e.ID,
			BookName:  e.BookName,
			Summary:   e.Summary,
			CreatedAt: e.CreatedAt,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entryDTOs)
}
