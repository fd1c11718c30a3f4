package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type StudyHandler struct {
	studyService   service.StudyService
	validate       *validator.Validate
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewStudyHandler(studyService service.StudyService, v *validator.Validate, maxUploadMB int, logger zerolog.Logger) *StudyHandler {
	return &StudyHandler{
		studyService:   studyService,
		validate:       v,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
		logger:         logger,
	}
}

// RegisterRoutes mounts v1 summary routes
func (h *StudyHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/summaries", authMw(http.HandlerFunc(h.generate)))
	mux.Handle("/summaries/download/text", authMw(http.HandlerFunc(h.downloadText)))
	mux.Handle("/summaries/download/audio", authMw(http.HandlerFunc(h.downloadAudio)))
}

// generate runs the whole pipeline synchronously: the response is not written
// until extraction, summarization, the history write and speech synthesis have
// all completed.
func (h *StudyHandler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: session not found in context", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		maxMB := h.maxUploadBytes / (1024 * 1024)
		http.Error(w, fmt.Sprintf("file too large (max %dMB) or invalid form", maxMB), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		http.Error(w, "only PDF files are allowed", http.StatusBadRequest)
		return
	}

	bookName := r.FormValue("book_name")
	if bookName == "" {
		http.Error(w, "book_name is required", http.StatusBadRequest)
		return
	}

	req := service.GenerateRequest{
		BookName: bookName,
		Chapters: r.FormValue("chapters"),
		Pages:    r.FormValue("pages"),
		FileName: header.Filename,
		File:     file,
	}
	result, err := h.studyService.GenerateSummary(r.Context(), session.UserID, session.Premium, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDailyLimitReached):
			http.Error(w, "daily free summary limit reached, upgrade to premium for unlimited use", http.StatusTooManyRequests)
		default:
			h.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("Summary generation failed")
			http.Error(w, "summary generation failed", http.StatusBadGateway)
		}
		return
	}

	resp := dto.GenerateSummaryResponseDTO{
		ID:           result.Entry.ID,
		BookName:     result.Entry.BookName,
		Summary:      result.Entry.Summary,
		CreatedAt:    result.Entry.CreatedAt,
		AudioContent: base64.StdEncoding.EncodeToString(result.Audio),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *StudyHandler) downloadText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.DownloadTextRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(req.BookName, ".txt")))
	w.Write([]byte(req.Summary))
}

func (h *StudyHandler) downloadAudio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.DownloadAudioRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioContent)
	if err != nil {
		http.Error(w, "invalid audio content", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(req.BookName, ".mp3")))
	w.Write(audio)
}

// downloadName builds "{book_name}_summary{ext}". Book names are user-supplied
// and unvalidated, so characters that would break the header are stripped.
func downloadName(bookName, ext string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\n', '\r':
			return -1
		}
		return r
	}, bookName)
	return sanitized + "_summary" + ext
}
