package handler

import (
	"encoding/base64"
	"net/http"
	"testing"

	"app/internal/api/v1/dto"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

func newDownloadTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	h := NewStudyHandler(nil, validator.New(validator.WithRequiredStructEnabled()), 25, zerolog.Nop())
	mux := http.NewServeMux()
	// Downloads never touch the pipeline, so no auth wrapping is needed here.
	mux.HandleFunc("/summaries/download/text", h.downloadText)
	mux.HandleFunc("/summaries/download/audio", h.downloadAudio)
	return mux
}

func TestDownloadText(t *testing.T) {
	mux := newDownloadTestMux(t)

	rec := postJSON(t, mux, "/summaries/download/text", dto.DownloadTextRequestDTO{
		BookName: "Dune",
		Summary:  "a short summary",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Dune_summary.txt"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if rec.Body.String() != "a short summary" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestDownloadTextRejectsIncompletePayload(t *testing.T) {
	mux := newDownloadTestMux(t)

	rec := postJSON(t, mux, "/summaries/download/text", dto.DownloadTextRequestDTO{BookName: "Dune"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadAudio(t *testing.T) {
	mux := newDownloadTestMux(t)

	audio := []byte("mp3-bytes")
	rec := postJSON(t, mux, "/summaries/download/audio", dto.DownloadAudioRequestDTO{
		BookName:     "Dune",
		AudioContent: base64.StdEncoding.EncodeToString(audio),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Dune_summary.mp3"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "audio/mpeg" {
		t.Fatalf("unexpected content type %q", got)
	}
	if rec.Body.String() != "mp3-bytes" {
		t.Fatalf("decoded audio mismatch: %q", rec.Body.String())
	}
}

func TestDownloadAudioRejectsBadBase64(t *testing.T) {
	mux := newDownloadTestMux(t)

	rec := postJSON(t, mux, "/summaries/download/audio", dto.DownloadAudioRequestDTO{
		BookName:     "Dune",
		AudioContent: "not base64!!!",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadNameStripsHeaderBreakers(t *testing.T) {
	got := downloadName(`Du"ne/Messiah\`+"\r\n", ".txt")
	if got != "DuneMessiah_summary.txt" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
}
