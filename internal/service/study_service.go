package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// ErrDailyLimitReached is returned when a free user is at their daily
// generation limit. The limit is enforced, not advisory: the gate check and
// the history write happen in one transaction.
var ErrDailyLimitReached = errors.New("daily limit reached")

// GenerateRequest carries one summary generation submission. Pages is captured
// from the form but not passed to the summarizer.
type GenerateRequest struct {
	BookName string
	Chapters string
	Pages    string
	FileName string
	File     io.Reader
}

// GenerateResult is a completed generation: the persisted history entry plus
// the synthesized MP3 audio. Audio is never persisted.
type GenerateResult struct {
	Entry model.HistoryEntry
	Audio []byte
}

// StudyService runs the summary pipeline: extract text, summarize, record
// history under the daily quota, synthesize speech. No step is retried; any
// failure aborts the remaining steps.
type StudyService interface {
	GenerateSummary(ctx context.Context, userID int64, premium bool, req GenerateRequest) (*GenerateResult, error)
}

type studyService struct {
	history    repository.HistoryRepository
	extractor  TextExtractor
	summarizer Summarizer
	speech     SpeechSynthesizer
	dailyLimit int
	now        func() time.Time
	logger     zerolog.Logger
}

func NewStudyService(
	history repository.HistoryRepository,
	extractor TextExtractor,
	summarizer Summarizer,
	speech SpeechSynthesizer,
	dailyLimit int,
	logger zerolog.Logger,
) StudyService {
	return &studyService{
		history:    history,
		extractor:  extractor,
		summarizer: summarizer,
		speech:     speech,
		dailyLimit: dailyLimit,
		now:        time.Now,
		logger:     logger.With().Str("service", "StudyService").Logger(),
	}
}

func (s *studyService) GenerateSummary(ctx context.Context, userID int64, premium bool, req GenerateRequest) (*GenerateResult, error) {
	// The authoritative check happens atomically at the write below; this early
	// count only avoids paying for upstream calls that are doomed to be refused.
	start, end := DayWindow(s.now())
	if !premium {
		count, err := s.history.CountInWindow(ctx, userID, start, end)
		if err != nil {
			return nil, err
		}
		if !MayGenerate(premium, count, s.dailyLimit) {
			return nil, ErrDailyLimitReached
		}
	}

	s.logger.Info().
		Int64("user_id", userID).
		Str("book_name", req.BookName).
		Str("chapters", req.Chapters).
		Str("pages", req.Pages).
		Msg("Starting summary generation")

	text, err := s.extractor.ExtractText(ctx, req.FileName, req.File)
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}

	summary, err := s.summarizer.SummarizeBook(ctx, req.BookName, req.Chapters, text)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	maxPerWindow := s.dailyLimit
	if premium {
		maxPerWindow = 0 // unlimited
	}
	entry := &model.HistoryEntry{
		UserID:    userID,
		BookName:  req.BookName,
		Summary:   summary,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if err := s.history.CheckAndRecord(ctx, entry, start, end, maxPerWindow); err != nil {
		if errors.Is(err, repository.ErrGenerationLimitExceeded) {
			return nil, ErrDailyLimitReached
		}
		return nil, err
	}

	audio, err := s.speech.Synthesize(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}

	return &GenerateResult{Entry: *entry, Audio: audio}, nil
}
