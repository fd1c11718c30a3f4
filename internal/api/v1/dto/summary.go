package dto

import "time"

type GenerateSummaryResponseDTO struct {
	ID        int64     `json:"id"`
	BookName  string    `json:"book_name"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	// AudioContent is the base64-encoded MP3 rendition of the summary.
	AudioContent string `json:"audio_content"`
}

type DownloadTextRequestDTO struct {
	BookName string `json:"book_name" validate:"required"`
	Summary  string `json:"summary" validate:"required"`
}

type DownloadAudioRequestDTO struct {
	BookName     string `json:"book_name" validate:"required"`
	AudioContent string `json:"audio_content" validate:"required,base64"`
}
