package dto

import "time"

type HistoryEntryResponseDTO struct {
	ID        int64     `json:"id"`
	BookName  string    `json:"book_name"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
