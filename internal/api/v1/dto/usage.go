package dto

type UsageResponseDTO struct {
	CountToday  int  `json:"count_today"`
	DailyLimit  int  `json:"daily_limit"`
	Premium     bool `json:"premium"`
	MayGenerate bool `json:"may_generate"`
}
