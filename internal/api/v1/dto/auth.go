package dto

import "time"

type SignupRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponseDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Premium   bool      `json:"premium"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponseDTO struct {
	Token string          `json:"token"`
	User  UserResponseDTO `json:"user"`
}
