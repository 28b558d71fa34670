package dto

import "time"

// Request DTOs

type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=80"`
	Email           string `json:"email" validate:"required,email,max=120"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=doctor nurse pharmacist"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	Token     string        `json:"-"`
	SessionID string        `json:"-"`
	User      *UserResponse `json:"user"`
}
