package dto

import "time"

// Request DTOs

type MessageRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	IsUrgent bool   `json:"is_urgent"`
}

// Response DTOs

type MessageResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsUrgent  bool      `json:"is_urgent"`
	Sender    string    `json:"sender,omitempty"`
}

type MessageListResponse struct {
	Messages []MessageResponse `json:"messages"`
	Notices  []string          `json:"notices,omitempty"`
}
