package handler

import "time"

// --- Request / Response types ---

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type acceptMessagesRequest struct {
	AcceptMessages *bool `json:"acceptMessages" validate:"required"`
}

type acceptMessagesResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type listMessagesResponse struct {
	Success  bool              `json:"success"`
	Messages []messageResponse `json:"messages"`
}
