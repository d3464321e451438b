package dto

import "time"

type MessageInput struct {
	Role      string     `json:"role" validate:"oneof=user assistant"`
	Content   string     `json:"content" validate:"required_without=ImageURL"`
	ImageURL  string     `json:"image_url" validate:"omitempty,url"`
	Timestamp *time.Time `json:"timestamp"`
}

type CreateChatRequest struct {
	Title    string         `json:"title" validate:"notblank,max=255"`
	Messages []MessageInput `json:"messages" validate:"dive"`
}

type ReplaceMessagesRequest struct {
	Messages []MessageInput `json:"messages" validate:"dive"`
}
