package dto

type AssistantRequest struct {
	Prompt   string         `json:"prompt" validate:"required_without=ImageURL"`
	ImageURL string         `json:"image_url" validate:"omitempty,url"`
	Messages []MessageInput `json:"messages"`
}

type UploadRequest struct {
	File     string `json:"file" validate:"required"`
	FileName string `json:"file_name" validate:"notblank,max=255"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
