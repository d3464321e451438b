package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
)

var ErrUploadUnavailable = errors.New("image upload is not configured")

// UploadService stores chat images on ImageKit.
type UploadService struct {
	client     *http.Client
	uploadURL  string
	privateKey string
}

func NewUploadService(client *http.Client, cfg *config.Config) *UploadService {
	return &UploadService{
		client:     client,
		uploadURL:  cfg.ImageKitUploadURL,
		privateKey: cfg.ImageKitPrivateKey,
	}
}

type imageKitResponse struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Upload sends a base64 (or data URL) encoded file and returns its public URL.
func (s *UploadService) Upload(ctx context.Context, req *dto.UploadRequest) (string, error) {
	if s.privateKey == "" {
		return "", ErrUploadUnavailable
	}
	if err := validateStruct(req); err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"file":              req.File,
		"fileName":          req.FileName,
		"useUniqueFileName": "true",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.uploadURL, &body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.SetBasicAuth(s.privateKey, "")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", dependency("upload image", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", dependency("upload image", err)
	}

	var out imageKitResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", dependency("upload image", fmt.Errorf("status %d: %s", resp.StatusCode, out.Message))
	}
	if out.URL == "" {
		return "", dependency("upload image", errors.New("response did not include a url"))
	}
	return out.URL, nil
}
