package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
)

const (
	maxImageBytes = 10 << 20

	assistantSystemPrompt = `You are a support assistant for developers working with APIs. Answer questions about:
1. Endpoints and how to call them
2. Authentication schemes and credentials
3. Rate limits and quotas
4. Request and response formats such as JSON and XML
5. Reading API documentation
6. Integrating APIs into applications
7. Testing and debugging API calls
8. API security practices
9. Project ideas built on public APIs

When an image is attached, treat it as documentation, sample code, a response payload or a tool screenshot and explain what it shows.

If the question has nothing to do with APIs, reply exactly:
"I specialize in API-related topics. Please ask me something about endpoints, authentication, integration, or other API-specific areas."`
)

var ErrAssistantUnavailable = errors.New("assistant is not configured")

// AssistantService proxies questions to an OpenAI-compatible chat completion
// endpoint and relays the streamed answer.
type AssistantService struct {
	client     *http.Client
	apiURL     string
	apiKey     string
	model      string
	imageHosts map[string]struct{}
}

func NewAssistantService(client *http.Client, cfg *config.Config) *AssistantService {
	hosts := make(map[string]struct{}, len(cfg.ImageHosts))
	for _, h := range cfg.ImageHosts {
		hosts[strings.ToLower(h)] = struct{}{}
	}
	return &AssistantService{
		client:     client,
		apiURL:     cfg.LLMAPIURL,
		apiKey:     cfg.LLMAPIKey,
		model:      cfg.LLMModel,
		imageHosts: hosts,
	}
}

type completionMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Validate checks the request before any response bytes are written.
func (s *AssistantService) Validate(req *dto.AssistantRequest) error {
	if s.apiKey == "" {
		return ErrAssistantUnavailable
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.ImageURL != "" {
		if u, err := url.Parse(req.ImageURL); err != nil || !s.imageAllowed(u) {
			return errImageHost
		}
	}
	return nil
}

var errImageHost = &ValidationError{Field: "image_url", Message: "must be an https URL on an allowed image host"}

// imageAllowed limits server-side fetches to https on the configured hosts.
func (s *AssistantService) imageAllowed(u *url.URL) bool {
	if u.Scheme != "https" || u.User != nil {
		return false
	}
	_, ok := s.imageHosts[strings.ToLower(u.Hostname())]
	return ok
}

// Stream sends the question and calls emit for every non-empty text delta.
func (s *AssistantService) Stream(ctx context.Context, req *dto.AssistantRequest, emit func(string) error) error {
	body, err := s.buildRequest(ctx, req)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return dependency("assistant request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return dependency("assistant request", fmt.Errorf("status %d: %s", resp.StatusCode, string(detail)))
	}

	return readEventStream(resp.Body, emit)
}

// readEventStream parses server-sent events and forwards delta content.
func readEventStream(r io.Reader, emit func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return dependency("decode assistant stream", err)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := emit(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return dependency("read assistant stream", err)
	}
	return nil
}

func (s *AssistantService) buildRequest(ctx context.Context, req *dto.AssistantRequest) (*completionRequest, error) {
	messages := []completionMessage{{Role: "system", Content: assistantSystemPrompt}}
	for _, m := range req.Messages {
		if m.Content == "" {
			continue
		}
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, completionMessage{Role: role, Content: m.Content})
	}

	if req.ImageURL == "" {
		messages = append(messages, completionMessage{Role: "user", Content: req.Prompt})
	} else {
		dataURL, err := s.fetchImage(ctx, req.ImageURL)
		if err != nil {
			return nil, err
		}
		parts := []contentPart{{Type: "image_url", ImageURL: &imageRef{URL: dataURL}}}
		if req.Prompt != "" {
			parts = append(parts, contentPart{Type: "text", Text: req.Prompt})
		}
		messages = append(messages, completionMessage{Role: "user", Content: parts})
	}

	return &completionRequest{Model: s.model, Messages: messages, Stream: true}, nil
}

// fetchImage downloads the image and returns it as a base64 data URL.
// Redirects must stay on allowed hosts too.
func (s *AssistantService) fetchImage(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &ValidationError{Field: "image_url", Message: "must be a valid URL"}
	}
	if !s.imageAllowed(req.URL) {
		return "", errImageHost
	}

	client := *s.client
	client.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) >= 5 || !s.imageAllowed(next.URL) {
			return errImageHost
		}
		return nil
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, errImageHost) {
			return "", errImageHost
		}
		return "", dependency("fetch image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", dependency("fetch image", fmt.Errorf("status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return "", dependency("fetch image", err)
	}
	if len(data) > maxImageBytes {
		return "", &ValidationError{Field: "image_url", Message: "image is larger than 10MB"}
	}

	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
