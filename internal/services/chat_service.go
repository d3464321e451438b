package services

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatStore interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindOwned(ctx context.Context, userID string, id uuid.UUID) (*models.Chat, error)
	ListOwned(ctx context.Context, userID string) ([]models.Chat, error)
	ReplaceMessages(ctx context.Context, userID string, id uuid.UUID, messages []models.Message, at time.Time) error
	DeleteOwned(ctx context.Context, userID string, id uuid.UUID) error
}

// ChatService manages a user's conversations with the assistant. Every
// operation is scoped to the caller's subject.
type ChatService struct {
	chats ChatStore
	now   func() time.Time
}

func NewChatService(chats ChatStore) *ChatService {
	return &ChatService{
		chats: chats,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *ChatService) List(ctx context.Context, actor identity.Identity) ([]models.Chat, error) {
	chats, err := s.chats.ListOwned(ctx, actor.Subject)
	if err != nil {
		return nil, dependency("list chats", err)
	}
	return chats, nil
}

func (s *ChatService) Create(ctx context.Context, actor identity.Identity, req *dto.CreateChatRequest) (*models.Chat, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	chat := &models.Chat{
		UserID:    actor.Subject,
		Title:     req.Title,
		Messages:  s.toMessages(req.Messages),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, dependency("create chat", err)
	}
	return chat, nil
}

func (s *ChatService) Get(ctx context.Context, actor identity.Identity, id uuid.UUID) (*models.Chat, error) {
	chat, err := s.chats.FindOwned(ctx, actor.Subject, id)
	if err != nil {
		return nil, chatErr("load chat", err)
	}
	return chat, nil
}

// ReplaceMessages overwrites the conversation. Reports already filed
// against it keep their own copy.
func (s *ChatService) ReplaceMessages(ctx context.Context, actor identity.Identity, id uuid.UUID, req *dto.ReplaceMessagesRequest) (*models.Chat, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.chats.ReplaceMessages(ctx, actor.Subject, id, s.toMessages(req.Messages), s.now()); err != nil {
		return nil, chatErr("replace chat messages", err)
	}
	return s.Get(ctx, actor, id)
}

func (s *ChatService) Delete(ctx context.Context, actor identity.Identity, id uuid.UUID) error {
	if err := s.chats.DeleteOwned(ctx, actor.Subject, id); err != nil {
		return chatErr("delete chat", err)
	}
	return nil
}

func (s *ChatService) toMessages(in []dto.MessageInput) []models.Message {
	now := s.now()
	out := make([]models.Message, 0, len(in))
	for _, m := range in {
		ts := now
		if m.Timestamp != nil {
			ts = m.Timestamp.UTC()
		}
		out = append(out, models.Message{
			Role:      m.Role,
			Content:   m.Content,
			ImageURL:  m.ImageURL,
			Timestamp: ts,
		})
	}
	return out
}

func chatErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChatNotFound
	}
	return dependency(op, err)
}
