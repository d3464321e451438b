package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// FindByID looks a chat up without an owner filter.
func (r *ChatRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) FindOwned(ctx context.Context, userID string, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).First(&chat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) ListOwned(ctx context.Context, userID string) ([]models.Chat, error) {
	chats := make([]models.Chat, 0)
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(userID)).
		Order("updated_at DESC").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *ChatRepository) ReplaceMessages(ctx context.Context, userID string, id uuid.UUID, messages []models.Message, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Chat{}).
		Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"messages":   datatypes.JSONSlice[models.Message](messages),
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChatRepository) DeleteOwned(ctx context.Context, userID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Scopes(OwnedBy(userID)).Where("id = ?", id).Delete(&models.Chat{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
