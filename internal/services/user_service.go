package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Count returns the number of registered, non-deleted users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, dependency("count users", err)
	}
	return n, nil
}
