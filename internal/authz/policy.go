// Package authz decides who counts as an administrator.
package authz

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Policy interface {
	IsAdmin(ctx context.Context, id identity.Identity) bool
}

// AllowList grants admin to configured subjects. Emails are never matched:
// the local provider does not verify address ownership.
type AllowList struct {
	subjects map[string]struct{}
}

func NewAllowList(subjects []string) *AllowList {
	a := &AllowList{subjects: make(map[string]struct{}, len(subjects))}
	for _, s := range subjects {
		if s = strings.TrimSpace(s); s != "" {
			a.subjects[s] = struct{}{}
		}
	}
	return a
}

func (a *AllowList) IsAdmin(_ context.Context, id identity.Identity) bool {
	if id.Subject == "" {
		return false
	}
	_, ok := a.subjects[id.Subject]
	return ok
}

// RolePolicy grants admin to local users whose stored role is "admin".
// The token's role claim is ignored so demotions apply immediately.
type RolePolicy struct {
	db *gorm.DB
}

func NewRolePolicy(db *gorm.DB) *RolePolicy {
	return &RolePolicy{db: db}
}

func (p *RolePolicy) IsAdmin(ctx context.Context, id identity.Identity) bool {
	userID, err := uuid.Parse(id.Subject)
	if err != nil {
		return false
	}
	var user models.User
	if err := p.db.WithContext(ctx).Select("role").First(&user, "id = ?", userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("admin role lookup failed", "user_id", id.Subject, "error", err)
		}
		return false
	}
	return user.Role == "admin"
}

// AnyOf grants admin when any member policy does.
type AnyOf []Policy

func (ps AnyOf) IsAdmin(ctx context.Context, id identity.Identity) bool {
	for _, p := range ps {
		if p.IsAdmin(ctx, id) {
			return true
		}
	}
	return false
}
