package authz

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowList(t *testing.T) {
	p := NewAllowList([]string{"admin-sub", " "})
	ctx := context.Background()

	assert.True(t, p.IsAdmin(ctx, identity.Identity{Subject: "admin-sub"}))
	assert.True(t, p.IsAdmin(ctx, identity.Identity{Subject: "admin-sub", Email: "anyone@example.com"}))
	assert.False(t, p.IsAdmin(ctx, identity.Identity{Subject: "x", Email: "user@example.com"}))
	assert.False(t, p.IsAdmin(ctx, identity.Identity{Email: "admin-sub"}))
	assert.False(t, p.IsAdmin(ctx, identity.Identity{}))
}

func TestRolePolicy(t *testing.T) {
	db := testutil.NewDB(t)
	admin := models.User{Email: "root@example.com", Password: "x", Role: "admin"}
	user := models.User{Email: "joe@example.com", Password: "x", Role: "user"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&user).Error)

	p := NewRolePolicy(db)
	ctx := context.Background()

	assert.True(t, p.IsAdmin(ctx, identity.Identity{Subject: admin.ID.String()}))
	assert.False(t, p.IsAdmin(ctx, identity.Identity{Subject: user.ID.String(), Role: "admin"}))
	assert.False(t, p.IsAdmin(ctx, identity.Identity{Subject: "not-a-uuid"}))
}

func TestAnyOf(t *testing.T) {
	p := AnyOf{NewAllowList(nil), NewAllowList([]string{"b"})}
	assert.True(t, p.IsAdmin(context.Background(), identity.Identity{Subject: "b"}))
	assert.False(t, p.IsAdmin(context.Background(), identity.Identity{Subject: "c"}))
}
