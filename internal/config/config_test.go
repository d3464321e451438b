package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "")
	t.Setenv("MAIL_RATE", "")
	t.Setenv("ADMIN_USER_IDS", "")
	t.Setenv("IMAGE_HOSTS", "")

	cfg := Load()

	assert.Equal(t, 3*time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 3*time.Hour, cfg.ReminderThreshold)
	assert.Equal(t, 2.0, cfg.MailRate)
	assert.Empty(t, cfg.AdminUserIDs)
	assert.Equal(t, []string{"ik.imagekit.io"}, cfg.ImageHosts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_USER_IDS", " 7f1c2a9e-0001, ,7f1c2a9e-0002")
	t.Setenv("REMINDER_INTERVAL", "90m")
	t.Setenv("REMINDER_ENABLED", "false")
	t.Setenv("MAIL_RATE", "not-a-number")

	cfg := Load()

	assert.Equal(t, []string{"7f1c2a9e-0001", "7f1c2a9e-0002"}, cfg.AdminUserIDs)
	assert.Equal(t, 90*time.Minute, cfg.ReminderInterval)
	assert.False(t, cfg.ReminderEnabled)
	assert.Equal(t, 2.0, cfg.MailRate)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
