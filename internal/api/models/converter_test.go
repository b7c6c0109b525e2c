package models

import (
	"context"
	"testing"
	"time"

	"github.com/meditalk/meditalk/internal/config"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/gravatar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAdminUsers(t *testing.T) {
	now := time.Now()
	users := []database.User{
		{Username: "meditalk", Password: "secret", Email: "admin@example.com", FirstName: "MediTalk", LastName: "Admin", Flags: database.FlagAdmin, LastSession: &now},
		{Username: "bob", Password: "hunter2"},
	}
	users[0].ID = 1
	users[1].ID = 2

	avatars := gravatar.New(&config.GravatarConfig{Enabled: true})
	got := ToAdminUsers(users, avatars)

	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, "MediTalk Admin", got[0].FullName)
	assert.True(t, got[0].IsAdmin)
	assert.Equal(t, &now, got[0].LastSession)
	assert.Contains(t, got[0].AvatarURL, "https://www.gravatar.com/avatar/")
	assert.False(t, got[1].IsAdmin)
	assert.Empty(t, got[1].AvatarURL)
}

func TestGetDiskUsage(t *testing.T) {
	dir := t.TempDir()
	usages := GetDiskUsage(context.Background(), dir, dir, "/definitely/not/here")

	require.Len(t, usages, 1)
	assert.Equal(t, dir, usages[0].Path)
	assert.NotZero(t, usages[0].Total)
}
