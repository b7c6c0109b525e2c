// Package models holds the view models handed from handlers to pages.
package models

import (
	"time"

	"github.com/meditalk/meditalk/internal/cache"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/scheduler"
)

// AdminUser is a user row on the admin page. The password is never copied.
type AdminUser struct {
	ID          uint
	Username    string
	Email       string
	FullName    string
	IsAdmin     bool
	AvatarURL   string
	LastSession *time.Time
	CreatedAt   time.Time
}

// DiskUsage describes the filesystem holding a data directory.
type DiskUsage struct {
	Path        string
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// AdminView is everything the admin page shows besides the layout.
type AdminView struct {
	Users       []AdminUser
	Documents   []database.Document
	Jobs        []scheduler.JobInfo
	Cache       *cache.Stats
	Sessions    int
	IdleTimeout time.Duration
	Disk        []DiskUsage
	DB          *database.Stats
	Message     string
	Error       string
}

// NewPostForm keeps the submitted values when the form is shown again.
type NewPostForm struct {
	Title   string
	Content string
}

// RegisterForm keeps the submitted values when the form is shown again.
type RegisterForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}
