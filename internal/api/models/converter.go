package models

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/gravatar"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/disk"
)

// ToAdminUser converts a database.User for display to administrators.
func ToAdminUser(u database.User, avatars *gravatar.Resolver) AdminUser {
	return AdminUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName(),
		IsAdmin:     u.IsAdmin(),
		AvatarURL:   avatars.URL(u.Email),
		LastSession: u.LastSession,
		CreatedAt:   u.CreatedAt,
	}
}

// ToAdminUsers converts a slice of database.User to AdminUsers.
func ToAdminUsers(users []database.User, avatars *gravatar.Resolver) []AdminUser {
	return lo.Map(users, func(u database.User, _ int) AdminUser {
		return ToAdminUser(u, avatars)
	})
}

// GetDiskUsage reports the filesystems holding paths. Paths that cannot be
// inspected are logged and skipped, and duplicates by mount are dropped.
func GetDiskUsage(ctx context.Context, paths ...string) []DiskUsage {
	usages := make([]DiskUsage, 0, len(paths))
	for _, path := range lo.Uniq(paths) {
		usage, err := disk.UsageWithContext(ctx, path)
		if err != nil {
			log.Error("failed to get disk usage", "path", path, "error", err)
			continue
		}
		usages = append(usages, DiskUsage{
			Path:        path,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}
	return usages
}
