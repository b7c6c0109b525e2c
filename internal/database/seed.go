package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// SectionSeed describes a section created on first start.
type SectionSeed struct {
	Name        string
	Description string
}

// SeedData is the initial content of an empty forum.
type SeedData struct {
	Sections []SectionSeed
	Admin    User
	// WelcomeSection names the section that receives the welcome post.
	WelcomeSection string
	WelcomeTitle   string
	WelcomeContent string
}

// DefaultSeedData returns the stock sections and welcome post with the given administrator.
func DefaultSeedData(adminUsername, adminPassword, adminEmail string) SeedData {
	return SeedData{
		Sections: []SectionSeed{
			{Name: "Memos", Description: "Important new releases pertaining to the hospital."},
			{Name: "General Discussion", Description: "General chit-chat."},
			{Name: "Research and Articles", Description: "A sharing place for new-found research and articles."},
		},
		Admin: User{
			Username:  adminUsername,
			Password:  adminPassword,
			Email:     adminEmail,
			FirstName: "MediTalk",
			LastName:  "Admin",
			Flags:     FlagAdmin,
		},
		WelcomeSection: "Memos",
		WelcomeTitle:   "Welcome to MediTalk",
		WelcomeContent: "Welcome, friend, to MediTalk. This is a default post.",
	}
}

// Seed creates whatever part of data is missing. Running it twice is a no-op.
func (c *Client) Seed(ctx context.Context, data SeedData) error {
	for _, s := range data.Sections {
		_, err := c.CreateSection(ctx, 0, s.Name, s.Description)
		switch {
		case err == nil:
			log.Info("Created section", "name", s.Name)
		case errors.Is(err, ErrDuplicate):
		default:
			return fmt.Errorf("seed section %q: %w", s.Name, err)
		}
	}

	if data.Admin.Username != "" {
		admin := data.Admin
		if _, err := c.RegisterUser(ctx, &admin); err == nil {
			log.Info("Created admin user", "username", admin.Username)
		} else if !errors.Is(err, ErrDuplicate) {
			return fmt.Errorf("seed admin user: %w", err)
		}
	}

	if data.WelcomeTitle == "" || data.WelcomeSection == "" {
		return nil
	}
	section, err := c.GetSectionByName(ctx, data.WelcomeSection)
	if err != nil {
		return fmt.Errorf("seed welcome post: %w", err)
	}
	if section.PostCount > 0 {
		return nil
	}
	err = c.CreatePost(ctx, &Post{
		Type:      PostTypeText,
		Title:     data.WelcomeTitle,
		Content:   data.WelcomeContent,
		Author:    data.Admin.Username,
		SectionID: section.ID,
	})
	if err != nil {
		return fmt.Errorf("seed welcome post: %w", err)
	}
	log.Info("Created welcome post", "section", section.Name)
	return nil
}
