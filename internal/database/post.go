package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// AllSections is the stream name that selects posts from every section.
const AllSections = "all"

const (
	// MaxTitleLength is the exclusive upper bound for a post title in bytes.
	MaxTitleLength = 100
	// MaxContentLength is the exclusive upper bound for post content in bytes.
	MaxContentLength = 1000
)

// PostType describes what the content of a post holds.
type PostType int

const (
	PostTypeText PostType = iota
	PostTypeLink
	PostTypeDocument
)

// Post is a forum post. Author holds the author's username.
type Post struct {
	gorm.Model
	Type      PostType `gorm:"not null;default:0"`
	Title     string   `gorm:"not null"`
	Content   string   `gorm:"type:varchar(1000)"`
	Author    string   `gorm:"not null;index"`
	SectionID uint     `gorm:"not null;index"`
	Section   Section
	PostTime  time.Time `gorm:"not null;index"`
	Votes     int       `gorm:"not null;default:0"`
	Comments  int       `gorm:"not null;default:0"`
	Watchers  string
}

// ValidatePost checks the title and content bounds.
func ValidatePost(title, content string) error {
	if len(title) >= MaxTitleLength {
		return fmt.Errorf("title must be shorter than %d bytes: %w", MaxTitleLength, ErrValidation)
	}
	if len(content) >= MaxContentLength {
		return fmt.Errorf("content must be shorter than %d bytes: %w", MaxContentLength, ErrValidation)
	}
	return nil
}

// CreatePost validates and stores the post and bumps the section's post count.
// On success post.ID and post.PostTime are set.
func (c *Client) CreatePost(ctx context.Context, post *Post) error {
	if post == nil {
		return fmt.Errorf("create post: nil post: %w", ErrValidation)
	}
	if err := ValidatePost(post.Title, post.Content); err != nil {
		return err
	}
	if post.PostTime.IsZero() {
		post.PostTime = time.Now()
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section Section
		if err := tx.First(&section, post.SectionID).Error; err != nil {
			return err
		}
		post.Section = Section{}
		if err := tx.Omit("Section").Create(post).Error; err != nil {
			return err
		}
		post.Section = section
		return tx.Model(&Section{}).Where("id = ?", section.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + ?", 1)).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to create post", "title", post.Title, "error", err)
		}
		return wrapErr("create post", err)
	}
	return nil
}

func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := c.db.WithContext(ctx).Preload("Section").First(&post, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get post", "id", id, "error", err)
		}
		return nil, wrapErr("get post", err)
	}
	return &post, nil
}

// GetSectionPosts returns all posts of a section, newest first.
func (c *Client) GetSectionPosts(ctx context.Context, sectionID uint) ([]Post, error) {
	var posts []Post
	if err := c.db.WithContext(ctx).Preload("Section").
		Where("section_id = ?", sectionID).
		Order("post_time DESC").
		Find(&posts).Error; err != nil {
		log.Error("failed to get section posts", "sectionID", sectionID, "error", err)
		return nil, wrapErr("get section posts", err)
	}
	return posts, nil
}

// GetRecentPosts returns up to limit posts ordered by descending id, either from the
// named section or from all sections when section is AllSections.
// An unknown section yields an empty list.
func (c *Client) GetRecentPosts(ctx context.Context, section string, limit int) ([]Post, error) {
	if limit <= 0 {
		return []Post{}, nil
	}

	query := c.db.WithContext(ctx).InnerJoins("Section")
	if section != AllSections {
		sec, err := c.GetSectionByName(ctx, section)
		if errors.Is(err, ErrNotFound) {
			return []Post{}, nil
		}
		if err != nil {
			return nil, err
		}
		query = query.Where("posts.section_id = ?", sec.ID)
	}

	var posts []Post
	if err := query.Order("posts.id DESC").Limit(limit).Find(&posts).Error; err != nil {
		log.Error("failed to get recent posts", "section", section, "error", err)
		return nil, wrapErr("get recent posts", err)
	}
	return posts, nil
}
