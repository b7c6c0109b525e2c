package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Comment belongs to a post. ParentID 0 marks a top level comment.
type Comment struct {
	gorm.Model
	PostID   uint      `gorm:"not null;index"`
	ParentID uint      `gorm:"not null;default:0;index"`
	Content  string    `gorm:"not null"`
	Author   string    `gorm:"not null"`
	PostTime time.Time `gorm:"not null"`
	Votes    int       `gorm:"not null;default:0"`
}

// CreateComment stores the comment and bumps the comment counter of its post.
func (c *Client) CreateComment(ctx context.Context, comment *Comment) error {
	if comment == nil || strings.TrimSpace(comment.Content) == "" {
		return fmt.Errorf("create comment: content is required: %w", ErrValidation)
	}
	if comment.PostTime.IsZero() {
		comment.PostTime = time.Now()
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		if err := tx.Select("id").First(&post, comment.PostID).Error; err != nil {
			return err
		}
		if comment.ParentID != 0 {
			var parent Comment
			if err := tx.Select("id").Where("post_id = ?", comment.PostID).First(&parent, comment.ParentID).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments", gorm.Expr("comments + ?", 1)).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to create comment", "postID", comment.PostID, "error", err)
		}
		return wrapErr("create comment", err)
	}
	return nil
}

// GetComments returns all comments of a post in the order they were written.
func (c *Client) GetComments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment
	if err := c.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error; err != nil {
		log.Error("failed to get comments", "postID", postID, "error", err)
		return nil, wrapErr("get comments", err)
	}
	return comments, nil
}

func (c *Client) GetChildComments(ctx context.Context, parentID uint) ([]Comment, error) {
	var comments []Comment
	if err := c.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id").Find(&comments).Error; err != nil {
		log.Error("failed to get child comments", "parentID", parentID, "error", err)
		return nil, wrapErr("get child comments", err)
	}
	return comments, nil
}
