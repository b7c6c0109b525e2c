package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Document describes an uploaded file. Nothing writes documents yet; the admin page lists them.
type Document struct {
	ID         uint `gorm:"primarykey"`
	Location   string
	Size       int64
	UploadTime time.Time
	Uploader   string
}

func (c *Client) GetAllDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.db.WithContext(ctx).Order("id").Find(&docs).Error; err != nil {
		log.Error("failed to get documents", "error", err)
		return nil, wrapErr("get all documents", err)
	}
	return docs, nil
}
