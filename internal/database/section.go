package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Section is a named forum category. ParentID 0 means a top level section.
type Section struct {
	gorm.Model
	ParentID    uint   `gorm:"not null;default:0;index"`
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	PostCount   int `gorm:"not null;default:0"`
	Watchers    string
}

func (c *Client) CreateSection(ctx context.Context, parentID uint, name, description string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create section: name is required: %w", ErrValidation)
	}
	if strings.EqualFold(name, AllSections) {
		return nil, fmt.Errorf("create section: %q is reserved: %w", name, ErrValidation)
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("create section: %q must not contain a slash: %w", name, ErrValidation)
	}
	exists, err := c.SectionExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("create section %q: %w", name, ErrDuplicate)
	}

	section := Section{
		ParentID:    parentID,
		Name:        name,
		Description: description,
	}
	if err := c.db.WithContext(ctx).Create(&section).Error; err != nil {
		log.Error("failed to create section", "name", name, "error", err)
		return nil, wrapErr("create section", err)
	}
	return &section, nil
}

func (c *Client) GetSectionByID(ctx context.Context, id uint) (*Section, error) {
	var section Section
	if err := c.db.WithContext(ctx).First(&section, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get section by ID", "error", err)
		}
		return nil, wrapErr("get section", err)
	}
	return &section, nil
}

func (c *Client) GetSectionByName(ctx context.Context, name string) (*Section, error) {
	var section Section
	if err := c.db.WithContext(ctx).Where("name = ?", name).First(&section).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get section by name", "error", err)
		}
		return nil, wrapErr("get section by name", err)
	}
	return &section, nil
}

// GetAllSections returns every section ordered by creation.
func (c *Client) GetAllSections(ctx context.Context) ([]Section, error) {
	var sections []Section
	if err := c.db.WithContext(ctx).Order("id").Find(&sections).Error; err != nil {
		log.Error("failed to get all sections", "error", err)
		return nil, wrapErr("get all sections", err)
	}
	return sections, nil
}

// DeleteSection removes an empty section. Sections that still hold posts report ErrInUse.
func (c *Client) DeleteSection(ctx context.Context, id uint) error {
	return c.deleteSection(ctx, fmt.Sprintf("%d", id), "id = ?", id)
}

// DeleteSectionByName is DeleteSection keyed by name.
func (c *Client) DeleteSectionByName(ctx context.Context, name string) error {
	return c.deleteSection(ctx, fmt.Sprintf("%q", name), "name = ?", name)
}

func (c *Client) deleteSection(ctx context.Context, label string, query string, arg any) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section Section
		if err := tx.Where(query, arg).First(&section).Error; err != nil {
			return err
		}
		var posts int64
		if err := tx.Model(&Post{}).Where("section_id = ?", section.ID).Count(&posts).Error; err != nil {
			return err
		}
		if posts > 0 {
			return fmt.Errorf("delete section %s: %d posts remain: %w", label, posts, ErrInUse)
		}
		return tx.Unscoped().Delete(&section).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInUse):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("delete section %s: %w", label, ErrNotFound)
	}
	log.Error("failed to delete section", "section", label, "error", err)
	return wrapErr("delete section", err)
}

func (c *Client) SectionExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&Section{}).Where("name = ?", name).Count(&count).Error; err != nil {
		log.Error("failed to check section existence", "error", err)
		return false, wrapErr("section exists", err)
	}
	return count > 0, nil
}
