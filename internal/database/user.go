package database

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// FlagAdmin marks a user as administrator.
const FlagAdmin = 1

// User represents a forum account.
// The password is an opaque secret compared for equality only.
type User struct {
	gorm.Model
	Username    string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	Email       string
	LastSession *time.Time
	FirstName   string
	LastName    string
	Flags       int `gorm:"not null;default:0"`
}

// IsAdmin reports whether the admin flag is set.
func (u *User) IsAdmin() bool {
	return u.Flags&FlagAdmin != 0
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Verification is the outcome of a credential check.
// UserID and Flags are set whenever the username exists, even on a wrong password.
type Verification struct {
	Authenticated bool
	UserID        uint
	Flags         int
}

// Profile holds the user editable fields.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
}

// CheckPassword reports whether password equals the stored secret.
func CheckPassword(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("create user: username is required: %w", ErrValidation)
	}
	if user.Password == "" {
		return fmt.Errorf("create user: password is required: %w", ErrValidation)
	}
	exists, err := c.UserExists(ctx, user.Username)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("create user %q: %w", user.Username, ErrDuplicate)
	}
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Error("failed to create user", "username", user.Username, "error", err)
		return wrapErr("create user", err)
	}
	return nil
}

// RegisterUser creates the user unless the username is taken, in which case the
// existing row is returned together with ErrDuplicate.
func (c *Client) RegisterUser(ctx context.Context, user *User) (*User, error) {
	err := c.CreateUser(ctx, user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return nil, err
	}
	existing, getErr := c.GetUserByUsername(ctx, user.Username)
	if getErr != nil {
		return nil, getErr
	}
	return existing, err
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, wrapErr("get user", err)
	}
	return &user, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, wrapErr("get user by username", err)
	}
	return &user, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, wrapErr("get all users", err)
	}
	return users, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Unscoped().Delete(&User{}, id)
	if result.Error != nil {
		log.Error("failed to delete user", "id", id, "error", result.Error)
		return wrapErr("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, ErrNotFound)
	}
	return nil
}

func (c *Client) DeleteUserByUsername(ctx context.Context, username string) error {
	result := c.db.WithContext(ctx).Unscoped().Where("username = ?", username).Delete(&User{})
	if result.Error != nil {
		log.Error("failed to delete user", "username", username, "error", result.Error)
		return wrapErr("delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete user %q: %w", username, ErrNotFound)
	}
	return nil
}

func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		log.Error("failed to check user existence", "error", err)
		return false, wrapErr("user exists", err)
	}
	return count > 0, nil
}

// VerifyUser checks a username/password pair. An unknown username is a negative
// result, not an error.
func (c *Client) VerifyUser(ctx context.Context, username, password string) (*Verification, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return &Verification{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Verification{
		Authenticated: CheckPassword(user.Password, password),
		UserID:        user.ID,
		Flags:         user.Flags,
	}, nil
}

// TouchLastSession records the time of the user's latest login.
func (c *Client) TouchLastSession(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_session", time.Now())
	if result.Error != nil {
		log.Error("failed to update last session", "id", id, "error", result.Error)
		return wrapErr("touch last session", result.Error)
	}
	return nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, id uint, profile Profile) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]any{
		"email":      strings.TrimSpace(profile.Email),
		"first_name": strings.TrimSpace(profile.FirstName),
		"last_name":  strings.TrimSpace(profile.LastName),
	})
	if result.Error != nil {
		log.Error("failed to update user profile", "id", id, "error", result.Error)
		return wrapErr("update user profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update user profile %d: %w", id, ErrNotFound)
	}
	return nil
}
