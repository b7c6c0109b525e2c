package database

import "context"

// DB defines the storage operations used by the forum.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	RegisterUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id uint) error
	DeleteUserByUsername(ctx context.Context, username string) error
	UserExists(ctx context.Context, username string) (bool, error)
	VerifyUser(ctx context.Context, username, password string) (*Verification, error)
	TouchLastSession(ctx context.Context, id uint) error
	UpdateUserProfile(ctx context.Context, id uint, profile Profile) error

	// Sections
	CreateSection(ctx context.Context, parentID uint, name, description string) (*Section, error)
	GetSectionByID(ctx context.Context, id uint) (*Section, error)
	GetSectionByName(ctx context.Context, name string) (*Section, error)
	GetAllSections(ctx context.Context) ([]Section, error)
	DeleteSection(ctx context.Context, id uint) error
	DeleteSectionByName(ctx context.Context, name string) error
	SectionExists(ctx context.Context, name string) (bool, error)

	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uint) (*Post, error)
	GetSectionPosts(ctx context.Context, sectionID uint) ([]Post, error)
	GetRecentPosts(ctx context.Context, section string, limit int) ([]Post, error)

	// Comments
	CreateComment(ctx context.Context, comment *Comment) error
	GetComments(ctx context.Context, postID uint) ([]Comment, error)
	GetChildComments(ctx context.Context, parentID uint) ([]Comment, error)

	// Documents
	GetAllDocuments(ctx context.Context) ([]Document, error)

	// Maintenance
	Stats(ctx context.Context) (*Stats, error)
	Seed(ctx context.Context, data SeedData) error
}
