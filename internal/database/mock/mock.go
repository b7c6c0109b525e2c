package mock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/meditalk/meditalk/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[uint]*database.User
	nextUserID uint

	sections      map[uint]*database.Section
	nextSectionID uint

	posts      map[uint]*database.Post
	nextPostID uint

	comments      map[uint]*database.Comment
	nextCommentID uint

	documents []database.Document

	// Error simulation
	CreateUserError      error
	GetUserByIDError     error
	VerifyUserError      error
	GetAllUsersError     error
	CreateSectionError   error
	GetAllSectionsError  error
	GetSectionError      error
	CreatePostError      error
	GetPostError         error
	GetRecentPostsError  error
	CreateCommentError   error
	GetCommentsError     error
	GetAllDocumentsError error
	StatsError           error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	m := &MockDB{}
	m.Reset()
	return m
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[uint]*database.User)
	m.nextUserID = 1
	m.sections = make(map[uint]*database.Section)
	m.nextSectionID = 1
	m.posts = make(map[uint]*database.Post)
	m.nextPostID = 1
	m.comments = make(map[uint]*database.Comment)
	m.nextCommentID = 1
	m.documents = nil

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.VerifyUserError = nil
	m.GetAllUsersError = nil
	m.CreateSectionError = nil
	m.GetAllSectionsError = nil
	m.GetSectionError = nil
	m.CreatePostError = nil
	m.GetPostError = nil
	m.GetRecentPostsError = nil
	m.CreateCommentError = nil
	m.GetCommentsError = nil
	m.GetAllDocumentsError = nil
	m.StatsError = nil
}

// AddDocument stores a document for listing.
func (m *MockDB) AddDocument(doc database.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc.ID = uint(len(m.documents) + 1)
	m.documents = append(m.documents, doc)
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if m.CreateUserError != nil {
		return m.CreateUserError
	}
	if user == nil || strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("create user: %w", database.ErrValidation)
	}
	if user.Password == "" {
		return fmt.Errorf("create user: %w", database.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findUser(user.Username) != nil {
		return fmt.Errorf("create user %q: %w", user.Username, database.ErrDuplicate)
	}
	user.ID = m.nextUserID
	user.CreatedAt = time.Now()
	m.nextUserID++
	u := *user
	m.users[u.ID] = &u
	return nil
}

func (m *MockDB) RegisterUser(ctx context.Context, user *database.User) (*database.User, error) {
	err := m.CreateUser(ctx, user)
	if err == nil {
		return user, nil
	}
	existing, getErr := m.GetUserByUsername(ctx, user.Username)
	if getErr != nil {
		return nil, err
	}
	return existing, err
}

func (m *MockDB) findUser(username string) *database.User {
	for _, u := range m.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", database.ErrNotFound)
	}
	user := *u
	return &user, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.findUser(username)
	if u == nil {
		return nil, fmt.Errorf("get user by username: %w", database.ErrNotFound)
	}
	user := *u
	return &user, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockDB) DeleteUser(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("delete user %d: %w", id, database.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func (m *MockDB) DeleteUserByUsername(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.findUser(username)
	if u == nil {
		return fmt.Errorf("delete user %q: %w", username, database.ErrNotFound)
	}
	delete(m.users, u.ID)
	return nil
}

func (m *MockDB) UserExists(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findUser(username) != nil, nil
}

func (m *MockDB) VerifyUser(ctx context.Context, username, password string) (*database.Verification, error) {
	if m.VerifyUserError != nil {
		return nil, m.VerifyUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.findUser(username)
	if u == nil {
		return &database.Verification{}, nil
	}
	return &database.Verification{
		Authenticated: database.CheckPassword(u.Password, password),
		UserID:        u.ID,
		Flags:         u.Flags,
	}, nil
}

func (m *MockDB) TouchLastSession(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		now := time.Now()
		u.LastSession = &now
	}
	return nil
}

func (m *MockDB) UpdateUserProfile(ctx context.Context, id uint, profile database.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("update user profile %d: %w", id, database.ErrNotFound)
	}
	u.Email = strings.TrimSpace(profile.Email)
	u.FirstName = strings.TrimSpace(profile.FirstName)
	u.LastName = strings.TrimSpace(profile.LastName)
	return nil
}

// Section operations

func (m *MockDB) CreateSection(ctx context.Context, parentID uint, name, description string) (*database.Section, error) {
	if m.CreateSectionError != nil {
		return nil, m.CreateSectionError
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, database.AllSections) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("create section: %w", database.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findSection(name) != nil {
		return nil, fmt.Errorf("create section %q: %w", name, database.ErrDuplicate)
	}
	s := &database.Section{ParentID: parentID, Name: name, Description: description}
	s.ID = m.nextSectionID
	m.nextSectionID++
	m.sections[s.ID] = s
	section := *s
	return &section, nil
}

func (m *MockDB) findSection(name string) *database.Section {
	for _, s := range m.sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (m *MockDB) GetSectionByID(ctx context.Context, id uint) (*database.Section, error) {
	if m.GetSectionError != nil {
		return nil, m.GetSectionError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sections[id]
	if !ok {
		return nil, fmt.Errorf("get section: %w", database.ErrNotFound)
	}
	section := *s
	return &section, nil
}

func (m *MockDB) GetSectionByName(ctx context.Context, name string) (*database.Section, error) {
	if m.GetSectionError != nil {
		return nil, m.GetSectionError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.findSection(name)
	if s == nil {
		return nil, fmt.Errorf("get section by name: %w", database.ErrNotFound)
	}
	section := *s
	return &section, nil
}

func (m *MockDB) GetAllSections(ctx context.Context) ([]database.Section, error) {
	if m.GetAllSectionsError != nil {
		return nil, m.GetAllSectionsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sections := make([]database.Section, 0, len(m.sections))
	for _, s := range m.sections {
		sections = append(sections, *s)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	return sections, nil
}

func (m *MockDB) DeleteSection(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sections[id]; !ok {
		return fmt.Errorf("delete section %d: %w", id, database.ErrNotFound)
	}
	return m.deleteSection(id)
}

func (m *MockDB) DeleteSectionByName(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findSection(name)
	if s == nil {
		return fmt.Errorf("delete section %q: %w", name, database.ErrNotFound)
	}
	return m.deleteSection(s.ID)
}

func (m *MockDB) deleteSection(id uint) error {
	for _, p := range m.posts {
		if p.SectionID == id {
			return fmt.Errorf("delete section %d: %w", id, database.ErrInUse)
		}
	}
	delete(m.sections, id)
	return nil
}

func (m *MockDB) SectionExists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findSection(name) != nil, nil
}

// Post operations

func (m *MockDB) CreatePost(ctx context.Context, post *database.Post) error {
	if m.CreatePostError != nil {
		return m.CreatePostError
	}
	if post == nil {
		return fmt.Errorf("create post: %w", database.ErrValidation)
	}
	if err := database.ValidatePost(post.Title, post.Content); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sections[post.SectionID]
	if !ok {
		return fmt.Errorf("create post: %w", database.ErrNotFound)
	}
	if post.PostTime.IsZero() {
		post.PostTime = time.Now()
	}
	post.ID = m.nextPostID
	m.nextPostID++
	s.PostCount++
	post.Section = *s
	p := *post
	m.posts[p.ID] = &p
	return nil
}

// withSection returns a copy of p with the current section attached.
func (m *MockDB) withSection(p *database.Post) database.Post {
	post := *p
	if s, ok := m.sections[p.SectionID]; ok {
		post.Section = *s
	}
	return post
}

func (m *MockDB) GetPost(ctx context.Context, id uint) (*database.Post, error) {
	if m.GetPostError != nil {
		return nil, m.GetPostError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("get post: %w", database.ErrNotFound)
	}
	post := m.withSection(p)
	return &post, nil
}

func (m *MockDB) GetSectionPosts(ctx context.Context, sectionID uint) ([]database.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var posts []database.Post
	for _, p := range m.posts {
		if p.SectionID == sectionID {
			posts = append(posts, m.withSection(p))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].PostTime.After(posts[j].PostTime) })
	return posts, nil
}

func (m *MockDB) GetRecentPosts(ctx context.Context, section string, limit int) ([]database.Post, error) {
	if m.GetRecentPostsError != nil {
		return nil, m.GetRecentPostsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := []database.Post{}
	if limit <= 0 {
		return posts, nil
	}
	var sectionID uint
	if section != database.AllSections {
		s := m.findSection(section)
		if s == nil {
			return posts, nil
		}
		sectionID = s.ID
	}
	for _, p := range m.posts {
		if _, ok := m.sections[p.SectionID]; !ok {
			continue
		}
		if sectionID != 0 && p.SectionID != sectionID {
			continue
		}
		posts = append(posts, m.withSection(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// Comment operations

func (m *MockDB) CreateComment(ctx context.Context, comment *database.Comment) error {
	if m.CreateCommentError != nil {
		return m.CreateCommentError
	}
	if comment == nil || strings.TrimSpace(comment.Content) == "" {
		return fmt.Errorf("create comment: %w", database.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[comment.PostID]
	if !ok {
		return fmt.Errorf("create comment: %w", database.ErrNotFound)
	}
	if comment.ParentID != 0 {
		if parent, ok := m.comments[comment.ParentID]; !ok || parent.PostID != comment.PostID {
			return fmt.Errorf("create comment: %w", database.ErrNotFound)
		}
	}
	if comment.PostTime.IsZero() {
		comment.PostTime = time.Now()
	}
	comment.ID = m.nextCommentID
	m.nextCommentID++
	p.Comments++
	c := *comment
	m.comments[c.ID] = &c
	return nil
}

func (m *MockDB) GetComments(ctx context.Context, postID uint) ([]database.Comment, error) {
	if m.GetCommentsError != nil {
		return nil, m.GetCommentsError
	}
	return m.filterComments(func(c *database.Comment) bool { return c.PostID == postID }), nil
}

func (m *MockDB) GetChildComments(ctx context.Context, parentID uint) ([]database.Comment, error) {
	return m.filterComments(func(c *database.Comment) bool { return c.ParentID == parentID }), nil
}

func (m *MockDB) filterComments(keep func(*database.Comment) bool) []database.Comment {
	m.mu.RLock()
	defer m.mu.RUnlock()

	comments := []database.Comment{}
	for _, c := range m.comments {
		if keep(c) {
			comments = append(comments, *c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments
}

// Document operations

func (m *MockDB) GetAllDocuments(ctx context.Context) ([]database.Document, error) {
	if m.GetAllDocumentsError != nil {
		return nil, m.GetAllDocumentsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.documents), nil
}

// Maintenance

func (m *MockDB) Stats(ctx context.Context) (*database.Stats, error) {
	if m.StatsError != nil {
		return nil, m.StatsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return &database.Stats{
		Users:     int64(len(m.users)),
		Sections:  int64(len(m.sections)),
		Posts:     int64(len(m.posts)),
		Comments:  int64(len(m.comments)),
		Documents: int64(len(m.documents)),
	}, nil
}

func (m *MockDB) Seed(ctx context.Context, data database.SeedData) error {
	for _, s := range data.Sections {
		if _, err := m.CreateSection(ctx, 0, s.Name, s.Description); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return err
		}
	}
	if data.Admin.Username != "" {
		admin := data.Admin
		if _, err := m.RegisterUser(ctx, &admin); err != nil && !errors.Is(err, database.ErrDuplicate) {
			return err
		}
	}
	if data.WelcomeTitle == "" {
		return nil
	}
	s, err := m.GetSectionByName(ctx, data.WelcomeSection)
	if err != nil {
		return err
	}
	if s.PostCount > 0 {
		return nil
	}
	return m.CreatePost(ctx, &database.Post{
		Title:     data.WelcomeTitle,
		Content:   data.WelcomeContent,
		Author:    data.Admin.Username,
		SectionID: s.ID,
	})
}
