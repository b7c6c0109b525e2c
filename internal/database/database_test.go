package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DatabaseTestSuite struct {
	suite.Suite
	db  *Client
	ctx context.Context
}

func (s *DatabaseTestSuite) SetupTest() {
	db, err := New(filepath.Join(s.T().TempDir(), "data", "test.db"))
	s.Require().NoError(err)
	s.db = db
	s.ctx = context.Background()
}

func (s *DatabaseTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *DatabaseTestSuite) mustSection(name string) *Section {
	sec, err := s.db.CreateSection(s.ctx, 0, name, name+" description")
	s.Require().NoError(err)
	return sec
}

func (s *DatabaseTestSuite) mustPost(section *Section, title string) *Post {
	p := &Post{Title: title, Content: "content of " + title, Author: "alice", SectionID: section.ID}
	s.Require().NoError(s.db.CreatePost(s.ctx, p))
	return p
}

func (s *DatabaseTestSuite) TestCreatePost_RoundTrip() {
	sec := s.mustSection("General")

	cases := []struct{ title, content string }{
		{"t", ""},
		{"hello", "world"},
		{strings.Repeat("a", MaxTitleLength-1), strings.Repeat("b", MaxContentLength-1)},
	}
	for _, c := range cases {
		post := &Post{Title: c.title, Content: c.content, Author: "alice", SectionID: sec.ID}
		s.Require().NoError(s.db.CreatePost(s.ctx, post))
		s.NotZero(post.ID)

		got, err := s.db.GetPost(s.ctx, post.ID)
		s.Require().NoError(err)
		s.Equal(c.title, got.Title)
		s.Equal(c.content, got.Content)
		s.Equal("alice", got.Author)
		s.Equal(sec.ID, got.SectionID)
		s.Equal("General", got.Section.Name)
	}

	updated, err := s.db.GetSectionByID(s.ctx, sec.ID)
	s.Require().NoError(err)
	s.Equal(len(cases), updated.PostCount)
}

func (s *DatabaseTestSuite) TestCreatePost_RejectsOversizedFields() {
	sec := s.mustSection("General")

	cases := []struct {
		name           string
		title, content string
	}{
		{"title at bound", strings.Repeat("a", MaxTitleLength), "ok"},
		{"content at bound", "ok", strings.Repeat("b", MaxContentLength)},
		{"both over", strings.Repeat("a", MaxTitleLength+5), strings.Repeat("b", MaxContentLength+5)},
	}
	for _, c := range cases {
		err := s.db.CreatePost(s.ctx, &Post{Title: c.title, Content: c.content, Author: "alice", SectionID: sec.ID})
		s.ErrorIs(err, ErrValidation, c.name)
	}

	stats, err := s.db.Stats(s.ctx)
	s.Require().NoError(err)
	s.Zero(stats.Posts)
}

func (s *DatabaseTestSuite) TestCreatePost_UnknownSection() {
	err := s.db.CreatePost(s.ctx, &Post{Title: "t", Author: "alice", SectionID: 42})
	s.ErrorIs(err, ErrNotFound)
}

func (s *DatabaseTestSuite) TestRegisterUser_Idempotent() {
	first, err := s.db.RegisterUser(s.ctx, &User{Username: "bob", Password: "one"})
	s.Require().NoError(err)

	second, err := s.db.RegisterUser(s.ctx, &User{Username: "bob", Password: "two"})
	s.ErrorIs(err, ErrDuplicate)
	s.Require().NotNil(second)
	s.Equal(first.ID, second.ID)
	s.Equal("one", second.Password)

	users, err := s.db.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *DatabaseTestSuite) TestCreateUser_RequiresPassword() {
	err := s.db.CreateUser(s.ctx, &User{Username: "frank"})
	s.ErrorIs(err, ErrValidation)
	s.True(CheckPassword("plain", "plain"))
	s.False(CheckPassword("plain", "plain "))
}

func (s *DatabaseTestSuite) TestVerifyUser() {
	user := &User{Username: "carol", Password: "secret", Flags: FlagAdmin}
	s.Require().NoError(s.db.CreateUser(s.ctx, user))

	v, err := s.db.VerifyUser(s.ctx, "unknown", "anything")
	s.Require().NoError(err)
	s.False(v.Authenticated)
	s.Zero(v.UserID)

	v, err = s.db.VerifyUser(s.ctx, "carol", "secret")
	s.Require().NoError(err)
	s.True(v.Authenticated)
	s.Equal(user.ID, v.UserID)
	s.Equal(FlagAdmin, v.Flags)

	v, err = s.db.VerifyUser(s.ctx, "carol", "wrong")
	s.Require().NoError(err)
	s.False(v.Authenticated)
	s.Equal(user.ID, v.UserID)
}

func (s *DatabaseTestSuite) TestUserLifecycle() {
	user := &User{Username: "dave", Password: "pw"}
	s.Require().NoError(s.db.CreateUser(s.ctx, user))

	exists, err := s.db.UserExists(s.ctx, "dave")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.db.TouchLastSession(s.ctx, user.ID))
	s.Require().NoError(s.db.UpdateUserProfile(s.ctx, user.ID, Profile{Email: " d@example.com ", FirstName: "Dave"}))

	got, err := s.db.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(got.LastSession)
	s.Equal("d@example.com", got.Email)
	s.Equal("Dave", got.FullName())
	s.False(got.IsAdmin())

	s.Require().NoError(s.db.DeleteUserByUsername(s.ctx, "dave"))
	_, err = s.db.GetUserByUsername(s.ctx, "dave")
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.db.DeleteUser(s.ctx, user.ID), ErrNotFound)

	// the username is free again after a hard delete
	s.NoError(s.db.CreateUser(s.ctx, &User{Username: "dave", Password: "pw"}))
}

func (s *DatabaseTestSuite) TestSections() {
	a := s.mustSection("Memos")
	b := s.mustSection("General Discussion")

	_, err := s.db.CreateSection(s.ctx, 0, "Memos", "again")
	s.ErrorIs(err, ErrDuplicate)
	_, err = s.db.CreateSection(s.ctx, 0, "All", "")
	s.ErrorIs(err, ErrValidation)
	_, err = s.db.CreateSection(s.ctx, 0, "  ", "")
	s.ErrorIs(err, ErrValidation)
	_, err = s.db.CreateSection(s.ctx, 0, "Cardio/Thoracic", "")
	s.ErrorIs(err, ErrValidation)

	all, err := s.db.GetAllSections(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(a.ID, all[0].ID)
	s.Equal(b.ID, all[1].ID)

	exists, err := s.db.SectionExists(s.ctx, "Nope")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.db.DeleteSectionByName(s.ctx, "Memos"))
	s.ErrorIs(s.db.DeleteSection(s.ctx, a.ID), ErrNotFound)
	s.Require().NoError(s.db.DeleteSection(s.ctx, b.ID))
}

func (s *DatabaseTestSuite) TestDeleteSection_KeepsSectionsWithPosts() {
	memos := s.mustSection("Memos")
	post := s.mustPost(memos, "m1")

	s.ErrorIs(s.db.DeleteSectionByName(s.ctx, "Memos"), ErrInUse)
	s.ErrorIs(s.db.DeleteSection(s.ctx, memos.ID), ErrInUse)

	got, err := s.db.GetPost(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal("Memos", got.Section.Name)

	posts, err := s.db.GetRecentPosts(s.ctx, AllSections, 10)
	s.Require().NoError(err)
	s.Len(posts, 1)
}

func (s *DatabaseTestSuite) TestGetRecentPosts() {
	memos := s.mustSection("Memos")
	general := s.mustSection("General")
	m1 := s.mustPost(memos, "m1")
	g1 := s.mustPost(general, "g1")
	m2 := s.mustPost(memos, "m2")

	posts, err := s.db.GetRecentPosts(s.ctx, AllSections, 10)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal([]uint{m2.ID, g1.ID, m1.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	s.Equal("General", posts[1].Section.Name)

	posts, err = s.db.GetRecentPosts(s.ctx, "Memos", 1)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal(m2.ID, posts[0].ID)
	s.Equal("Memos", posts[0].Section.Name)

	posts, err = s.db.GetRecentPosts(s.ctx, "Missing", 10)
	s.Require().NoError(err)
	s.Empty(posts)
}

func (s *DatabaseTestSuite) TestGetSectionPosts_OrderedByPostTime() {
	sec := s.mustSection("Memos")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "newest", "middle"} {
		offset := []time.Duration{0, 2 * time.Hour, time.Hour}[i]
		s.Require().NoError(s.db.CreatePost(s.ctx, &Post{
			Title: title, Author: "alice", SectionID: sec.ID, PostTime: base.Add(offset),
		}))
	}

	posts, err := s.db.GetSectionPosts(s.ctx, sec.ID)
	s.Require().NoError(err)
	s.Require().Len(posts, 3)
	s.Equal("newest", posts[0].Title)
	s.Equal("middle", posts[1].Title)
	s.Equal("old", posts[2].Title)
}

func (s *DatabaseTestSuite) TestComments() {
	sec := s.mustSection("Memos")
	post := s.mustPost(sec, "p")

	top := &Comment{PostID: post.ID, Content: "first", Author: "bob"}
	s.Require().NoError(s.db.CreateComment(s.ctx, top))
	reply := &Comment{PostID: post.ID, ParentID: top.ID, Content: "reply", Author: "carol"}
	s.Require().NoError(s.db.CreateComment(s.ctx, reply))

	s.ErrorIs(s.db.CreateComment(s.ctx, &Comment{PostID: post.ID, Content: " "}), ErrValidation)
	s.ErrorIs(s.db.CreateComment(s.ctx, &Comment{PostID: 999, Content: "x"}), ErrNotFound)
	s.ErrorIs(s.db.CreateComment(s.ctx, &Comment{PostID: post.ID, ParentID: 999, Content: "x"}), ErrNotFound)

	comments, err := s.db.GetComments(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Equal("first", comments[0].Content)

	children, err := s.db.GetChildComments(s.ctx, top.ID)
	s.Require().NoError(err)
	s.Require().Len(children, 1)
	s.Equal("reply", children[0].Content)

	got, err := s.db.GetPost(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal(2, got.Comments)
}

func (s *DatabaseTestSuite) TestSeed_Idempotent() {
	data := DefaultSeedData("meditalk", "password", "admin@example.com")
	s.Require().NoError(s.db.Seed(s.ctx, data))
	s.Require().NoError(s.db.Seed(s.ctx, data))

	stats, err := s.db.Stats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(3, stats.Sections)
	s.EqualValues(1, stats.Users)
	s.EqualValues(1, stats.Posts)

	admin, err := s.db.GetUserByUsername(s.ctx, "meditalk")
	s.Require().NoError(err)
	s.True(admin.IsAdmin())

	posts, err := s.db.GetRecentPosts(s.ctx, "Memos", 10)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("Welcome to MediTalk", posts[0].Title)
}

func (s *DatabaseTestSuite) TestGetAllDocuments_Empty() {
	docs, err := s.db.GetAllDocuments(s.ctx)
	s.Require().NoError(err)
	s.Empty(docs)
}

func TestDatabaseTestSuite(t *testing.T) {
	suite.Run(t, new(DatabaseTestSuite))
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))

	err := wrapErr("op", assert.AnError)
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "storage: op")
}
