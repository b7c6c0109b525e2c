package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/scheduler"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testPost(id uint, section, title string) stream.PostView {
	p := database.Post{
		Title:    title,
		Content:  "body of " + title,
		Author:   "alice",
		PostTime: time.Now().Add(-time.Hour),
		Section:  database.Section{Name: section},
	}
	p.ID = id
	return stream.NewView(p)
}

func TestStream_FrontPage(t *testing.T) {
	data := &stream.PageData{
		PageTitle:   "Home",
		Session:     &session.Record{Username: "alice", Authenticated: true},
		Sections:    []database.Section{{Name: "Memos"}, {Name: "General Discussion"}},
		Stream:      database.AllSections,
		Posts:       []stream.PostView{testPost(3, "Memos", "<b>hi</b>")},
		IsFrontPage: true,
	}

	html := render(t, Stream(data))
	assert.Contains(t, html, "<title>Home | MediTalk</title>")
	assert.Contains(t, html, "&lt;b&gt;hi&lt;/b&gt;")
	assert.NotContains(t, html, "<b>hi</b>")
	assert.Contains(t, html, `href="/streams/Memos/3"`)
	assert.Contains(t, html, `href="/streams/General%20Discussion"`)
	assert.Contains(t, html, `href="/logout"`)
	assert.NotContains(t, html, `href="/admin"`)
	assert.NotContains(t, html, "New post")
}

func TestStream_SectionEmpty(t *testing.T) {
	data := &stream.PageData{
		PageTitle: "Memos",
		Session:   &session.Record{Username: "root", Authenticated: true, IsAdmin: true},
		Sections:  []database.Section{{Name: "Memos"}},
		Stream:    "Memos",
	}

	html := render(t, Stream(data))
	assert.Contains(t, html, "No posts yet.")
	assert.Contains(t, html, `href="/new/Memos"`)
	assert.Contains(t, html, `href="/admin"`)
	assert.Contains(t, html, `<li class="active"><a href="/streams/Memos">`)
}

func TestPost_CommentTree(t *testing.T) {
	data := &stream.PageData{PageTitle: "p", Session: &session.Record{Authenticated: true}}
	post := testPost(5, "Memos", "Title")
	post.Comments = 2

	parent := database.Comment{Content: "top", Author: "bob"}
	parent.ID = 1
	child := database.Comment{Content: "reply", Author: "carol", ParentID: 1}
	child.ID = 2
	tree := stream.BuildCommentTree([]database.Comment{parent, child})

	html := render(t, Post(data, post, tree, ""))
	assert.Contains(t, html, "2 comments")
	assert.Contains(t, html, `id="comment-1"`)
	assert.Contains(t, html, `id="comment-2"`)
	assert.Contains(t, html, `action="/streams/Memos/5"`)
	assert.Contains(t, html, `name="parent" value="1"`)
}

func TestNewPost_KeepsValues(t *testing.T) {
	data := &stream.PageData{Sections: []database.Section{{Name: "Memos", Description: "Important"}}}
	html := render(t, NewPost(data, "Memos", models.NewPostForm{Title: `"quoted"`, Content: "text"}, "too long"))

	assert.Contains(t, html, `value="&#34;quoted&#34;"`)
	assert.Contains(t, html, "Important")
	assert.Contains(t, html, `<p class="error">too long</p>`)
	assert.Contains(t, html, `maxlength="99"`)
}

func TestAdmin(t *testing.T) {
	data := &stream.PageData{Sections: []database.Section{{Name: "Memos", PostCount: 4}}}
	view := models.AdminView{
		Users:       []models.AdminUser{{Username: "meditalk", IsAdmin: true, AvatarURL: "https://www.gravatar.com/avatar/x"}},
		Jobs:        []scheduler.JobInfo{{ID: "session-sweep", Name: "Session sweep", Status: scheduler.JobStatusCompleted, RunCount: 3}},
		Sessions:    2,
		IdleTimeout: 30 * time.Minute,
		Disk:        []models.DiskUsage{{Path: "./data", Total: 1 << 30, Used: 1 << 29, Free: 1 << 29, UsedPercent: 50}},
		Message:     "Section added",
	}

	html := render(t, Admin(data, view))
	assert.Contains(t, html, "Section added")
	assert.Contains(t, html, `name="action" value="delete_section"`)
	assert.Contains(t, html, `name="job" value="session-sweep"`)
	assert.Contains(t, html, `src="https://www.gravatar.com/avatar/x"`)
	assert.Contains(t, html, "3 (0 failed)")
	assert.Contains(t, html, "(50.0%)")
	assert.Contains(t, html, "<th>Session idle timeout</th><td>30m0s</td>")
	assert.Contains(t, html, "No documents uploaded.")
}

func TestNotFoundAndLogin(t *testing.T) {
	assert.Contains(t, render(t, NotFound(nil)), `<a href="/">Back to the front page</a>`)

	html := render(t, Login("bob", "Invalid username or password"))
	assert.Contains(t, html, `value="bob"`)
	assert.Contains(t, html, "Invalid username or password")
	assert.Contains(t, html, `href="/register"`)
}
