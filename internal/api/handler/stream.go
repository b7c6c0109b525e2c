package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api/auth"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/pages"
	"golang.org/x/sync/errgroup"
)

// Home shows the most recent posts of all sections.
func (h *Handler) Home(c *gin.Context) {
	data, err := h.assembler.BuildPageData(c.Request.Context(), "Home", database.AllSections, h.postLimit(), auth.MustSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, pages.Stream(data))
}

// Streams lists all sections.
func (h *Handler) Streams(c *gin.Context) {
	data, err := h.assembler.GetPageData(c.Request.Context(), "Streams", auth.MustSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, pages.SectionIndex(data))
}

// Section shows the most recent posts of one section.
func (h *Handler) Section(c *gin.Context) {
	name := c.Param("section")
	if _, ok := h.sectionOrRedirect(c, name); !ok {
		return
	}

	data, err := h.assembler.BuildPageData(c.Request.Context(), name, name, h.postLimit(), auth.MustSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, pages.Stream(data))
}

// sectionOrRedirect loads a section by name. Unknown sections redirect to the front page.
func (h *Handler) sectionOrRedirect(c *gin.Context, name string) (*database.Section, bool) {
	section, err := h.db.GetSectionByName(c.Request.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		c.Redirect(http.StatusFound, "/")
		return nil, false
	}
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return section, true
}

// loadPost resolves the post of the request. A missing post redirects to its section.
func (h *Handler) loadPost(c *gin.Context) (*database.Post, bool) {
	sectionName := c.Param("section")
	id, err := parseUintParam(c.Param("postId"))
	if err != nil {
		c.Redirect(http.StatusFound, stream.SectionURL(sectionName))
		return nil, false
	}

	post, err := h.db.GetPost(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.Redirect(http.StatusFound, stream.SectionURL(sectionName))
		return nil, false
	}
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return post, true
}

// Post shows a single post with its comments.
func (h *Handler) Post(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if post.Section.Name != c.Param("section") {
		c.Redirect(http.StatusMovedPermanently, stream.PostURL(post.Section.Name, post.ID))
		return
	}
	h.renderPost(c, http.StatusOK, post, "")
}

func (h *Handler) renderPost(c *gin.Context, status int, post *database.Post, errMsg string) {
	var (
		data     *stream.PageData
		comments []database.Comment
	)

	g, gctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		data, err = h.assembler.GetPageData(gctx, post.Title, auth.MustSession(c))
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = h.db.GetComments(gctx, post.ID)
		if err != nil {
			return fmt.Errorf("failed to get comments of post %d: %w", post.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, status, pages.Post(data, stream.NewView(*post), stream.BuildCommentTree(comments), errMsg))
}

// AddComment stores a comment or a reply and redirects back to the post.
func (h *Handler) AddComment(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	sess := auth.MustSession(c)

	var parentID uint
	if p := c.PostForm("parent"); p != "" {
		id, err := parseUintParam(p)
		if err != nil {
			h.renderPost(c, http.StatusBadRequest, post, "Invalid reply target.")
			return
		}
		parentID = id
	}

	comment := &database.Comment{
		PostID:   post.ID,
		ParentID: parentID,
		Content:  strings.TrimSpace(c.PostForm("content")),
		Author:   sess.Username,
		PostTime: time.Now(),
	}
	err := h.db.CreateComment(c.Request.Context(), comment)
	switch {
	case errors.Is(err, database.ErrValidation):
		h.renderPost(c, http.StatusBadRequest, post, "Comment must not be empty.")
		return
	case errors.Is(err, database.ErrNotFound):
		h.renderPost(c, http.StatusBadRequest, post, "The comment you replied to does not exist.")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	log.Debug("Comment added", "post", post.ID, "comment", comment.ID, "author", sess.Username)
	c.Redirect(http.StatusFound, stream.PostURL(post.Section.Name, post.ID)+"#comment-"+strconv.FormatUint(uint64(comment.ID), 10))
}

// NewPostForm shows the form for a new post in a section.
func (h *Handler) NewPostForm(c *gin.Context) {
	section, ok := h.sectionOrRedirect(c, c.Param("section"))
	if !ok {
		return
	}
	h.renderNewPost(c, http.StatusOK, section.Name, models.NewPostForm{}, "")
}

func (h *Handler) renderNewPost(c *gin.Context, status int, section string, form models.NewPostForm, errMsg string) {
	data, err := h.assembler.GetPageData(c.Request.Context(), "New post", auth.MustSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, status, pages.NewPost(data, section, form, errMsg))
}

// CreatePost stores a new text post and redirects to it.
func (h *Handler) CreatePost(c *gin.Context) {
	section, ok := h.sectionOrRedirect(c, c.Param("section"))
	if !ok {
		return
	}
	sess := auth.MustSession(c)

	form := models.NewPostForm{
		Title:   strings.TrimSpace(c.PostForm("title")),
		Content: c.PostForm("content"),
	}
	if form.Title == "" {
		h.renderNewPost(c, http.StatusBadRequest, section.Name, form, "A title is required.")
		return
	}

	post := &database.Post{
		Type:      database.PostTypeText,
		Title:     form.Title,
		Content:   form.Content,
		Author:    sess.Username,
		SectionID: section.ID,
		PostTime:  time.Now(),
	}
	err := h.db.CreatePost(c.Request.Context(), post)
	switch {
	case errors.Is(err, database.ErrValidation):
		h.renderNewPost(c, http.StatusBadRequest, section.Name, form, fmt.Sprintf(
			"Titles must be shorter than %d and contents shorter than %d characters.",
			database.MaxTitleLength, database.MaxContentLength,
		))
		return
	case errors.Is(err, database.ErrNotFound):
		c.Redirect(http.StatusFound, "/")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	log.Info("Post created", "id", post.ID, "section", section.Name, "author", sess.Username)
	c.Redirect(http.StatusFound, stream.PostURL(section.Name, post.ID))
}
