// Package stream assembles the view data of forum pages.
package stream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// PostView is a post decorated with its navigation URL.
type PostView struct {
	database.Post
	SectionName string
	URL         string
}

// PageData is everything a forum page renders.
type PageData struct {
	PageTitle   string
	Session     *session.Record
	Sections    []database.Section
	Stream      string
	Posts       []PostView
	IsFrontPage bool
}

// Assembler builds page data from the data store.
type Assembler struct {
	db database.DB
}

func NewAssembler(db database.DB) *Assembler {
	return &Assembler{db: db}
}

// PostURL returns the path of a post inside its section stream.
func PostURL(sectionName string, postID uint) string {
	return "/streams/" + url.PathEscape(sectionName) + "/" + strconv.FormatUint(uint64(postID), 10)
}

// SectionURL returns the path of a section stream.
func SectionURL(sectionName string) string {
	return "/streams/" + url.PathEscape(sectionName)
}

// NewPostURL returns the path of the new post form of a section.
func NewPostURL(sectionName string) string {
	return "/new/" + url.PathEscape(sectionName)
}

// NewView decorates a single post.
func NewView(p database.Post) PostView {
	return PostView{
		Post:        p,
		SectionName: p.Section.Name,
		URL:         PostURL(p.Section.Name, p.ID),
	}
}

// GetPageData returns the section list together with the title and session.
func (a *Assembler) GetPageData(ctx context.Context, pageTitle string, sess *session.Record) (*PageData, error) {
	sections, err := a.db.GetAllSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	return &PageData{
		PageTitle: pageTitle,
		Session:   sess,
		Sections:  sections,
	}, nil
}

// BuildPageData loads the sections and up to postLimit recent posts of stream, which is a
// section name or database.AllSections. An unknown section yields no posts.
func (a *Assembler) BuildPageData(
	ctx context.Context,
	pageTitle, stream string,
	postLimit int,
	sess *session.Record,
) (*PageData, error) {
	var (
		sections []database.Section
		posts    []database.Post
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sections, err = a.db.GetAllSections(gctx)
		if err != nil {
			return fmt.Errorf("failed to get sections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = a.db.GetRecentPosts(gctx, stream, postLimit)
		if err != nil {
			return fmt.Errorf("failed to get posts for %q: %w", stream, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PageData{
		PageTitle: pageTitle,
		Session:   sess,
		Sections:  sections,
		Stream:    stream,
		Posts: lo.Map(posts, func(p database.Post, _ int) PostView {
			return NewView(p)
		}),
		IsFrontPage: stream == database.AllSections,
	}, nil
}
