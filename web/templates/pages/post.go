package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/components"
)

// Post renders a single post with its comment tree and a reply form.
func Post(data *stream.PageData, post stream.PostView, comments []*stream.CommentNode, errMsg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<article class="card"><h2>`)
		h.Text(post.Title)
		h.Raw(`</h2><p class="meta">by `)
		h.Text(post.Author)
		h.Raw(" ")
		h.Text(components.FormatRelativeTime(post.PostTime))
		h.Raw(" in ")
		h.Link(stream.SectionURL(post.SectionName), post.SectionName)
		h.Raw(`</p><div class="content">`)
		h.Text(post.Content)
		h.Raw("</div></article>")

		h.Raw(`<div class="card"><h3>`)
		h.Text(strconv.Itoa(post.Comments) + " " + components.Plural(post.Comments, "comment", "comments"))
		h.Raw("</h3>")
		for _, c := range comments {
			commentNode(h, post.URL, c)
		}
		components.ErrorMessage(h, errMsg)
		commentForm(h, post.URL, 0)
		h.Raw("</div>")
	})
	return components.Layout(layoutFor(data, post.SectionName, true), body)
}

func commentNode(h *components.HTML, postURL string, c *stream.CommentNode) {
	h.Raw(`<div class="comment"`)
	h.Attr("id", "comment-"+strconv.FormatUint(uint64(c.ID), 10))
	h.Raw(`><p class="meta">`)
	h.Text(c.Author)
	h.Raw(" ")
	h.Text(components.FormatRelativeTime(c.PostTime))
	h.Raw(`</p><div class="content">`)
	h.Text(c.Content)
	h.Raw("</div><details><summary>Reply</summary>")
	commentForm(h, postURL, c.ID)
	h.Raw("</details>")
	for _, child := range c.Children {
		commentNode(h, postURL, child)
	}
	h.Raw("</div>")
}

func commentForm(h *components.HTML, postURL string, parent uint) {
	h.Raw(`<form class="stacked" method="post"`)
	h.Attr("action", string(templ.URL(postURL)))
	h.Raw(`><input type="hidden" name="parent"`)
	h.Attr("value", strconv.FormatUint(uint64(parent), 10))
	h.Raw(`><textarea name="content" rows="3" required></textarea><button type="submit">Comment</button></form>`)
}

// NewPost renders the post form of a section.
func NewPost(data *stream.PageData, section string, form models.NewPostForm, errMsg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>New post in `)
		h.Text(section)
		h.Raw("</h2>")
		if s, ok := sectionByName(data.Sections, section); ok && s.Description != "" {
			h.Raw(`<p class="meta">`)
			h.Text(s.Description)
			h.Raw("</p>")
		}
		components.ErrorMessage(h, errMsg)
		h.Raw(`<form class="stacked" method="post"`)
		h.Attr("action", string(templ.URL(stream.NewPostURL(section))))
		h.Raw(`><label for="title">Title</label><input id="title" name="title" required data-counter="title-left"`)
		h.Attr("maxlength", strconv.Itoa(database.MaxTitleLength-1))
		h.Attr("value", form.Title)
		h.Raw(`><span class="meta" id="title-left"></span>`)
		h.Raw(`<label for="content">Content</label><textarea id="content" name="content" rows="8" data-counter="content-left"`)
		h.Attr("maxlength", strconv.Itoa(database.MaxContentLength-1))
		h.Raw(">")
		h.Text(form.Content)
		h.Raw(`</textarea><span class="meta" id="content-left"></span>`)
		h.Raw(`<button type="submit">Post</button></form></div>`)
	})
	return components.Layout(layoutFor(data, section, true), body)
}
