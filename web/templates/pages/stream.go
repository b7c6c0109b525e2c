package pages

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/components"
)

func layoutFor(data *stream.PageData, active string, sidebar bool) components.LayoutProps {
	return components.LayoutProps{
		Title:    data.PageTitle,
		Session:  data.Session,
		Sections: data.Sections,
		Active:   active,
		Sidebar:  sidebar,
	}
}

// Stream renders the front page or a section stream.
func Stream(data *stream.PageData) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>`)
		if data.IsFrontPage {
			h.Text("Recent posts")
		} else {
			h.Text(data.Stream)
		}
		h.Raw("</h2>")
		if !data.IsFrontPage {
			h.Raw(`<p><a`)
			h.Href(stream.NewPostURL(data.Stream))
			h.Raw(`>New post</a></p>`)
		}
		h.Raw("</div>")

		if len(data.Posts) == 0 {
			h.Raw(`<div class="card"><p class="meta">No posts yet.</p></div>`)
		}
		for _, p := range data.Posts {
			postSummary(h, p, data.IsFrontPage)
		}
	})
	return components.Layout(layoutFor(data, data.Stream, true), body)
}

func postSummary(h *components.HTML, p stream.PostView, showSection bool) {
	h.Raw(`<article class="card"><h3>`)
	h.Link(p.URL, p.Title)
	h.Raw(`</h3><p class="meta">by `)
	h.Text(p.Author)
	h.Raw(" ")
	h.Text(components.FormatRelativeTime(p.PostTime))
	if showSection {
		h.Raw(" in ")
		h.Link(stream.SectionURL(p.SectionName), p.SectionName)
	}
	h.Raw(" &middot; ")
	h.Text(strconv.Itoa(p.Comments) + " " + components.Plural(p.Comments, "comment", "comments"))
	h.Raw("</p></article>")
}

// SectionIndex lists every section with its post count.
func SectionIndex(data *stream.PageData) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>Streams</h2><table><thead><tr><th>Section</th><th>Description</th><th>Posts</th></tr></thead><tbody>`)
		for _, s := range data.Sections {
			h.Raw("<tr><td>")
			h.Link(stream.SectionURL(s.Name), s.Name)
			h.Raw("</td><td>")
			h.Text(s.Description)
			h.Raw("</td><td>")
			h.Text(components.FormatCount(s.PostCount))
			h.Raw("</td></tr>")
		}
		h.Raw("</tbody></table></div>")
	})
	return components.Layout(layoutFor(data, "", true), body)
}

// sectionByName returns the section called name from the page's list.
func sectionByName(sections []database.Section, name string) (database.Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return database.Section{}, false
}
