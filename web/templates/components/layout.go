package components

import (
	"context"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/meditalk/meditalk/internal/stream"
)

// LayoutProps describes the page chrome.
type LayoutProps struct {
	Title    string
	Session  *session.Record
	Sections []database.Section
	// Active is the name of the highlighted section, if any.
	Active string
	// Sidebar shows the section list next to the body.
	Sidebar bool
}

// Layout wraps body in the document, navigation bar and optional section sidebar.
func Layout(p LayoutProps, body templ.Component) templ.Component {
	return Render(func(ctx context.Context, h *HTML) {
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw("<title>")
		if p.Title != "" {
			h.Text(p.Title + " | ")
		}
		h.Raw(`MediTalk</title><link rel="stylesheet" href="/static/style.css"></head><body>`)

		navbar(h, p.Session)

		if p.Sidebar {
			h.Raw(`<main class="layout">`)
			sidebar(h, p.Sections, p.Active)
			h.Raw("<section>")
			h.Component(ctx, body)
			h.Raw("</section></main>")
		} else {
			h.Raw(`<main class="single">`)
			h.Component(ctx, body)
			h.Raw("</main>")
		}

		h.Raw(`<script src="/static/app.js"></script></body></html>`)
	})
}

func navbar(h *HTML, sess *session.Record) {
	h.Raw(`<header class="nav"><a class="brand" href="/">MediTalk</a><nav>`)
	if sess != nil && sess.Authenticated {
		h.Link("/", "Home")
		h.Link("/streams/", "Streams")
		h.Link("/user", sess.Username)
		if sess.IsAdmin {
			h.Link("/admin", "Admin")
		}
		h.Link("/logout", "Logout")
	} else {
		h.Link("/login", "Login")
		h.Link("/register", "Register")
	}
	h.Raw("</nav></header>")
}

func sidebar(h *HTML, sections []database.Section, active string) {
	h.Raw(`<aside class="sections card"><h3>Sections</h3><ul>`)
	h.Raw("<li")
	if active == database.AllSections {
		h.Attr("class", "active")
	}
	h.Raw(">")
	h.Link("/", "Front page")
	h.Raw("</li>")
	for _, s := range sections {
		h.Raw("<li")
		if s.Name == active {
			h.Attr("class", "active")
		}
		h.Raw(">")
		h.Link(stream.SectionURL(s.Name), s.Name)
		h.Raw("</li>")
	}
	h.Raw("</ul></aside>")
}

// ErrorMessage renders msg in an error paragraph when it is not empty.
func ErrorMessage(h *HTML, msg string) {
	if msg == "" {
		return
	}
	h.Raw(`<p class="error">`)
	h.Text(msg)
	h.Raw("</p>")
}
