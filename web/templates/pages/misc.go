package pages

import (
	"context"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/meditalk/meditalk/web/templates/components"
)

// StaticPage renders expanded content. The markup comes from the server's own
// content directory and is written unescaped.
func StaticPage(title string, sess *session.Record, markup string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card">`)
		h.Raw(markup)
		h.Raw("</div>")
	})
	return components.Layout(components.LayoutProps{Title: title, Session: sess}, body)
}

// NotFound renders the 404 page.
func NotFound(sess *session.Record) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>Page not found</h2><p>The page you are looking for does not exist.</p>`)
		h.Raw(`<p><a href="/">Back to the front page</a></p></div>`)
	})
	return components.Layout(components.LayoutProps{Title: "Not found", Session: sess}, body)
}

// Error renders a generic failure page.
func Error(sess *session.Record, msg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>Something went wrong</h2>`)
		components.ErrorMessage(h, msg)
		h.Raw(`<p><a href="/">Back to the front page</a></p></div>`)
	})
	return components.Layout(components.LayoutProps{Title: "Error", Session: sess}, body)
}
