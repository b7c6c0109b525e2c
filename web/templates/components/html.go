package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// HTML writes markup and keeps the first write error.
type HTML struct {
	w   io.Writer
	err error
}

func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// Raw writes s unescaped.
func (h *HTML) Raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// Rawf writes formatted markup. Arguments are not escaped.
func (h *HTML) Rawf(format string, args ...any) {
	h.Raw(fmt.Sprintf(format, args...))
}

// Text writes s HTML-escaped.
func (h *HTML) Text(s string) {
	h.Raw(templ.EscapeString(s))
}

// Attr writes name="value" with the value escaped.
func (h *HTML) Attr(name, value string) {
	h.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// Href writes an href attribute after URL sanitization.
func (h *HTML) Href(url string) {
	h.Attr("href", string(templ.URL(url)))
}

// Link writes an anchor with escaped text.
func (h *HTML) Link(url, text string) {
	h.Raw("<a")
	h.Href(url)
	h.Raw(">")
	h.Text(text)
	h.Raw("</a>")
}

// Component renders c in place.
func (h *HTML) Component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func (h *HTML) Err() error {
	return h.err
}

// Render adapts a write function into a templ component.
func Render(fn func(ctx context.Context, h *HTML)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(w)
		fn(ctx, h)
		return h.Err()
	})
}
