package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/content"
	"github.com/meditalk/meditalk/web/templates/pages"
)

// Page serves a static content file with its include directives expanded.
func (h *Handler) Page(c *gin.Context) {
	name := c.Param("name")
	if !fs.ValidPath(name) || name == "." {
		h.NotFound(c)
		return
	}

	exp := h.includer.Expand(c.Request.Context(), name)
	switch exp.Status {
	case content.StatusFailed:
		if errors.Is(exp.Err, content.ErrNotFound) {
			h.NotFound(c)
			return
		}
		h.fail(c, exp.Err)
		return
	case content.StatusPartial:
		log.Warn("Page expanded partially", "page", name, "error", exp.Err)
	}

	h.render(c, http.StatusOK, pages.StaticPage(pageTitle(name), h.gate.Current(c), exp.Text))
}

// pageTitle turns "terms_of-use.html" into "Terms of use".
func pageTitle(name string) string {
	title := strings.TrimSuffix(name, path.Ext(name))
	title = strings.NewReplacer("-", " ", "_", " ").Replace(title)
	if title == "" {
		return name
	}
	return strings.ToUpper(title[:1]) + title[1:]
}
