package handler

import (
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api/auth"
	"github.com/meditalk/meditalk/internal/config"
	"github.com/meditalk/meditalk/internal/content"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/gravatar"
	"github.com/meditalk/meditalk/internal/notify/email"
	"github.com/meditalk/meditalk/internal/scheduler"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/pages"
)

// Options are the services the handlers depend on.
type Options struct {
	Config    *config.Config
	DB        database.DB
	Gate      *auth.Gate
	Loader    *content.Loader
	Includer  *content.Includer
	Scheduler *scheduler.Scheduler
	Mailer    *email.Mailer
	Avatars   *gravatar.Resolver
}

type Handler struct {
	config    *config.Config
	db        database.DB
	gate      *auth.Gate
	assembler *stream.Assembler
	loader    *content.Loader
	includer  *content.Includer
	scheduler *scheduler.Scheduler
	mailer    *email.Mailer
	avatars   *gravatar.Resolver
}

func New(opts Options) *Handler {
	return &Handler{
		config:    opts.Config,
		db:        opts.DB,
		gate:      opts.Gate,
		assembler: stream.NewAssembler(opts.DB),
		loader:    opts.Loader,
		includer:  opts.Includer,
		scheduler: opts.Scheduler,
		mailer:    opts.Mailer,
		avatars:   opts.Avatars,
	}
}

func (h *Handler) render(c *gin.Context, status int, page templ.Component) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := page.Render(c.Request.Context(), c.Writer); err != nil {
		log.Error("Failed to render page", "path", c.Request.URL.Path, "error", err)
	}
}

// fail logs err and answers with the generic error page.
func (h *Handler) fail(c *gin.Context, err error) {
	log.Error("Request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	h.render(c, http.StatusInternalServerError, pages.Error(h.gate.Current(c), "An internal error occurred. Please try again later."))
}

func (h *Handler) postLimit() int {
	if h.config == nil || h.config.Stream == nil || h.config.Stream.PostLimit <= 0 {
		return 10
	}
	return h.config.Stream.PostLimit
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[uint](id)
}

// NotFound renders the 404 page for every unmatched route.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, pages.NotFound(h.gate.Current(c)))
}
