package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api/auth"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/pages"
	"golang.org/x/sync/errgroup"
)

// Admin shows the administration page.
func (h *Handler) Admin(c *gin.Context) {
	h.renderAdmin(c, http.StatusOK, "", "")
}

func (h *Handler) renderAdmin(c *gin.Context, status int, message, errMsg string) {
	ctx := c.Request.Context()

	var (
		data  *stream.PageData
		users []database.User
		docs  []database.Document
		stats *database.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = h.assembler.GetPageData(gctx, "Admin", auth.MustSession(c))
		return err
	})
	g.Go(func() error {
		var err error
		users, err = h.db.GetAllUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		docs, err = h.db.GetAllDocuments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = h.db.Stats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	view := models.AdminView{
		Users:       models.ToAdminUsers(users, h.avatars),
		Documents:   docs,
		Sessions:    h.gate.Directory().Len(),
		IdleTimeout: h.gate.Directory().IdleTimeout(),
		Disk:        models.GetDiskUsage(ctx, h.dataPaths()...),
		DB:          stats,
		Message:     message,
		Error:       errMsg,
	}
	if h.scheduler != nil {
		view.Jobs = h.scheduler.GetJobs()
	}
	if h.loader != nil {
		view.Cache = h.loader.Stats()
	}
	h.render(c, status, pages.Admin(data, view))
}

// dataPaths returns the directories whose volumes are shown on the admin page.
func (h *Handler) dataPaths() []string {
	if h.config == nil {
		return nil
	}
	var paths []string
	if h.config.Database != nil && h.config.Database.Path != "" {
		paths = append(paths, filepath.Dir(h.config.Database.Path))
	}
	if h.config.Content != nil && h.config.Content.Dir != "" {
		paths = append(paths, h.config.Content.Dir)
	}
	return paths
}

// adminResult is the outcome of an admin action. A zero status means success.
type adminResult struct {
	status  int
	message string
}

func done(format string, args ...any) adminResult {
	return adminResult{message: fmt.Sprintf(format, args...)}
}

func rejected(status int, format string, args ...any) adminResult {
	return adminResult{status: status, message: fmt.Sprintf(format, args...)}
}

// AdminAction runs the action named by the "action" form field and shows the admin page again.
func (h *Handler) AdminAction(c *gin.Context) {
	action := c.PostForm("action")

	var (
		res adminResult
		err error
	)
	switch action {
	case "add_section":
		res, err = h.addSection(c)
	case "delete_section":
		res, err = h.deleteSection(c)
	case "add_user":
		res, err = h.addUser(c)
	case "delete_user":
		res, err = h.deleteUser(c)
	case "run_job":
		res = h.runJob(c)
	case "clear_cache":
		res = h.clearCache(c)
	default:
		res = rejected(http.StatusBadRequest, "Unknown action %q.", action)
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if res.status != 0 {
		h.renderAdmin(c, res.status, "", res.message)
		return
	}
	log.Info("Admin action completed", "action", action, "admin", auth.MustSession(c).Username)
	h.renderAdmin(c, http.StatusOK, res.message, "")
}

func (h *Handler) addSection(c *gin.Context) (adminResult, error) {
	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	if name == "" {
		return rejected(http.StatusBadRequest, "A section name is required."), nil
	}

	_, err := h.db.CreateSection(c.Request.Context(), 0, name, description)
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return rejected(http.StatusConflict, "Section %q already exists.", name), nil
	case errors.Is(err, database.ErrValidation):
		return rejected(http.StatusBadRequest, "%q is not a valid section name.", name), nil
	case err != nil:
		return adminResult{}, err
	}
	return done("Section %q added.", name), nil
}

func (h *Handler) deleteSection(c *gin.Context) (adminResult, error) {
	name := c.PostForm("name")
	err := h.db.DeleteSectionByName(c.Request.Context(), name)
	if errors.Is(err, database.ErrNotFound) {
		return rejected(http.StatusNotFound, "Section %q does not exist.", name), nil
	}
	if errors.Is(err, database.ErrInUse) {
		return rejected(http.StatusConflict, "Section %q still has posts and cannot be deleted.", name), nil
	}
	if err != nil {
		return adminResult{}, err
	}
	return done("Section %q deleted.", name), nil
}

func (h *Handler) addUser(c *gin.Context) (adminResult, error) {
	user := &database.User{
		Username: strings.TrimSpace(c.PostForm("username")),
		Password: c.PostForm("password"),
		Email:    strings.TrimSpace(c.PostForm("email")),
	}
	if user.Username == "" || user.Password == "" {
		return rejected(http.StatusBadRequest, "Username and password are required."), nil
	}
	if !validEmail(user.Email) {
		return rejected(http.StatusBadRequest, "Invalid email address."), nil
	}
	if c.PostForm("admin") != "" {
		user.Flags |= database.FlagAdmin
	}

	err := h.db.CreateUser(c.Request.Context(), user)
	switch {
	case errors.Is(err, database.ErrDuplicate):
		return rejected(http.StatusConflict, "User %q already exists.", user.Username), nil
	case errors.Is(err, database.ErrValidation):
		return rejected(http.StatusBadRequest, "Invalid user data."), nil
	case err != nil:
		return adminResult{}, err
	}
	return done("User %q created.", user.Username), nil
}

func (h *Handler) deleteUser(c *gin.Context) (adminResult, error) {
	username := c.PostForm("username")
	if username == auth.MustSession(c).Username {
		return rejected(http.StatusBadRequest, "You cannot delete your own account."), nil
	}

	user, err := h.db.GetUserByUsername(c.Request.Context(), username)
	if errors.Is(err, database.ErrNotFound) {
		return rejected(http.StatusNotFound, "User %q does not exist.", username), nil
	}
	if err != nil {
		return adminResult{}, err
	}
	if err := h.db.DeleteUser(c.Request.Context(), user.ID); err != nil {
		return adminResult{}, err
	}

	if n := h.gate.Directory().LogoutUser(user.ID); n > 0 {
		log.Info("Ended sessions of deleted user", "username", username, "sessions", n)
	}
	return done("User %q deleted.", username), nil
}

func (h *Handler) runJob(c *gin.Context) adminResult {
	if h.scheduler == nil {
		return rejected(http.StatusServiceUnavailable, "The scheduler is not running.")
	}
	id := c.PostForm("job")
	if err := h.scheduler.RunJobNow(id); err != nil {
		log.Warn("Failed to run job", "job", id, "error", err)
		return rejected(http.StatusBadRequest, "Could not run job %q.", id)
	}
	return done("Job %q triggered.", id)
}

func (h *Handler) clearCache(c *gin.Context) adminResult {
	if h.loader == nil {
		return rejected(http.StatusServiceUnavailable, "No content cache is configured.")
	}
	h.loader.Clear(c.Request.Context())
	return done("Content cache cleared.")
}
