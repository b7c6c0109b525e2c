package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api/auth"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/notify/email"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/meditalk/meditalk/web/templates/pages"
)

// LoginPage shows the sign-in form unless the session is already authenticated.
func (h *Handler) LoginPage(c *gin.Context) {
	if h.gate.Current(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var errMsg string
	if c.Query("error") != "" {
		errMsg = "Invalid username or password."
	}
	h.render(c, http.StatusOK, pages.Login("", errMsg))
}

// Login checks the submitted credentials and binds the session on success.
func (h *Handler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	v, err := h.db.VerifyUser(c.Request.Context(), username, password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !v.Authenticated {
		log.Warn("Failed login attempt", "username", username, "ip", c.ClientIP())
		c.Redirect(http.StatusFound, "/login?error=1")
		return
	}

	err = h.gate.Login(c, session.Record{
		UserID:   v.UserID,
		Username: username,
		IsAdmin:  v.Flags&database.FlagAdmin != 0,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.TouchLastSession(c.Request.Context(), v.UserID); err != nil {
		log.Warn("Failed to record login time", "user", username, "error", err)
	}

	log.Info("User logged in", "username", username)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.gate.Logout(c); err != nil {
		if err := c.AbortWithError(http.StatusInternalServerError, err); err != nil {
			log.Error("Failed to abort with error", "error", err)
		}
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// RegisterPage shows the registration form.
func (h *Handler) RegisterPage(c *gin.Context) {
	if h.gate.Current(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, pages.Register(models.RegisterForm{}, ""))
}

// Register creates a new member account and sends the welcome mail.
func (h *Handler) Register(c *gin.Context) {
	form := models.RegisterForm{
		Username:  strings.TrimSpace(c.PostForm("username")),
		Email:     strings.TrimSpace(c.PostForm("email")),
		FirstName: strings.TrimSpace(c.PostForm("first_name")),
		LastName:  strings.TrimSpace(c.PostForm("last_name")),
	}
	password := c.PostForm("password")

	if form.Username == "" || password == "" {
		h.render(c, http.StatusBadRequest, pages.Register(form, "Username and password are required."))
		return
	}
	if !validEmail(form.Email) {
		h.render(c, http.StatusBadRequest, pages.Register(form, "Invalid email address."))
		return
	}

	user := &database.User{
		Username:  form.Username,
		Password:  password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	_, err := h.db.RegisterUser(c.Request.Context(), user)
	switch {
	case errors.Is(err, database.ErrDuplicate):
		h.render(c, http.StatusConflict, pages.Register(form, "This username is already taken."))
		return
	case errors.Is(err, database.ErrValidation):
		h.render(c, http.StatusBadRequest, pages.Register(form, "Invalid registration data."))
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	log.Info("User registered", "username", user.Username)
	if h.mailer != nil && h.mailer.Enabled() {
		welcome := email.Welcome{
			Email:    user.Email,
			FullName: user.FullName(),
			Username: user.Username,
			ForumURL: h.config.ServerURL,
		}
		go func() {
			if err := h.mailer.SendWelcome(welcome); err != nil {
				log.Error("Failed to send welcome email", "user", welcome.Username, "error", err)
			}
		}()
	}
	c.Redirect(http.StatusFound, "/login")
}

// Settings shows the profile of the signed-in user.
func (h *Handler) Settings(c *gin.Context) {
	var message string
	if c.Query("saved") != "" {
		message = "Your profile was updated."
	}
	h.renderSettings(c, http.StatusOK, message, "")
}

func (h *Handler) renderSettings(c *gin.Context, status int, message, errMsg string) {
	sess := auth.MustSession(c)
	user, err := h.db.GetUserByID(c.Request.Context(), sess.UserID)
	if errors.Is(err, database.ErrNotFound) {
		// the account was deleted while the session was alive
		h.Logout(c)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.assembler.GetPageData(c.Request.Context(), "Settings", sess)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, status, pages.Settings(data, user, h.avatars.URL(user.Email), message, errMsg))
}

// UpdateSettings stores the editable profile fields.
func (h *Handler) UpdateSettings(c *gin.Context) {
	sess := auth.MustSession(c)
	profile := database.Profile{
		Email:     strings.TrimSpace(c.PostForm("email")),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
	}
	if !validEmail(profile.Email) {
		h.renderSettings(c, http.StatusBadRequest, "", "Invalid email address.")
		return
	}

	err := h.db.UpdateUserProfile(c.Request.Context(), sess.UserID, profile)
	if errors.Is(err, database.ErrNotFound) {
		h.Logout(c)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/user?saved=1")
}

// validEmail accepts an empty address.
func validEmail(address string) bool {
	if address == "" {
		return true
	}
	_, err := mail.ParseAddress(address)
	return err == nil
}
