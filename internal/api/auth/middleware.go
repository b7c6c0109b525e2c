// Package auth ties browser sessions to the session directory.
package auth

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meditalk/meditalk/internal/session"
)

const (
	// SessionIDKey is the cookie session key holding the opaque session id.
	SessionIDKey = "sid"
	// ContextKeySession is the gin context key of the authenticated *session.Record.
	ContextKeySession = "session"
)

// Gate authenticates requests against the session directory.
type Gate struct {
	directory *session.Directory
}

func NewGate(directory *session.Directory) *Gate {
	return &Gate{directory: directory}
}

// Directory returns the underlying session directory.
func (g *Gate) Directory() *session.Directory {
	return g.directory
}

// EnsureSessionID issues a fresh session id to every request that carries none.
func (g *Gate) EnsureSessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		if getSessionString(s, SessionIDKey) == "" {
			s.Set(SessionIDKey, uuid.NewString())
			if err := s.Save(); err != nil {
				log.Error("Failed to save session", "error", err)
			}
		}
		c.Next()
	}
}

// SessionID returns the opaque id of the current browser session.
func SessionID(c *gin.Context) string {
	return getSessionString(sessions.Default(c), SessionIDKey)
}

// Current returns the authenticated record of the request, or nil.
// It works on public routes too, where RequireAuth did not run.
func (g *Gate) Current(c *gin.Context) *session.Record {
	if rec, ok := c.Get(ContextKeySession); ok {
		if r, ok := rec.(*session.Record); ok {
			return r
		}
	}
	rec, ok := g.directory.Lookup(SessionID(c))
	if !ok {
		return nil
	}
	return &rec
}

// MustSession returns the record stored by RequireAuth.
func MustSession(c *gin.Context) *session.Record {
	return c.MustGet(ContextKeySession).(*session.Record)
}

// RequireAuth redirects requests without an authenticated session to the login page.
func (g *Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := g.directory.Lookup(SessionID(c))
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ContextKeySession, &rec)
		c.Next()
	}
}

// RequireAdmin sends non-admin users back to the front page.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, ok := c.Get(ContextKeySession)
		if r, isRec := rec.(*session.Record); !ok || !isRec || !r.IsAdmin {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Login replaces the current session id with a fresh one and binds it to an
// authenticated record. The pre-login id is forgotten.
func (g *Gate) Login(c *gin.Context, rec session.Record) error {
	s := sessions.Default(c)
	g.directory.Logout(getSessionString(s, SessionIDKey))

	sid := uuid.NewString()
	s.Set(SessionIDKey, sid)
	if err := s.Save(); err != nil {
		return err
	}
	g.directory.Login(sid, rec)
	return nil
}

// Logout forgets the current session id and clears the cookie.
func (g *Gate) Logout(c *gin.Context) error {
	s := sessions.Default(c)
	g.directory.Logout(getSessionString(s, SessionIDKey))
	s.Clear()
	return s.Save()
}

// getSessionString safely reads a string value from the cookie session.
func getSessionString(s sessions.Session, key string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return ""
}
