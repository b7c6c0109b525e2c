// Package gravatar builds avatar image URLs for forum members.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/meditalk/meditalk/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

// Resolver turns email addresses into avatar URLs.
// The zero value and a nil Resolver return no URLs.
type Resolver struct {
	enabled bool
	query   string
}

// New returns a resolver for cfg. Invalid options are dropped rather than sent to Gravatar.
func New(cfg *config.GravatarConfig) *Resolver {
	if cfg == nil || !cfg.Enabled {
		return &Resolver{}
	}
	params := url.Values{}
	if IsValidDefaultImage(cfg.DefaultImage) {
		params.Set("d", cfg.DefaultImage)
	}
	if IsValidRating(cfg.Rating) {
		params.Set("r", cfg.Rating)
	}
	if IsValidSize(cfg.Size) {
		params.Set("s", strconv.Itoa(cfg.Size))
	}
	return &Resolver{
		enabled: true,
		query:   params.Encode(),
	}
}

// Hash returns the hex SHA-256 of the normalized email.
func Hash(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// URL returns the avatar URL for email, or an empty string when avatars are
// disabled or the email is blank.
func (r *Resolver) URL(email string) string {
	if r == nil || !r.enabled || strings.TrimSpace(email) == "" {
		return ""
	}
	u := baseURL + Hash(email)
	if r.query != "" {
		u += "?" + r.query
	}
	return u
}

// Enabled reports whether the resolver produces URLs.
func (r *Resolver) Enabled() bool {
	return r != nil && r.enabled
}

var validDefaults = map[string]bool{
	"404":       true,
	"mp":        true,
	"identicon": true,
	"monsterid": true,
	"wavatar":   true,
	"retro":     true,
	"robohash":  true,
	"blank":     true,
}

// IsValidDefaultImage checks if the provided default image value is valid for Gravatar.
func IsValidDefaultImage(defaultImage string) bool {
	return validDefaults[defaultImage]
}

// IsValidRating checks if the provided rating value is valid for Gravatar.
func IsValidRating(rating string) bool {
	switch rating {
	case "g", "pg", "r", "x":
		return true
	}
	return false
}

// IsValidSize checks if the provided size value is valid for Gravatar (1-2048 pixels).
func IsValidSize(size int) bool {
	return size >= 1 && size <= 2048
}
