package gravatar

import (
	"testing"

	"github.com/meditalk/meditalk/internal/config"
	"github.com/stretchr/testify/assert"
)

const testHash = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"

func TestResolverURL(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		config   *config.GravatarConfig
		expected string
	}{
		{
			name:     "disabled gravatar",
			email:    "test@example.com",
			config:   &config.GravatarConfig{Enabled: false},
			expected: "",
		},
		{
			name:     "nil config",
			email:    "test@example.com",
			config:   nil,
			expected: "",
		},
		{
			name:     "blank email",
			email:    "   ",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "",
		},
		{
			name:     "no options",
			email:    "test@example.com",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "https://www.gravatar.com/avatar/" + testHash,
		},
		{
			name:  "all options with normalization",
			email: "  TEST@EXAMPLE.COM ",
			config: &config.GravatarConfig{
				Enabled:      true,
				DefaultImage: "identicon",
				Rating:       "pg",
				Size:         120,
			},
			expected: "https://www.gravatar.com/avatar/" + testHash + "?d=identicon&r=pg&s=120",
		},
		{
			name:  "invalid options are dropped",
			email: "test@example.com",
			config: &config.GravatarConfig{
				Enabled:      true,
				DefaultImage: "unicorn",
				Rating:       "nc17",
				Size:         4096,
			},
			expected: "https://www.gravatar.com/avatar/" + testHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.config).URL(tt.email))
		})
	}
}

func TestNilResolver(t *testing.T) {
	var r *Resolver
	assert.Empty(t, r.URL("test@example.com"))
	assert.False(t, r.Enabled())
	assert.True(t, New(&config.GravatarConfig{Enabled: true}).Enabled())
}

func TestValidators(t *testing.T) {
	for _, img := range []string{"404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"} {
		assert.True(t, IsValidDefaultImage(img), img)
	}
	for _, img := range []string{"invalid", "", "MP"} {
		assert.False(t, IsValidDefaultImage(img), img)
	}
	for _, r := range []string{"g", "pg", "r", "x"} {
		assert.True(t, IsValidRating(r), r)
	}
	for _, r := range []string{"", "G", "nc17"} {
		assert.False(t, IsValidRating(r), r)
	}
	assert.True(t, IsValidSize(1))
	assert.True(t, IsValidSize(2048))
	assert.False(t, IsValidSize(0))
	assert.False(t, IsValidSize(2049))
}
