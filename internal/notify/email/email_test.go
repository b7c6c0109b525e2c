package email

import (
	"testing"

	"github.com/meditalk/meditalk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	body, err := renderTemplate("welcome.html", Welcome{
		FullName: "Ada <Lovelace>",
		Username: "ada",
		ForumURL: "https://forum.example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome to MediTalk, Ada &lt;Lovelace&gt;!")
	assert.Contains(t, body, "<strong>ada</strong>")
	assert.Contains(t, body, `href="https://forum.example.com/login"`)
}

func TestSendWelcome_SkipsWithoutSending(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.EmailConfig
		w    Welcome
	}{
		{name: "nil config", cfg: nil, w: Welcome{Email: "a@example.com"}},
		{name: "disabled", cfg: &config.EmailConfig{Enabled: false}, w: Welcome{Email: "a@example.com"}},
		{name: "no address", cfg: &config.EmailConfig{Enabled: true, SMTPHost: "localhost"}, w: Welcome{Username: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, New(tt.cfg).SendWelcome(tt.w))
		})
	}
}

func TestRecipient(t *testing.T) {
	assert.Equal(t, "a@example.com", recipient("", "a@example.com"))
	assert.Equal(t, `"Ada Lovelace" <a@example.com>`, recipient("Ada Lovelace", "a@example.com"))
}
