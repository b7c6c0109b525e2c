package pages

import (
	"context"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/components"
)

// Settings renders the profile of the signed-in user.
func Settings(data *stream.PageData, user *database.User, avatarURL, message, errMsg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>`)
		if avatarURL != "" {
			h.Raw(`<img class="avatar" alt=""`)
			h.Attr("src", avatarURL)
			h.Raw("> ")
		}
		h.Text(user.Username)
		h.Raw(`</h2><p class="meta">Member since `)
		h.Text(user.CreatedAt.Format("January 2, 2006"))
		if user.IsAdmin() {
			h.Raw(" &middot; administrator")
		}
		h.Raw("</p>")
		if message != "" {
			h.Raw("<p>")
			h.Text(message)
			h.Raw("</p>")
		}
		components.ErrorMessage(h, errMsg)
		h.Raw(`<form class="stacked" method="post" action="/user">`)
		textInput(h, "email", "Email", user.Email, false)
		textInput(h, "first_name", "First name", user.FirstName, false)
		textInput(h, "last_name", "Last name", user.LastName, false)
		h.Raw(`<button type="submit">Save</button></form></div>`)
	})
	return components.Layout(layoutFor(data, "", false), body)
}
