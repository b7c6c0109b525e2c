package pages

import (
	"context"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/web/templates/components"
)

// Login renders the sign-in form.
func Login(username, errMsg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>Sign in</h2>`)
		components.ErrorMessage(h, errMsg)
		h.Raw(`<form class="stacked" method="post" action="/login">`)
		h.Raw(`<label for="username">Username</label><input id="username" name="username" required autofocus`)
		h.Attr("value", username)
		h.Raw(`><label for="password">Password</label><input id="password" name="password" type="password" required>`)
		h.Raw(`<button type="submit">Sign in</button></form>`)
		h.Raw(`<p class="meta">No account yet? <a href="/register">Register</a></p></div>`)
	})
	return components.Layout(components.LayoutProps{Title: "Login"}, body)
}

// Register renders the registration form.
func Register(form models.RegisterForm, errMsg string) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		h.Raw(`<div class="card"><h2>Create an account</h2>`)
		components.ErrorMessage(h, errMsg)
		h.Raw(`<form class="stacked" method="post" action="/register">`)
		textInput(h, "username", "Username", form.Username, true)
		h.Raw(`<label for="password">Password</label><input id="password" name="password" type="password" required>`)
		textInput(h, "email", "Email", form.Email, false)
		textInput(h, "first_name", "First name", form.FirstName, false)
		textInput(h, "last_name", "Last name", form.LastName, false)
		h.Raw(`<button type="submit">Register</button></form>`)
		h.Raw(`<p class="meta">Already registered? <a href="/login">Sign in</a></p></div>`)
	})
	return components.Layout(components.LayoutProps{Title: "Register"}, body)
}

func textInput(h *components.HTML, name, label, value string, required bool) {
	h.Raw("<label")
	h.Attr("for", name)
	h.Raw(">")
	h.Text(label)
	h.Raw("</label><input")
	h.Attr("id", name)
	h.Attr("name", name)
	h.Attr("value", value)
	if required {
		h.Raw(" required")
	}
	h.Raw(">")
}
