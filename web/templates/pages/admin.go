package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"
	"github.com/meditalk/meditalk/internal/api/models"
	"github.com/meditalk/meditalk/internal/stream"
	"github.com/meditalk/meditalk/web/templates/components"
)

// Admin renders the administration page.
func Admin(data *stream.PageData, view models.AdminView) templ.Component {
	body := components.Render(func(ctx context.Context, h *components.HTML) {
		if view.Message != "" {
			h.Raw(`<div class="card"><p>`)
			h.Text(view.Message)
			h.Raw("</p></div>")
		}
		if view.Error != "" {
			h.Raw(`<div class="card">`)
			components.ErrorMessage(h, view.Error)
			h.Raw("</div>")
		}

		adminSections(h, data)
		adminUsers(h, view.Users)
		adminDocuments(h, view)
		adminJobs(h, view)
		adminSystem(h, view)
	})
	return components.Layout(layoutFor(data, "", false), body)
}

func actionForm(h *components.HTML, action, confirm string) {
	h.Raw(`<form class="inline" method="post" action="/admin"`)
	if confirm != "" {
		h.Attr("data-confirm", confirm)
	}
	h.Raw(`><input type="hidden" name="action"`)
	h.Attr("value", action)
	h.Raw(">")
}

func adminSections(h *components.HTML, data *stream.PageData) {
	h.Raw(`<div class="card"><h2>Sections</h2><table><thead><tr><th>Name</th><th>Description</th><th>Posts</th><th></th></tr></thead><tbody>`)
	for _, s := range data.Sections {
		h.Raw("<tr><td>")
		h.Link(stream.SectionURL(s.Name), s.Name)
		h.Raw("</td><td>")
		h.Text(s.Description)
		h.Raw("</td><td>")
		h.Text(strconv.Itoa(s.PostCount))
		h.Raw("</td><td>")
		actionForm(h, "delete_section", "Delete section "+s.Name+"?")
		h.Raw(`<input type="hidden" name="name"`)
		h.Attr("value", s.Name)
		h.Raw(`><button class="danger" type="submit">Delete</button></form></td></tr>`)
	}
	h.Raw("</tbody></table>")
	actionForm(h, "add_section", "")
	h.Raw(`<input name="name" placeholder="Section name" required> `)
	h.Raw(`<input name="description" placeholder="Description"> `)
	h.Raw(`<button type="submit">Add section</button></form></div>`)
}

func adminUsers(h *components.HTML, users []models.AdminUser) {
	h.Raw(`<div class="card"><h2>Users</h2><table><thead><tr><th></th><th>Username</th><th>Name</th><th>Email</th><th>Last login</th><th></th></tr></thead><tbody>`)
	for _, u := range users {
		h.Raw("<tr><td>")
		if u.AvatarURL != "" {
			h.Raw(`<img class="avatar" alt=""`)
			h.Attr("src", u.AvatarURL)
			h.Raw(">")
		}
		h.Raw("</td><td>")
		h.Text(u.Username)
		if u.IsAdmin {
			h.Raw(` <span class="meta">(admin)</span>`)
		}
		h.Raw("</td><td>")
		h.Text(u.FullName)
		h.Raw("</td><td>")
		h.Text(u.Email)
		h.Raw("</td><td>")
		if u.LastSession != nil {
			h.Text(components.FormatRelativeTime(*u.LastSession))
		} else {
			h.Text("never")
		}
		h.Raw("</td><td>")
		actionForm(h, "delete_user", "Delete user "+u.Username+"?")
		h.Raw(`<input type="hidden" name="username"`)
		h.Attr("value", u.Username)
		h.Raw(`><button class="danger" type="submit">Delete</button></form></td></tr>`)
	}
	h.Raw("</tbody></table>")
	actionForm(h, "add_user", "")
	h.Raw(`<input name="username" placeholder="Username" required> `)
	h.Raw(`<input name="password" type="password" placeholder="Password" required> `)
	h.Raw(`<input name="email" placeholder="Email"> `)
	h.Raw(`<label><input type="checkbox" name="admin" value="1"> admin</label> `)
	h.Raw(`<button type="submit">Add user</button></form></div>`)
}

func adminDocuments(h *components.HTML, view models.AdminView) {
	h.Raw(`<div class="card"><h2>Documents</h2>`)
	if len(view.Documents) == 0 {
		h.Raw(`<p class="meta">No documents uploaded.</p></div>`)
		return
	}
	h.Raw(`<table><thead><tr><th>Location</th><th>Size</th><th>Uploader</th><th>Uploaded</th></tr></thead><tbody>`)
	for _, d := range view.Documents {
		h.Raw("<tr><td>")
		h.Text(d.Location)
		h.Raw("</td><td>")
		h.Text(components.FormatFileSize(d.Size))
		h.Raw("</td><td>")
		h.Text(d.Uploader)
		h.Raw("</td><td>")
		h.Text(components.FormatRelativeTime(d.UploadTime))
		h.Raw("</td></tr>")
	}
	h.Raw("</tbody></table></div>")
}

func adminJobs(h *components.HTML, view models.AdminView) {
	h.Raw(`<div class="card"><h2>Jobs</h2><table><thead><tr><th>Name</th><th>Schedule</th><th>Status</th><th>Runs</th><th>Last run</th><th></th></tr></thead><tbody>`)
	for _, j := range view.Jobs {
		h.Raw("<tr><td>")
		h.Text(j.Name)
		if j.Description != "" {
			h.Raw(`<br><span class="meta">`)
			h.Text(j.Description)
			h.Raw("</span>")
		}
		h.Raw("</td><td>")
		h.Text(j.Schedule)
		h.Raw("</td><td>")
		h.Text(string(j.Status))
		if j.LastError != "" {
			h.Raw(`<br><span class="error">`)
			h.Text(j.LastError)
			h.Raw("</span>")
		}
		h.Raw("</td><td>")
		h.Text(fmt.Sprintf("%d (%d failed)", j.RunCount, j.ErrorCount))
		h.Raw("</td><td>")
		h.Text(components.FormatRelativeTime(j.LastRun))
		h.Raw("</td><td>")
		actionForm(h, "run_job", "")
		h.Raw(`<input type="hidden" name="job"`)
		h.Attr("value", j.ID)
		h.Raw(`><button type="submit">Run now</button></form></td></tr>`)
	}
	h.Raw("</tbody></table></div>")
}

func adminSystem(h *components.HTML, view models.AdminView) {
	h.Raw(`<div class="card"><h2>System</h2><table><tbody>`)
	h.Raw("<tr><th>Active sessions</th><td>")
	h.Text(strconv.Itoa(view.Sessions))
	h.Raw("</td></tr>")
	if view.IdleTimeout > 0 {
		h.Raw("<tr><th>Session idle timeout</th><td>")
		h.Text(view.IdleTimeout.String())
		h.Raw("</td></tr>")
	}
	if view.DB != nil {
		h.Raw("<tr><th>Rows</th><td>")
		h.Text(fmt.Sprintf("%s users, %s sections, %s posts, %s comments",
			components.FormatCount(view.DB.Users),
			components.FormatCount(view.DB.Sections),
			components.FormatCount(view.DB.Posts),
			components.FormatCount(view.DB.Comments),
		))
		h.Raw("</td></tr>")
	}
	if view.Cache != nil {
		h.Raw("<tr><th>Content cache</th><td>")
		h.Text(fmt.Sprintf("%s: %d hits, %d misses", view.Cache.CacheType, view.Cache.Hits, view.Cache.Miss))
		h.Raw(" ")
		actionForm(h, "clear_cache", "Clear the content cache?")
		h.Raw(`<button type="submit">Clear</button></form></td></tr>`)
	}
	for _, d := range view.Disk {
		h.Raw("<tr><th>Disk ")
		h.Text(d.Path)
		h.Raw("</th><td>")
		h.Text(fmt.Sprintf("%s used of %s (%.1f%%), %s free",
			components.FormatBytes(d.Used),
			components.FormatBytes(d.Total),
			d.UsedPercent,
			components.FormatBytes(d.Free),
		))
		h.Raw("</td></tr>")
	}
	h.Raw("</tbody></table></div>")
}
