package web

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/record/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
)

const stylesheet = `body{font-family:sans-serif;max-width:44rem;margin:2rem auto;padding:0 1rem}
nav a,nav form{margin-right:1rem;display:inline}
.error{color:#a40000}
label{display:block;margin-top:.5rem}
li{margin-bottom:.5rem}`

// html writes markup while remembering the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// layout wraps the child component in the shared page shell. viewer is nil
// for anonymous pages.
func layout(title string, viewer *userdomain.Identity) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(title)
		h.raw(` | Tracker</title><style>` + stylesheet + `</style></head><body><nav>`)
		if viewer != nil {
			h.raw(`<a href="/">Dashboard</a>`)
			for _, v := range domain.Variants() {
				h.rawf(`<a href="/%s">%s</a>`, v.Plural(), templ.EscapeString(variantTitle(v)))
			}
			h.raw(`<span>`)
			h.text(viewer.Username)
			h.raw(`</span> <form method="post" action="/logout"><button type="submit">Log out</button></form>`)
		} else {
			h.raw(`<a href="/login">Log in</a><a href="/register">Register</a>`)
		}
		h.raw(`</nav><main><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.render(ctx, children)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

func errorBanner(h *html, message string) {
	if message == "" {
		return
	}
	h.raw(`<p class="error" role="alert">`)
	h.text(message)
	h.raw(`</p>`)
}

func input(h *html, label, name, kind, value string) {
	h.rawf(`<label for="%[1]s">%[2]s</label><input id="%[1]s" name="%[1]s" type="%[3]s" value="`, name, templ.EscapeString(label), kind)
	h.text(value)
	h.raw(`">`)
}

type credentialsForm struct {
	Username string
	Error    string
}

func credentialsPage(action, submit string, form credentialsForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		errorBanner(h, form.Error)
		h.rawf(`<form method="post" action="%s">`, action)
		input(h, "Username", "username", "text", form.Username)
		input(h, "Password", "password", "password", "")
		h.rawf(`<p><button type="submit">%s</button></p></form>`, templ.EscapeString(submit))
		return h.err
	})
}

func loginPage(form credentialsForm) templ.Component {
	return credentialsPage("/login", "Log in", form)
}

func registerPage(form credentialsForm) templ.Component {
	return credentialsPage("/register", "Create account", form)
}

func dashboardPage(counts domain.Counts) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<ul class="summary">`)
		for _, v := range domain.Variants() {
			h.rawf(`<li><a href="/%s">%s</a>: <strong>%s</strong></li>`,
				v.Plural(), templ.EscapeString(variantTitle(v)), strconv.Itoa(counts.Of(v)))
		}
		h.raw(`</ul>`)
		h.rawf(`<p>%d entries in total.</p>`, counts.Total())
		return h.err
	})
}

type recordForm struct {
	Fields domain.Fields
	Error  string
}

func recordsPage(variant domain.Variant, records []domain.Record, form recordForm) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}

		if len(records) == 0 {
			h.rawf(`<p>No %s yet.</p>`, variant.Plural())
		} else {
			h.raw(`<ol class="records">`)
			for _, rec := range records {
				h.raw(`<li><strong>`)
				h.text(rec.Title)
				h.raw(`</strong>`)
				if rec.DueDate != nil {
					h.rawf(` <small>due %s</small>`, rec.DueDate.String())
				}
				if rec.TargetDate != nil {
					h.rawf(` <small>target %s</small>`, rec.TargetDate.String())
				}
				h.raw(`<br>`)
				h.text(rec.Description)
				h.raw(`</li>`)
			}
			h.raw(`</ol>`)
		}

		h.rawf(`<h2>New %s</h2>`, variant)
		errorBanner(h, form.Error)
		h.rawf(`<form method="post" action="/%s">`, variant.Plural())
		input(h, "Title", "title", "text", form.Fields.Title)
		h.raw(`<label for="description">Description</label><textarea id="description" name="description">`)
		h.text(form.Fields.Description)
		h.raw(`</textarea>`)
		switch variant {
		case domain.VariantTask:
			input(h, "Due date", "due_date", "date", form.Fields.DueDate)
		case domain.VariantGoal:
			input(h, "Target date", "target_date", "date", form.Fields.TargetDate)
		}
		h.raw(`<p><button type="submit">Add</button></p></form>`)
		return h.err
	})
}

func errorPage(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		errorBanner(h, message)
		h.raw(`<p><a href="/">Back to the dashboard</a></p>`)
		return h.err
	})
}

func variantTitle(v domain.Variant) string {
	switch v {
	case domain.VariantHabit:
		return "Habits"
	case domain.VariantTask:
		return "Tasks"
	case domain.VariantGoal:
		return "Goals"
	default:
		return string(v)
	}
}
