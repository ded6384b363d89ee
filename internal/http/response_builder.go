package http

import (
	"bytes"
	"html/template"
	"net/http"
)

// RedirectBuilder provides a fluent API for post/redirect/get responses
// that carry a one-shot notice.
type RedirectBuilder struct {
	location   string
	statusCode int
	flash      *Flash
}

// NewRedirect creates a 303 See Other redirect to location.
func NewRedirect(location string) *RedirectBuilder {
	return &RedirectBuilder{location: location, statusCode: http.StatusSeeOther}
}

// Status overrides the redirect status code.
func (b *RedirectBuilder) Status(code int) *RedirectBuilder {
	b.statusCode = code
	return b
}

// Notice attaches a flash notice to the redirect.
func (b *RedirectBuilder) Notice(severity Severity, message string) *RedirectBuilder {
	b.flash = &Flash{Severity: severity, Message: message}
	return b
}

func (b *RedirectBuilder) Success(message string) *RedirectBuilder {
	return b.Notice(SeveritySuccess, message)
}

func (b *RedirectBuilder) Info(message string) *RedirectBuilder {
	return b.Notice(SeverityInfo, message)
}

func (b *RedirectBuilder) Error(message string) *RedirectBuilder {
	return b.Notice(SeverityError, message)
}

// Write sets the flash cookie, if any, and sends the redirect.
func (b *RedirectBuilder) Write(w http.ResponseWriter, r *http.Request, flashes *FlashCodec) {
	if b.flash != nil && flashes != nil {
		flashes.Set(w, *b.flash)
	}
	http.Redirect(w, r, b.location, b.statusCode)
}

type failureView struct {
	Status  int
	Title   string
	Message string
}

// writeFailurePage renders the generic failure page. It falls back to
// plain text when the template is unavailable.
func writeFailurePage(w http.ResponseWriter, tmpl *template.Template, status int, message string) {
	view := failureView{Status: status, Title: http.StatusText(status), Message: message}
	var buf bytes.Buffer
	if tmpl == nil || tmpl.ExecuteTemplate(&buf, "error.html", view) != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
