package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "weeks", "report", "debug"
}

// SliderField is one emotion slider on the entry form.
type SliderField struct {
	Name     string
	Category string
	Value    int
}

// IndexPageData is the template data for the entry form and week view.
type IndexPageData struct {
	PageData
	Sliders    []SliderField
	MinRating  int
	MaxRating  int
	Weeks      []ops.WeekSummary
	Pagination ops.Pagination
	Saved      string // id of the entry just saved, if any
}

// EntryPageData is the template data for the entry detail page.
type EntryPageData struct {
	PageData
	Entry        *entry.Entry
	Ratings      []RatingRow
	RenderedHTML template.HTML
}

// RatingRow is one emotion rating of an entry, in catalog order.
type RatingRow struct {
	Name     string
	Category string
	Rating   int
}

// ReportPageData is the template data for the report page.
type ReportPageData struct {
	PageData
	Report *ops.ReportOutput
	Count  int
	Empty  bool
}

// DebugPageData is the template data for the raw payload page.
type DebugPageData struct {
	PageData
	Raw *ops.DebugOutput
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       *zap.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log *zap.Logger) (*Renderer, error) {
	funcMap := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"formatTime": formatTime,
		"formatDay":  formatDay,
		"describe":   entry.Describe,
		"average":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}

	layoutTmpl, err := template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]string{
		"index":  "index.html",
		"entry":  "entry.html",
		"report": "report.html",
		"debug":  "debug.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t, err := layoutTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		templates[name] = t
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}, nil
}

// page builds the common page fields.
func (r *Renderer) page(title, nav string) PageData {
	return PageData{Title: title, Version: r.version, Nav: nav}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		r.log.Error("template not found", zap.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("template execution failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var dErr *errors.DiaryError
	if !stderrors.As(err, &dErr) {
		dErr = errors.NewInternal(err)
	}

	status := dErr.Status
	message := dErr.Message
	if dErr.Code == errors.ErrInternal {
		r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		message = "an internal error occurred"
	}

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	if wantsJSON(req) {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(dErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData:   r.page(fmt.Sprintf("Error %d", status), ""),
		StatusCode: status,
		Message:    message,
	})
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Raw HTML in the source is escaped by goldmark's default renderer.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// formatTime formats a creation time in the server's local zone.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Mon Jan 2, 2006 3:04 PM")
}

// formatDay formats a logical day as "Mon Jan 2".
func formatDay(d entry.Day) string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format("Mon Jan 2")
}
