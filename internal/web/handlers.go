package web

import (
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
	"github.com/hpungsan/moodlog/internal/ops"
)

// ratingFieldPrefix prefixes slider field names on the entry form.
const ratingFieldPrefix = "rating."

// maxFormBytes caps the entry form body.
const maxFormBytes = 64 << 10

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	deps     ops.Deps
	renderer *Renderer
}

// HandleIndex handles GET / - the entry form above the week view.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Weeks(r.Context(), h.deps, ops.WeeksInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultWeeksLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	emotions := h.deps.Store.Catalog().Emotions()
	sliders := make([]SliderField, 0, len(emotions))
	for _, e := range emotions {
		sliders = append(sliders, SliderField{Name: e.Name, Category: e.Category, Value: entry.DefaultRating})
	}

	h.renderer.renderPage(w, r, "index", IndexPageData{
		PageData:   h.renderer.page("Mood diary", "weeks"),
		Sliders:    sliders,
		MinRating:  entry.MinRating,
		MaxRating:  entry.MaxRating,
		Weeks:      result.Weeks,
		Pagination: result.Pagination,
		Saved:      r.URL.Query().Get("saved"),
	})
}

// HandleSave handles POST /entries - save one entry from the slider form.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form: "+err.Error()))
		return
	}

	ratings, err := parseRatings(r.PostForm)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Save(r.Context(), h.deps, ops.SaveInput{
		Ratings: ratings,
		Notes:   r.PostForm.Get("notes"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusCreated, result)
		return
	}
	http.Redirect(w, r, "/?saved="+url.QueryEscape(result.ID), http.StatusSeeOther)
}

// HandleEntry handles GET /entries/{id} - one entry with its notes rendered.
func (h *Handlers) HandleEntry(w http.ResponseWriter, r *http.Request) {
	e, err := ops.Get(r.Context(), h.deps, ops.GetInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, e)
		return
	}

	h.renderer.renderPage(w, r, "entry", EntryPageData{
		PageData:     h.renderer.page(formatTime(e.CreatedAt), ""),
		Entry:        e,
		Ratings:      ratingRows(*e, h.deps.Store.Catalog()),
		RenderedHTML: renderMarkdown(e.Notes),
	})
}

// HandleReport handles GET /report - the email report with a mailto link.
func (h *Handlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	count := parseIntParam(r, "count", 0)
	result, err := ops.Report(r.Context(), h.deps, ops.ReportInput{Count: count})
	if err != nil && !errors.Is(err, errors.ErrEmptySelection) {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "report", ReportPageData{
		PageData: h.renderer.page("Report", "report"),
		Report:   result,
		Count:    count,
		Empty:    result == nil,
	})
}

// HandleDebug handles GET /debug - the raw stored payload.
func (h *Handlers) HandleDebug(w http.ResponseWriter, r *http.Request) {
	raw, err := ops.Debug(r.Context(), h.deps)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, raw)
		return
	}

	h.renderer.renderPage(w, r, "debug", DebugPageData{
		PageData: h.renderer.page("Debug", "debug"),
		Raw:      raw,
	})
}

// parseRatings reads the slider fields of the entry form.
func parseRatings(form url.Values) (map[string]int, error) {
	ratings := make(map[string]int)
	for key, values := range form {
		name, ok := strings.CutPrefix(key, ratingFieldPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		v, err := strconv.Atoi(values[0])
		if err != nil {
			return nil, errors.NewInvalidRequest("rating for " + strconv.Quote(name) + " must be a whole number")
		}
		ratings[name] = v
	}
	return ratings, nil
}

// ratingRows lists an entry's ratings in catalog order, then any names the
// catalog no longer has.
func ratingRows(e entry.Entry, catalog entry.Catalog) []RatingRow {
	rows := make([]RatingRow, 0, len(e.Ratings))
	seen := make(map[string]bool, len(e.Ratings))
	for _, em := range catalog.Emotions() {
		if v, ok := e.Ratings[em.Name]; ok {
			rows = append(rows, RatingRow{Name: em.Name, Category: em.Category, Rating: v})
			seen[em.Name] = true
		}
	}
	for _, name := range slices.Sorted(maps.Keys(e.Ratings)) {
		if !seen[name] {
			rows = append(rows, RatingRow{Name: name, Rating: e.Ratings[name]})
		}
	}
	return rows
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
