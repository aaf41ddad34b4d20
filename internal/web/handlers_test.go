package web

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/moodlog/internal/config"
	"github.com/hpungsan/moodlog/internal/db"
	"github.com/hpungsan/moodlog/internal/ops"
	"github.com/hpungsan/moodlog/internal/store"
)

func setupTest(t *testing.T) (*Handlers, *time.Time) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatalf("template sub-FS: %v", err)
	}
	renderer, err := NewRenderer(templateSub, "test", nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	now := time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC)
	return &Handlers{
		deps: ops.Deps{
			Store:  store.New(db.NewSlots(database), cat),
			Config: cfg,
			Now:    func() time.Time { return now },
		},
		renderer: renderer,
	}, &now
}

// seedEntry saves an entry and returns its ID.
func seedEntry(t *testing.T, h *Handlers, ratings map[string]int, notes string) string {
	t.Helper()
	out, err := ops.Save(context.Background(), h.deps, ops.SaveInput{Ratings: ratings, Notes: notes})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return out.ID
}

// --- HandleIndex ---

func TestHandleIndex_Empty(t *testing.T) {
	h, _ := setupTest(t)

	rec := httptest.NewRecorder()
	h.HandleIndex(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No entries yet.") {
		t.Error("expected empty week view")
	}
	// One slider per emotion, defaulting to 5
	if n := strings.Count(body, `type="range"`); n != 8 {
		t.Errorf("found %d sliders, want 8", n)
	}
	if !strings.Contains(body, `name="rating.Knowledge Seeking"`) {
		t.Error("missing slider for Knowledge Seeking")
	}
	if !strings.Contains(body, `value="5"`) {
		t.Error("sliders should default to 5")
	}
}

func TestHandleIndex_WeekView(t *testing.T) {
	h, now := setupTest(t)

	*now = time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC)
	seedEntry(t, h, map[string]int{"Grief": 2}, "")
	*now = time.Date(2024, time.June, 16, 20, 0, 0, 0, time.UTC)
	seedEntry(t, h, map[string]int{"Grief": 5}, "")

	rec := httptest.NewRecorder()
	h.HandleIndex(rec, httptest.NewRequest("GET", "/", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "Mon Jun 10 – Sun Jun 16") {
		t.Errorf("missing week range heading:\n%s", body)
	}
	if !strings.Contains(body, "3.5") {
		t.Error("missing Grief weekly average 3.5")
	}
	if strings.Count(body, `<h3>`) != 1 {
		t.Error("Monday and Sunday should share one week")
	}
}

func TestHandleIndex_HTMXRendersContentOnly(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleIndex(rec, req)

	if strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("HTMX response should not include the layout")
	}
}

// --- HandleSave ---

func postForm(h *Handlers, form url.Values, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.HandleSave(rec, req)
	return rec
}

func TestHandleSave_Redirects(t *testing.T) {
	h, _ := setupTest(t)

	rec := postForm(h, url.Values{
		"rating.Grief":       {"3"},
		"rating.Hopefulness": {"9"},
		"notes":              {"long walk"},
	}, "")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/?saved=") {
		t.Errorf("Location = %q", loc)
	}

	entries := h.deps.Store.ListAll(context.Background())
	if len(entries) != 1 {
		t.Fatalf("stored %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.Ratings["Grief"] != 3 || got.Ratings["Hopefulness"] != 9 || got.Ratings["Anxiety"] != 5 {
		t.Errorf("ratings = %v", got.Ratings)
	}
	if got.Notes != "long walk" {
		t.Errorf("notes = %q", got.Notes)
	}
}

func TestHandleSave_TwiceSameDayKeepsBoth(t *testing.T) {
	h, _ := setupTest(t)

	postForm(h, url.Values{"rating.Grief": {"3"}}, "")
	postForm(h, url.Values{"rating.Grief": {"7"}}, "")

	if n := len(h.deps.Store.ListAll(context.Background())); n != 2 {
		t.Errorf("stored %d entries, want 2", n)
	}
}

func TestHandleSave_JSON(t *testing.T) {
	h, _ := setupTest(t)

	rec := postForm(h, url.Values{"rating.Grief": {"4"}}, "application/json")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["date"] != "2024-06-10" {
		t.Errorf("date = %v", out["date"])
	}
}

func TestHandleSave_InvalidRating(t *testing.T) {
	h, _ := setupTest(t)

	for _, value := range []string{"0", "11", "high"} {
		rec := postForm(h, url.Values{"rating.Grief": {value}}, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("rating %q: status = %d, want 400", value, rec.Code)
		}
	}
	rec := postForm(h, url.Values{"rating.Joy": {"4"}}, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown emotion: status = %d, want 400", rec.Code)
	}
	if n := len(h.deps.Store.ListAll(context.Background())); n != 0 {
		t.Errorf("stored %d entries after rejected saves", n)
	}
}

// --- HandleEntry ---

func TestHandleEntry(t *testing.T) {
	h, _ := setupTest(t)
	id := seedEntry(t, h, map[string]int{"Excitement": 8}, "**slept** well <script>alert(1)</script>")

	req := httptest.NewRequest("GET", "/entries/"+id, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>slept</strong>") {
		t.Error("notes should render as markdown")
	}
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("raw HTML in notes must not be rendered")
	}
	if !strings.Contains(body, "Intense") {
		t.Error("missing intensity label for rating 8")
	}
}

func TestHandleEntry_NotFound(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleEntry_NotFoundJSON(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/entries/nope", nil)
	req.SetPathValue("id", "nope")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleEntry(rec, req)

	var payload map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload["error"]["code"] != "NOT_FOUND" {
		t.Errorf("code = %v", payload["error"]["code"])
	}
}

// --- HandleReport ---

func TestHandleReport_Empty(t *testing.T) {
	h, _ := setupTest(t)

	rec := httptest.NewRecorder()
	h.HandleReport(rec, httptest.NewRequest("GET", "/report", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No entries found") {
		t.Error("expected 'No entries found'")
	}
}

func TestHandleReport_EmptyJSON(t *testing.T) {
	h, _ := setupTest(t)

	req := httptest.NewRequest("GET", "/report", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleReport(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleReport_MailtoLink(t *testing.T) {
	h, _ := setupTest(t)
	h.deps.Config.ReportRecipient = "therapist@example.com"
	seedEntry(t, h, nil, "a good day")

	rec := httptest.NewRecorder()
	h.HandleReport(rec, httptest.NewRequest("GET", "/report", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `href="mailto:therapist@example.com?subject=`) {
		t.Errorf("missing mailto link:\n%s", body)
	}
	if !strings.Contains(body, "Mood diary: last 1 entry (Jun 10, 2024)") {
		t.Error("missing report subject")
	}
	if !strings.Contains(body, "a good day") {
		t.Error("missing notes in report body")
	}
}

func TestHandleReport_Count(t *testing.T) {
	h, now := setupTest(t)
	for i := range 10 {
		*now = time.Date(2024, time.June, 1+i, 20, 0, 0, 0, time.UTC)
		seedEntry(t, h, nil, "")
	}

	req := httptest.NewRequest("GET", "/report?count=3", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.HandleReport(rec, req)

	var out ops.ReportOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 3 {
		t.Errorf("count = %d, want 3", out.Count)
	}
	if !strings.Contains(out.Subject, "Jun 8") || !strings.Contains(out.Subject, "Jun 10") {
		t.Errorf("subject = %q", out.Subject)
	}
}

// --- HandleDebug ---

func TestHandleDebug(t *testing.T) {
	h, _ := setupTest(t)
	seedEntry(t, h, nil, "")

	rec := httptest.NewRecorder()
	h.HandleDebug(rec, httptest.NewRequest("GET", "/debug", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "holds 1 entries") {
		t.Errorf("missing entry count:\n%s", body)
	}
	if !strings.Contains(body, "diaryEntries") {
		t.Error("missing slot key")
	}
}

// --- Server wiring ---

func TestNewServer_Routes(t *testing.T) {
	h, _ := setupTest(t)
	srv, err := NewServer(h.deps, "test", "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/report", http.StatusOK},
		{"GET", "/debug", http.StatusOK},
		{"GET", "/static/style.css", http.StatusOK},
		{"GET", "/entries/unknown", http.StatusNotFound},
		{"DELETE", "/entries/unknown", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	h, _ := setupTest(t)
	srv, err := NewServer(h.deps, "test", "127.0.0.1", 0)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); !strings.Contains(got, "default-src 'self'") {
		t.Errorf("Content-Security-Policy = %q", got)
	}
}
