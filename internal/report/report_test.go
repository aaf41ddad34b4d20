package report

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/moodlog/internal/aggregate"
	"github.com/hpungsan/moodlog/internal/entry"
)

var catalog = entry.MustCatalog(entry.DefaultEmotions())

func newEntry(t *testing.T, at time.Time, notes string, overrides map[string]int) entry.Entry {
	t.Helper()
	ratings, err := catalog.Resolve(overrides)
	require.NoError(t, err)
	e, err := entry.New(at, entry.DefaultDayBoundaryHour, ratings, notes)
	require.NoError(t, err)
	return e
}

func TestFormat_OldestFirst(t *testing.T) {
	base := time.Date(2024, time.June, 1, 20, 0, 0, 0, time.UTC)
	var entries []entry.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, newEntry(t, base.AddDate(0, 0, i), "", nil))
	}
	entry.SortNewestFirst(entries)

	recent := aggregate.SelectRecent(entries, 7)
	r := Format(recent, "", catalog)

	assert.Contains(t, r.Subject, "7 entries")

	// Entries from June 4..10, oldest first.
	prev := -1
	for day := 4; day <= 10; day++ {
		heading := time.Date(2024, time.June, day, 20, 0, 0, 0, time.UTC).Format(timestampLayout)
		idx := strings.Index(r.Body, heading)
		require.GreaterOrEqual(t, idx, 0, "missing %q", heading)
		assert.Greater(t, idx, prev, "%q out of order", heading)
		prev = idx
	}
	assert.NotContains(t, r.Body, "June 3, 2024")

	// Input order untouched.
	assert.Equal(t, entries[0].ID, recent[0].ID)
}

func TestFormat_Block(t *testing.T) {
	e := newEntry(t, time.Date(2024, time.June, 10, 21, 30, 0, 0, time.UTC),
		"Long walk.\nCalled mum.", map[string]int{"Grief": 3, "Hopefulness": 8})

	r := Format([]entry.Entry{e}, "Dr. Rivera", catalog)

	assert.Equal(t, "Mood diary: last 1 entry (Jun 10, 2024)", r.Subject)
	assert.True(t, strings.HasPrefix(r.Body, "Hi Dr. Rivera,\n\n"))
	assert.Contains(t, r.Body, "Monday, June 10, 2024 at 9:30 PM\n")
	assert.Contains(t, r.Body, "  Grief: 3/10\n")
	assert.Contains(t, r.Body, "  Hopefulness: 8/10\n")
	assert.Contains(t, r.Body, "  Anxiety: 5/10\n")
	assert.Contains(t, r.Body, "  Notes:\n    Long walk.\n    Called mum.\n")

	// Catalog order: Grief comes before Knowledge Seeking before Hopefulness.
	g := strings.Index(r.Body, "Grief:")
	k := strings.Index(r.Body, "Knowledge Seeking:")
	h := strings.Index(r.Body, "Hopefulness:")
	assert.True(t, g < k && k < h)
}

func TestFormat_NoNotes(t *testing.T) {
	e := newEntry(t, time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC), "   ", nil)
	r := Format([]entry.Entry{e}, "", catalog)

	assert.NotContains(t, r.Body, "Notes:")
	assert.True(t, strings.HasPrefix(r.Body, "Hi,\n\n"))
}

func TestFormat_LateNightNotesLogicalDay(t *testing.T) {
	e := newEntry(t, time.Date(2024, time.June, 11, 2, 0, 0, 0, time.UTC), "", nil)
	r := Format([]entry.Entry{e}, "", catalog)

	assert.Contains(t, r.Body, "Tuesday, June 11, 2024 at 2:00 AM (counted toward Monday, June 10, 2024)")
	assert.Contains(t, r.Subject, "(Jun 10, 2024)")
}

func TestFormat_SubjectRange(t *testing.T) {
	a := newEntry(t, time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC), "", nil)
	b := newEntry(t, time.Date(2024, time.June, 19, 9, 0, 0, 0, time.UTC), "", nil)

	r := Format([]entry.Entry{b, a}, "", catalog)
	assert.Equal(t, "Mood diary: last 2 entries (Jun 1, 2024 - Jun 19, 2024)", r.Subject)
}

func TestFormat_LegacyEntry(t *testing.T) {
	e := entry.Entry{
		ID:      "legacy",
		Date:    entry.MustParseDay("2024-06-10"),
		Ratings: entry.Ratings{"Grief": 4, "Boredom": 2},
	}
	r := Format([]entry.Entry{e}, "", catalog)

	assert.Contains(t, r.Body, "\nMonday, June 10, 2024\n")
	assert.Contains(t, r.Body, "  Grief: 4/10\n  Boredom: 2/10\n")
}

func TestFormat_Empty(t *testing.T) {
	r := Format(nil, "", catalog)
	assert.Equal(t, "Mood diary: last 0 entries", r.Subject)
}

func TestMailtoURI(t *testing.T) {
	r := Report{Subject: "Mood diary: last 2 entries", Body: "Hi,\n\nGrief: 3/10 & more+"}

	uri := MailtoURI("therapist@example.com", r)
	require.True(t, strings.HasPrefix(uri, "mailto:therapist@example.com?subject="))
	assert.NotContains(t, uri, "+")
	assert.NotContains(t, uri, " ")
	assert.Contains(t, uri, "Mood%20diary")
	assert.Contains(t, uri, "%0D%0A")

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, r.Subject, q.Get("subject"))
	assert.Equal(t, "Hi,\r\n\r\nGrief: 3/10 & more+", q.Get("body"))
}

func TestMailtoURI_NoRecipient(t *testing.T) {
	uri := MailtoURI("", Report{Subject: "s", Body: "b"})
	assert.Equal(t, "mailto:?subject=s&body=b", uri)
}
