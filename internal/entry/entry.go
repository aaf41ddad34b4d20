package entry

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Ratings maps emotion name to an intensity in [MinRating, MaxRating].
type Ratings map[string]int

// UnmarshalJSON accepts both integer and string values ("7"), since older
// payloads stored slider values as strings.
func (r *Ratings) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Ratings, len(raw))
	for name, v := range raw {
		var n int
		if err := json.Unmarshal(v, &n); err == nil {
			out[name] = n
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("rating for %q: expected integer or string, got %s", name, v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("rating for %q: %q is not an integer", name, s)
		}
		out[name] = n
	}
	*r = out
	return nil
}

// Entry is one submitted diary record. Entries are never modified after creation.
type Entry struct {
	// ID is a ULID derived from the creation timestamp
	ID string `json:"id"`

	// CreatedAt is the real creation time
	CreatedAt time.Time `json:"created_at"`

	// Date is the logical day the entry is attributed to (see LogicalDateOf)
	Date Day `json:"date"`

	// Ratings holds one value per configured emotion
	Ratings Ratings `json:"emotions"`

	// Notes is optional free text
	Notes string `json:"notes"`
}

// UnmarshalJSON accepts "logicalDate" as an alias for "date" and recovers
// CreatedAt from a timestamp-shaped id when created_at is absent.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          string     `json:"id"`
		CreatedAt   *time.Time `json:"created_at"`
		Date        *Day       `json:"date"`
		LogicalDate *Day       `json:"logicalDate"`
		Ratings     Ratings    `json:"emotions"`
		Notes       string     `json:"notes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = Entry{ID: raw.ID, Ratings: raw.Ratings, Notes: raw.Notes}
	switch {
	case raw.Date != nil:
		e.Date = *raw.Date
	case raw.LogicalDate != nil:
		e.Date = *raw.LogicalDate
	}
	if raw.CreatedAt != nil {
		e.CreatedAt = *raw.CreatedAt
	} else if t, err := time.Parse(time.RFC3339, raw.ID); err == nil {
		e.CreatedAt = t
	}
	return nil
}

// New creates an entry at time now, attributing it to a logical day with the
// given boundary hour. Ratings are used as given; call Validate before storing.
func New(now time.Time, boundaryHour int, ratings Ratings, notes string) (Entry, error) {
	id, err := NewID(now)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:        id,
		CreatedAt: now,
		Date:      LogicalDateOf(now, boundaryHour),
		Ratings:   ratings,
		Notes:     notes,
	}, nil
}

// NewID generates a ULID for time t. IDs generated within the same
// millisecond are strictly increasing.
func NewID(t time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(t), ulid.DefaultEntropy())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// IsID reports whether s is a well-formed entry id.
func IsID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// Validate checks the invariants of a stored entry against the catalog:
// a well-formed id, a logical date, and exactly one in-range rating per emotion.
func Validate(e Entry, c Catalog) error {
	if !IsID(e.ID) {
		return fmt.Errorf("invalid id %q", e.ID)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if len(e.Ratings) != c.Len() {
		return fmt.Errorf("expected %d ratings, got %d", c.Len(), len(e.Ratings))
	}
	for _, name := range c.Names() {
		v, ok := e.Ratings[name]
		if !ok {
			return fmt.Errorf("missing rating for %q", name)
		}
		if v < MinRating || v > MaxRating {
			return fmt.Errorf("rating for %q must be between %d and %d, got %d", name, MinRating, MaxRating, v)
		}
	}
	return nil
}

// CreationTime is the instant used to order entries: CreatedAt, or noon
// local time of Date for records that carry neither created_at nor a
// timestamp id.
func (e Entry) CreationTime() time.Time {
	if !e.CreatedAt.IsZero() || e.Date.IsZero() {
		return e.CreatedAt
	}
	return e.Date.In(time.Local).Add(12 * time.Hour)
}

// compareCreation orders by creation time, then by id.
func compareCreation(a, b Entry) int {
	if c := a.CreationTime().Compare(b.CreationTime()); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// SortNewestFirst sorts entries by creation time, most recent first, in place.
func SortNewestFirst(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return compareCreation(b, a)
	})
}

// SortOldestFirst sorts entries by creation time, oldest first, in place.
func SortOldestFirst(entries []Entry) {
	slices.SortStableFunc(entries, compareCreation)
}
