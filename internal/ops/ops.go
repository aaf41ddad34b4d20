package ops

import (
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/config"
	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/store"
)

// Pagination limits
const (
	DefaultListLimit  = 20
	MaxListLimit      = 100
	DefaultWeeksLimit = 8
	MaxWeeksLimit     = 104
)

// Deps carries what every operation needs.
type Deps struct {
	Store  *store.Store
	Config *config.Config

	// Now is the clock used to stamp new entries. Defaults to time.Now.
	Now func() time.Time

	Log *zap.Logger
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) cfg() *config.Config {
	if d.Config == nil {
		return config.DefaultConfig()
	}
	return d.Config
}

func (d Deps) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) catalog() entry.Catalog {
	return d.Store.Catalog()
}

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampLimit applies the default for non-positive limits and caps at max.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// paginate returns the page of entries at [offset, offset+limit).
func paginate(entries []entry.Entry, limit, offset int) ([]entry.Entry, Pagination) {
	if offset < 0 {
		offset = 0
	}
	total := len(entries)
	start := min(offset, total)
	end := min(start+limit, total)

	page := make([]entry.Entry, end-start)
	copy(page, entries[start:end])
	return page, Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
		Total:   total,
	}
}
