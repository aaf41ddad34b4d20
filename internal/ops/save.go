package ops

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
)

// MaxNotesChars bounds the free-text notes of one entry.
const MaxNotesChars = 10000

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	// Ratings maps emotion name to a value in [1,10]. Names are matched
	// ignoring case; omitted emotions get the default rating.
	Ratings map[string]int

	Notes string `validate:"max=10000"`
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Date      entry.Day     `json:"date"`
	Ratings   entry.Ratings `json:"emotions"`
	Notes     string        `json:"notes,omitempty"`
}

// Save creates a new entry stamped with the current time and appends it.
// Saving twice creates two entries; nothing is ever overwritten.
func Save(ctx context.Context, deps Deps, input SaveInput) (*SaveOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ratings, err := deps.catalog().Resolve(input.Ratings)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	notes := strings.TrimRight(input.Notes, " \t\r\n")
	e, err := entry.New(deps.now(), deps.cfg().BoundaryHour(), ratings, notes)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := deps.Store.Append(ctx, e); err != nil {
		return nil, err
	}
	deps.log().Info("entry saved", zap.String("id", e.ID), zap.Stringer("date", e.Date))

	return &SaveOutput{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		Date:      e.Date,
		Ratings:   e.Ratings,
		Notes:     e.Notes,
	}, nil
}
