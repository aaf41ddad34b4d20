package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/moodlog/internal/entry"
	"github.com/hpungsan/moodlog/internal/errors"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string `validate:"required"`
}

// Get returns one stored entry by id.
func Get(ctx context.Context, deps Deps, input GetInput) (*entry.Entry, error) {
	input.ID = strings.TrimSpace(input.ID)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	for _, e := range deps.Store.ListAll(ctx) {
		if e.ID == input.ID {
			return &e, nil
		}
	}
	return nil, errors.NewNotFound(input.ID)
}
