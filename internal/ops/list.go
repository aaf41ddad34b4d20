package ops

import (
	"context"

	"github.com/hpungsan/moodlog/internal/entry"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default 20, max 100
	Offset int
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Entries    []entry.Entry `json:"entries"`
	Pagination Pagination    `json:"pagination"`
}

// List returns stored entries, newest first.
func List(ctx context.Context, deps Deps, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)

	all := deps.Store.ListAll(ctx)
	page, pagination := paginate(all, limit, input.Offset)

	return &ListOutput{
		Entries:    page,
		Pagination: pagination,
	}, nil
}
