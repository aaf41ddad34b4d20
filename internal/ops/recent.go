package ops

import (
	"context"

	"github.com/hpungsan/moodlog/internal/aggregate"
	"github.com/hpungsan/moodlog/internal/entry"
)

// RecentInput contains parameters for the Recent operation.
type RecentInput struct {
	// Count is the number of entries to select. Zero means the configured report_count.
	Count int `validate:"min=0,max=365"`
}

// RecentOutput contains the result of the Recent operation.
type RecentOutput struct {
	Entries []entry.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// Recent returns the N most recently created entries, newest first.
// This is not a calendar window: sporadic logging yields entries spanning
// more than a week.
func Recent(ctx context.Context, deps Deps, input RecentInput) (*RecentOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	selected := selectRecent(ctx, deps, input.Count)
	return &RecentOutput{Entries: selected, Count: len(selected)}, nil
}

func selectRecent(ctx context.Context, deps Deps, n int) []entry.Entry {
	if n <= 0 {
		n = deps.cfg().ReportCount
	}
	return aggregate.SelectRecent(deps.Store.ListAll(ctx), n)
}
