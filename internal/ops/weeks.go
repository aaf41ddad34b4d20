package ops

import (
	"context"

	"github.com/hpungsan/moodlog/internal/aggregate"
)

// WeeksInput contains parameters for the Weeks operation.
type WeeksInput struct {
	Limit  int // weeks per page, default 8, max 104
	Offset int
}

// WeekSummary is one week bucket with its per-emotion averages.
type WeekSummary struct {
	aggregate.WeekBucket
	Averages []aggregate.EmotionAverage `json:"averages"`
}

// WeeksOutput contains the result of the Weeks operation.
type WeeksOutput struct {
	Weeks      []WeekSummary `json:"weeks"`
	Pagination Pagination    `json:"pagination"`
}

// Weeks groups stored entries by Monday-start week, newest week first.
// An empty store yields no weeks.
func Weeks(ctx context.Context, deps Deps, input WeeksInput) (*WeeksOutput, error) {
	limit := clampLimit(input.Limit, DefaultWeeksLimit, MaxWeeksLimit)
	offset := max(input.Offset, 0)

	buckets := aggregate.GroupByWeek(deps.Store.ListAll(ctx))
	names := deps.catalog().Names()

	start := min(offset, len(buckets))
	end := min(start+limit, len(buckets))

	weeks := make([]WeekSummary, 0, end-start)
	for _, b := range buckets[start:end] {
		weeks = append(weeks, WeekSummary{
			WeekBucket: b,
			Averages:   aggregate.Averages(b.Entries, names),
		})
	}

	return &WeeksOutput{
		Weeks: weeks,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < len(buckets),
			Total:   len(buckets),
		},
	}, nil
}
