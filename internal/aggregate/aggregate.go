// Package aggregate builds read-time views over stored entries: week buckets
// and the "last N entries" selection used for reports.
package aggregate

import (
	"math"
	"slices"

	"github.com/hpungsan/moodlog/internal/entry"
)

// WeekBucket groups the entries of one Monday-to-Sunday week.
type WeekBucket struct {
	WeekStart entry.Day     `json:"week_start"`
	WeekEnd   entry.Day     `json:"week_end"`
	Entries   []entry.Entry `json:"entries"`
}

// GroupByWeek partitions entries by the week of their logical date.
// Buckets are newest week first; entries within a bucket are newest first,
// independent of the input order. The input slice is not modified.
func GroupByWeek(entries []entry.Entry) []WeekBucket {
	byWeek := make(map[entry.Day]*WeekBucket)
	for _, e := range entries {
		start := entry.WeekStartOf(e.Date)
		b, ok := byWeek[start]
		if !ok {
			b = &WeekBucket{WeekStart: start, WeekEnd: start.AddDays(6)}
			byWeek[start] = b
		}
		b.Entries = append(b.Entries, e)
	}

	buckets := make([]WeekBucket, 0, len(byWeek))
	for _, b := range byWeek {
		entry.SortNewestFirst(b.Entries)
		buckets = append(buckets, *b)
	}
	slices.SortFunc(buckets, func(a, b WeekBucket) int {
		switch {
		case a.WeekStart.After(b.WeekStart):
			return -1
		case a.WeekStart.Before(b.WeekStart):
			return 1
		}
		return 0
	})
	return buckets
}

// SelectRecent returns the first n entries of a newest-first list: the n
// most recently created entries. It is not a calendar window; a user who
// logs sporadically gets entries spanning more than a week.
func SelectRecent(entries []entry.Entry, n int) []entry.Entry {
	if n <= 0 || len(entries) == 0 {
		return []entry.Entry{}
	}
	n = min(n, len(entries))
	out := make([]entry.Entry, n)
	copy(out, entries[:n])
	return out
}

// EmotionAverage is the mean rating of one emotion over a set of entries.
type EmotionAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Averages computes per-emotion means in the order of names, rounded to one
// decimal. Entries lacking a rating for a name do not count toward it.
func Averages(entries []entry.Entry, names []string) []EmotionAverage {
	out := make([]EmotionAverage, 0, len(names))
	for _, name := range names {
		sum, count := 0, 0
		for _, e := range entries {
			if v, ok := e.Ratings[name]; ok {
				sum += v
				count++
			}
		}
		avg := 0.0
		if count > 0 {
			avg = math.Round(float64(sum)/float64(count)*10) / 10
		}
		out = append(out, EmotionAverage{Name: name, Average: avg, Count: count})
	}
	return out
}
