package entry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogicalDateOf_Boundary(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*60*60)
	own := NewDay(2024, time.June, 11)
	prev := NewDay(2024, time.June, 10)

	for hour := 0; hour < 24; hour++ {
		ts := time.Date(2024, time.June, 11, hour, 30, 0, 0, loc)
		got := LogicalDateOf(ts, DefaultDayBoundaryHour)
		if hour < 5 {
			assert.Equal(t, prev, got, "hour %d should count toward the previous day", hour)
		} else {
			assert.Equal(t, own, got, "hour %d should count toward its own day", hour)
		}
	}
}

func TestLogicalDateOf_TwoAM(t *testing.T) {
	ts := time.Date(2024, time.June, 11, 2, 0, 0, 0, time.Local)
	require.Equal(t, "2024-06-10", LogicalDateOf(ts, DefaultDayBoundaryHour).String())
}

func TestLogicalDateOf_UsesTimestampLocation(t *testing.T) {
	// 2024-06-11T03:00Z is 2024-06-11T08:00 in UTC+5, past the boundary there.
	utc := time.Date(2024, time.June, 11, 3, 0, 0, 0, time.UTC)
	plus5 := utc.In(time.FixedZone("UTC+5", 5*60*60))

	assert.Equal(t, "2024-06-10", LogicalDateOf(utc, 5).String())
	assert.Equal(t, "2024-06-11", LogicalDateOf(plus5, 5).String())
}

func TestLogicalDateOf_CrossesMonthAndYear(t *testing.T) {
	ts := time.Date(2025, time.January, 1, 4, 59, 59, 0, time.UTC)
	assert.Equal(t, "2024-12-31", LogicalDateOf(ts, 5).String())

	ts = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", LogicalDateOf(ts, 5).String())
}

func TestLogicalDateOf_ZeroBoundary(t *testing.T) {
	ts := time.Date(2024, time.June, 11, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-11", LogicalDateOf(ts, 0).String())
}

func TestWeekStartOf_AlwaysMondayAndContainsDay(t *testing.T) {
	d := NewDay(2023, time.January, 1)
	for i := 0; i < 800; i++ {
		start := WeekStartOf(d)
		require.Equal(t, time.Monday, start.Weekday(), "WeekStartOf(%s)", d)
		require.False(t, d.Before(start), "%s before its week start %s", d, start)
		require.False(t, d.After(start.AddDays(6)), "%s after its week end %s", d, start.AddDays(6))
		d = d.AddDays(1)
	}
}

func TestWeekStartOf_Cases(t *testing.T) {
	tests := []struct {
		day  string
		want string
	}{
		{"2024-06-10", "2024-06-10"}, // Monday
		{"2024-06-12", "2024-06-10"}, // Wednesday
		{"2024-06-16", "2024-06-10"}, // Sunday
		{"2024-06-17", "2024-06-17"}, // next Monday
		{"2023-12-31", "2023-12-25"}, // Sunday across year end
		{"2025-01-01", "2024-12-30"}, // Wednesday, week starts in prior year
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStartOf(MustParseDay(tt.day)).String())
		})
	}
}

func TestDay_StringSortsChronologically(t *testing.T) {
	a := NewDay(2024, time.September, 30).String()
	b := NewDay(2024, time.October, 1).String()
	c := NewDay(2025, time.January, 9).String()

	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, "2024-09-30", a)
}

func TestDay_Parse(t *testing.T) {
	d, err := ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, NewDay(2024, time.February, 29), d)

	_, err = ParseDay("2023-02-29")
	assert.Error(t, err)

	_, err = ParseDay("06/10/2024")
	assert.Error(t, err)
}

func TestDay_ZeroValue(t *testing.T) {
	var d Day
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestDay_JSON(t *testing.T) {
	type wrapper struct {
		Day Day `json:"day"`
	}

	b, err := json.Marshal(wrapper{Day: NewDay(2024, time.June, 10)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-06-10"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-06-16"}`), &w))
	assert.Equal(t, time.Sunday, w.Day.Weekday())

	assert.Error(t, json.Unmarshal([]byte(`{"day":"yesterday"}`), &w))
}

func TestDay_In(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	got := NewDay(2024, time.June, 10).In(loc)

	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, loc), got)
}

func TestDay_Comparable(t *testing.T) {
	m := map[Day]int{}
	m[MustParseDay("2024-06-10")]++
	m[NewDay(2024, time.June, 10)]++
	m[DayOf(time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC))]++

	assert.Len(t, m, 1)
	assert.Equal(t, 3, m[NewDay(2024, time.June, 10)])
}
