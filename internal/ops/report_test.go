package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/moodlog/internal/errors"
)

func TestReport_EmptySelection(t *testing.T) {
	deps, _, _ := newTestDeps(t)

	_, err := Report(context.Background(), deps, ReportInput{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptySelection))
	assert.Equal(t, "no entries found", errors.As(err).Message)
}

func TestReport_LastSevenOldestFirst(t *testing.T) {
	deps, _, clock := newTestDeps(t)
	deps.Config.ReportRecipient = "therapist@example.com"
	deps.Config.ReportRecipientLabel = "Dr. Rivera"

	for _, ts := range []string{
		"2024-06-01T20:00", "2024-06-02T20:00", "2024-06-03T20:00", "2024-06-04T20:00", "2024-06-05T20:00",
		"2024-06-06T20:00", "2024-06-07T20:00", "2024-06-08T20:00", "2024-06-09T20:00", "2024-06-10T20:00",
	} {
		saveAt(t, deps, clock, ts, nil)
	}

	out, err := Report(context.Background(), deps, ReportInput{})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Count)
	assert.Equal(t, "therapist@example.com", out.Recipient)
	assert.Equal(t, "Mood diary: last 7 entries (Jun 4, 2024 - Jun 10, 2024)", out.Subject)
	assert.True(t, strings.HasPrefix(out.Body, "Hi Dr. Rivera,"))

	first := strings.Index(out.Body, "Tuesday, June 4, 2024")
	last := strings.Index(out.Body, "Monday, June 10, 2024")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, last, first)
	assert.NotContains(t, out.Body, "June 3, 2024")

	assert.True(t, strings.HasPrefix(out.MailtoURI, "mailto:therapist@example.com?subject=Mood%20diary"))
}

func TestReport_Overrides(t *testing.T) {
	deps, _, clock := newTestDeps(t)
	saveAt(t, deps, clock, "2024-06-09T20:00", nil)
	saveAt(t, deps, clock, "2024-06-10T20:00", nil)

	out, err := Report(context.Background(), deps, ReportInput{
		Count:          1,
		Recipient:      "friend@example.com",
		RecipientLabel: "Sam",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "friend@example.com", out.Recipient)
	assert.True(t, strings.HasPrefix(out.Body, "Hi Sam,"))
	assert.Contains(t, out.Subject, "last 1 entry")
}

func TestReport_NoRecipient(t *testing.T) {
	deps, _, clock := newTestDeps(t)
	saveAt(t, deps, clock, "2024-06-10T20:00", nil)

	out, err := Report(context.Background(), deps, ReportInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Recipient)
	assert.True(t, strings.HasPrefix(out.MailtoURI, "mailto:?subject="))
}

func TestReport_InvalidRecipient(t *testing.T) {
	deps, _, clock := newTestDeps(t)
	saveAt(t, deps, clock, "2024-06-10T20:00", nil)

	_, err := Report(context.Background(), deps, ReportInput{Recipient: "not an email"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
