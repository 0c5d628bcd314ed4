package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassifier(t *testing.T) *DayClassifier {
	t.Helper()
	classifier, err := NewDayClassifier("BR")
	require.NoError(t, err)
	return classifier
}

func strPtr(s string) *string { return &s }

func TestFilterEventsExcludesOtherInstructors(t *testing.T) {
	entries := []RawScheduleEntry{
		{Instructor: 999, StartTime: "2025-11-16T10:00:00-03:00", Token: "other"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFilterEventsExcludesClosedEntries(t *testing.T) {
	entries := []RawScheduleEntry{
		// Sunday morning: would pass every other check.
		{Instructor: 525, ClosedAt: strPtr("2025-11-10T08:00:00-03:00"), StartTime: "2025-11-16T10:00:00-03:00", Token: "closed"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFilterEventsWeekdayEveningCutoff(t *testing.T) {
	// 2025-11-14 is a Friday and not a Brazilian holiday.
	tests := []struct {
		name     string
		start    string
		included bool
	}{
		{"exactly 19:00 excluded", "2025-11-14T19:00:00-03:00", false},
		{"one second past 19:00 included", "2025-11-14T19:00:01-03:00", true},
		{"evening class included", "2025-11-14T19:30:00-03:00", true},
		{"afternoon class excluded", "2025-11-14T15:00:00-03:00", false},
	}

	classifier := mustClassifier(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []RawScheduleEntry{
				{Instructor: 525, StartTime: tt.start, Token: "abc"},
			}

			events, err := FilterEvents(entries, 525, classifier)
			require.NoError(t, err)

			if tt.included {
				require.Len(t, events, 1)
				assert.Equal(t, "abc", events[0].Token)
			} else {
				assert.Empty(t, events)
			}
		})
	}
}

func TestFilterEventsWeekendIgnoresCutoff(t *testing.T) {
	// 2025-11-22 and 2025-11-23 are a plain Saturday and Sunday;
	// morning starts must survive.
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "2025-11-22T10:00:00-03:00", Token: "sat"},
		{Instructor: 525, StartTime: "2025-11-23T08:00:00-03:00", Token: "sun"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "sat", events[0].Token)
	assert.Equal(t, "sun", events[1].Token)
}

func TestFilterEventsHolidayIgnoresCutoff(t *testing.T) {
	// Christmas 2025 falls on a Thursday; a morning class survives only
	// because the holiday check bypasses the weekday rule.
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "2025-12-25T10:00:00-03:00", Token: "xmas"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "xmas", events[0].Token)
}

func TestFilterEventsSkipsMissingStartTime(t *testing.T) {
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "", Token: "no-start"},
		{Instructor: 525, StartTime: "2025-11-16T10:00:00-03:00", Token: "keep"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "keep", events[0].Token)
}

func TestFilterEventsRejectsMalformedStartTime(t *testing.T) {
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "not-a-date", Token: "bad"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.Error(t, err)
	assert.Nil(t, events)

	var stErr *StartTimeError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, "bad", stErr.Token)
	assert.Equal(t, "not-a-date", stErr.Value)
	assert.NotNil(t, errors.Unwrap(stErr))
}

func TestFilterEventsPreservesInputOrder(t *testing.T) {
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "2025-11-16T10:00:00-03:00", Token: "first"},
		{Instructor: 999, StartTime: "2025-11-16T11:00:00-03:00", Token: "dropped"},
		{Instructor: 525, StartTime: "2025-11-14T20:00:00-03:00", Token: "second"},
		{Instructor: 525, StartTime: "2025-11-15T09:00:00-03:00", Token: "third"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)

	tokens := make([]string, 0, len(events))
	for _, event := range events {
		tokens = append(tokens, event.Token)
	}
	assert.Equal(t, []string{"first", "second", "third"}, tokens)
}

func TestFilterEventsKeepsStartTimeOffset(t *testing.T) {
	entries := []RawScheduleEntry{
		{Instructor: 525, StartTime: "2025-11-14T19:30:00-03:00", Token: "abc"},
	}

	events, err := FilterEvents(entries, 525, mustClassifier(t))
	require.NoError(t, err)
	require.Len(t, events, 1)

	want := time.Date(2025, time.November, 14, 19, 30, 0, 0, time.FixedZone("", -3*60*60))
	assert.True(t, events[0].StartTime.Equal(want))
	_, offset := events[0].StartTime.Zone()
	assert.Equal(t, -3*60*60, offset)
}
