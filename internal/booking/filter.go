package booking

import (
	"time"

	appLog "spotwatch/internal/log"
)

// FilterEvents reduces raw schedule entries to the events worth a
// detail lookup. An entry survives when:
//
//   - its instructor matches instructorID
//   - it has not been closed (closed_at is null)
//   - its start_time parses as a timestamp with offset
//   - on weekdays it starts strictly after 19:00 local wall clock;
//     weekend and holiday classes are never time-filtered
//
// Entries with a missing/empty start_time are skipped silently, but a
// start_time that is present and unparseable aborts the whole run with
// a *StartTimeError. Output order follows input order.
func FilterEvents(entries []RawScheduleEntry, instructorID int, classifier *DayClassifier) ([]ScheduleEvent, error) {
	events := make([]ScheduleEvent, 0, len(entries))

	for _, entry := range entries {
		if entry.Instructor != instructorID {
			continue
		}
		if entry.ClosedAt != nil {
			continue
		}
		if entry.StartTime == "" {
			// Skip malformed entries silently.
			appLog.Debug("schedule entry without start_time skipped", "token", entry.Token)
			continue
		}

		start, err := time.Parse(time.RFC3339, entry.StartTime)
		if err != nil {
			return nil, &StartTimeError{Token: entry.Token, Value: entry.StartTime, Err: err}
		}

		if classifier.Classify(start) == DayWeekday && !afterEveningCutoff(start) {
			// Only classes strictly after 19:00 on weekdays are allowed.
			continue
		}

		events = append(events, ScheduleEvent{Token: entry.Token, StartTime: start})
	}

	return events, nil
}

// afterEveningCutoff reports whether t's local wall clock is strictly
// later than 19:00:00.
func afterEveningCutoff(t time.Time) bool {
	h, m, s := t.Clock()
	if h != 19 {
		return h > 19
	}
	return m > 0 || s > 0 || t.Nanosecond() > 0
}
