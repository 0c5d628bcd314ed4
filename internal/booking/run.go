package booking

import (
	"context"
	"time"

	"spotwatch/internal/config"
	appLog "spotwatch/internal/log"
)

// Result is the outcome of one full pipeline run: the surviving
// events, every available spot found for them (concatenated in event
// order), and the wall-clock window of the run.
type Result struct {
	Events     []ScheduleEvent
	Spots      []AvailableSpot
	StartedAt  time.Time
	FinishedAt time.Time
}

// Elapsed returns the total wall-clock duration of the run.
func (r *Result) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Run executes the full pipeline: fetch the schedule window, filter it
// down to eligible classes, then fetch each survivor's detail and
// extract its open spots. The first failing fetch aborts the run; the
// transport handle is released on every exit path.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	client := NewClient(cfg)
	defer client.Close()

	res := &Result{
		StartedAt: time.Now(),
		Spots:     make([]AvailableSpot, 0),
	}

	raw, err := client.FetchSchedule(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	classifier, err := NewDayClassifier(cfg.Country)
	if err != nil {
		return nil, err
	}

	events, err := FilterEvents(raw, cfg.InstructorID, classifier)
	if err != nil {
		return nil, err
	}
	res.Events = events

	for _, event := range events {
		detail, err := client.FetchEventDetail(ctx, event.Token)
		if err != nil {
			return nil, err
		}
		res.Spots = append(res.Spots, ExtractAvailableSpots(detail)...)
	}

	res.FinishedAt = time.Now()

	appLog.Info("run completed",
		"raw_entries", len(raw),
		"events", len(res.Events),
		"available_spots", len(res.Spots),
		"elapsed", res.Elapsed().String(),
	)

	return res, nil
}
