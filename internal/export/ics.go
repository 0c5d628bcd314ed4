package export

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"spotwatch/internal/booking"
)

// defaultClassDuration is used when an event's duration_time cannot be
// interpreted.
const defaultClassDuration = time.Hour

// Calendar renders a pipeline result as an iCalendar: one VEVENT per
// surviving class, with the number of open spots in the summary. The
// result can be written to disk and subscribed to from a calendar app.
func Calendar(res *booking.Result) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//spotwatch//availability//EN")

	spotsByToken := make(map[string][]booking.AvailableSpot)
	for _, spot := range res.Spots {
		if spot.Token == nil {
			continue
		}
		spotsByToken[*spot.Token] = append(spotsByToken[*spot.Token], spot)
	}

	for _, event := range res.Events {
		spots := spotsByToken[event.Token]

		name := "Class"
		duration := defaultClassDuration
		if len(spots) > 0 {
			if spots[0].EventName != nil && *spots[0].EventName != "" {
				name = *spots[0].EventName
			}
			if spots[0].DurationTime != nil {
				duration = parseDuration(*spots[0].DurationTime)
			}
		}

		ve := cal.AddEvent(event.Token)
		ve.SetDtStampTime(res.FinishedAt)
		ve.SetStartAt(event.StartTime)
		ve.SetEndAt(event.StartTime.Add(duration))
		ve.SetSummary(fmt.Sprintf("%s (%d open spots)", name, len(spots)))

		if len(spots) > 0 {
			codes := make([]string, 0, len(spots))
			for _, spot := range spots {
				if spot.SpotCode != nil {
					codes = append(codes, *spot.SpotCode)
				}
			}
			if len(codes) > 0 {
				ve.SetDescription("Open bikes: " + strings.Join(codes, ", "))
			}
		}
	}

	return cal
}

// WriteFile serializes the calendar for res into path.
func WriteFile(path string, res *booking.Result) error {
	cal := Calendar(res)
	return os.WriteFile(path, []byte(cal.Serialize()), 0o644)
}

// parseDuration interprets the API's display duration. Known shapes
// are plain minutes ("45"), "HH:MM" and "HH:MM:SS"; anything else
// falls back to one hour.
func parseDuration(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultClassDuration
	}

	if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}

	parts := strings.Split(v, ":")
	if len(parts) == 2 || len(parts) == 3 {
		nums := make([]int, len(parts))
		for i, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return defaultClassDuration
			}
			nums[i] = n
		}
		d := time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute
		if len(nums) == 3 {
			d += time.Duration(nums[2]) * time.Second
		}
		if d > 0 {
			return d
		}
	}

	return defaultClassDuration
}
