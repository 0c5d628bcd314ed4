package notify

import (
	"fmt"
	"strings"

	"spotwatch/internal/booking"
)

// NoAvailabilityMessage is the fixed sentence sent when a run finds no
// open spots.
const NoAvailabilityMessage = "No available classes were found in the requested window."

// FormatSummary renders the spot list as a chat-friendly message: a
// header line followed by one line per spot. Missing fields fall back
// to generic labels so the message never shows empty slots.
func FormatSummary(spots []booking.AvailableSpot) string {
	if len(spots) == 0 {
		return NoAvailabilityMessage
	}

	lines := []string{"Available classes:", ""}

	for _, spot := range spots {
		name := orLabel(spot.EventName, "Class")
		hour := orLabel(spot.EventHour, "Hour not informed")
		code := orLabel(spot.SpotCode, "Code unavailable")

		instructor := orLabel(spot.InstructorNickname, "")
		if instructor == "" {
			instructor = spot.InstructorName
		}
		if instructor == "" {
			instructor = "Instructor"
		}

		parts := []string{
			fmt.Sprintf("• %s (%s)", name, hour),
			"Instructor: " + instructor,
			"Bike: " + code,
		}
		if spot.DurationTime != nil && *spot.DurationTime != "" {
			parts = append(parts, "Duration: "+*spot.DurationTime)
		}

		lines = append(lines, strings.Join(parts, " | "))
	}

	return strings.Join(lines, "\n")
}

func orLabel(v *string, label string) string {
	if v == nil || *v == "" {
		return label
	}
	return *v
}
