package booking

import "strings"

// ExtractAvailableSpots flattens one event detail payload into the
// unbooked, non-maintenance positions, with event and instructor
// fields denormalized onto each record. Booked or maintenance spots
// are dropped without error; output order follows the map order.
func ExtractAvailableSpots(detail *EventDetail) []AvailableSpot {
	var nickname, tagline *string
	var instructorName string

	if d := detail.InstructorDetail; d != nil {
		nickname = d.Nickname
		tagline = d.Tagline
		instructorName = joinName(d.FirstName, d.LastName)
	}

	spots := make([]AvailableSpot, 0, len(detail.MapSpots))

	for _, spot := range detail.MapSpots {
		if len(spot.Bookings) > 0 || spot.Maintenance {
			continue
		}

		spots = append(spots, AvailableSpot{
			Token:              detail.Token,
			SpotCode:           spot.Code,
			EventName:          detail.Name,
			EventHour:          detail.EventHour,
			DurationTime:       detail.DurationTime,
			InstructorNickname: nickname,
			InstructorName:     instructorName,
			InstructorTagline:  tagline,
		})
	}

	return spots
}

// joinName joins the non-empty name parts with a single space and
// trims the result.
func joinName(first, last string) string {
	parts := make([]string, 0, 2)
	if first != "" {
		parts = append(parts, first)
	}
	if last != "" {
		parts = append(parts, last)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
