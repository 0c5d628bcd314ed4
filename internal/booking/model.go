package booking

import (
	"encoding/json"
	"time"
)

// RawScheduleEntry is the subset of a schedule listing record the
// pipeline cares about. Remaining API fields are ignored on decode.
type RawScheduleEntry struct {
	Instructor int     `json:"instructor"`
	ClosedAt   *string `json:"closed_at"`
	StartTime  string  `json:"start_time"`
	Token      string  `json:"token"`
}

// ScheduleEvent is a schedule entry that passed all eligibility checks.
// Token is carried forward for the detail lookup; StartTime keeps the
// UTC offset the API reported.
type ScheduleEvent struct {
	Token     string
	StartTime time.Time
}

// InstructorDetail is the instructor metadata embedded in an event
// detail payload.
type InstructorDetail struct {
	Nickname  *string `json:"nickname"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Tagline   *string `json:"tagline"`
}

// MapSpot is a single bicycle position on the class map. An empty
// Bookings list means the position is unbooked; Maintenance marks it
// withdrawn from service regardless of booking status.
type MapSpot struct {
	Code        *string           `json:"code"`
	Bookings    []json.RawMessage `json:"bookings"`
	Maintenance bool              `json:"maintenance"`
}

// EventDetail is the full payload for one event token. Top-level fields
// are pointers so missing values pass through as null instead of
// turning into empty strings.
type EventDetail struct {
	Token            *string           `json:"token"`
	Name             *string           `json:"name"`
	EventHour        *string           `json:"event_hour"`
	DurationTime     *string           `json:"duration_time"`
	InstructorDetail *InstructorDetail `json:"instructor_detail"`
	MapSpots         []MapSpot         `json:"map_spots"`
}

// AvailableSpot is the flattened output record: one per unbooked,
// non-maintenance position, with event and instructor fields
// denormalized onto it.
type AvailableSpot struct {
	Token              *string `json:"token"`
	SpotCode           *string `json:"spot_code"`
	EventName          *string `json:"event_name"`
	EventHour          *string `json:"event_hour"`
	DurationTime       *string `json:"duration_time"`
	InstructorNickname *string `json:"instructor_nickname"`
	InstructorName     string  `json:"instructor_name"`
	InstructorTagline  *string `json:"instructor_tagline"`
}
