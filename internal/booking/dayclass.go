package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/br"
	"github.com/rickar/cal/v2/us"
)

// DayKind classifies the calendar day an event falls on.
type DayKind string

const (
	DayHoliday DayKind = "holiday"
	DayWeekend DayKind = "weekend"
	DayWeekday DayKind = "weekday"
)

// DayClassifier resolves the day kind for a timestamp using a
// country-specific holiday calendar. Holiday wins over weekend when a
// holiday falls on a Saturday or Sunday.
type DayClassifier struct {
	calendar *cal.Calendar
}

// NewDayClassifier builds a classifier for the given ISO 3166-1
// alpha-2 country code. An empty code defaults to "BR".
func NewDayClassifier(country string) (*DayClassifier, error) {
	c := &cal.Calendar{Name: country, Cacheable: true}

	switch strings.ToUpper(country) {
	case "", "BR":
		c.AddHoliday(br.Holidays...)
	case "US":
		c.AddHoliday(us.Holidays...)
	default:
		return nil, fmt.Errorf("unsupported holiday country code %q", country)
	}

	return &DayClassifier{calendar: c}, nil
}

// Classify returns the day kind for t's calendar date in t's own
// location.
func (d *DayClassifier) Classify(t time.Time) DayKind {
	if actual, _, _ := d.calendar.IsHoliday(t); actual {
		return DayHoliday
	}

	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return DayWeekend
	}
	return DayWeekday
}
