package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DateLayout = "2006-01-02"

	DefaultBusinessTimezone = "America/El_Salvador"
)

// BusinessCalendar resolves "today" in the stores' own time zone, since the
// business day boundary is local rather than UTC.
type BusinessCalendar struct {
	loc *time.Location
	now func() time.Time
}

func NewBusinessCalendar(tz string) (*BusinessCalendar, error) {
	if strings.TrimSpace(tz) == "" {
		tz = DefaultBusinessTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("calendar: load timezone %q: %w", tz, err)
	}

	return &BusinessCalendar{loc: loc, now: time.Now}, nil
}

// WithClock replaces the time source, for tests.
func (c *BusinessCalendar) WithClock(now func() time.Time) *BusinessCalendar {
	return &BusinessCalendar{loc: c.loc, now: now}
}

func (c *BusinessCalendar) Now() time.Time {
	return c.now()
}

func (c *BusinessCalendar) Location() *time.Location {
	return c.loc
}

// Today is the current business date as YYYY-MM-DD.
func (c *BusinessCalendar) Today() string {
	return c.now().In(c.loc).Format(DateLayout)
}

// ResolveDate returns today for an empty date, or the date itself once it
// has been checked to be a real calendar day.
func (c *BusinessCalendar) ResolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Today(), nil
	}
	if err := ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
