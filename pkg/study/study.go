package study

import "time"

type Study struct {
	Id       int
	Uid      string
	Name     string
	Observer string
	Location string
	// Timezone is the IANA name of the observer's calendar. Daily figures are split at its midnight.
	Timezone  string
	Notes     string
	CreatedAt time.Time
}

// TimeLocation resolves Timezone, falling back to UTC for an empty or unknown zone.
func (s Study) TimeLocation() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
