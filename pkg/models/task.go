package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTime is returned when a task time is not a valid 24-hour HH:MM value
var ErrMalformedTime = errors.New("time must be HH:MM between 00:00 and 23:59")

// ClockLayout is the wall-clock format used for task and milestone times
const ClockLayout = "15:04"

// Task is a recurring weekly reminder bound to one weekday and one time
type Task struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`  // 0 = Sunday ... 6 = Saturday
	Time        string `json:"time"` // HH:MM, 24-hour
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
	CategoryID  string `json:"categoryId,omitempty"`
	SourceID    string `json:"sourceId,omitempty"` // iCal source the task was imported from
}

// Category groups tasks for display. Tasks hold a weak reference to it.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Weekday returns the task day as a time.Weekday
func (t Task) Weekday() time.Weekday {
	return time.Weekday(t.Day)
}

// DueAt returns the task's due instant on the calendar date of ref
func (t Task) DueAt(ref time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(t.Time)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// ParseClock parses an HH:MM value into hour and minute
func ParseClock(value string) (int, int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, value)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatClock formats t as HH:MM, dropping seconds
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// IsWorkday reports whether the weekday is Monday through Friday
func IsWorkday(day time.Weekday) bool {
	return day >= time.Monday && day <= time.Friday
}
