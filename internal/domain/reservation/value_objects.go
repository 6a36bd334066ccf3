package reservation

import (
	"errors"
	"fmt"
	"time"
)

// TimeSlot is a half-open interval [start, end) in UTC.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	if !start.Before(end) {
		return TimeSlot{}, errors.New("start time must be before end time")
	}
	return TimeSlot{start: start.UTC(), end: end.UTC()}, nil
}

func (ts TimeSlot) Start() time.Time {
	return ts.start
}

func (ts TimeSlot) End() time.Time {
	return ts.end
}

func (ts TimeSlot) Duration() time.Duration {
	return ts.end.Sub(ts.start)
}

// Overlaps uses half-open semantics: back-to-back slots do not overlap.
func (ts TimeSlot) Overlaps(other TimeSlot) bool {
	return ts.start.Before(other.end) && other.start.Before(ts.end)
}

// WithinHours checks the slot against a court's daily operating hours
// [openHour, closeHour] in UTC. closeHour 24 means open until midnight.
func (ts TimeSlot) WithinHours(openHour, closeHour int) bool {
	dayStart := time.Date(ts.start.Year(), ts.start.Month(), ts.start.Day(), openHour, 0, 0, 0, time.UTC)
	dayEnd := time.Date(ts.start.Year(), ts.start.Month(), ts.start.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(closeHour) * time.Hour)
	return !ts.start.Before(dayStart) && !ts.end.After(dayEnd)
}

func (ts TimeSlot) String() string {
	return fmt.Sprintf("%s/%s", ts.start.Format(time.RFC3339), ts.end.Format(time.RFC3339))
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}
