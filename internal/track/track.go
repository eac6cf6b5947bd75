// Package track models GPS/heart-rate recordings as ordered point
// sequences and provides the timeline arithmetic shared by the planner,
// the summary formatter, and the TCX writer.
package track

import (
	"fmt"
	"time"
)

// Role tags what part of the session a recording plays.
type Role string

const (
	RoleSwim       Role = "swim"
	RoleBike       Role = "bike"
	RoleRun        Role = "run"
	RoleTransition Role = "transition"
	RoleIgnore     Role = "ignore"
)

// Sport returns the TCX Sport attribute for the role. Transitions map to
// "Other"; roles outside the session map to an empty string.
func (r Role) Sport() string {
	switch r {
	case RoleSwim:
		return "Swimming"
	case RoleBike:
		return "Biking"
	case RoleRun:
		return "Running"
	case RoleTransition:
		return "Other"
	}
	return ""
}

// Point is a single recorded sample. Optional fields are nil when the
// source file omitted them; a zero Time means the source point carried no
// timestamp. Points are never mutated after parsing.
type Point struct {
	Time      time.Time
	Lat       *float64
	Lon       *float64
	Ele       *float64
	HeartRate *int
	Cadence   *int
	Power     *int
}

// Leg is one role-tagged recording with its derived time window.
type Leg struct {
	Role   Role
	Name   string
	Points []Point
	Start  time.Time
	Stop   time.Time
	Count  int
}

// NewLeg derives Start, Stop, and Count from the point sequence. An empty
// sequence leaves the window zero; such a leg cannot take part in a plan.
func NewLeg(role Role, name string, points []Point) Leg {
	l := Leg{Role: role, Name: name, Points: points, Count: len(points)}
	if len(points) > 0 {
		l.Start = points[0].Time
		l.Stop = points[len(points)-1].Time
	}
	return l
}

// Empty reports whether the leg has no usable time window.
func (l Leg) Empty() bool {
	return l.Count == 0 || l.Start.IsZero()
}

// Duration is the wall-clock span of the leg.
func (l Leg) Duration() time.Duration {
	return l.Stop.Sub(l.Start)
}

// Rebase shifts every point by a constant offset so the sequence starts at
// newStart, and returns the shifted sequence with its new start and stop.
// All fields other than the timestamp are copied unchanged; the input is
// not mutated. An empty input yields (nil, newStart, newStart).
func Rebase(points []Point, newStart time.Time) ([]Point, time.Time, time.Time) {
	if len(points) == 0 {
		return nil, newStart, newStart
	}
	shift := newStart.Sub(points[0].Time)
	out := make([]Point, len(points))
	for i, p := range points {
		q := p
		q.Time = p.Time.Add(shift)
		out[i] = q
	}
	return out, out[0].Time, out[len(out)-1].Time
}

// FormatInstant renders t as a UTC RFC3339 instant with a trailing "Z",
// the form used for TCX Time fields and activity IDs.
func FormatInstant(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// ParseInstant reads an RFC3339 instant, accepting both "Z" and numeric
// offsets. The zero time and an error are returned for malformed input.
func ParseInstant(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// FormatClock renders t for human-facing summary lines.
func FormatClock(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// FormatDuration renders d as H:MM:SS when at least an hour, else M:SS.
func FormatDuration(d time.Duration) string {
	s := int(d.Round(time.Second).Seconds())
	if s < 0 {
		s = 0
	}
	h := s / 3600
	m := (s % 3600) / 60
	s = s % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
