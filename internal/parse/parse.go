// Package parse reads GPX and TCX recordings into track points.
//
// Parsing is all-or-nothing per file: malformed input fails the whole
// file and never yields a partial point list. How a failed file is
// treated within a batch (typically downgraded to an ignored leg) is the
// caller's policy, not this package's.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/trimerge/internal/track"
)

// ErrUnsupportedFormat marks files this package cannot read, either
// because of an unrecognized suffix or unparsable markup.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Parse converts one recording into its ordered point sequence,
// dispatching on the lowercased file-name suffix. Points are returned in
// document order; no sorting is performed.
func Parse(name string, data []byte) ([]track.Point, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gpx"):
		return parseGPX(name, data)
	case strings.HasSuffix(lower, ".tcx"):
		return parseTCX(name, data)
	}
	return nil, fmt.Errorf("%w: unrecognized suffix on %q", ErrUnsupportedFormat, name)
}

// GuessRole maps a file name onto the session role it most likely plays.
// Unrecognized names map to RoleIgnore.
func GuessRole(name string) track.Role {
	low := strings.ToLower(name)
	switch {
	case strings.Contains(low, "swim"):
		return track.RoleSwim
	case strings.Contains(low, "bike"), strings.Contains(low, "ride"), strings.Contains(low, "cycle"):
		return track.RoleBike
	case strings.Contains(low, "run"):
		return track.RoleRun
	case strings.Contains(low, "t1"), strings.Contains(low, "t2"), strings.Contains(low, "trans"):
		return track.RoleTransition
	}
	return track.RoleIgnore
}

// optionalFloat parses a decimal field. Empty text is "absent", never zero.
func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// optionalInt parses an integer field. Empty text is "absent", never zero.
func optionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// optionalTime parses an RFC3339 timestamp. A missing or malformed value
// yields the zero time; the point is still emitted and downstream
// consumers decide what to do with it.
func optionalTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
