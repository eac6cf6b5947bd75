// Package plan resolves which recording plays which leg of a triathlon
// session and walks the resolved plan under both timing modes.
package plan

import (
	"errors"
	"time"

	"github.com/banshee-data/trimerge/internal/track"
)

// ErrMissingRequiredLeg is returned when the swim, bike, and run legs are
// not all present with a usable time window.
var ErrMissingRequiredLeg = errors.New("need swim, bike, and run legs")

// Plan is the resolved merge intent. For each transition slot at most one
// of the recording and the inferred duration is set; a slot with neither
// is simply omitted from the output.
type Plan struct {
	Swim track.Leg
	Bike track.Leg
	Run  track.Leg

	T1File *track.Leg
	T2File *track.Leg

	T1Inferred *time.Duration
	T2Inferred *time.Duration
}

// Build validates the required legs and, when inferMissing is set, fills
// transition slots without a recording from the inter-leg timing gaps.
// t1 and t2 are recordings the caller has already chosen for their slots;
// they are used verbatim and suppress inference for that slot.
func Build(swim, bike, run, t1, t2 *track.Leg, inferMissing bool) (*Plan, error) {
	if swim == nil || bike == nil || run == nil ||
		swim.Empty() || bike.Empty() || run.Empty() {
		return nil, ErrMissingRequiredLeg
	}

	p := &Plan{
		Swim:   *swim,
		Bike:   *bike,
		Run:    *run,
		T1File: t1,
		T2File: t2,
	}

	if inferMissing {
		gap1, gap2 := InferGaps(p.Swim, p.Bike, p.Run)
		if t1 == nil {
			p.T1Inferred = &gap1
		}
		if t2 == nil {
			p.T2Inferred = &gap2
		}
	}
	return p, nil
}

// InferGaps returns the swim→bike and bike→run transition durations
// derived from the leg boundaries. Overlapping or out-of-order legs clamp
// to zero; the result is never negative.
func InferGaps(swim, bike, run track.Leg) (time.Duration, time.Duration) {
	t1 := bike.Start.Sub(swim.Stop)
	if t1 < 0 {
		t1 = 0
	}
	t2 := run.Start.Sub(bike.Stop)
	if t2 < 0 {
		t2 = 0
	}
	return t1, t2
}

// Selection is the outcome of assigning roles across an ordered batch of
// legs.
type Selection struct {
	Swim *track.Leg
	Bike *track.Leg
	Run  *track.Leg
	T1   *track.Leg
	T2   *track.Leg
}

// SelectRoles picks the first usable leg per role from the ordered list.
// Ordering is the caller's contract: when several legs claim the same
// role, the earliest element wins. A transition leg qualifies for a slot
// only when its start falls inside that slot's gap window
// (swim.Stop ≤ start ≤ bike.Start for T1, bike.Stop ≤ start ≤ run.Start
// for T2).
func SelectRoles(legs []track.Leg) Selection {
	var sel Selection
	for i := range legs {
		l := &legs[i]
		if l.Empty() {
			continue
		}
		switch l.Role {
		case track.RoleSwim:
			if sel.Swim == nil {
				sel.Swim = l
			}
		case track.RoleBike:
			if sel.Bike == nil {
				sel.Bike = l
			}
		case track.RoleRun:
			if sel.Run == nil {
				sel.Run = l
			}
		}
	}

	for i := range legs {
		l := &legs[i]
		if l.Role != track.RoleTransition || l.Empty() {
			continue
		}
		if sel.T1 == nil && sel.Swim != nil && sel.Bike != nil &&
			withinWindow(l.Start, sel.Swim.Stop, sel.Bike.Start) {
			sel.T1 = l
			continue
		}
		if sel.T2 == nil && sel.Bike != nil && sel.Run != nil &&
			withinWindow(l.Start, sel.Bike.Stop, sel.Run.Start) {
			sel.T2 = l
		}
	}
	return sel
}

func withinWindow(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}
