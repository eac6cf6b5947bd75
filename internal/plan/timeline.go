package plan

import (
	"time"

	"github.com/banshee-data/trimerge/internal/track"
)

// Segment is one resolved entry of the output timeline, in emission
// order. The TCX writer and the summary formatter both consume the same
// walk, so the preview and the produced document agree on every
// timestamp by construction.
type Segment struct {
	// Note is the lap label written into the document ("Swim",
	// "Transition T1", ...).
	Note string
	// Display is the summary-line label ("Swim", "T1 (file)",
	// "T1 (inferred)", ...).
	Display string
	Sport   string
	Start   time.Time
	Stop    time.Time
	Points  []track.Point
	// Count is the source sample count shown in summaries; synthetic
	// brackets report zero.
	Count int
	// Synthetic marks an inferred transition, represented by a two-point
	// bracket with no recorded samples between.
	Synthetic bool
}

// Timeline resolves the plan into its emitted segment sequence
// (swim → [T1] → bike → [T2] → run). In verbatim mode every leg keeps
// its original wall-clock timestamps. In compact mode a cursor starts at
// the swim's original start and each leg is rebased onto it back to
// back, with inferred transitions advancing the cursor by their duration.
func Timeline(p *Plan, compact bool) []Segment {
	if compact {
		return compactTimeline(p)
	}
	return verbatimTimeline(p)
}

func verbatimTimeline(p *Plan) []Segment {
	segs := make([]Segment, 0, 5)
	segs = append(segs, legSegment(p.Swim, "Swim", "Swim"))

	if p.T1File != nil {
		segs = append(segs, legSegment(*p.T1File, "Transition T1", "T1 (file)"))
	} else if p.T1Inferred != nil {
		segs = append(segs, bracketSegment("Transition T1", "T1 (inferred)", p.Swim.Stop, *p.T1Inferred))
	}

	segs = append(segs, legSegment(p.Bike, "Bike", "Bike"))

	if p.T2File != nil {
		segs = append(segs, legSegment(*p.T2File, "Transition T2", "T2 (file)"))
	} else if p.T2Inferred != nil {
		segs = append(segs, bracketSegment("Transition T2", "T2 (inferred)", p.Bike.Stop, *p.T2Inferred))
	}

	segs = append(segs, legSegment(p.Run, "Run", "Run"))
	return segs
}

func compactTimeline(p *Plan) []Segment {
	segs := make([]Segment, 0, 5)
	cursor := p.Swim.Start

	seg := rebasedSegment(p.Swim, "Swim", "Swim", cursor)
	segs = append(segs, seg)
	cursor = seg.Stop

	if p.T1File != nil {
		seg = rebasedSegment(*p.T1File, "Transition T1", "T1 (file)", cursor)
		segs = append(segs, seg)
		cursor = seg.Stop
	} else if p.T1Inferred != nil {
		seg = bracketSegment("Transition T1", "T1 (inferred)", cursor, *p.T1Inferred)
		segs = append(segs, seg)
		cursor = seg.Stop
	}

	seg = rebasedSegment(p.Bike, "Bike", "Bike", cursor)
	segs = append(segs, seg)
	cursor = seg.Stop

	if p.T2File != nil {
		seg = rebasedSegment(*p.T2File, "Transition T2", "T2 (file)", cursor)
		segs = append(segs, seg)
		cursor = seg.Stop
	} else if p.T2Inferred != nil {
		seg = bracketSegment("Transition T2", "T2 (inferred)", cursor, *p.T2Inferred)
		segs = append(segs, seg)
		cursor = seg.Stop
	}

	segs = append(segs, rebasedSegment(p.Run, "Run", "Run", cursor))
	return segs
}

func legSegment(l track.Leg, note, display string) Segment {
	return Segment{
		Note:    note,
		Display: display,
		Sport:   l.Role.Sport(),
		Start:   l.Start,
		Stop:    l.Stop,
		Points:  l.Points,
		Count:   l.Count,
	}
}

func rebasedSegment(l track.Leg, note, display string, at time.Time) Segment {
	points, start, stop := track.Rebase(l.Points, at)
	return Segment{
		Note:    note,
		Display: display,
		Sport:   l.Role.Sport(),
		Start:   start,
		Stop:    stop,
		Points:  points,
		Count:   l.Count,
	}
}

// bracketSegment builds the synthetic two-point transition covering
// [start, start+d] with no intermediate samples.
func bracketSegment(note, display string, start time.Time, d time.Duration) Segment {
	stop := start.Add(d)
	return Segment{
		Note:      note,
		Display:   display,
		Sport:     track.RoleTransition.Sport(),
		Start:     start,
		Stop:      stop,
		Points:    []track.Point{{Time: start}, {Time: stop}},
		Synthetic: true,
	}
}
