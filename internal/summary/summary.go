// Package summary renders a deterministic text preview of a merge plan.
// It walks the same timeline as the TCX writer, so the previewed
// timestamps are exactly the ones the document will carry.
package summary

import (
	"fmt"

	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/track"
)

// Lines renders one line per timeline entry under the given timing mode:
// label, start, stop, elapsed duration, and the sample count for
// recorded legs.
func Lines(p *plan.Plan, compact bool) []string {
	segs := plan.Timeline(p, compact)
	lines := make([]string, 0, len(segs))
	for _, seg := range segs {
		suffix := ""
		if !seg.Synthetic {
			suffix = fmt.Sprintf("  %d trackpoints", seg.Count)
		}
		lines = append(lines, fmt.Sprintf("%-13s %s → %s  [%s]%s",
			seg.Display,
			track.FormatClock(seg.Start),
			track.FormatClock(seg.Stop),
			track.FormatDuration(seg.Stop.Sub(seg.Start)),
			suffix,
		))
	}
	return lines
}
