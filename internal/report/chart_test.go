package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/track"
)

func TestWriteRendersSeries(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	hr1, hr2 := 120, 150
	ele := 12.5
	segs := []plan.Segment{
		{
			Note:  "Swim",
			Sport: "Swimming",
			Start: start,
			Stop:  start.Add(time.Minute),
			Points: []track.Point{
				{Time: start, HeartRate: &hr1, Ele: &ele},
				{Time: start.Add(30 * time.Second), HeartRate: &hr2},
				{Time: start.Add(time.Minute)},
			},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, segs, "Race day"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Race day", "Heart rate (bpm)", "Elevation (m)", "mean HR 135 bpm"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteWithoutHeartRate(t *testing.T) {
	start := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	segs := []plan.Segment{
		{
			Note:   "Run",
			Sport:  "Running",
			Start:  start,
			Stop:   start.Add(time.Minute),
			Points: []track.Point{{Time: start}, {Time: start.Add(time.Minute)}},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, segs, "No sensors"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "no heart-rate data") {
		t.Error("report should note the absence of heart-rate data")
	}
}
