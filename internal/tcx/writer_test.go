package tcx

import (
	"encoding/xml"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/trimerge/internal/parse"
	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/track"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 6, 1, h, m, s, 0, time.UTC)
}

func richLeg(role track.Role, name string, start, stop time.Time, n int) track.Leg {
	points := make([]track.Point, n)
	step := stop.Sub(start) / time.Duration(n-1)
	for i := range points {
		lat := 51.5 + 0.0001*float64(i)
		lon := -0.1 - 0.0001*float64(i)
		ele := 10.0 + 0.5*float64(i)
		hr := 120 + i%40
		cad := 80 + i%10
		pwr := 200 + i%50
		points[i] = track.Point{
			Time:      start.Add(step * time.Duration(i)),
			Lat:       &lat,
			Lon:       &lon,
			Ele:       &ele,
			HeartRate: &hr,
			Cadence:   &cad,
			Power:     &pwr,
		}
	}
	points[n-1].Time = stop
	return track.NewLeg(role, name, points)
}

func racePlan(t *testing.T) *plan.Plan {
	t.Helper()
	swim := richLeg(track.RoleSwim, "swim.tcx", at(6, 0, 0), at(6, 30, 0), 30)
	bike := richLeg(track.RoleBike, "bike.gpx", at(6, 35, 0), at(8, 5, 0), 30)
	run := richLeg(track.RoleRun, "run.gpx", at(8, 10, 0), at(8, 50, 0), 30)
	p, err := plan.Build(&swim, &bike, &run, nil, nil, true)
	if err != nil {
		t.Fatalf("Build plan: %v", err)
	}
	return p
}

// skeleton decodes just enough of the document to verify structure.
type skeleton struct {
	Activities []struct {
		Sport string `xml:"Sport,attr"`
		ID    string `xml:"Id"`
		Lap   struct {
			StartTime        string `xml:"StartTime,attr"`
			TotalTimeSeconds string `xml:"TotalTimeSeconds"`
			DistanceMeters   string `xml:"DistanceMeters"`
			Intensity        string `xml:"Intensity"`
			TriggerMethod    string `xml:"TriggerMethod"`
			Notes            string `xml:"Notes"`
			Track            struct {
				Trackpoints []struct {
					Time string `xml:"Time"`
				} `xml:"Trackpoint"`
			} `xml:"Track"`
		} `xml:"Lap"`
	} `xml:"Activities>Activity"`
	First string   `xml:"Activities>MultiSportSession>FirstSport>ActivityRef>Id"`
	Next  []string `xml:"Activities>MultiSportSession>NextSport>ActivityRef>Id"`
}

func TestBuildVerbatimDocument(t *testing.T) {
	swimDist := 1500.0
	doc, err := Build(racePlan(t), false, &swimDist)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !strings.HasPrefix(string(doc), "<?xml") {
		t.Error("document missing XML header")
	}
	for _, ns := range []string{tcdbNamespace, xsiNamespace, extensionNamespace} {
		if !strings.Contains(string(doc), ns) {
			t.Errorf("document missing namespace %s", ns)
		}
	}

	var got skeleton
	if err := xml.Unmarshal(doc, &got); err != nil {
		t.Fatalf("unmarshal produced document: %v", err)
	}

	wantSports := []string{"Swimming", "Other", "Biking", "Other", "Running"}
	wantNotes := []string{"Swim", "Transition T1", "Bike", "Transition T2", "Run"}
	if len(got.Activities) != 5 {
		t.Fatalf("got %d activities, want 5", len(got.Activities))
	}
	for i, act := range got.Activities {
		if act.Sport != wantSports[i] {
			t.Errorf("activity %d sport = %q, want %q", i, act.Sport, wantSports[i])
		}
		if act.Lap.Notes != wantNotes[i] {
			t.Errorf("activity %d notes = %q, want %q", i, act.Lap.Notes, wantNotes[i])
		}
		if act.ID != act.Lap.StartTime {
			t.Errorf("activity %d ID %q != lap start %q", i, act.ID, act.Lap.StartTime)
		}
		if act.Lap.Intensity != "Active" || act.Lap.TriggerMethod != "Manual" {
			t.Errorf("activity %d fixed lap fields wrong: %+v", i, act.Lap)
		}
	}

	// Swim gets the distance override; everything else stays 0.0.
	if got.Activities[0].Lap.DistanceMeters != "1500.0" {
		t.Errorf("swim distance = %q, want 1500.0", got.Activities[0].Lap.DistanceMeters)
	}
	if got.Activities[2].Lap.DistanceMeters != "0.0" {
		t.Errorf("bike distance = %q, want 0.0", got.Activities[2].Lap.DistanceMeters)
	}

	// Inferred transitions hold exactly the two synthetic bracket points.
	for _, i := range []int{1, 3} {
		if n := len(got.Activities[i].Lap.Track.Trackpoints); n != 2 {
			t.Errorf("transition %d has %d trackpoints, want 2", i, n)
		}
		if got.Activities[i].Lap.TotalTimeSeconds != "300.0" {
			t.Errorf("transition %d duration = %q, want 300.0", i, got.Activities[i].Lap.TotalTimeSeconds)
		}
	}

	// The session chain lists every activity ID in emission order.
	if got.First != got.Activities[0].ID {
		t.Errorf("first sport = %q, want %q", got.First, got.Activities[0].ID)
	}
	if len(got.Next) != 4 {
		t.Fatalf("got %d next links, want 4", len(got.Next))
	}
	for i, id := range got.Next {
		if id != got.Activities[i+1].ID {
			t.Errorf("next link %d = %q, want %q", i, id, got.Activities[i+1].ID)
		}
	}
}

func TestActivityIDsAreUnique(t *testing.T) {
	for _, compact := range []bool{false, true} {
		doc, err := Build(racePlan(t), compact, nil)
		if err != nil {
			t.Fatalf("Build(compact=%v): %v", compact, err)
		}
		var got skeleton
		if err := xml.Unmarshal(doc, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		seen := map[string]bool{}
		for _, act := range got.Activities {
			if seen[act.ID] {
				t.Errorf("compact=%v: duplicate activity ID %q", compact, act.ID)
			}
			seen[act.ID] = true
		}
	}
}

func TestRoundTripThroughOwnReader(t *testing.T) {
	p := racePlan(t)
	doc, err := Build(p, false, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	points, err := parse.Parse("merged.tcx", doc)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}

	// 3 legs of 30 points plus two 2-point synthetic transitions.
	if want := 3*30 + 2*2; len(points) != want {
		t.Fatalf("got %d points, want %d", len(points), want)
	}

	// The first swim point survives with its values intact at formatting
	// precision: 8 decimals for coordinates, 2 for elevation.
	orig := p.Swim.Points[0]
	got := points[0]
	if !got.Time.Equal(orig.Time) {
		t.Errorf("time = %v, want %v", got.Time, orig.Time)
	}
	if got.Lat == nil || math.Abs(*got.Lat-*orig.Lat) > 5e-9 {
		t.Errorf("lat = %v, want %v", got.Lat, *orig.Lat)
	}
	if got.Lon == nil || math.Abs(*got.Lon-*orig.Lon) > 5e-9 {
		t.Errorf("lon = %v, want %v", got.Lon, *orig.Lon)
	}
	if got.Ele == nil || math.Abs(*got.Ele-*orig.Ele) > 5e-3 {
		t.Errorf("ele = %v, want %v", got.Ele, *orig.Ele)
	}
	if got.HeartRate == nil || *got.HeartRate != *orig.HeartRate {
		t.Errorf("hr = %v, want %v", got.HeartRate, *orig.HeartRate)
	}
	if got.Cadence == nil || *got.Cadence != *orig.Cadence {
		t.Errorf("cadence = %v, want %v", got.Cadence, *orig.Cadence)
	}
	if got.Power == nil || *got.Power != *orig.Power {
		t.Errorf("power = %v, want %v", got.Power, *orig.Power)
	}

	// Synthetic bracket points carry a timestamp and nothing else.
	t1First := points[30]
	if t1First.Lat != nil || t1First.HeartRate != nil {
		t.Error("synthetic transition points must carry only timestamps")
	}
}

func TestPositionRequiresBothCoordinates(t *testing.T) {
	lat := 89.9
	start := at(6, 0, 0)
	leg := track.NewLeg(track.RoleSwim, "swim.tcx", []track.Point{
		{Time: start, Lat: &lat}, // longitude missing
		{Time: start.Add(time.Minute)},
	})
	bike := richLeg(track.RoleBike, "bike.gpx", at(6, 35, 0), at(8, 5, 0), 5)
	run := richLeg(track.RoleRun, "run.gpx", at(8, 10, 0), at(8, 50, 0), 5)

	p, err := plan.Build(&leg, &bike, &run, nil, nil, false)
	if err != nil {
		t.Fatalf("Build plan: %v", err)
	}
	doc, err := Build(p, false, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(string(doc), "89.90000000") {
		t.Error("lone latitude must not be emitted without a longitude")
	}
}
