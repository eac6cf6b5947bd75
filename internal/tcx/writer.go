// Package tcx assembles the merged multi-activity TCX document.
package tcx

import (
	"encoding/xml"
	"fmt"

	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/track"
)

const (
	tcdbNamespace      = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	xsiNamespace       = "http://www.w3.org/2001/XMLSchema-instance"
	extensionNamespace = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
	schemaLocation     = tcdbNamespace + " http://www.garmin.com/xmlschemas/TrainingCenterDatabasev2.xsd"
)

type database struct {
	XMLName        xml.Name   `xml:"TrainingCenterDatabase"`
	Namespace      string     `xml:"xmlns,attr"`
	XSINamespace   string     `xml:"xmlns:xsi,attr"`
	TPXNamespace   string     `xml:"xmlns:tpx,attr"`
	SchemaLocation string     `xml:"xsi:schemaLocation,attr"`
	Folders        struct{}   `xml:"Folders"`
	Activities     activities `xml:"Activities"`
}

type activities struct {
	Activities []activity         `xml:"Activity"`
	MultiSport *multiSportSession `xml:"MultiSportSession"`
}

type activity struct {
	Sport string `xml:"Sport,attr"`
	ID    string `xml:"Id"`
	Lap   lap    `xml:"Lap"`
}

type lap struct {
	StartTime        string     `xml:"StartTime,attr"`
	TotalTimeSeconds string     `xml:"TotalTimeSeconds"`
	DistanceMeters   string     `xml:"DistanceMeters"`
	MaximumSpeed     string     `xml:"MaximumSpeed"`
	Calories         string     `xml:"Calories"`
	Intensity        string     `xml:"Intensity"`
	TriggerMethod    string     `xml:"TriggerMethod"`
	Track            trackBlock `xml:"Track"`
	Notes            string     `xml:"Notes"`
}

type trackBlock struct {
	Trackpoints []trackpoint `xml:"Trackpoint"`
}

type trackpoint struct {
	Time       string      `xml:"Time"`
	Position   *position   `xml:"Position,omitempty"`
	Altitude   string      `xml:"AltitudeMeters,omitempty"`
	HeartRate  *heartRate  `xml:"HeartRateBpm,omitempty"`
	Cadence    string      `xml:"Cadence,omitempty"`
	Extensions *extensions `xml:"Extensions,omitempty"`
}

type position struct {
	Lat string `xml:"LatitudeDegrees"`
	Lon string `xml:"LongitudeDegrees"`
}

type heartRate struct {
	Value string `xml:"Value"`
}

type extensions struct {
	TPX tpx `xml:"tpx:TPX"`
}

type tpx struct {
	Watts string `xml:"tpx:Watts"`
}

type multiSportSession struct {
	FirstSport sportRef   `xml:"FirstSport"`
	NextSports []sportRef `xml:"NextSport"`
}

type sportRef struct {
	ActivityRef activityRef `xml:"ActivityRef"`
}

type activityRef struct {
	ID string `xml:"Id"`
}

// Build assembles the multi-activity document for the plan. compact
// selects the back-to-back rebased timeline; swimDistanceMeters, when
// non-nil, is written as the swim lap's distance (pool swims without
// GPS). The trailing MultiSportSession lists activity IDs in emission
// order: the first entry marks the session start and every later entry
// is a forward link.
func Build(p *plan.Plan, compact bool, swimDistanceMeters *float64) ([]byte, error) {
	segs := plan.Timeline(p, compact)
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty timeline")
	}

	doc := database{
		Namespace:      tcdbNamespace,
		XSINamespace:   xsiNamespace,
		TPXNamespace:   extensionNamespace,
		SchemaLocation: schemaLocation,
	}

	ids := make([]string, 0, len(segs))
	for i, seg := range segs {
		var dist *float64
		if i == 0 {
			dist = swimDistanceMeters
		}
		act := makeActivity(seg, dist)
		doc.Activities.Activities = append(doc.Activities.Activities, act)
		ids = append(ids, act.ID)
	}

	session := &multiSportSession{FirstSport: sportRef{activityRef{ids[0]}}}
	for _, id := range ids[1:] {
		session.NextSports = append(session.NextSports, sportRef{activityRef{id}})
	}
	doc.Activities.MultiSport = session

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func makeActivity(seg plan.Segment, distanceMeters *float64) activity {
	start := track.FormatInstant(seg.Start)

	total := seg.Stop.Sub(seg.Start).Seconds()
	if total < 0 {
		total = 0
	}
	distance := "0.0"
	if distanceMeters != nil {
		distance = fmt.Sprintf("%.1f", *distanceMeters)
	}

	l := lap{
		StartTime:        start,
		TotalTimeSeconds: fmt.Sprintf("%.1f", total),
		DistanceMeters:   distance,
		MaximumSpeed:     "0.0",
		Calories:         "0",
		Intensity:        "Active",
		TriggerMethod:    "Manual",
		Notes:            seg.Note,
	}
	for _, p := range seg.Points {
		l.Track.Trackpoints = append(l.Track.Trackpoints, makeTrackpoint(p))
	}

	return activity{Sport: seg.Sport, ID: start, Lap: l}
}

func makeTrackpoint(p track.Point) trackpoint {
	tp := trackpoint{Time: track.FormatInstant(p.Time)}

	// A position needs both coordinates; one without the other is dropped.
	if p.Lat != nil && p.Lon != nil {
		tp.Position = &position{
			Lat: fmt.Sprintf("%.8f", *p.Lat),
			Lon: fmt.Sprintf("%.8f", *p.Lon),
		}
	}
	if p.Ele != nil {
		tp.Altitude = fmt.Sprintf("%.2f", *p.Ele)
	}
	if p.HeartRate != nil {
		tp.HeartRate = &heartRate{Value: fmt.Sprintf("%d", *p.HeartRate)}
	}
	if p.Cadence != nil {
		tp.Cadence = fmt.Sprintf("%d", *p.Cadence)
	}
	if p.Power != nil {
		tp.Extensions = &extensions{TPX: tpx{Watts: fmt.Sprintf("%d", *p.Power)}}
	}
	return tp
}
