package parse

import (
	"encoding/xml"
	"fmt"

	"github.com/banshee-data/trimerge/internal/track"
)

// GPX carries only position, time, and elevation; heart rate, cadence,
// and power exist only in the richer TCX dialect.
//
// The struct tags use unqualified element names, which encoding/xml
// matches against the local name regardless of namespace. That covers
// both namespaced and bare GPX documents with one set of types.
type gpxFile struct {
	Tracks []struct {
		Segments []struct {
			Points []gpxTrkpt `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

type gpxTrkpt struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Time string `xml:"time"`
	Ele  string `xml:"ele"`
}

func parseGPX(name string, data []byte) ([]track.Point, error) {
	var doc gpxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, name, err)
	}

	var points []track.Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, tp := range seg.Points {
				lat, err := optionalFloat(tp.Lat)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: bad lat %q", ErrUnsupportedFormat, name, tp.Lat)
				}
				lon, err := optionalFloat(tp.Lon)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: bad lon %q", ErrUnsupportedFormat, name, tp.Lon)
				}
				ele, err := optionalFloat(tp.Ele)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: bad ele %q", ErrUnsupportedFormat, name, tp.Ele)
				}
				points = append(points, track.Point{
					Time: optionalTime(tp.Time),
					Lat:  lat,
					Lon:  lon,
					Ele:  ele,
				})
			}
		}
	}
	return points, nil
}
