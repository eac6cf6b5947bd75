package parse

import (
	"encoding/xml"
	"fmt"

	"github.com/banshee-data/trimerge/internal/track"
)

// TCX trackpoints nest under Activities>Activity>Lap>Track. Power sits
// in the Garmin ActivityExtension block; encoding/xml matches TPX/Watts
// by local name so the secondary namespace needs no special handling.
type tcxFile struct {
	Trackpoints []tcxTrackpoint `xml:"Activities>Activity>Lap>Track>Trackpoint"`
}

type tcxTrackpoint struct {
	Time      string       `xml:"Time"`
	Position  *tcxPosition `xml:"Position"`
	Altitude  string       `xml:"AltitudeMeters"`
	HeartRate string       `xml:"HeartRateBpm>Value"`
	Cadence   string       `xml:"Cadence"`
	Watts     string       `xml:"Extensions>TPX>Watts"`
}

type tcxPosition struct {
	Lat string `xml:"LatitudeDegrees"`
	Lon string `xml:"LongitudeDegrees"`
}

func parseTCX(name string, data []byte) ([]track.Point, error) {
	var doc tcxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, name, err)
	}

	var points []track.Point
	for _, tp := range doc.Trackpoints {
		p := track.Point{Time: optionalTime(tp.Time)}

		if tp.Position != nil {
			lat, err := optionalFloat(tp.Position.Lat)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: bad latitude %q", ErrUnsupportedFormat, name, tp.Position.Lat)
			}
			lon, err := optionalFloat(tp.Position.Lon)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: bad longitude %q", ErrUnsupportedFormat, name, tp.Position.Lon)
			}
			p.Lat, p.Lon = lat, lon
		}

		ele, err := optionalFloat(tp.Altitude)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad altitude %q", ErrUnsupportedFormat, name, tp.Altitude)
		}
		p.Ele = ele

		hr, err := optionalInt(tp.HeartRate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad heart rate %q", ErrUnsupportedFormat, name, tp.HeartRate)
		}
		p.HeartRate = hr

		cad, err := optionalInt(tp.Cadence)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad cadence %q", ErrUnsupportedFormat, name, tp.Cadence)
		}
		p.Cadence = cad

		pwr, err := optionalInt(tp.Watts)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad power %q", ErrUnsupportedFormat, name, tp.Watts)
		}
		p.Power = pwr

		points = append(points, p)
	}
	return points, nil
}
