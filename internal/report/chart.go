// Package report renders an HTML chart of a merged session so the
// result can be eyeballed before uploading anywhere.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/track"
)

// Write renders heart-rate and elevation series for the resolved
// timeline to w as a standalone HTML page. Points without a metric leave
// a gap in that series rather than dropping the sample.
func Write(w io.Writer, segs []plan.Segment, title string) error {
	var (
		labels []string
		hr     []opts.LineData
		ele    []opts.LineData
		hrVals []float64
	)
	for _, seg := range segs {
		for _, p := range seg.Points {
			labels = append(labels, track.FormatClock(p.Time))
			if p.HeartRate != nil {
				hr = append(hr, opts.LineData{Value: *p.HeartRate})
				hrVals = append(hrVals, float64(*p.HeartRate))
			} else {
				hr = append(hr, opts.LineData{Value: nil})
			}
			if p.Ele != nil {
				ele = append(ele, opts.LineData{Value: *p.Ele})
			} else {
				ele = append(ele, opts.LineData{Value: nil})
			}
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: heartRateSummary(hrVals),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(labels).
		AddSeries("Heart rate (bpm)", hr).
		AddSeries("Elevation (m)", ele)

	return line.Render(w)
}

func heartRateSummary(hrVals []float64) string {
	if len(hrVals) == 0 {
		return "no heart-rate data"
	}
	maxHR := hrVals[0]
	for _, v := range hrVals[1:] {
		if v > maxHR {
			maxHR = v
		}
	}
	return fmt.Sprintf("mean HR %.0f bpm, max HR %.0f bpm", stat.Mean(hrVals, nil), maxHR)
}
