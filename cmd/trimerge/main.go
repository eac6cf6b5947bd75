// Command trimerge merges separately recorded triathlon legs (GPX/TCX)
// into a single multi-sport TCX document.
//
// Legs are supplied explicitly:
//
//	trimerge -swim swim.tcx -bike bike.gpx -run run.gpx -out race.tcx
//
// or scanned from a list of files, with roles guessed from file names
// and contested roles resolved first-match-wins in argument order:
//
//	trimerge -out race.tcx swim.tcx bike.gpx t1.gpx run.gpx
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/banshee-data/trimerge/internal/mergelog"
	"github.com/banshee-data/trimerge/internal/parse"
	"github.com/banshee-data/trimerge/internal/plan"
	"github.com/banshee-data/trimerge/internal/report"
	"github.com/banshee-data/trimerge/internal/summary"
	"github.com/banshee-data/trimerge/internal/tcx"
	"github.com/banshee-data/trimerge/internal/track"
)

var (
	swimPath     = flag.String("swim", "", "Swim recording (.gpx or .tcx)")
	bikePath     = flag.String("bike", "", "Bike recording (.gpx or .tcx)")
	runPath      = flag.String("run", "", "Run recording (.gpx or .tcx)")
	t1Path       = flag.String("t1", "", "Optional transition 1 recording")
	t2Path       = flag.String("t2", "", "Optional transition 2 recording")
	inferMissing = flag.Bool("infer", true, "Infer missing transitions from timing gaps")
	compact      = flag.Bool("compact", false, "Rebase all legs onto a continuous back-to-back timeline")
	swimDistance = flag.Float64("swim-distance", 0, "Swim distance override in meters (pool swims without GPS)")
	outPath      = flag.String("out", "triathlon.tcx", "Output TCX path")
	dbPath       = flag.String("db", "", "Optional SQLite merge-log path")
	chartPath    = flag.String("chart", "", "Optional HTML chart report path")
)

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		log.Fatalf("trimerge: %v", err)
	}
}

func run(args []string) error {
	var sel plan.Selection
	var err error
	if len(args) > 0 {
		sel, err = scanFiles(args)
	} else {
		sel, err = loadFlagged()
	}
	if err != nil {
		return err
	}

	p, err := plan.Build(sel.Swim, sel.Bike, sel.Run, sel.T1, sel.T2, *inferMissing)
	if err != nil {
		return err
	}

	// The preview goes out before anything is written so a bad plan can
	// be caught by eye.
	fmt.Println("=== Merge Preview ===")
	for _, line := range summary.Lines(p, *compact) {
		fmt.Println(line)
	}

	var dist *float64
	if *swimDistance > 0 {
		dist = swimDistance
	}
	doc, err := tcx.Build(p, *compact, dist)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *outPath, err)
	}

	segs := plan.Timeline(p, *compact)
	total := segs[len(segs)-1].Stop.Sub(segs[0].Start).Seconds()
	fmt.Printf("\nWrote %s  (T1=%s  T2=%s)\n", *outPath,
		slotDescription(p.T1File, p.T1Inferred),
		slotDescription(p.T2File, p.T2Inferred))

	if *dbPath != "" {
		if err := recordMerge(p, len(segs), total); err != nil {
			log.Printf("merge log: %v", err)
		}
	}
	if *chartPath != "" {
		if err := writeChart(segs); err != nil {
			log.Printf("chart report: %v", err)
		}
	}
	return nil
}

// loadFlagged reads the explicitly flagged recordings. Transition paths
// given here are the caller's final choice and bypass window matching.
func loadFlagged() (plan.Selection, error) {
	var sel plan.Selection
	if *swimPath == "" || *bikePath == "" || *runPath == "" {
		return sel, fmt.Errorf("swim, bike, and run recordings are required: %w", plan.ErrMissingRequiredLeg)
	}

	for _, in := range []struct {
		path string
		role track.Role
		dst  **track.Leg
	}{
		{*swimPath, track.RoleSwim, &sel.Swim},
		{*bikePath, track.RoleBike, &sel.Bike},
		{*runPath, track.RoleRun, &sel.Run},
		{*t1Path, track.RoleTransition, &sel.T1},
		{*t2Path, track.RoleTransition, &sel.T2},
	} {
		if in.path == "" {
			continue
		}
		leg, err := loadLeg(in.path, in.role)
		if err != nil {
			return sel, err
		}
		*in.dst = leg
	}
	return sel, nil
}

// scanFiles reads a batch of recordings, guessing each file's role from
// its name. A file that fails to parse degrades to an ignored leg with a
// warning instead of aborting the batch. Files are ordered by start time
// before role selection, so the earliest recording wins a contested role.
func scanFiles(paths []string) (plan.Selection, error) {
	legs := make([]track.Leg, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		role := parse.GuessRole(name)
		leg, err := loadLeg(path, role)
		if err != nil {
			if errors.Is(err, parse.ErrUnsupportedFormat) {
				log.Printf("skipping %s: %v", path, err)
				legs = append(legs, track.NewLeg(track.RoleIgnore, name, nil))
				continue
			}
			return plan.Selection{}, err
		}
		legs = append(legs, *leg)
	}

	sort.SliceStable(legs, func(i, j int) bool {
		if legs[i].Empty() {
			return false
		}
		if legs[j].Empty() {
			return true
		}
		return legs[i].Start.Before(legs[j].Start)
	})

	return plan.SelectRoles(legs), nil
}

func loadLeg(path string, role track.Role) (*track.Leg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	points, err := parse.Parse(name, data)
	if err != nil {
		return nil, err
	}
	leg := track.NewLeg(role, name, points)
	return &leg, nil
}

func slotDescription(file *track.Leg, inferred *time.Duration) string {
	switch {
	case file != nil:
		return "file"
	case inferred != nil:
		return track.FormatDuration(*inferred)
	}
	return "none"
}

func recordMerge(p *plan.Plan, activities int, totalSeconds float64) error {
	store, err := mergelog.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Insert(&mergelog.Record{
		OutputPath:   *outPath,
		Compact:      *compact,
		SwimFile:     p.Swim.Name,
		BikeFile:     p.Bike.Name,
		RunFile:      p.Run.Name,
		Activities:   activities,
		TotalSeconds: totalSeconds,
	})
}

func writeChart(segs []plan.Segment) error {
	f, err := os.Create(*chartPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return report.Write(f, segs, "Merged session")
}
