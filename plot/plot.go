// LUPER: Tumor Response Reconciliation Library
// Copyright (c) 2023 Medsir Scientific.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/MedsirScientific/LUPER/blob/master/LICENSE.txt>.

package plot

import (
	"fmt"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"luper/timeline"
)

// Plotting of the canonical timeline. All three views consume only the assembled table; they never reach back into
// the raw record sets.

// PlotTimeline renders the swimmer, spider, and waterfall views of the canonical table to files under path.
func PlotTimeline(records []*timeline.VisitRecord, name, path string) {
	SwimmerPlot(records, filepath.Join(path, fmt.Sprintf("%s-swimmer.png", name)))
	SpiderPlot(records, filepath.Join(path, fmt.Sprintf("%s-spider.png", name)))
	WaterfallPlot(records, filepath.Join(path, fmt.Sprintf("%s-waterfall.png", name)))
	log.Infof("Plotted swimmer, spider, and waterfall views to %s", path)
}

// patientOrder returns the distinct patients of the canonical table, in table order.
func patientOrder(records []*timeline.VisitRecord) []string {
	seen := map[string]bool{}
	patients := []string{}
	for _, r := range records {
		if !seen[r.Patient] {
			seen[r.Patient] = true
			patients = append(patients, r.Patient)
		}
	}
	return patients
}

// SwimmerPlot renders one horizontal bar per patient spanning the patient's recorded assessment visits, with a marker
// at each visit assessed as progressive disease.
func SwimmerPlot(records []*timeline.VisitRecord, name string) {
	p := plot.New()
	p.Title.Text = "Time on study"
	p.X.Label.Text = "Tumor assessment visit"
	patients := patientOrder(records)
	index := map[string]int{}
	for i, patient := range patients {
		index[patient] = i
	}
	lengths := make(plotter.Values, len(patients))
	for _, r := range records {
		if v := float64(r.Visit); v > lengths[index[r.Patient]] {
			lengths[index[r.Patient]] = v
		}
	}
	bars, err := plotter.NewBarChart(lengths, vg.Points(8))
	if err != nil {
		panic(err)
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalY(patients...)
	progressions := plotter.XYs{}
	for _, r := range records {
		if r.IsPD {
			progressions = append(progressions, plotter.XY{X: float64(r.Visit), Y: float64(index[r.Patient])})
		}
	}
	if len(progressions) > 0 {
		scatter, err := plotter.NewScatter(progressions)
		if err != nil {
			panic(err)
		}
		scatter.GlyphStyle.Color = plotutil.Color(2)
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, name); err != nil {
		panic(err)
	}
}

// SpiderPlot renders one line per patient tracking the percent change in tumor burden from baseline across visits.
// Visits without a defined percent change (no measurable lesions, undefined baseline) leave a gap.
func SpiderPlot(records []*timeline.VisitRecord, name string) {
	p := plot.New()
	p.Title.Text = "Tumor burden change from baseline"
	p.X.Label.Text = "Tumor assessment visit"
	p.Y.Label.Text = "Change from baseline (%)"
	args := []interface{}{}
	for _, patient := range patientOrder(records) {
		points := plotter.XYs{}
		for _, r := range records {
			if r.Patient == patient && r.PctChangeFromBaseline != nil {
				points = append(points, plotter.XY{X: float64(r.Visit), Y: *r.PctChangeFromBaseline})
			}
		}
		if len(points) > 0 {
			args = append(args, patient, points)
		}
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		panic(err)
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, name); err != nil {
		panic(err)
	}
}

// WaterfallPlot renders one bar per patient with the best (most negative) percent change in tumor burden from
// baseline over the post-baseline visits, sorted from worst to best. Patients without any defined post-baseline
// percent change are omitted.
func WaterfallPlot(records []*timeline.VisitRecord, name string) {
	best := map[string]float64{}
	for _, r := range records {
		if r.Visit == timeline.BaselineVisit || r.PctChangeFromBaseline == nil {
			continue
		}
		if v, ok := best[r.Patient]; !ok || *r.PctChangeFromBaseline < v {
			best[r.Patient] = *r.PctChangeFromBaseline
		}
	}
	patients := []string{}
	for patient := range best {
		patients = append(patients, patient)
	}
	sort.Slice(patients, func(i, j int) bool {
		return best[patients[i]] > best[patients[j]]
	})
	values := make(plotter.Values, len(patients))
	for i, patient := range patients {
		values[i] = best[patient]
	}
	p := plot.New()
	p.Title.Text = "Best tumor burden change from baseline"
	p.Y.Label.Text = "Best change from baseline (%)"
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		panic(err)
	}
	bars.Color = plotutil.Color(1)
	p.Add(bars)
	p.NominalX(patients...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = -0.9
	if err := p.Save(8*vg.Inch, 6*vg.Inch, name); err != nil {
		panic(err)
	}
}
