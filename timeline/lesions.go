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

package timeline

import (
	log "github.com/sirupsen/logrus"
)

// ReconcileLesions merges the post-baseline measurable and non-measurable lesion record sets into one record per
// observed (patient, visit, date) combination.
//
// Measurable lesion rows are grouped per (patient, visit) and their longest diameters summed; the first row of a
// group is the representative and keeps its evaluation date. Non-measurable rows collapse to one representative per
// (patient, visit). The two sides then meet in a full outer join whose key includes the evaluation date: when the
// sources disagree on the date of an otherwise matching visit, the result carries two separate rows rather than one
// merged row. That strictness is inherited from the validated source analysis and must not be relaxed.
func ReconcileLesions(targets []*TargetLesion, nonTargets []*NonTargetLesion) []*VisitRecord {
	// group measurable lesions per (patient, visit), summing diameters
	sums := map[visitKey]float64{}
	dates := map[visitKey]*AssessmentDate{}
	order := []visitKey{}
	for _, l := range targets {
		k := visitKey{Patient: l.Patient, Visit: l.Visit}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
			dates[k] = l.Date
		}
		sums[k] += l.LongestDiameter
	}
	// one representative non-measurable row per (patient, visit)
	nonTargetSeen := map[visitKey]bool{}
	nonTargetDates := map[visitKey]*AssessmentDate{}
	nonTargetOrder := []visitKey{}
	for _, l := range nonTargets {
		k := visitKey{Patient: l.Patient, Visit: l.Visit}
		if nonTargetSeen[k] {
			continue
		}
		nonTargetSeen[k] = true
		nonTargetDates[k] = l.Date
		nonTargetOrder = append(nonTargetOrder, k)
	}
	// full outer join on (patient, visit, date)
	records := []*VisitRecord{}
	matched := map[visitKey]bool{}
	for _, k := range order {
		records = append(records, &VisitRecord{
			Patient: k.Patient,
			Visit:   k.Visit,
			Date:    dates[k],
			SLD:     Float(sums[k]),
		})
		if nonTargetSeen[k] && AssessmentDateEqual(dates[k], nonTargetDates[k]) {
			matched[k] = true
		}
	}
	for _, k := range nonTargetOrder {
		if matched[k] {
			continue
		}
		records = append(records, &VisitRecord{
			Patient: k.Patient,
			Visit:   k.Visit,
			Date:    nonTargetDates[k],
		})
	}
	log.Infof("Reconciled post-baseline lesion records: %d measurable visits, %d non-measurable rows kept separate, %d rows total",
		len(order), len(records)-len(order), len(records))
	return records
}

// NewLesionDetection marks the single visit at which a patient's first new lesion was recorded.
type NewLesionDetection struct {
	Patient string
	Visit   int
	Date    *AssessmentDate
}

// DetectNewLesions retains, per patient, only the first recorded new-lesion row in source row order. No date or visit
// re-sorting is applied: when the source table is not chronologically ordered, "first row" is not necessarily the
// earliest new lesion. Every other visit of the patient defaults to a negative new-lesion flag when merged
// downstream.
func DetectNewLesions(rows []*NewLesion) []*NewLesionDetection {
	seen := map[string]bool{}
	detections := []*NewLesionDetection{}
	for _, l := range rows {
		if seen[l.Patient] {
			continue
		}
		seen[l.Patient] = true
		detections = append(detections, &NewLesionDetection{Patient: l.Patient, Visit: l.Visit, Date: l.Date})
	}
	log.Infof("Detected new lesions for %d patients from %d source rows", len(detections), len(rows))
	return detections
}
