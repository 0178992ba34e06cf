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

// ReconcileBaseline merges the measurable and non-measurable baseline lesion record sets into one visit-0 record per
// cohort patient.
//
// Measurable lesions are grouped per patient and their longest diameters summed into the patient's baseline sum of
// lesion diameters; the group collapses to a single representative row tagged hasMeasurableLesionAtBaseline. A
// non-measurable record is retained only when its non-target-lesion flag is affirmative, one row per patient. The two
// sides meet in a full outer join on the patient: the evaluation date prefers the measurable record's date and falls
// back to the non-measurable record's date only when the former is undefined. hasNonMeasurableLesionOnly is a
// presence/absence flag: it is true exactly when the patient has no measurable-lesion baseline record, regardless of
// the raw non-target flag. Patients outside the cohort are dropped, as are patients absent from both record sets.
func ReconcileBaseline(targets []*BaselineTargetLesion, nonTargets []*BaselineNonTargetLesion, cohort Cohort) []*VisitRecord {
	// group measurable lesions per patient, summing diameters; the first row of each group is the representative
	sums := map[string]float64{}
	dates := map[string]*AssessmentDate{}
	order := []string{}
	for _, l := range targets {
		if _, ok := sums[l.Patient]; !ok {
			order = append(order, l.Patient)
			dates[l.Patient] = l.Date
		}
		sums[l.Patient] += l.LongestDiameter
	}
	// one representative non-measurable row per patient, kept only when the non-target flag is affirmative
	nonTargetSeen := map[string]bool{}
	nonTargetDates := map[string]*AssessmentDate{}
	nonTargetOrder := []string{}
	for _, l := range nonTargets {
		if nonTargetSeen[l.Patient] {
			continue
		}
		nonTargetSeen[l.Patient] = true
		if !l.HasNonTargetLesion {
			continue
		}
		nonTargetOrder = append(nonTargetOrder, l.Patient)
		nonTargetDates[l.Patient] = l.Date
	}
	// full outer join on the patient
	records := []*VisitRecord{}
	joined := map[string]bool{}
	for _, patient := range order {
		r := &VisitRecord{
			Patient:              patient,
			Visit:                BaselineVisit,
			Date:                 dates[patient],
			SLD:                  Float(sums[patient]),
			MeasurableAtBaseline: Bool(true),
			NonMeasurableOnly:    Bool(false),
		}
		if r.Date == nil {
			r.Date = nonTargetDates[patient]
		}
		records = append(records, r)
		joined[patient] = true
	}
	for _, patient := range nonTargetOrder {
		if joined[patient] {
			continue
		}
		records = append(records, &VisitRecord{
			Patient:           patient,
			Visit:             BaselineVisit,
			Date:              nonTargetDates[patient],
			NonMeasurableOnly: Bool(true),
		})
	}
	// restrict to the analysis population
	result := []*VisitRecord{}
	for _, r := range records {
		if cohort.Member(r.Patient) {
			result = append(result, r)
		}
	}
	log.Infof("Reconciled baseline records: %d patients with measurable lesions, %d with non-measurable lesions only, %d in cohort",
		len(order), len(records)-len(order), len(result))
	return result
}
