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
	"math"
	"sort"

	"github.com/exascience/pargo/parallel"
)

// ComputeBurdenMetrics derives the tumor-burden metrics for every record of the joined baseline and post-baseline
// timeline. All state is scoped to one patient's ordered visit history, so the fold runs in parallel across patients;
// the records themselves are side-effected in place.
func ComputeBurdenMetrics(records []*VisitRecord) {
	byPatient := map[string][]*VisitRecord{}
	patients := []string{}
	for _, r := range records {
		if _, ok := byPatient[r.Patient]; !ok {
			patients = append(patients, r.Patient)
		}
		byPatient[r.Patient] = append(byPatient[r.Patient], r)
	}
	parallel.Range(0, len(patients), 0, func(low, high int) {
		for _, patient := range patients[low:high] {
			computePatientBurdenMetrics(byPatient[patient])
		}
	})
}

// computePatientBurdenMetrics folds over one patient's visit history, ordered by visit index.
func computePatientBurdenMetrics(rows []*VisitRecord) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Visit != rows[j].Visit {
			return rows[i].Visit < rows[j].Visit
		}
		return FormatAssessmentDate(rows[i].Date) < FormatAssessmentDate(rows[j].Date)
	})
	var baseline *float64
	for _, r := range rows {
		if r.Visit == BaselineVisit {
			baseline = r.SLD
			break
		}
	}
	var prev *float64
	for _, r := range rows {
		r.BaselineSLD = baseline
		r.ChangeFromBaseline = subtract(r.SLD, baseline)
		r.PctChangeFromBaseline = percent(r.ChangeFromBaseline, baseline)
		if r.Visit == BaselineVisit {
			r.Nadir = r.SLD
		} else {
			r.Nadir = pairwiseMin(r.SLD, prev)
		}
		r.ChangeFromNadir = subtract(r.SLD, r.Nadir)
		r.PctChangeFromNadir = percent(r.ChangeFromNadir, r.Nadir)
		prev = r.SLD
	}
}

// subtract returns a - b, or nil when either operand is undefined.
func subtract(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return Float(*a - *b)
}

// percent expresses diff as a percentage of ref on a 0-100 scale. The division is guarded: an undefined or zero
// reference yields an undefined result, never a panic or an infinity.
func percent(diff, ref *float64) *float64 {
	if diff == nil || ref == nil || *ref == 0 {
		return nil
	}
	return Float(100 * *diff / *ref)
}

// pairwiseMin returns the minimum of the current and the immediately preceding observation, or nil when either is
// undefined. Note that this is narrower than the RECIST nadir, which takes the minimum over all prior visits; the
// one-step-lag behavior is carried over from the validated source analysis and must not be widened without sign-off
// from the study team.
func pairwiseMin(cur, prev *float64) *float64 {
	if cur == nil || prev == nil {
		return nil
	}
	return Float(math.Min(*cur, *prev))
}
