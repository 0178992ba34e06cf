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
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ExclusionRule removes the degenerate rows of one known patient: rows without a recorded sum of lesion diameters are
// dropped unless they belong to the rule's single valid visit. Corrections are data, not code, so each one stays
// named, auditable, and independently testable.
type ExclusionRule struct {
	Patient    string
	ValidVisit int
	Reason     string
}

// KnownExclusions lists the per-patient corrections applied to the assembled timeline. This is the only tolerated ad
// hoc data correction; every other irregular record surfaces unmodified in the output for manual review.
var KnownExclusions = []ExclusionRule{
	{
		Patient:    "0102-0011",
		ValidVisit: 4,
		Reason:     "assessment rows exported without diameters duplicate the visit 4 record; only visit 4 is genuine",
	},
}

// AssembleTimeline performs the final multi-source merge and emits the canonical per-patient, per-visit table:
//
//  1. union of the baseline and post-baseline reconciler outputs,
//  2. derived tumor-burden metrics per patient,
//  3. new-lesion detections folded in, every other visit explicitly negative,
//  4. normalized response assessments joined on (patient, visit), after which rows without an evaluation date are
//     dropped (a visit with no date is considered not to have occurred),
//  5. the authoritative cohort restriction,
//  6. the named per-patient exclusion rules,
//  7. the enrolling-site prefix.
//
// The result is created once per run and never mutated afterward.
func AssembleTimeline(baseline, lesions []*VisitRecord, newLesions []*NewLesionDetection,
	responses []*ResponseAssessment, cohort Cohort, exclusions []ExclusionRule) []*VisitRecord {
	// 1. the reconcilers guarantee disjoint keys, so the outer join is a union with a loud uniqueness check
	records := append([]*VisitRecord{}, baseline...)
	records = append(records, lesions...)
	assertUniqueKeys(records)
	// 2. burden metrics per patient
	ComputeBurdenMetrics(records)
	// 3. fold in new-lesion detections on (patient, visit, date)
	index := map[lesionKey]*VisitRecord{}
	for _, r := range records {
		index[recordLesionKey(r.Patient, r.Visit, r.Date)] = r
	}
	for _, d := range newLesions {
		k := recordLesionKey(d.Patient, d.Visit, d.Date)
		if r, ok := index[k]; ok {
			r.NewLesion = true
			continue
		}
		r := &VisitRecord{Patient: d.Patient, Visit: d.Visit, Date: d.Date, NewLesion: true}
		records = append(records, r)
		index[k] = r
	}
	// 4. join normalized response assessments on (patient, visit); response keys without a lesion row surface as
	// date-less rows and fall to the date filter below
	byVisit := map[visitKey][]*VisitRecord{}
	for _, r := range records {
		k := visitKey{Patient: r.Patient, Visit: r.Visit}
		byVisit[k] = append(byVisit[k], r)
	}
	for _, a := range responses {
		k := visitKey{Patient: a.Patient, Visit: a.Visit}
		if _, ok := byVisit[k]; !ok {
			r := &VisitRecord{Patient: a.Patient, Visit: a.Visit}
			records = append(records, r)
			byVisit[k] = []*VisitRecord{r}
		}
		for _, r := range byVisit[k] {
			r.OverallResponse = NormalizeResponse(a.OverallResponse)
			r.TargetResponse = a.TargetResponse
			r.NonTargetResponse = a.NonTargetResponse
			r.ImmuneTargetResponse = a.ImmuneTargetResponse
			r.ImmuneNonTargetResponse = a.ImmuneNonTargetResponse
			r.ImmuneOverallResponse = a.ImmuneOverallResponse
			FillInResponseMarkers(r)
		}
	}
	dated := []*VisitRecord{}
	for _, r := range records {
		if r.Date != nil {
			dated = append(dated, r)
		}
	}
	// 5. the cohort restriction is re-applied here as the authoritative final filter
	inCohort := []*VisitRecord{}
	for _, r := range dated {
		if cohort.Member(r.Patient) {
			inCohort = append(inCohort, r)
		}
	}
	// 6. named per-patient corrections
	result := applyExclusions(inCohort, exclusions)
	// 7. enrolling site
	for _, r := range result {
		r.Site = SiteCode(r.Patient)
	}
	SortRecords(result)
	log.Infof("Assembled canonical timeline: %d rows (%d dropped without evaluation date, %d outside cohort, %d excluded by correction rules)",
		len(result), len(records)-len(dated), len(dated)-len(inCohort), len(inCohort)-len(result))
	return result
}

// applyExclusions drops the rows matched by the given correction rules.
func applyExclusions(records []*VisitRecord, rules []ExclusionRule) []*VisitRecord {
	result := []*VisitRecord{}
	for _, r := range records {
		if excludedByRule(r, rules) {
			continue
		}
		result = append(result, r)
	}
	return result
}

func excludedByRule(r *VisitRecord, rules []ExclusionRule) bool {
	for _, rule := range rules {
		if r.Patient == rule.Patient && r.SLD == nil && r.Visit != rule.ValidVisit {
			return true
		}
	}
	return false
}

// assertUniqueKeys fails loudly when two rows share the same (patient, visit, date, SLD) key. The reconcilers
// guarantee uniqueness per key, so a duplicate is a programming-contract violation, not a data state.
func assertUniqueKeys(records []*VisitRecord) {
	seen := map[string]bool{}
	for _, r := range records {
		k := fmt.Sprintf("%s|%d|%s|%s", r.Patient, r.Visit, FormatAssessmentDate(r.Date), formatOptionalFloat(r.SLD))
		if seen[k] {
			log.Panicf("duplicate timeline row for patient %s at visit %d", r.Patient, r.Visit)
		}
		seen[k] = true
	}
}
