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

package app

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"luper/timeline"
)

// Package app loads the study record sets. The eCRF export delivers the tumor assessments split across seven
// independently maintained CSV tables, each keyed by patient (and visit where applicable) but not mutually consistent
// in shape or completeness:
// - the cohort table: patient, visitIndex, treatmentAdministered
// - baseline measurable lesions: patient, evaluationDate, longestDiameter (one row per lesion)
// - baseline non-measurable lesions: patient, evaluationDate, hasNonTargetLesion
// - post-baseline measurable lesions: patient, visitIndex, evaluationDate, longestDiameter
// - post-baseline non-measurable lesions: patient, visitIndex, evaluationDate
// - new lesions: patient, visitIndex, evaluationDate
// - overall responses: patient, visitIndex, targetResponse, nonTargetResponse, overallResponse + iRECIST fields
// Each table carries a header row. Rows with unparseable numeric cells are skipped, matching how the upstream export
// pads partially entered visits.

// readTable reads all data rows of a CSV table, skipping the header row.
func readTable(fileName string) [][]string {
	file, err := os.Open(fileName)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(err)
		}
	}()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// skip header
	reader.Read()
	rows := [][]string{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(err)
		}
		rows = append(rows, record)
	}
	return rows
}

// affirmative interprets the boolean-like cells used across the source tables.
func affirmative(s string) bool {
	switch strings.TrimSpace(s) {
	case "Yes", "yes", "Y", "TRUE", "true", "1":
		return true
	}
	return false
}

// ParseCohort reads the cohort table and returns the analysis population: the patients with treatment administered at
// the first post-baseline visit. Patients present in the lesion or response tables but absent here are silently
// excluded from the whole analysis.
func ParseCohort(fileName string) timeline.Cohort {
	cohort := timeline.Cohort{}
	for _, record := range readTable(fileName) {
		visit, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		if visit != 1 || !affirmative(record[2]) {
			continue
		}
		cohort[record[0]] = true
	}
	log.Infof("Parsed cohort table: %d patients in the analysis population", len(cohort))
	return cohort
}

// ParseBaselineTargetLesions reads the baseline measurable-lesion table, one row per reported lesion.
func ParseBaselineTargetLesions(fileName string) []*timeline.BaselineTargetLesion {
	lesions := []*timeline.BaselineTargetLesion{}
	skipped := 0
	for _, record := range readTable(fileName) {
		diameter, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			skipped++
			continue
		}
		lesions = append(lesions, &timeline.BaselineTargetLesion{
			Patient:         record[0],
			Date:            timeline.ParseAssessmentDate(record[1]),
			LongestDiameter: diameter,
		})
	}
	log.Infof("Parsed %d baseline measurable lesion rows (%d skipped without diameter)", len(lesions), skipped)
	return lesions
}

// ParseBaselineNonTargetLesions reads the baseline non-measurable-lesion table.
func ParseBaselineNonTargetLesions(fileName string) []*timeline.BaselineNonTargetLesion {
	lesions := []*timeline.BaselineNonTargetLesion{}
	for _, record := range readTable(fileName) {
		lesions = append(lesions, &timeline.BaselineNonTargetLesion{
			Patient:            record[0],
			Date:               timeline.ParseAssessmentDate(record[1]),
			HasNonTargetLesion: affirmative(record[2]),
		})
	}
	log.Infof("Parsed %d baseline non-measurable lesion rows", len(lesions))
	return lesions
}

// ParseTargetLesions reads the post-baseline measurable-lesion table, one row per reported lesion.
func ParseTargetLesions(fileName string) []*timeline.TargetLesion {
	lesions := []*timeline.TargetLesion{}
	skipped := 0
	for _, record := range readTable(fileName) {
		visit, err := strconv.Atoi(record[1])
		if err != nil {
			skipped++
			continue
		}
		diameter, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			skipped++
			continue
		}
		lesions = append(lesions, &timeline.TargetLesion{
			Patient:         record[0],
			Visit:           visit,
			Date:            timeline.ParseAssessmentDate(record[2]),
			LongestDiameter: diameter,
		})
	}
	log.Infof("Parsed %d post-baseline measurable lesion rows (%d skipped)", len(lesions), skipped)
	return lesions
}

// ParseNonTargetLesions reads the post-baseline non-measurable-lesion table.
func ParseNonTargetLesions(fileName string) []*timeline.NonTargetLesion {
	lesions := []*timeline.NonTargetLesion{}
	skipped := 0
	for _, record := range readTable(fileName) {
		visit, err := strconv.Atoi(record[1])
		if err != nil {
			skipped++
			continue
		}
		lesions = append(lesions, &timeline.NonTargetLesion{
			Patient: record[0],
			Visit:   visit,
			Date:    timeline.ParseAssessmentDate(record[2]),
		})
	}
	log.Infof("Parsed %d post-baseline non-measurable lesion rows (%d skipped)", len(lesions), skipped)
	return lesions
}

// ParseNewLesions reads the new-lesion table. Source row order is preserved: the reconciler's first-occurrence policy
// depends on it.
func ParseNewLesions(fileName string) []*timeline.NewLesion {
	lesions := []*timeline.NewLesion{}
	skipped := 0
	for _, record := range readTable(fileName) {
		visit, err := strconv.Atoi(record[1])
		if err != nil {
			skipped++
			continue
		}
		lesions = append(lesions, &timeline.NewLesion{
			Patient: record[0],
			Visit:   visit,
			Date:    timeline.ParseAssessmentDate(record[2]),
		})
	}
	log.Infof("Parsed %d new-lesion rows (%d skipped)", len(lesions), skipped)
	return lesions
}

// ParseResponseAssessments reads the overall-response table. The overall response stays raw free text here; the
// normalizer maps it onto canonical codes during assembly. The iRECIST columns are optional in older exports.
func ParseResponseAssessments(fileName string) []*timeline.ResponseAssessment {
	assessments := []*timeline.ResponseAssessment{}
	skipped := 0
	for _, record := range readTable(fileName) {
		visit, err := strconv.Atoi(record[1])
		if err != nil {
			skipped++
			continue
		}
		a := &timeline.ResponseAssessment{
			Patient:           record[0],
			Visit:             visit,
			TargetResponse:    record[2],
			NonTargetResponse: record[3],
			OverallResponse:   record[4],
		}
		if len(record) > 7 {
			a.ImmuneTargetResponse = record[5]
			a.ImmuneNonTargetResponse = record[6]
			a.ImmuneOverallResponse = record[7]
		}
		assessments = append(assessments, a)
	}
	log.Infof("Parsed %d overall-response rows (%d skipped)", len(assessments), skipped)
	return assessments
}
