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
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// timelineHeader is the column order of the canonical table. It is the sole interface consumed by the visualization
// and statistical collaborators.
var timelineHeader = []string{
	"patient", "visitIndex", "evaluationDate",
	"sumOfLesionDiameters", "baselineSLD", "changeFromBaseline", "percentChangeFromBaseline",
	"nadir", "changeFromNadir", "percentChangeFromNadir",
	"hasMeasurableLesionAtBaseline", "hasNonMeasurableLesionOnly", "hasNewLesion",
	"overallResponse",
	"isCR", "isPR", "isSD", "isNonCRNonPD", "isPD",
	"crVisit", "prVisit", "sdVisit", "nonCRNonPDVisit", "pdVisit",
	"site",
}

// PrintTimelineToFile writes the canonical timeline table to a CSV file. Undefined values are written as empty cells.
func PrintTimelineToFile(records []*VisitRecord, name string) {
	file, err := os.Create(name)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(err)
		}
	}()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	if err := writer.Write(timelineHeader); err != nil {
		panic(err)
	}
	for _, r := range records {
		if err := writer.Write(timelineRow(r)); err != nil {
			panic(err)
		}
	}
}

func timelineRow(r *VisitRecord) []string {
	return []string{
		r.Patient,
		strconv.Itoa(r.Visit),
		FormatAssessmentDate(r.Date),
		formatOptionalFloat(r.SLD),
		formatOptionalFloat(r.BaselineSLD),
		formatOptionalFloat(r.ChangeFromBaseline),
		formatOptionalFloat(r.PctChangeFromBaseline),
		formatOptionalFloat(r.Nadir),
		formatOptionalFloat(r.ChangeFromNadir),
		formatOptionalFloat(r.PctChangeFromNadir),
		formatOptionalBool(r.MeasurableAtBaseline),
		formatOptionalBool(r.NonMeasurableOnly),
		strconv.FormatBool(r.NewLesion),
		r.OverallResponse,
		strconv.FormatBool(r.IsCR),
		strconv.FormatBool(r.IsPR),
		strconv.FormatBool(r.IsSD),
		strconv.FormatBool(r.IsNonCRNonPD),
		strconv.FormatBool(r.IsPD),
		formatOptionalInt(r.CRVisit),
		formatOptionalInt(r.PRVisit),
		formatOptionalInt(r.SDVisit),
		formatOptionalInt(r.NonCRNonPDVisit),
		formatOptionalInt(r.PDVisit),
		r.Site,
	}
}

// PrintRecord prints a single canonical row to standard output for inspecting a run.
func PrintRecord(r *VisitRecord) {
	fmt.Println(strings.Join(timelineRow(r), ","))
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatOptionalBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
