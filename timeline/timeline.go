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
	"sort"
	"strconv"
)

// BaselineVisit is the visit index of the baseline tumor assessment. Post-baseline assessments are numbered from 1
// onward, in chronological order as assigned by the upstream source. The pipeline never re-sorts visits by date; the
// evaluation date is carried as an attribute only.
const BaselineVisit = 0

// SiteCodeLength is the length of the enrolling-site prefix of a patient identifier.
const SiteCodeLength = 4

// AssessmentDate represents the date of a tumor assessment, with fields for the year, month, and day of evaluation.
type AssessmentDate struct {
	Year, Month, Day int
}

// ParseAssessmentDate turns a yyyy-mm-dd date string into an AssessmentDate. An empty string means no evaluation date
// was recorded and yields nil.
func ParseAssessmentDate(date string) *AssessmentDate {
	if date == "" {
		return nil
	}
	year, err := strconv.Atoi(date[0:4])
	if err != nil {
		panic(err)
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil {
		panic(err)
	}
	day, err := strconv.Atoi(date[8:10])
	if err != nil {
		panic(err)
	}
	return &AssessmentDate{Year: year, Month: month, Day: day}
}

// FormatAssessmentDate renders an assessment date back to yyyy-mm-dd, or to the empty string when the date is
// undefined.
func FormatAssessmentDate(d *AssessmentDate) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// AssessmentDateEqual compares two possibly undefined assessment dates. Two undefined dates compare equal.
func AssessmentDateEqual(d1, d2 *AssessmentDate) bool {
	if d1 == nil || d2 == nil {
		return d1 == d2
	}
	return d1.Year == d2.Year && d1.Month == d2.Month && d1.Day == d2.Day
}

// BaselineTargetLesion is one measurable lesion recorded at the baseline visit, with its longest diameter.
type BaselineTargetLesion struct {
	Patient         string
	Date            *AssessmentDate
	LongestDiameter float64
}

// BaselineNonTargetLesion is one non-measurable lesion entry recorded at the baseline visit. The source tracks these
// lesions as present/absent only.
type BaselineNonTargetLesion struct {
	Patient            string
	Date               *AssessmentDate
	HasNonTargetLesion bool
}

// TargetLesion is one measurable lesion recorded at a post-baseline visit.
type TargetLesion struct {
	Patient         string
	Visit           int
	Date            *AssessmentDate
	LongestDiameter float64
}

// NonTargetLesion is one non-measurable lesion entry recorded at a post-baseline visit.
type NonTargetLesion struct {
	Patient string
	Visit   int
	Date    *AssessmentDate
}

// NewLesion is one newly-detected lesion row from the source.
type NewLesion struct {
	Patient string
	Visit   int
	Date    *AssessmentDate
}

// ResponseAssessment is the clinician-assigned response at one visit. OverallResponse carries the raw free text from
// the source; the immune (iRECIST) fields are passed through unmodified.
type ResponseAssessment struct {
	Patient                 string
	Visit                   int
	TargetResponse          string
	NonTargetResponse       string
	OverallResponse         string
	ImmuneTargetResponse    string
	ImmuneNonTargetResponse string
	ImmuneOverallResponse   string
}

// Cohort is the set of patients admitted to the analysis population. It is immutable for the duration of a run; only
// member patients flow through the pipeline.
type Cohort map[string]bool

// Member checks whether a patient belongs to the analysis population.
func (c Cohort) Member(patient string) bool {
	return c[patient]
}

// VisitRecord is one row of the canonical per-patient, per-visit timeline. Optional attributes are pointers: nil is
// the typed representation of a value the source never recorded, and every derived computation propagates nil instead
// of raising.
type VisitRecord struct {
	Patient string
	Visit   int
	Date    *AssessmentDate
	// tumor burden
	SLD                   *float64 // sum of longest diameters of the measurable lesions at this visit
	BaselineSLD           *float64 // the patient's visit-0 SLD, broadcast to every visit
	ChangeFromBaseline    *float64
	PctChangeFromBaseline *float64
	Nadir                 *float64
	ChangeFromNadir       *float64
	PctChangeFromNadir    *float64
	// baseline lesion flags, defined on visit-0 rows only
	MeasurableAtBaseline *bool
	NonMeasurableOnly    *bool
	// new-lesion detection; explicitly false on every visit without one
	NewLesion bool
	// response assessment
	OverallResponse         string
	TargetResponse          string
	NonTargetResponse       string
	ImmuneTargetResponse    string
	ImmuneNonTargetResponse string
	ImmuneOverallResponse   string
	// per-code indicators and sparse visit markers
	IsCR, IsPR, IsSD, IsNonCRNonPD, IsPD               bool
	CRVisit, PRVisit, SDVisit, NonCRNonPDVisit, PDVisit *int
	// enrolling site, derived from the patient identifier prefix
	Site string
}

// visitKey identifies one tumor assessment of one patient.
type visitKey struct {
	Patient string
	Visit   int
}

// lesionKey extends visitKey with the evaluation date. The longitudinal reconciler joins its two sources on this
// stricter key, so a date disagreement between sources keeps the rows separate.
type lesionKey struct {
	Patient string
	Visit   int
	Date    string
}

func recordLesionKey(patient string, visit int, date *AssessmentDate) lesionKey {
	return lesionKey{Patient: patient, Visit: visit, Date: FormatAssessmentDate(date)}
}

// SiteCode returns the enrolling-site prefix of a patient identifier.
func SiteCode(patient string) string {
	if len(patient) < SiteCodeLength {
		return patient
	}
	return patient[:SiteCodeLength]
}

// SortRecords orders canonical timeline records by patient, visit index, and evaluation date.
func SortRecords(records []*VisitRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Patient != records[j].Patient {
			return records[i].Patient < records[j].Patient
		}
		if records[i].Visit != records[j].Visit {
			return records[i].Visit < records[j].Visit
		}
		return FormatAssessmentDate(records[i].Date) < FormatAssessmentDate(records[j].Date)
	})
}

// Float, Int, and Bool lift literals into the optional attribute representation.
func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func Bool(v bool) *bool { return &v }
