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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileBaselineSumsLesionDiameters(t *testing.T) {
	targets := []*BaselineTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 12.5},
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 7.5},
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 30},
	}
	cohort := Cohort{"0101-0001": true}
	records := ReconcileBaseline(targets, nil, cohort)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "0101-0001", r.Patient)
	assert.Equal(t, BaselineVisit, r.Visit)
	require.NotNil(t, r.SLD)
	assert.Equal(t, 50.0, *r.SLD)
	assert.Equal(t, "2022-01-10", FormatAssessmentDate(r.Date))
	require.NotNil(t, r.MeasurableAtBaseline)
	assert.True(t, *r.MeasurableAtBaseline)
	require.NotNil(t, r.NonMeasurableOnly)
	assert.False(t, *r.NonMeasurableOnly)
}

func TestReconcileBaselineNonMeasurableOnlyPatient(t *testing.T) {
	nonTargets := []*BaselineNonTargetLesion{
		{Patient: "0101-0002", Date: ParseAssessmentDate("2022-01-12"), HasNonTargetLesion: true},
	}
	cohort := Cohort{"0101-0002": true}
	records := ReconcileBaseline(nil, nonTargets, cohort)
	require.Len(t, records, 1)
	r := records[0]
	assert.Nil(t, r.SLD)
	assert.Nil(t, r.MeasurableAtBaseline)
	require.NotNil(t, r.NonMeasurableOnly)
	assert.True(t, *r.NonMeasurableOnly)
	assert.Equal(t, "2022-01-12", FormatAssessmentDate(r.Date))
}

func TestReconcileBaselineNonAffirmativeNonTargetFlagIsDropped(t *testing.T) {
	nonTargets := []*BaselineNonTargetLesion{
		{Patient: "0101-0002", Date: ParseAssessmentDate("2022-01-12"), HasNonTargetLesion: false},
	}
	cohort := Cohort{"0101-0002": true}
	records := ReconcileBaseline(nil, nonTargets, cohort)
	assert.Empty(t, records)
}

func TestReconcileBaselineDatePrefersMeasurableRecord(t *testing.T) {
	targets := []*BaselineTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 20},
	}
	nonTargets := []*BaselineNonTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-11"), HasNonTargetLesion: true},
	}
	cohort := Cohort{"0101-0001": true}
	records := ReconcileBaseline(targets, nonTargets, cohort)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "2022-01-10", FormatAssessmentDate(r.Date))
	// the non-measurable flag does not override presence of measurable lesions
	require.NotNil(t, r.NonMeasurableOnly)
	assert.False(t, *r.NonMeasurableOnly)
}

func TestReconcileBaselineDateFallsBackToNonMeasurableRecord(t *testing.T) {
	targets := []*BaselineTargetLesion{
		{Patient: "0101-0001", Date: nil, LongestDiameter: 20},
	}
	nonTargets := []*BaselineNonTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-11"), HasNonTargetLesion: true},
	}
	cohort := Cohort{"0101-0001": true}
	records := ReconcileBaseline(targets, nonTargets, cohort)
	require.Len(t, records, 1)
	assert.Equal(t, "2022-01-11", FormatAssessmentDate(records[0].Date))
}

func TestReconcileBaselineRestrictsToCohort(t *testing.T) {
	targets := []*BaselineTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 20},
		{Patient: "0101-0002", Date: ParseAssessmentDate("2022-01-12"), LongestDiameter: 15},
	}
	cohort := Cohort{"0101-0001": true}
	records := ReconcileBaseline(targets, nil, cohort)
	require.Len(t, records, 1)
	assert.Equal(t, "0101-0001", records[0].Patient)
}

func TestReconcileBaselineOneRecordPerPatient(t *testing.T) {
	targets := []*BaselineTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 12},
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), LongestDiameter: 8},
	}
	nonTargets := []*BaselineNonTargetLesion{
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), HasNonTargetLesion: true},
		{Patient: "0101-0001", Date: ParseAssessmentDate("2022-01-10"), HasNonTargetLesion: true},
	}
	cohort := Cohort{"0101-0001": true}
	records := ReconcileBaseline(targets, nonTargets, cohort)
	assert.Len(t, records, 1)
}
