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

func TestReconcileLesionsSumsPerVisit(t *testing.T) {
	targets := []*TargetLesion{
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-01"), LongestDiameter: 10},
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-01"), LongestDiameter: 6},
		{Patient: "0101-0001", Visit: 2, Date: ParseAssessmentDate("2022-05-01"), LongestDiameter: 14},
	}
	records := ReconcileLesions(targets, nil)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].SLD)
	assert.Equal(t, 16.0, *records[0].SLD)
	assert.Equal(t, 1, records[0].Visit)
	require.NotNil(t, records[1].SLD)
	assert.Equal(t, 14.0, *records[1].SLD)
	assert.Equal(t, 2, records[1].Visit)
}

func TestReconcileLesionsMatchingDatesMergeIntoOneRow(t *testing.T) {
	targets := []*TargetLesion{
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-01"), LongestDiameter: 10},
	}
	nonTargets := []*NonTargetLesion{
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-01")},
	}
	records := ReconcileLesions(targets, nonTargets)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].SLD)
	assert.Equal(t, 10.0, *records[0].SLD)
}

func TestReconcileLesionsDateDisagreementKeepsRowsSeparate(t *testing.T) {
	targets := []*TargetLesion{
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-01"), LongestDiameter: 10},
	}
	nonTargets := []*NonTargetLesion{
		{Patient: "0101-0001", Visit: 1, Date: ParseAssessmentDate("2022-03-03")},
	}
	records := ReconcileLesions(targets, nonTargets)
	require.Len(t, records, 2)
	assert.Equal(t, "2022-03-01", FormatAssessmentDate(records[0].Date))
	assert.NotNil(t, records[0].SLD)
	assert.Equal(t, "2022-03-03", FormatAssessmentDate(records[1].Date))
	assert.Nil(t, records[1].SLD)
}

func TestReconcileLesionsNonMeasurableOnlyVisit(t *testing.T) {
	nonTargets := []*NonTargetLesion{
		{Patient: "0101-0002", Visit: 1, Date: ParseAssessmentDate("2022-03-02")},
		{Patient: "0101-0002", Visit: 1, Date: ParseAssessmentDate("2022-03-02")},
	}
	records := ReconcileLesions(nil, nonTargets)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].SLD)
	assert.Equal(t, 1, records[0].Visit)
}

func TestDetectNewLesionsKeepsFirstSourceRowPerPatient(t *testing.T) {
	rows := []*NewLesion{
		{Patient: "0101-0001", Visit: 3, Date: ParseAssessmentDate("2022-07-01")},
		{Patient: "0101-0001", Visit: 5, Date: ParseAssessmentDate("2022-11-01")},
		{Patient: "0101-0002", Visit: 2, Date: ParseAssessmentDate("2022-05-02")},
	}
	detections := DetectNewLesions(rows)
	require.Len(t, detections, 2)
	assert.Equal(t, "0101-0001", detections[0].Patient)
	assert.Equal(t, 3, detections[0].Visit)
	assert.Equal(t, "0101-0002", detections[1].Patient)
	assert.Equal(t, 2, detections[1].Visit)
}

func TestDetectNewLesionsFirstRowWinsEvenWhenLaterVisitComesFirst(t *testing.T) {
	// the source table is not guaranteed to be chronologically ordered; row order decides
	rows := []*NewLesion{
		{Patient: "0101-0001", Visit: 5, Date: ParseAssessmentDate("2022-11-01")},
		{Patient: "0101-0001", Visit: 3, Date: ParseAssessmentDate("2022-07-01")},
	}
	detections := DetectNewLesions(rows)
	require.Len(t, detections, 1)
	assert.Equal(t, 5, detections[0].Visit)
}
