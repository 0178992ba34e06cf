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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"luper/timeline"
)

func plotFixture() []*timeline.VisitRecord {
	return []*timeline.VisitRecord{
		{Patient: "0101-0001", Visit: 0, SLD: timeline.Float(50)},
		{Patient: "0101-0001", Visit: 1, SLD: timeline.Float(40), PctChangeFromBaseline: timeline.Float(-20)},
		{Patient: "0101-0001", Visit: 2, SLD: timeline.Float(55), PctChangeFromBaseline: timeline.Float(10), IsPD: true},
		{Patient: "0101-0002", Visit: 0, SLD: timeline.Float(30)},
		{Patient: "0101-0002", Visit: 1, SLD: timeline.Float(12), PctChangeFromBaseline: timeline.Float(-60)},
	}
}

func TestPlotTimelineWritesAllViews(t *testing.T) {
	dir := t.TempDir()
	PlotTimeline(plotFixture(), "test", dir)
	require.FileExists(t, filepath.Join(dir, "test-swimmer.png"))
	require.FileExists(t, filepath.Join(dir, "test-spider.png"))
	require.FileExists(t, filepath.Join(dir, "test-waterfall.png"))
}

func TestWaterfallPlotOmitsPatientsWithoutPostBaselineChange(t *testing.T) {
	dir := t.TempDir()
	records := append(plotFixture(), &timeline.VisitRecord{Patient: "0101-0003", Visit: 0, SLD: timeline.Float(20)})
	name := filepath.Join(dir, "waterfall.png")
	WaterfallPlot(records, name)
	require.FileExists(t, name)
}
