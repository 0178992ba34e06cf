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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomialTail(t *testing.T) {
	// P(X >= 3) for X ~ Bin(10, 0.5) is 968/1024
	assert.InDelta(t, 0.9453125, BinomialTail(0.5, 10, 3), 1e-6)
	// P(X >= 1) for X ~ Bin(2, 0.5)
	assert.InDelta(t, 0.75, BinomialTail(0.5, 2, 1), 1e-6)
	// all trials are events
	assert.InDelta(t, 0.03125, BinomialTail(0.5, 5, 5), 1e-12)
	// zero or negative event counts are certain
	assert.Equal(t, 1.0, BinomialTail(0.5, 10, 0))
	assert.Equal(t, 1.0, BinomialTail(0.5, 10, -1))
}

func TestBinomialTailRejectsMoreEventsThanTrials(t *testing.T) {
	require.Panics(t, func() { BinomialTail(0.5, 5, 6) })
}

func TestOneSidedBinomialTest(t *testing.T) {
	// observing at least as many responders as expected under the null is likely
	p := OneSidedBinomialTest(3, 10, 0.3)
	assert.Greater(t, p, 0.5)
	// a high response rate against a low null rate is unlikely under the null
	p = OneSidedBinomialTest(9, 10, 0.3)
	assert.Less(t, p, 0.001)
}

func TestOneSidedBinomialTestIsMonotoneInResponders(t *testing.T) {
	prev := 1.0
	for responders := 0; responders <= 20; responders++ {
		p := OneSidedBinomialTest(responders, 20, 0.3)
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
}

func TestOneSidedBinomialTestRejectsEmptyPopulation(t *testing.T) {
	require.Panics(t, func() { OneSidedBinomialTest(0, 0, 0.3) })
}

func TestMinMaxInt(t *testing.T) {
	assert.Equal(t, 2, MinInt(2, 5))
	assert.Equal(t, 5, MaxInt(2, 5))
	assert.Equal(t, -1, MinInt(-1, 0))
}
