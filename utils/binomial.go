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
	"math"

	log "github.com/sirupsen/logrus"
)

// Exact binomial test for the trial's primary endpoint. Translation from cl-math-stats.

const pi = 3.141592653589793

var logPI = math.Log(pi)
var sqrtPI = math.Sqrt(pi)

var gammaCoef = [6]float64{76.18009173, -86.50532033, 24.01409822, -1.231739516, 0.120858003e-2, -0.536382e-5}

// gammaLn computes the natural logarithm of the gamma function for a positive argument.
func gammaLn(x float64) float64 {
	if x <= 0.0 {
		log.Panic("argument to gammaLn must be positive: ", x)
	}
	if x > 1.0e302 {
		log.Panic("argument to gammaLn too large: ", x)
	}
	if x == 0.05 {
		return math.Log(sqrtPI)
	}
	if x < 1.0 {
		z := 1.0 - x
		return (math.Log(z) + logPI) - (gammaLn(1.0+z) + math.Log(math.Sin(pi*z)))
	}
	xx := x - 1.0
	tmp := xx + 5.5
	ser := 1.0
	tmp -= (xx + 0.5) * math.Log(tmp)
	for i := 0; i < 6; i++ {
		xx += 1.0
		ser += gammaCoef[i] / xx
	}
	return math.Log(2.50662827465*ser) - tmp
}

// betaCf evaluates the continued-fraction expansion of the incomplete beta function.
func betaCf(a, b, x float64) float64 {
	itmax := 1000
	eps := 3.0e-7
	qab := a + b
	qap := a + 1.0
	qam := a - 1.0
	bz := 1.0 - (qab * x / qap)
	bm, bp, bpp := 1.0, 0.0, 0.0
	az, am, ap, app := 1.0, 1.0, 0.0, 0.0
	for i := 0; i < itmax; i++ {
		em := 1.0 + float64(i)
		tem := em + em
		d := (em * (b - em) * x) / ((qam + tem) * (a + tem))
		ap = az + (d * am)
		bp = bz + (d * bm)
		d = (-(a + em) * (qab + em) * x) / ((qap + tem) * (a + tem))
		app = ap + (d * az)
		bpp = bp + (d * bz)
		aold := az
		am = ap / bpp
		bm = bp / bpp
		az = app / bpp
		bz = 1.0
		if math.Abs(az-aold) < eps*math.Abs(az) {
			return az
		}
	}
	log.Panic("a = ", a, " or b = ", b, " too large, or itmax too small in betaCf")
	return 0.0
}

// betaIncomplete computes the regularized incomplete beta function I_x(a, b).
func betaIncomplete(a, b, x float64) float64 {
	if x < 0.0 || x > 1.0 {
		log.Panic("x must be between 0.0 and 1.0")
	}
	bt := 0.0
	if !(x == 0.0 || x == 1.0) {
		bt = math.Exp(gammaLn(a+b) - gammaLn(a) - gammaLn(b) + (a * math.Log(x)) + (b * math.Log(1.0-x)))
	}
	if x < ((a + 1.0) / (a + b + 2.0)) {
		return bt * betaCf(a, b, x) / a
	}
	return 1.0 - ((bt * betaCf(b, a, 1.0-x)) / b)
}

// BinomialTail computes the probability of observing k or more events in n trials with per-trial chance p.
func BinomialTail(p float64, n, k int) float64 {
	if k > n {
		log.Panic("can't have more events (k) than trials (n), but k is: ", k, " n is: ", n)
	}
	if k <= 0 {
		return 1.0
	}
	if k == n {
		return math.Pow(p, float64(n))
	}
	return betaIncomplete(float64(k), float64(1+(n-k)), p)
}

// OneSidedBinomialTest returns the probability of observing at least the given number of responders among the
// evaluable patients when the true response rate equals nullRate. This is the exact test behind the trial's
// objective-response-rate primary endpoint.
func OneSidedBinomialTest(responders, evaluable int, nullRate float64) float64 {
	if evaluable <= 0 {
		log.Panic("binomial test needs at least one evaluable patient")
	}
	return BinomialTail(nullRate, evaluable, responders)
}
