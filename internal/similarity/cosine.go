// Copyright 2026 The Phishdedup Authors
// SPDX-License-Identifier: MIT

package similarity

import "math"

// Norm returns the Euclidean length of a.
func Norm(a []float64) float64 {
	sum := 0.0
	for _, x := range a {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns dot(a,b)/(|a||b|) clamped to [0,1]. The second result is
// false when either vector has zero length or the dimensions differ, in
// which case the similarity is undefined.
func Cosine(a, b []float64) (float64, bool) {
	if len(a) != len(b) {
		return 0, false
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, false
	}

	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	sim := dot / (na * nb)
	switch {
	case sim > 1:
		sim = 1
	case sim < 0:
		sim = 0
	}
	return sim, true
}
