//-------------------------------------------------------------------------
//
// pgEdge Sales Agent
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrSampleRange is returned when a draw asks for more elements than the
// population holds, including any draw from an empty population.
var ErrSampleRange = errors.New("sample out of range")

// NewRand returns the general random source for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, randomStream))
}

// Choose returns a uniformly random element from the given slice.
func Choose[T any](r *rand.Rand, items []T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, fmt.Errorf("%w: cannot choose from an empty population", ErrSampleRange)
	}
	return items[r.IntN(len(items))], nil
}

// ChooseWeighted returns a random element based on weights.
func ChooseWeighted[T any](r *rand.Rand, items []T, weights []int) (T, error) {
	var zero T
	if len(items) == 0 || len(items) != len(weights) {
		return zero, fmt.Errorf("%w: %d items with %d weights", ErrSampleRange, len(items), len(weights))
	}

	totalWeight := 0
	for _, w := range weights {
		if w < 0 {
			return zero, fmt.Errorf("%w: negative weight %d", ErrSampleRange, w)
		}
		totalWeight += w
	}
	if totalWeight == 0 {
		return zero, fmt.Errorf("%w: weights sum to zero", ErrSampleRange)
	}

	n := r.IntN(totalWeight) + 1
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if n <= cumulative {
			return items[i], nil
		}
	}

	return items[len(items)-1], nil
}

// Sample draws k distinct elements without replacement, in draw order.
func Sample[T any](r *rand.Rand, items []T, k int) ([]T, error) {
	if k < 0 || k > len(items) {
		return nil, fmt.Errorf("%w: sample of %d from a population of %d",
			ErrSampleRange, k, len(items))
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}

	out := make([]T, k)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = items[idx[i]]
	}
	return out, nil
}

// Uniform returns a float64 in [lo, hi].
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
