// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package random provides seeded random sampling over arrays. The
// package-level functions share one process-wide generator; construct a
// Generator explicitly for isolated, reproducible streams.
package random

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/random"
)

// ErrInvalidBounds reports a uniform draw with low >= high.
var ErrInvalidBounds = random.ErrInvalidBounds

// Generator draws samples from an explicit, reseedable source.
type Generator = random.Generator

// NewGenerator creates a generator seeded with the given value.
func NewGenerator(seed uint64) *Generator {
	return random.NewGenerator(seed)
}

// Default returns the process-wide generator.
func Default() *Generator {
	return random.Default()
}

// Seed reseeds the process-wide generator.
func Seed(seed uint64) {
	random.Seed(seed)
}

// Uniform draws from [low, high) using the process-wide generator.
func Uniform(low, high float64, size ...int) (*array.Array, error) {
	return random.Uniform(low, high, size...)
}

// Normal draws from a normal distribution using the process-wide
// generator.
func Normal(loc, scale float64, size ...int) *array.Array {
	return random.Normal(loc, scale, size...)
}

// Rand draws from [0, 1) using the process-wide generator.
func Rand(size ...int) *array.Array {
	return random.Rand(size...)
}

// MultivariateNormal draws jointly normal vectors using the process-wide
// generator.
func MultivariateNormal(mean, cov *array.Array, n int) (*array.Array, error) {
	return random.MultivariateNormal(mean, cov, n)
}

// Choice draws with replacement from an array's first axis using the
// process-wide generator; non-array values pass through unchanged.
func Choice(population any, count int) any {
	return random.Choice(population, count)
}
