// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package geometry provides manifolds and Riemannian metrics: Euclidean
// space, the hypersphere and symmetric positive definite matrices, plus
// the Fréchet mean. Every operation takes the compute backend explicitly
// so the same geometry runs over any engine, including the autodiff
// decorator.
package geometry

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/geometry"
)

// Manifold is a space of points with a tangent space at every point.
type Manifold = geometry.Manifold

// Metric is a Riemannian metric on a manifold.
type Metric = geometry.Metric

// Space is a manifold equipped with its canonical metric.
type Space = geometry.Space

// Euclidean is flat space with the standard inner product.
type Euclidean = geometry.Euclidean

// NewEuclidean creates d-dimensional Euclidean space.
func NewEuclidean(dim int) *Euclidean {
	return geometry.NewEuclidean(dim)
}

// Hypersphere is the unit sphere with the round metric.
type Hypersphere = geometry.Hypersphere

// NewHypersphere creates the unit sphere of the given intrinsic
// dimension.
func NewHypersphere(dim int) *Hypersphere {
	return geometry.NewHypersphere(dim)
}

// SPDMatrices is the manifold of symmetric positive definite matrices
// with the log-Euclidean metric.
type SPDMatrices = geometry.SPDMatrices

// NewSPDMatrices creates the space of n-by-n SPD matrices.
func NewSPDMatrices(n int) *SPDMatrices {
	return geometry.NewSPDMatrices(n)
}

// FrechetOptions bounds the Karcher flow.
type FrechetOptions = geometry.FrechetOptions

// FrechetMean computes the point minimizing the sum of squared geodesic
// distances to the given points.
func FrechetMean(b array.Backend, metric Metric, points *array.Array, opts FrechetOptions) *array.Array {
	return geometry.FrechetMean(b, metric, points, opts)
}

// Variance computes the mean squared geodesic distance of points to base.
func Variance(b array.Backend, metric Metric, points, base *array.Array) float64 {
	return geometry.Variance(b, metric, points, base)
}
