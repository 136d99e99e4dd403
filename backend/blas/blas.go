// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package blas provides the gonum-accelerated compute engine. Dense
// linear algebra runs on gonum/mat and element-wise kernels on
// gonum/floats; layout operations fall back to the pure-Go engine.
package blas

import "github.com/manifold-ml/manifold/internal/backend/blas"

// Backend is the gonum-accelerated compute engine.
type Backend = blas.Backend

// New creates a new BLAS backend.
func New() *Backend {
	return blas.New()
}
