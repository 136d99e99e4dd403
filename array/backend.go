// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package array

import "github.com/manifold-ml/manifold/internal/array"

// Backend defines the interface every compute engine implements: creation
// aside, all array computation flows through one of these.
//
// Implementations:
//   - backend/cpu: pure Go reference engine
//   - backend/blas: gonum mat/floats accelerated engine
//
// Decorator backends:
//   - autodiff: gradient recording (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/manifold-ml/manifold/array"
//	    "github.com/manifold-ml/manifold/backend/cpu"
//	)
//
//	b := cpu.New()
//	x := array.Ones(array.Shape{2, 3})
//	y := b.Add(x, x)
type Backend = array.Backend

// Linalg is the matrix-decomposition subset of Backend.
type Linalg = array.Linalg
