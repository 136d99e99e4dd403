// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package minimize wraps the gonum optimizers behind a flat-vector
// objective contract: a closure returning the loss and its gradient.
package minimize

import "github.com/manifold-ml/manifold/internal/minimize"

// Objective evaluates the loss and its gradient at x.
type Objective = minimize.Objective

// Settings bounds the optimization run.
type Settings = minimize.Settings

// Result reports the best iterate found and convergence metadata.
type Result = minimize.Result

// Minimize runs conjugate-gradient descent from x0. Hitting the iteration
// limit is reported through Result.Converged, not as an error.
func Minimize(objective Objective, x0 []float64, settings Settings) (*Result, error) {
	return minimize.Minimize(objective, x0, settings)
}
