// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package learning provides estimators over manifold-valued data.
//
// Example:
//
//	import (
//	    "github.com/manifold-ml/manifold/geometry"
//	    "github.com/manifold-ml/manifold/learning"
//	)
//
//	space := geometry.NewHypersphere(4)
//	r := learning.New(space, learning.Config{})
//	if err := r.Fit(x, y, true); err != nil {
//	    // ...
//	}
//	fmt.Println(r.Intercept, r.Coef, r.TrainingScore)
package learning

import (
	"github.com/manifold-ml/manifold/internal/geometry"
	"github.com/manifold-ml/manifold/internal/learning"
)

// GeodesicRegression fits manifold-valued observations as a function of a
// scalar predictor.
type GeodesicRegression = learning.GeodesicRegression

// Config tunes the estimator.
type Config = learning.Config

// Method selects the fitting strategy.
type Method = learning.Method

// Fitting strategies.
const (
	Extrinsic  = learning.Extrinsic
	Riemannian = learning.Riemannian
)

// Initialization selects the starting parameter for fitting.
type Initialization = learning.Initialization

// RandomInit starts from a random point with a small tangent
// perturbation.
type RandomInit = learning.RandomInit

// WarmStartInit starts from the first target, or the previous fit.
type WarmStartInit = learning.WarmStartInit

// ExplicitInit starts from the given intercept and coefficient.
type ExplicitInit = learning.ExplicitInit

// New creates a geodesic regression estimator over the given space.
func New(space geometry.Space, cfg Config) *GeodesicRegression {
	return learning.New(space, cfg)
}
