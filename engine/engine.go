// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine holds the process-wide backend selection, decided once
// at startup.
//
// Example:
//
//	import (
//	    "github.com/manifold-ml/manifold/backend/blas"
//	    "github.com/manifold-ml/manifold/engine"
//	)
//
//	if err := engine.Use(blas.New()); err != nil {
//	    log.Fatal(err)
//	}
//	b := engine.Active()
package engine

import (
	"github.com/manifold-ml/manifold/internal/array"
	"github.com/manifold-ml/manifold/internal/engine"
)

// ErrAlreadyConfigured reports an attempt to switch the process-wide
// backend after it was fixed.
var ErrAlreadyConfigured = engine.ErrAlreadyConfigured

// Use fixes the process-wide backend.
func Use(b array.Backend) error {
	return engine.Use(b)
}

// Active returns the process-wide backend, defaulting to the pure-Go
// engine.
func Active() array.Backend {
	return engine.Active()
}
