// Copyright 2026 Manifold ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure-Go compute engine. It implements every
// array.Backend operation with straightforward loops and serves as the
// reference other engines are checked against.
package cpu

import "github.com/manifold-ml/manifold/internal/backend/cpu"

// Backend is the pure-Go compute engine.
type Backend = cpu.Backend

// New creates a new CPU backend.
func New() *Backend {
	return cpu.New()
}
