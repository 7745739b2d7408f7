// Copyright 2026 Lumen ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/lumen-ml/lumen/internal/backend/cpu"
	"github.com/lumen-ml/lumen/internal/device"
)

// Backend is the reference device backend. "Device" memory is host memory,
// but gather/scatter still run through a deferred work queue, so lazy
// evaluation semantics hold without an accelerator.
type Backend = internalcpu.Backend

// Compile-time check that Backend implements device.Backend.
var _ device.Backend = (*Backend)(nil)

// New creates a new reference backend.
//
// Example:
//
//	import (
//	    "github.com/lumen-ml/lumen/array"
//	    "github.com/lumen-ml/lumen/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    a, _ := array.Zeros[float32](backend, array.Shape{2, 3})
//	    _ = a
//	}
func New() *Backend {
	return internalcpu.New()
}
