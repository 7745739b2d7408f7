// Copyright 2026 Lumen ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU device backend.
//
// WebGPU is a cross-platform graphics and compute API that works on
// Windows (D3D12), macOS (Metal), and Linux (Vulkan). Storage buffers are
// word-addressed, so only element kinds whose size is a multiple of 4
// bytes are supported; sub-word kinds stay on the cpu backend.
package webgpu

import (
	internalwebgpu "github.com/lumen-ml/lumen/internal/backend/webgpu"
	"github.com/lumen-ml/lumen/internal/device"
)

// Backend is the WebGPU device backend.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements device.Backend.
var _ device.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Returns an error if WebGPU initialization fails (e.g. no compatible GPU).
// Call Release() when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    backend, _ = webgpu.New()
//	} else {
//	    backend = cpu.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
