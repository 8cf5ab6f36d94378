// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nnops provides the forward and backward operators needed to
// hand-build small feed-forward networks on flat float32 buffers: an affine
// transform, the sigmoid activation and the mean squared error loss.
//
// Matrices are row-major []float32 with their dimensions passed explicitly.
// The matrix products underneath come from package compute, selected through
// an Ops value; the package-level functions use DefaultOps.
//
// Two accumulation rules hold everywhere:
//   - LinearForward overwrites its output with the bias before adding the
//     product, so a forward pass never depends on what the buffer held.
//   - Every backward operator and every compute kernel adds into its output.
//     Callers own zeroing gradients, normally with Param.ZeroGrad once per
//     step.
//
// Layer types (Linear, Sigmoid, MSE) wrap the operators and cache exactly
// what their backward pass needs. Violated preconditions, such as buffers of
// the wrong length or a backward call without a matching forward, panic.
package nnops
