// Copyright 2025 The go-recfilter Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filter computes 2D recursive filters, summed-area tables among
// them, with a block-parallel algorithm.
//
// The image is cut into square tiles. Each pass along one axis runs three
// stages on a worker pool:
//
//  1. Local: every tile row is filtered from a zero carry and the carry it
//     leaves (its last R outputs) is recorded.
//  2. Propagation: along each line, the true carry entering tile t+1 is
//     A·c[t] + l[t], where A is the tile's carry map and l[t] its local
//     carry. Lines are independent; within a line either a sequential walk
//     or a tree scan of the affine maps is used.
//  3. Fix-up: every tile adds the effect of its incoming carry, read from a
//     transfer map precomputed once per weights and tile size.
//
// Borders are handled with virtual tiles that surround the image and
// sample it through a border policy; they take part in the local and
// propagation stages but are never written.
//
// The second axis is filtered by transposing, running the same row pass
// and transposing back.
//
// Basic usage:
//
//	sat, err := filter.SAT(img, nil)
//	sum := filter.BoxSum(sat, 10, 10, 20, 20)
//
// For repeated runs build a Pipeline once:
//
//	p, err := filter.NewPipeline[float32](filter.Options{
//		Weights: w,
//		Border:  border.Clamp,
//		Extent:  1,
//	})
//	defer p.Close()
//	out, err := p.Run(img)
package filter
