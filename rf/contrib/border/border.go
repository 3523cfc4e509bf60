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

// Package border defines how an image is logically extended past its edges.
//
// The same functions are used by the sequential reference engine and by the
// block-parallel engine, so both agree on every out-of-range sample.
//
// For a line [a b c d]:
//
//	Zero:    ... 0 0 | a b c d | 0 0 ...
//	Clamp:   ... a a | a b c d | d d ...
//	Repeat:  ... c d | a b c d | a b ...
//	Reflect: ... c b | a b c d | c b ...
package border

import (
	"strings"

	"github.com/ajroetker/go-recfilter/rf"
)

// Type is an extension policy.
type Type int

const (
	// Zero treats every out-of-range sample as 0.
	Zero Type = iota
	// Clamp repeats the nearest edge sample.
	Clamp
	// Repeat tiles the line periodically.
	Repeat
	// Reflect mirrors at the edge without duplicating the edge sample.
	Reflect
)

var names = [...]string{"zero", "clamp", "repeat", "reflect"}

// String returns the lower-case policy name.
func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return names[t]
}

// Valid reports whether t is one of the defined policies.
func (t Type) Valid() bool {
	return t >= Zero && t <= Reflect
}

// Parse returns the policy with the given name (case-insensitive).
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if s == n {
			return Type(i), nil
		}
	}
	return Zero, rf.ConfigErrorf("unknown border type %q (want one of %s)", s, strings.Join(names[:], ", "))
}

// Index maps coordinate i onto [0, n) according to t.
// The boolean is false when the sample is an implicit zero, which only
// happens for Zero outside the line. n must be positive.
func Index(t Type, i, n int) (int, bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch t {
	case Clamp:
		return Clamp1(i, n), true
	case Repeat:
		return Wrap(i, n), true
	case Reflect:
		return Reflect101(i, n), true
	default:
		return 0, false
	}
}

// Sample returns the value of line at coordinate i under policy t.
func Sample[T rf.Floats](t Type, line []T, i int) T {
	j, ok := Index(t, i, len(line))
	if !ok {
		return 0
	}
	return line[j]
}

// Clamp1 returns i clamped to [0, n-1].
func Clamp1(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Wrap returns i wrapped to [0, n) using modulo.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Reflect101 mirrors i into [0, n) with period 2(n-1), so -1 maps to 1
// and n maps to n-2. A single-sample line always maps to 0.
func Reflect101(i, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
