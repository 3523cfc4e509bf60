// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package rf

import (
	"github.com/pkg/errors"
)

// ErrConfig is the sentinel wrapped by every configuration error.
// Configuration errors are detected before any parallel work is dispatched.
var ErrConfig = errors.New("rf: invalid configuration")

// ErrTooLarge signals that a run would need more memory than allowed.
var ErrTooLarge = errors.New("rf: image too large")

// ConfigErrorf returns an error wrapping ErrConfig with a formatted message.
func ConfigErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrConfig, format, args...)
}

// TooLargef returns an error wrapping ErrTooLarge with a formatted message.
func TooLargef(format string, args ...any) error {
	return errors.Wrapf(ErrTooLarge, format, args...)
}

// IsConfigError reports whether err is, or wraps, ErrConfig.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}
