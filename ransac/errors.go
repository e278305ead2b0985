// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import "fmt"

// ConfigError indicates an invalid configuration value, or an operation
// attempted out of order (Transform before Fit).  It is surfaced before
// any pipeline stage runs and is never retryable.
type ConfigError struct {

	// the offending Params field or operation
	Field string

	// why it was rejected
	Reason string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf("ransac: config error: %s: %s", ce.Field, ce.Reason)
}

// InsufficientCoverageError indicates that the drawn sub-samples never
// exclude some channel, so that channel would never be predicted and
// scored.  Increase NResample or decrease SampleFrac.  Surfaced before
// scoring begins.
type InsufficientCoverageError struct {

	// name of a channel with no prediction coverage
	Chan string
}

func (ce *InsufficientCoverageError) Error() string {
	return fmt.Sprintf("ransac: channel %s was included in every sub-sample and would never be predicted -- increase NResample or decrease SampleFrac", ce.Chan)
}
