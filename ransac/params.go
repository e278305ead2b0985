// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"fmt"
	"runtime"

	"github.com/emer/ransac/interp"
)

// BadPolicies enumerates the policies for deciding when a channel is
// globally bad, given its per-trial consensus scores.
type BadPolicies int32

const (
	// BadFraction flags a channel when the fraction of trials in which
	// its score falls below SegThr exceeds BadFracThr.  This is the
	// policy used by the PREP pipeline.
	BadFraction BadPolicies = iota

	// RobustZ flags a channel when the robust z-score (median / IQR
	// based) of its mean consensus score falls below -ZThr.
	RobustZ

	BadPoliciesN
)

var badPolicyNames = []string{"BadFraction", "RobustZ", "BadPoliciesN"}

func (bp BadPolicies) String() string {
	if bp < 0 || bp > BadPoliciesN {
		return fmt.Sprintf("BadPolicies(%d)", bp)
	}
	return badPolicyNames[bp]
}

// Params are the full set of RANSAC consensus parameters.
type Params struct {

	// number of random sub-sample rounds to run
	NResample int `def:"50" min:"1"`

	// fraction of channels drawn into each sub-sample -- the resulting
	// count must be at least 3 (spline minimum) and less than the
	// total channel count
	SampleFrac float64 `def:"0.25"`

	// minimum correlation between interpolated and observed signal for
	// a round to count as agreeing with the observation
	CorrThr float64 `def:"0.75"`

	// per-trial score below which that (trial, channel) segment is
	// marked bad in the reject log
	SegThr float64 `def:"0.5"`

	// policy for flagging globally bad channels
	BadPolicy BadPolicies

	// for BadFraction policy: channel is bad if the fraction of its
	// trials marked bad exceeds this
	BadFracThr float64 `def:"0.4"`

	// for RobustZ policy: channel is bad if its robust z-score is
	// below the negative of this
	ZThr float64 `def:"3"`

	// random seed for sub-sample draws -- identical seeds give
	// identical results
	Seed int64 `def:"1"`

	// number of parallel workers for the scoring rounds --
	// 0 uses the number of CPUs, 1 runs serially
	NWorkers int `def:"0"`

	// spatial interpolation parameters
	Interp interp.Params `view:"inline"`
}

func (pr *Params) Defaults() {
	pr.NResample = 50
	pr.SampleFrac = 0.25
	pr.CorrThr = 0.75
	pr.SegThr = 0.5
	pr.BadPolicy = BadFraction
	pr.BadFracThr = 0.4
	pr.ZThr = 3
	pr.Seed = 1
	pr.NWorkers = 0
	pr.Interp.Defaults()
}

// Validate checks all channel-count-independent constraints, returning
// ConfigError on the first violation.  Sub-sample size constraints
// additionally depend on the channel count -- see SampleSize.
func (pr *Params) Validate() error {
	if pr.NResample < 1 {
		return &ConfigError{Field: "NResample", Reason: fmt.Sprintf("must be at least 1, got %d", pr.NResample)}
	}
	if pr.SampleFrac <= 0 || pr.SampleFrac >= 1 {
		return &ConfigError{Field: "SampleFrac", Reason: fmt.Sprintf("must be in (0, 1), got %g", pr.SampleFrac)}
	}
	if pr.CorrThr < 0 || pr.CorrThr > 1 {
		return &ConfigError{Field: "CorrThr", Reason: fmt.Sprintf("must be in [0, 1], got %g", pr.CorrThr)}
	}
	if pr.SegThr < 0 || pr.SegThr > 1 {
		return &ConfigError{Field: "SegThr", Reason: fmt.Sprintf("must be in [0, 1], got %g", pr.SegThr)}
	}
	if pr.BadPolicy < 0 || pr.BadPolicy >= BadPoliciesN {
		return &ConfigError{Field: "BadPolicy", Reason: fmt.Sprintf("unknown policy %d", pr.BadPolicy)}
	}
	if pr.BadFracThr <= 0 || pr.BadFracThr >= 1 {
		return &ConfigError{Field: "BadFracThr", Reason: fmt.Sprintf("must be in (0, 1), got %g", pr.BadFracThr)}
	}
	if pr.ZThr <= 0 {
		return &ConfigError{Field: "ZThr", Reason: fmt.Sprintf("must be positive, got %g", pr.ZThr)}
	}
	return nil
}

// SampleSize returns the per-round sub-sample size for the given
// channel count: floor(SampleFrac * nChans).  Returns ConfigError if
// the size is below the geometric minimum of 3 or not smaller than
// the channel count.
func (pr *Params) SampleSize(nChans int) (int, error) {
	k := int(pr.SampleFrac * float64(nChans))
	if k < 3 {
		return 0, &ConfigError{Field: "SampleFrac", Reason: fmt.Sprintf("sub-sample size %d of %d channels is below the minimum of 3 needed for interpolation", k, nChans)}
	}
	if k >= nChans {
		return 0, &ConfigError{Field: "SampleFrac", Reason: fmt.Sprintf("sub-sample size %d must be smaller than the channel count %d", k, nChans)}
	}
	return k, nil
}

// Workers returns the effective worker count: NWorkers, defaulted to
// the number of CPUs when 0 or negative.
func (pr *Params) Workers() int {
	if pr.NWorkers > 0 {
		return pr.NWorkers
	}
	return runtime.NumCPU()
}
