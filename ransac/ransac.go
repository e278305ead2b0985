// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ransac detects and repairs bad channels in epoched multichannel
recordings by spatial consensus: many rounds each draw a random subset
of channels, spatially interpolate every other channel from that
subset, and compare prediction to observation.  Channels that the
consensus of rounds cannot predict are flagged bad and repaired by
interpolation from their good neighbors.

This is the RANSAC method of the PREP pipeline (Bigdely-Shamlo et al.,
2015), as extended in autoreject (Jas et al., 2017).

The main entry point is the Ransac struct:

	rs := ransac.New()
	log, err := rs.Fit(epochs)       // detect
	clean, err := rs.Transform(epochs) // repair

FitTransform composes the two.  All inputs are treated as immutable;
repaired data is always a new Epochs set.
*/
package ransac

import (
	"fmt"
	"math/rand"

	"github.com/emer/ransac/epochs"
)

// Stages are the sequential stages of the consensus pipeline.
// Each stage consumes the prior stage's output; there are no loops
// back, and a failure at any stage aborts the run.
type Stages int32

const (
	// StageInit validates configuration and input
	StageInit Stages = iota

	// StageSubsample draws the random channel subsets
	StageSubsample

	// StageScore runs the consensus rounds
	StageScore

	// StageClassify thresholds scores into the reject log
	StageClassify

	// StageRepair interpolates the flagged channels
	StageRepair

	// StageDone indicates a completed run
	StageDone

	StagesN
)

var stageNames = []string{"Init", "Subsample", "Score", "Classify", "Repair", "Done", "StagesN"}

func (st Stages) String() string {
	if st < 0 || st > StagesN {
		return fmt.Sprintf("Stages(%d)", st)
	}
	return stageNames[st]
}

// Ransac is the consensus bad-channel detector and repairer.
// Configure Params (or keep the defaults from New), call Fit to detect
// bad channels, then Transform to repair them.
type Ransac struct {

	// all detection and repair parameters
	Params Params

	// the stage most recently reached -- on error, the stage that failed
	Stage Stages

	// the reject log from the last successful Fit, nil before that
	Log *RejectLog
}

// New returns a new Ransac with default parameters.
func New() *Ransac {
	rs := &Ransac{}
	rs.Params.Defaults()
	return rs
}

// stageErr tags err with the failing stage and aborts the run there.
func (rs *Ransac) stageErr(err error) error {
	return fmt.Errorf("ransac: %v stage: %w", rs.Stage, err)
}

// Fit detects bad channels in the given epochs, returning the reject
// log, which is also retained for a subsequent Transform.  The input
// is not modified.  Errors: ConfigError (invalid params or input),
// InsufficientCoverageError (sampling cannot cover all channels),
// or a GeometryError propagated from interpolation.
func (rs *Ransac) Fit(ep *epochs.Epochs) (*RejectLog, error) {
	rs.Stage = StageInit
	rs.Log = nil
	if err := rs.Params.Validate(); err != nil {
		return nil, rs.stageErr(err)
	}
	if err := ep.Validate(); err != nil {
		return nil, rs.stageErr(&ConfigError{Field: "Epochs", Reason: err.Error()})
	}
	k, err := rs.Params.SampleSize(ep.NChans())
	if err != nil {
		return nil, rs.stageErr(err)
	}

	rs.Stage = StageSubsample
	rnd := rand.New(rand.NewSource(rs.Params.Seed))
	samps := Subsamples(ep.NChans(), k, rs.Params.NResample, rnd)
	if err := CheckCoverage(ep.NChans(), samps, ep.ChanNames()); err != nil {
		return nil, rs.stageErr(err)
	}

	rs.Stage = StageScore
	scores, err := Score(ep, samps, &rs.Params)
	if err != nil {
		return nil, rs.stageErr(err)
	}

	rs.Stage = StageClassify
	rs.Log = Classify(scores, ep.ChanNames(), &rs.Params)
	rs.Stage = StageDone
	return rs.Log, nil
}

// Transform repairs the globally bad channels found by a prior Fit,
// returning a new Epochs set with those channels' signals replaced by
// spatial interpolation from the good channels.  The input is not
// modified.  Requires a prior successful Fit (else ConfigError) on an
// Epochs set with the same channel layout.
func (rs *Ransac) Transform(ep *epochs.Epochs) (*epochs.Epochs, error) {
	if rs.Log == nil {
		rs.Stage = StageInit
		return nil, rs.stageErr(&ConfigError{Field: "Transform", Reason: "requires a prior successful Fit"})
	}
	if ep.NChans() != rs.Log.NChans() {
		rs.Stage = StageInit
		return nil, rs.stageErr(&ConfigError{Field: "Epochs", Reason: fmt.Sprintf("channel count %d does not match fitted %d", ep.NChans(), rs.Log.NChans())})
	}
	rs.Stage = StageRepair
	out, err := Repair(ep, rs.Log.BadIdx, &rs.Params.Interp)
	if err != nil {
		return nil, rs.stageErr(err)
	}
	rs.Stage = StageDone
	return out, nil
}

// FitTransform is the composition of Fit then Transform on the same
// epochs.
func (rs *Ransac) FitTransform(ep *epochs.Epochs) (*epochs.Epochs, error) {
	if _, err := rs.Fit(ep); err != nil {
		return nil, err
	}
	return rs.Transform(ep)
}

// BadChs returns the names of the globally bad channels from the last
// Fit, nil if Fit has not been run.
func (rs *Ransac) BadChs() []string {
	if rs.Log == nil {
		return nil
	}
	return rs.Log.BadChans
}
