// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"fmt"
	"strings"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
)

// RejectLog is the structured record of which trials and channels were
// judged bad, plus the consensus scores behind those judgments.  It is
// plain data: the caller owns persistence and any plotting.
type RejectLog struct {

	// channel names, in channel order
	ChanNames []string

	// names of globally bad channels
	BadChans []string

	// indices of globally bad channels
	BadIdx []int

	// per-(trial, channel) badness: 1 = bad segment
	BadLog *etensor.Int

	// per-(trial, channel) consensus scores in [0, 1]
	Scores *etensor.Float64

	// observed range of consensus scores
	ScoreRange minmax.F64
}

// NTrials returns the number of trials covered by the log.
func (rl *RejectLog) NTrials() int { return rl.BadLog.Dim(0) }

// NChans returns the number of channels covered by the log.
func (rl *RejectLog) NChans() int { return rl.BadLog.Dim(1) }

// IsBad reports whether the given (trial, channel) segment was marked bad.
func (rl *RejectLog) IsBad(trial, chn int) bool {
	return rl.BadLog.Value([]int{trial, chn}) != 0
}

// BadFracPerChan returns, per channel, the fraction of trials in which
// that channel's segment was marked bad.
func (rl *RejectLog) BadFracPerChan() []float64 {
	nt := rl.NTrials()
	nc := rl.NChans()
	frac := make([]float64, nc)
	for c := 0; c < nc; c++ {
		n := 0
		for tr := 0; tr < nt; tr++ {
			if rl.BadLog.Value([]int{tr, c}) != 0 {
				n++
			}
		}
		frac[c] = float64(n) / float64(nt)
	}
	return frac
}

// MeanScorePerChan returns each channel's consensus score averaged
// over trials.
func (rl *RejectLog) MeanScorePerChan() []float64 {
	nt := rl.NTrials()
	nc := rl.NChans()
	mean := make([]float64, nc)
	for c := 0; c < nc; c++ {
		sum := 0.0
		for tr := 0; tr < nt; tr++ {
			sum += rl.Scores.Value([]int{tr, c})
		}
		mean[c] = sum / float64(nt)
	}
	return mean
}

// Table renders the per-channel summary as an etable for reporting:
// channel name, mean score, bad-trial fraction, and global bad flag.
func (rl *RejectLog) Table() *etable.Table {
	nc := rl.NChans()
	dt := &etable.Table{}
	sch := etable.Schema{
		{Name: "Chan", Type: etensor.STRING, CellShape: nil, DimNames: nil},
		{Name: "Score", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "BadFrac", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Bad", Type: etensor.INT64, CellShape: nil, DimNames: nil},
	}
	dt.SetFromSchema(sch, nc)
	mean := rl.MeanScorePerChan()
	frac := rl.BadFracPerChan()
	bad := make(map[int]bool, len(rl.BadIdx))
	for _, bi := range rl.BadIdx {
		bad[bi] = true
	}
	for c := 0; c < nc; c++ {
		dt.SetCellString("Chan", c, rl.ChanNames[c])
		dt.SetCellFloat("Score", c, mean[c])
		dt.SetCellFloat("BadFrac", c, frac[c])
		bv := 0.0
		if bad[c] {
			bv = 1
		}
		dt.SetCellFloat("Bad", c, bv)
	}
	return dt
}

// String returns a one-line summary of the log.
func (rl *RejectLog) String() string {
	if len(rl.BadChans) == 0 {
		return fmt.Sprintf("RejectLog: %d trials x %d chans, no bad channels", rl.NTrials(), rl.NChans())
	}
	return fmt.Sprintf("RejectLog: %d trials x %d chans, bad: %s", rl.NTrials(), rl.NChans(), strings.Join(rl.BadChans, ", "))
}
