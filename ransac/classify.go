// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"github.com/emer/etable/v2/agg"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// Classify thresholds the consensus score matrix into a RejectLog.
// A (trial, channel) segment is bad when its score is below SegThr.
// A channel is globally bad per the configured BadPolicy.
// Deterministic given fixed scores and thresholds; no side effects.
func Classify(scores *etensor.Float64, names []string, pr *Params) *RejectLog {
	nTrials := scores.Dim(0)
	nChans := scores.Dim(1)

	rl := &RejectLog{}
	rl.ChanNames = make([]string, nChans)
	copy(rl.ChanNames, names)
	rl.Scores = scores
	rl.BadLog = etensor.NewInt([]int{nTrials, nChans}, nil, []string{"Trial", "Chan"})
	rl.ScoreRange.SetInfinity()
	for i, v := range scores.Values {
		rl.ScoreRange.FitValInRange(v)
		if v < pr.SegThr {
			rl.BadLog.Values[i] = 1
		}
	}

	var bad []bool
	switch pr.BadPolicy {
	case RobustZ:
		bad = classifyRobustZ(rl.MeanScorePerChan(), pr)
	default:
		bad = classifyBadFraction(rl.BadFracPerChan(), pr)
	}
	for c, b := range bad {
		if b {
			rl.BadIdx = append(rl.BadIdx, c)
			rl.BadChans = append(rl.BadChans, rl.ChanNames[c])
		}
	}
	return rl
}

// classifyBadFraction flags channels whose fraction of bad trials
// exceeds BadFracThr.
func classifyBadFraction(frac []float64, pr *Params) []bool {
	bad := make([]bool, len(frac))
	for c, f := range frac {
		bad[c] = f > pr.BadFracThr
	}
	return bad
}

// iqrSD converts an inter-quartile range to a robust standard
// deviation estimate (normal-consistent).
const iqrSD = 0.7413

// classifyRobustZ flags channels whose mean score is a median-low
// outlier: robust z = (score - median) / (IQR * 0.7413) below -ZThr.
// When the IQR is zero (all channels scoring alike) no channel can be
// an outlier and none is flagged.
func classifyRobustZ(mean []float64, pr *Params) []bool {
	dt := &etable.Table{}
	dt.SetFromSchema(etable.Schema{{Name: "Score", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil}}, len(mean))
	for c, m := range mean {
		dt.SetCellFloat("Score", c, m)
	}
	ix := etable.NewIdxView(dt)
	med := agg.Median(ix, "Score")[0]
	iqr := agg.Q3(ix, "Score")[0] - agg.Q1(ix, "Score")[0]

	bad := make([]bool, len(mean))
	if iqr <= 0 {
		return bad
	}
	sd := iqr * iqrSD
	for c, m := range mean {
		bad[c] = (m-med)/sd < -pr.ZThr
	}
	return bad
}
