// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"testing"

	"github.com/emer/etable/v2/etensor"
)

// scoreTensor builds a [trials, chans] score tensor from per-channel
// per-trial values.
func scoreTensor(vals [][]float64) *etensor.Float64 {
	nt := len(vals)
	nc := len(vals[0])
	tsr := etensor.NewFloat64([]int{nt, nc}, nil, []string{"Trial", "Chan"})
	for tr := 0; tr < nt; tr++ {
		copy(tsr.Values[tr*nc:(tr+1)*nc], vals[tr])
	}
	return tsr
}

func TestClassifyBadFraction(t *testing.T) {
	// channel 1 bad in 3 of 4 trials, channel 2 bad in 1 of 4
	scores := scoreTensor([][]float64{
		{0.9, 0.1, 0.9},
		{0.9, 0.2, 0.3},
		{0.8, 0.1, 0.9},
		{0.9, 0.9, 0.8},
	})
	pr := Params{}
	pr.Defaults()
	rl := Classify(scores, []string{"a", "b", "c"}, &pr)
	if len(rl.BadChans) != 1 || rl.BadChans[0] != "b" {
		t.Fatalf("BadChans = %v, want [b]", rl.BadChans)
	}
	if !rl.IsBad(0, 1) || rl.IsBad(0, 0) {
		t.Error("per-segment bad log wrong")
	}
	if !rl.IsBad(1, 2) {
		t.Error("trial 1 channel c segment should be bad")
	}
	frac := rl.BadFracPerChan()
	if frac[1] != 0.75 {
		t.Errorf("BadFrac[b] = %v, want 0.75", frac[1])
	}
	if rl.ScoreRange.Min != 0.1 || rl.ScoreRange.Max != 0.9 {
		t.Errorf("ScoreRange = %v", rl.ScoreRange)
	}
}

func TestClassifyRobustZ(t *testing.T) {
	// 11 channels scoring high, one clear median-low outlier
	row := []float64{0.95, 0.93, 0.94, 0.96, 0.92, 0.05, 0.95, 0.93, 0.96, 0.94, 0.95, 0.92}
	scores := scoreTensor([][]float64{row, row, row})
	names := make([]string, len(row))
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	pr := Params{}
	pr.Defaults()
	pr.BadPolicy = RobustZ
	rl := Classify(scores, names, &pr)
	if len(rl.BadChans) != 1 || rl.BadChans[0] != "f" {
		t.Fatalf("BadChans = %v, want [f]", rl.BadChans)
	}
}

func TestClassifyRobustZNoSpread(t *testing.T) {
	row := []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9}
	scores := scoreTensor([][]float64{row, row})
	pr := Params{}
	pr.Defaults()
	pr.BadPolicy = RobustZ
	rl := Classify(scores, []string{"a", "b", "c", "d", "e", "f"}, &pr)
	if len(rl.BadChans) != 0 {
		t.Errorf("identical scores flagged channels: %v", rl.BadChans)
	}
}

func TestClassifyTable(t *testing.T) {
	scores := scoreTensor([][]float64{
		{0.9, 0.1},
		{0.9, 0.2},
	})
	pr := Params{}
	pr.Defaults()
	rl := Classify(scores, []string{"a", "b"}, &pr)
	dt := rl.Table()
	if dt.Rows != 2 {
		t.Fatalf("table rows = %d", dt.Rows)
	}
	if dt.CellString("Chan", 1) != "b" {
		t.Errorf("Chan[1] = %v", dt.CellString("Chan", 1))
	}
	if dt.CellFloat("Bad", 1) != 1 {
		t.Errorf("Bad[1] = %v, want 1", dt.CellFloat("Bad", 1))
	}
	if dt.CellFloat("Bad", 0) != 0 {
		t.Errorf("Bad[0] = %v, want 0", dt.CellFloat("Bad", 0))
	}
}
