// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"sync"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/metric"
	"github.com/emer/ransac/epochs"
	"github.com/emer/ransac/interp"
	"github.com/goki/mat32"
)

// scoreAcc accumulates per-(trial, channel) prediction and agreement
// round counts.  Each worker owns a private one; they are summed after
// all rounds complete.  Integer addition makes the merged result
// independent of scheduling.
type scoreAcc struct {
	pred  []int64
	agree []int64
}

func newScoreAcc(n int) *scoreAcc {
	return &scoreAcc{pred: make([]int64, n), agree: make([]int64, n)}
}

func (sa *scoreAcc) add(o *scoreAcc) {
	for i := range sa.pred {
		sa.pred[i] += o.pred[i]
		sa.agree[i] += o.agree[i]
	}
}

// Score runs all consensus rounds over the given sub-samples and
// returns the per-(trial, channel) consensus score tensor: the
// fraction of rounds predicting that channel in which the predicted
// signal correlated with the observed signal above CorrThr.
// Rounds run on a worker pool of pr.Workers() goroutines; inputs are
// read-only throughout.  On any round error, not-yet-started rounds
// are skipped and the first error is returned.
func Score(ep *epochs.Epochs, samps [][]int, pr *Params) (*etensor.Float64, error) {
	nTrials := ep.NTrials()
	nChans := ep.NChans()
	pos := ep.Positions()

	nw := pr.Workers()
	if nw > len(samps) {
		nw = len(samps)
	}

	tot := newScoreAcc(nTrials * nChans)
	if nw <= 1 {
		for _, samp := range samps {
			if err := scoreRound(ep, pos, samp, pr, tot); err != nil {
				return nil, err
			}
		}
	} else {
		accs := make([]*scoreAcc, nw)
		rounds := make(chan int, len(samps))
		stop := make(chan struct{})
		var stopOnce sync.Once
		var errMu sync.Mutex
		var firstErr error
		var wg sync.WaitGroup
		for w := 0; w < nw; w++ {
			accs[w] = newScoreAcc(nTrials * nChans)
			wg.Add(1)
			go func(acc *scoreAcc) {
				defer wg.Done()
				for r := range rounds {
					select {
					case <-stop:
						continue // drain remaining rounds without running them
					default:
					}
					if err := scoreRound(ep, pos, samps[r], pr, acc); err != nil {
						errMu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						errMu.Unlock()
						stopOnce.Do(func() { close(stop) })
					}
				}
			}(accs[w])
		}
		for r := range samps {
			rounds <- r
		}
		close(rounds)
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
		for _, acc := range accs { // worker index order
			tot.add(acc)
		}
	}

	scores := etensor.NewFloat64([]int{nTrials, nChans}, nil, []string{"Trial", "Chan"})
	for i := range tot.pred {
		if tot.pred[i] == 0 {
			// CheckCoverage runs first, so this only fires if it was skipped
			return nil, &InsufficientCoverageError{Chan: ep.Chans[i%nChans].Name}
		}
		scores.Values[i] = float64(tot.agree[i]) / float64(tot.pred[i])
	}
	return scores, nil
}

// scoreRound runs one consensus round: builds the interpolator
// predicting every non-sampled channel from the sampled ones, applies
// it to every trial, and accumulates agreement counts.
func scoreRound(ep *epochs.Epochs, pos []mat32.Vec3, samp []int, pr *Params, acc *scoreAcc) error {
	nChans := ep.NChans()
	nTimes := ep.NTimes()
	to := Complement(nChans, samp)
	w, err := interp.Weights(pos, samp, to, &pr.Interp)
	if err != nil {
		return err
	}
	pred := make([]float64, nTimes)
	for tr := 0; tr < ep.NTrials(); tr++ {
		for i, c := range to {
			for ti := range pred {
				pred[ti] = 0
			}
			for j, f := range samp {
				wf := w.At(i, j)
				src := ep.Signal(tr, f)
				for ti, v := range src {
					pred[ti] += wf * v
				}
			}
			obs := ep.Signal(tr, c)
			idx := tr*nChans + c
			acc.pred[idx]++
			if agrees(pred, obs, pr.CorrThr) {
				acc.agree[idx]++
			}
		}
	}
	return nil
}

// agrees reports whether predicted and observed signals correlate above
// thr.  Correlation is Pearson (mean-centered, variance-normalized), so
// signal scale does not bias the comparison.  A flat (zero-variance)
// signal on either side is an automatic disagreement.
func agrees(pred, obs []float64, thr float64) bool {
	if flat(pred) || flat(obs) {
		return false
	}
	return metric.Correlation64(pred, obs) > thr
}

func flat(sig []float64) bool {
	for _, v := range sig[1:] {
		if v != sig[0] {
			return false
		}
	}
	return true
}
