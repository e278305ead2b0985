// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"math/rand"
	"sort"
)

// Subsamples draws nRounds independent random subsets of k channel
// indices out of nChans, each sampled without replacement, using the
// given generator.  Subsets may overlap across rounds.  Indices within
// a round are sorted.  Deterministic for a given generator state.
func Subsamples(nChans, k, nRounds int, rnd *rand.Rand) [][]int {
	samps := make([][]int, nRounds)
	for r := range samps {
		perm := rnd.Perm(nChans)
		idx := make([]int, k)
		copy(idx, perm[:k])
		sort.Ints(idx)
		samps[r] = idx
	}
	return samps
}

// Complement returns the channel indices not present in the sorted
// sample samp, i.e. the channels that round will predict.
func Complement(nChans int, samp []int) []int {
	out := make([]int, 0, nChans-len(samp))
	si := 0
	for c := 0; c < nChans; c++ {
		if si < len(samp) && samp[si] == c {
			si++
			continue
		}
		out = append(out, c)
	}
	return out
}

// CheckCoverage verifies that every channel is excluded from (and thus
// predicted by) at least one round.  Returns InsufficientCoverageError
// naming the first uncovered channel otherwise.  Called before any
// scoring work begins.
func CheckCoverage(nChans int, samps [][]int, names []string) error {
	covered := make([]bool, nChans)
	for _, samp := range samps {
		for _, c := range Complement(nChans, samp) {
			covered[c] = true
		}
	}
	for c, cov := range covered {
		if !cov {
			return &InsufficientCoverageError{Chan: names[c]}
		}
	}
	return nil
}
