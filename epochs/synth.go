// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epochs

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/goki/mat32"
)

// Synth generates synthetic epoched recordings for testing and demos.
// Each channel's clean signal is a spatially smooth mixture of a few
// shared sinusoidal sources, so that neighboring sensors are strongly
// correlated, as in real recordings, plus independent gaussian noise.
type Synth struct {

	// number of trials to generate
	NTrials int `def:"10"`

	// number of time samples per trial
	NTimes int `def:"100"`

	// standard deviation of per-sample gaussian sensor noise,
	// relative to source amplitudes of order 1
	NoiseSD float64 `def:"0.05"`

	// random seed -- same seed produces identical data
	Seed int64 `def:"1"`
}

func (sy *Synth) Defaults() {
	sy.NTrials = 10
	sy.NTimes = 100
	sy.NoiseSD = 0.05
	sy.Seed = 1
}

// source frequencies, in cycles per trial
var synthFreqs = []float64{2, 3.5, 5}

// Gen generates a new Epochs set over the given channels.
func (sy *Synth) Gen(chans []Chan) *Epochs {
	ep := New(chans, sy.NTrials, sy.NTimes)
	rnd := rand.New(rand.NewSource(sy.Seed))
	nsrc := len(synthFreqs)
	src := make([]float64, sy.NTimes)
	for tr := 0; tr < sy.NTrials; tr++ {
		for s := 0; s < nsrc; s++ {
			ph := rnd.Float64() * 2 * math.Pi
			for ti := 0; ti < sy.NTimes; ti++ {
				src[ti] = math.Sin(2*math.Pi*synthFreqs[s]*float64(ti)/float64(sy.NTimes) + ph)
			}
			for c := range chans {
				w := SourceWeight(chans[c].Pos, s)
				sig := ep.Signal(tr, c)
				for ti := 0; ti < sy.NTimes; ti++ {
					sig[ti] += w * src[ti]
				}
			}
		}
		if sy.NoiseSD > 0 {
			for c := range chans {
				sig := ep.Signal(tr, c)
				for ti := 0; ti < sy.NTimes; ti++ {
					sig[ti] += sy.NoiseSD * rnd.NormFloat64()
				}
			}
		}
	}
	return ep
}

// SourceWeight returns the mixing weight of source s at position pos:
// a linear function of position, so the resulting spatial field is
// smooth and low-order.
func SourceWeight(pos mat32.Vec3, s int) float64 {
	switch s {
	case 0:
		return 1 + 0.8*float64(pos.X)
	case 1:
		return 1 + 0.8*float64(pos.Y)
	default:
		return 1 + 0.8*float64(pos.Z)
	}
}

// Corrupt replaces the given channel's signal in all trials with pure
// gaussian noise uncorrelated with its neighbors, simulating a broken
// sensor. The Epochs set is modified in place.
func Corrupt(ep *Epochs, chn int, seed int64) {
	rnd := rand.New(rand.NewSource(seed))
	for tr := 0; tr < ep.NTrials(); tr++ {
		sig := ep.Signal(tr, chn)
		for ti := range sig {
			sig[ti] = rnd.NormFloat64()
		}
	}
}

// SphereChans returns n channels evenly distributed on the unit sphere
// using a Fibonacci spiral, named CH000..CHnnn.
func SphereChans(n int) []Chan {
	chans := make([]Chan, n)
	ga := math.Pi * (3 - math.Sqrt(5)) // golden angle
	for i := 0; i < n; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		th := ga * float64(i)
		chans[i] = Chan{
			Name: fmt.Sprintf("CH%03d", i),
			Pos:  mat32.Vec3{X: float32(r * math.Cos(th)), Y: float32(r * math.Sin(th)), Z: float32(z)},
		}
	}
	return chans
}
