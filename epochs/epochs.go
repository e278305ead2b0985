// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epochs

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/v2/etensor"
	"github.com/goki/mat32"
)

// Chan is one recording channel: a named sensor at a fixed 3D location.
// The position is used to derive spatial interpolation weights and must
// not change over the lifetime of an Epochs set.
type Chan struct {

	// name of the channel, unique within an Epochs set
	Name string

	// sensor location in 3D space, in any consistent units --
	// only relative geometry matters
	Pos mat32.Vec3
}

// Epochs is an ordered set of fixed-length trials of multichannel
// time-series data, stored as a single [Trial, Chan, Time] tensor.
// The tensor layout guarantees that every trial has the same number
// of channels and time samples, in the same channel order.
type Epochs struct {

	// the data tensor: [Trial, Chan, Time]
	Data *etensor.Float64

	// channel descriptors, in tensor channel-dimension order
	Chans []Chan
}

// New returns a new Epochs set with the given channels and an allocated,
// zero-valued data tensor of nTrials x len(chans) x nTimes.
func New(chans []Chan, nTrials, nTimes int) *Epochs {
	ep := &Epochs{}
	ep.Chans = make([]Chan, len(chans))
	copy(ep.Chans, chans)
	ep.Data = etensor.NewFloat64([]int{nTrials, len(chans), nTimes}, nil, []string{"Trial", "Chan", "Time"})
	return ep
}

// NTrials returns the number of trials.
func (ep *Epochs) NTrials() int { return ep.Data.Dim(0) }

// NChans returns the number of channels.
func (ep *Epochs) NChans() int { return ep.Data.Dim(1) }

// NTimes returns the number of time samples per trial.
func (ep *Epochs) NTimes() int { return ep.Data.Dim(2) }

// Validate checks the structural invariants: a 3D data tensor whose
// channel dimension matches the channel descriptors, with unique
// channel names and at least one trial and one time sample.
func (ep *Epochs) Validate() error {
	if ep.Data == nil {
		return fmt.Errorf("epochs.Validate: nil data tensor")
	}
	if nd := ep.Data.NumDims(); nd != 3 {
		return fmt.Errorf("epochs.Validate: data tensor must be 3D [Trial, Chan, Time], got %d dims", nd)
	}
	if ep.Data.Dim(1) != len(ep.Chans) {
		return fmt.Errorf("epochs.Validate: data has %d channels but %d channel descriptors", ep.Data.Dim(1), len(ep.Chans))
	}
	if ep.NTrials() < 1 || ep.NTimes() < 1 {
		return fmt.Errorf("epochs.Validate: empty data tensor: %d trials x %d times", ep.NTrials(), ep.NTimes())
	}
	nms := make(map[string]bool, len(ep.Chans))
	for _, ch := range ep.Chans {
		if nms[ch.Name] {
			return fmt.Errorf("epochs.Validate: duplicate channel name: %v", ch.Name)
		}
		nms[ch.Name] = true
	}
	return nil
}

// Clone returns a deep copy of the Epochs set -- new data tensor,
// new channel slice.
func (ep *Epochs) Clone() *Epochs {
	cp := &Epochs{}
	cp.Chans = make([]Chan, len(ep.Chans))
	copy(cp.Chans, ep.Chans)
	cp.Data = ep.Data.Clone().(*etensor.Float64)
	return cp
}

// ChanNames returns the channel names in channel order.
func (ep *Epochs) ChanNames() []string {
	nms := make([]string, len(ep.Chans))
	for i, ch := range ep.Chans {
		nms[i] = ch.Name
	}
	return nms
}

// ChanIndex returns the index of the named channel, -1 if not found.
func (ep *Epochs) ChanIndex(name string) int {
	for i, ch := range ep.Chans {
		if ch.Name == name {
			return i
		}
	}
	return -1
}

// Positions returns the channel positions in channel order.
func (ep *Epochs) Positions() []mat32.Vec3 {
	ps := make([]mat32.Vec3, len(ep.Chans))
	for i, ch := range ep.Chans {
		ps[i] = ch.Pos
	}
	return ps
}

// Signal returns the time-series for given trial and channel as a slice
// aliasing the underlying tensor values -- do not modify unless you own
// the Epochs.
func (ep *Epochs) Signal(trial, chn int) []float64 {
	nt := ep.NTimes()
	off := ep.Data.Offset([]int{trial, chn, 0})
	return ep.Data.Values[off : off+nt]
}

// SizeReport returns a human-readable summary of the memory taken
// by the data tensor.
func (ep *Epochs) SizeReport() string {
	nb := uint64(len(ep.Data.Values)) * 8
	return fmt.Sprintf("Epochs: %d trials x %d chans x %d times, DataMem: %v",
		ep.NTrials(), ep.NChans(), ep.NTimes(), (datasize.ByteSize)(nb).HumanReadable())
}
