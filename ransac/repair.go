// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ransac

import (
	"github.com/emer/ransac/epochs"
	"github.com/emer/ransac/interp"
)

// Repair returns a copy of the epochs with the given (sorted) globally
// bad channels' signals replaced, in every trial, by spherical-spline
// interpolation from the remaining good channels.  The interpolation
// weights depend only on geometry, so one weight matrix serves all
// trials.  With no bad channels the copy is returned with content
// unchanged.  The input is never modified.  Returns GeometryError if
// fewer than 3 good channels remain.
func Repair(ep *epochs.Epochs, badIdx []int, ipr *interp.Params) (*epochs.Epochs, error) {
	out := ep.Clone()
	if len(badIdx) == 0 {
		return out, nil
	}
	good := Complement(ep.NChans(), badIdx)
	w, err := interp.Weights(ep.Positions(), good, badIdx, ipr)
	if err != nil {
		return nil, err
	}
	for tr := 0; tr < ep.NTrials(); tr++ {
		for i, b := range badIdx {
			dst := out.Signal(tr, b)
			for ti := range dst {
				dst[ti] = 0
			}
			for j, g := range good {
				wf := w.At(i, j)
				src := ep.Signal(tr, g)
				for ti, v := range src {
					dst[ti] += wf * v
				}
			}
		}
	}
	return out, nil
}
