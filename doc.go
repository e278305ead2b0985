// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ransac is the repository for RANSAC-based bad-channel detection
and repair for epoched multichannel neurophysiological recordings,
implemented in the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* epochs: the Epoch Set data model -- an immutable trials x channels x
time tensor with named, spatially positioned channels, plus synthetic
data generation for testing and demos.

* interp: spherical-spline spatial interpolation weights over sensor
geometry (Perrin et al., 1989) -- the physical basis used both for
predicting channels during consensus scoring and for repairing the
channels found bad.

* ransac: the consensus engine itself -- random channel sub-sampling,
parallel consensus scoring, bad-channel classification, and repair,
exposed through the Ransac Fit / Transform / FitTransform API.

* examples: runnable programs -- examples/ransac generates a synthetic
recording with one broken sensor, detects it, repairs it, and prints
the reject log.
*/
package ransac
