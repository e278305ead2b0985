// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package interp computes spatial interpolation weights over sensor
geometry, using spherical splines (Perrin et al., 1989).

Given the 3D positions of a set of reference ("good") sensors and a set
of target sensors, Weights produces a dense matrix W such that the
signal at each target sensor is estimated as the W-weighted combination
of the reference sensors' signals.  The weights are a pure function of
geometry, independent of signal values, so one matrix can be reused
across any number of trials sharing the same sensor layout.
*/
package interp

import (
	"fmt"
	"math"

	"github.com/goki/mat32"
	"gonum.org/v1/gonum/mat"
)

// Params are the spherical spline interpolation parameters.
// The defaults match standard practice for scalp / sensor-array
// interpolation and rarely need changing.
type Params struct {

	// stiffness of the spline -- exponent m on n(n+1) in the
	// Legendre series -- higher is smoother
	Stiffness int `def:"4"`

	// number of terms in the truncated Legendre series
	Terms int `def:"50"`

	// diagonal regularization added to the G matrix before solving
	Lambda float64 `def:"1e-05"`
}

func (ip *Params) Defaults() {
	ip.Stiffness = 4
	ip.Terms = 50
	ip.Lambda = 1e-05
}

// GeometryError indicates that the reference sensor geometry cannot
// support spatial interpolation: fewer than 3 reference positions,
// or all reference positions collinear.
type GeometryError struct {

	// number of reference positions supplied
	NRef int

	// what was wrong with them
	Reason string
}

func (ge *GeometryError) Error() string {
	return fmt.Sprintf("interp: bad geometry with %d reference channels: %s", ge.NRef, ge.Reason)
}

// Weights computes the interpolation weight matrix mapping signals on
// the from (reference) channels to estimates on the to (target)
// channels, using positions pos indexed by both sets.  The returned
// matrix is len(to) rows x len(from) columns.  Returns GeometryError
// if the reference set is too small or collinear.
func Weights(pos []mat32.Vec3, from, to []int, ip *Params) (*mat.Dense, error) {
	nf := len(from)
	nt := len(to)
	if nf < 3 {
		return nil, &GeometryError{NRef: nf, Reason: "need at least 3 reference channels"}
	}
	if err := checkCollinear(pos, from); err != nil {
		return nil, err
	}

	upos := unitPositions(pos)

	// bordered system A = [G+lambda*I, 1; 1^T, 0], nf+1 square
	a := mat.NewDense(nf+1, nf+1, nil)
	for i := 0; i < nf; i++ {
		for j := 0; j < nf; j++ {
			g := gSpline(cosAng(upos[from[i]], upos[from[j]]), ip)
			if i == j {
				g += ip.Lambda
			}
			a.Set(i, j, g)
		}
		a.Set(i, nf, 1)
		a.Set(nf, i, 1)
	}

	var ainv mat.Dense
	if err := ainv.Inverse(a); err != nil {
		return nil, &GeometryError{NRef: nf, Reason: "singular interpolation system: " + err.Error()}
	}

	// [Gto, 1] * first nf columns of A^-1
	gto := mat.NewDense(nt, nf+1, nil)
	for i := 0; i < nt; i++ {
		for j := 0; j < nf; j++ {
			gto.Set(i, j, gSpline(cosAng(upos[to[i]], upos[from[j]]), ip))
		}
		gto.Set(i, nf, 1)
	}

	w := mat.NewDense(nt, nf, nil)
	w.Mul(gto, ainv.Slice(0, nf+1, 0, nf))
	return w, nil
}

// unitPositions centers all positions on their centroid and projects
// them onto the unit sphere.
func unitPositions(pos []mat32.Vec3) []mat32.Vec3 {
	var ctr mat32.Vec3
	for _, p := range pos {
		ctr = ctr.Add(p)
	}
	ctr = ctr.DivScalar(float32(len(pos)))
	ups := make([]mat32.Vec3, len(pos))
	for i, p := range pos {
		d := p.Sub(ctr)
		if l := d.Length(); l > 0 {
			d = d.DivScalar(l)
		}
		ups[i] = d
	}
	return ups
}

// cosAng returns the cosine of the angle between two unit vectors,
// clamped to [-1, 1] against rounding.
func cosAng(a, b mat32.Vec3) float64 {
	c := float64(a.Dot(b))
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return c
}

// gSpline evaluates the spherical spline kernel at cosine-angle x:
// sum over n of (2n+1) / (n(n+1))^Stiffness * P_n(x), / 4pi.
func gSpline(x float64, ip *Params) float64 {
	sum := 0.0
	// Legendre recurrence: n P_n = (2n-1) x P_{n-1} - (n-1) P_{n-2}
	pnm2 := 1.0 // P_0
	pnm1 := x   // P_1
	for n := 1; n <= ip.Terms; n++ {
		var pn float64
		if n == 1 {
			pn = pnm1
		} else {
			pn = (float64(2*n-1)*x*pnm1 - float64(n-1)*pnm2) / float64(n)
			pnm2 = pnm1
			pnm1 = pn
		}
		nn := float64(n) * float64(n+1)
		sum += float64(2*n+1) / math.Pow(nn, float64(ip.Stiffness)) * pn
	}
	return sum / (4 * math.Pi)
}

// checkCollinear returns GeometryError if the reference positions all
// lie on one line (interpolation needs a 2D spread at minimum).
func checkCollinear(pos []mat32.Vec3, from []int) error {
	nf := len(from)
	var ctr mat32.Vec3
	for _, fi := range from {
		ctr = ctr.Add(pos[fi])
	}
	ctr = ctr.DivScalar(float32(nf))
	pm := mat.NewDense(nf, 3, nil)
	for i, fi := range from {
		d := pos[fi].Sub(ctr)
		pm.Set(i, 0, float64(d.X))
		pm.Set(i, 1, float64(d.Y))
		pm.Set(i, 2, float64(d.Z))
	}
	var svd mat.SVD
	if !svd.Factorize(pm, mat.SVDNone) {
		return &GeometryError{NRef: nf, Reason: "position matrix SVD failed"}
	}
	sv := svd.Values(nil)
	if sv[0] == 0 || sv[1]/sv[0] < 1e-6 {
		return &GeometryError{NRef: nf, Reason: "reference channel positions are collinear"}
	}
	return nil
}
