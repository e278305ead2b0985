// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

import (
	"math"
	"testing"

	"github.com/goki/mat32"
)

// spherePos returns n positions spread over the unit sphere.
func spherePos(n int) []mat32.Vec3 {
	ps := make([]mat32.Vec3, n)
	ga := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		th := ga * float64(i)
		ps[i] = mat32.Vec3{X: float32(r * math.Cos(th)), Y: float32(r * math.Sin(th)), Z: float32(z)}
	}
	return ps
}

func TestWeightsRowsSumToOne(t *testing.T) {
	ip := Params{}
	ip.Defaults()
	pos := spherePos(20)
	from := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	to := []int{15, 16, 17, 18, 19}
	w, err := Weights(pos, from, to, &ip)
	if err != nil {
		t.Fatal(err)
	}
	r, c := w.Dims()
	if r != len(to) || c != len(from) {
		t.Fatalf("weights dims: got %dx%d, want %dx%d", r, c, len(to), len(from))
	}
	// a constant field must be reproduced exactly, so rows sum to 1
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			sum += w.At(i, j)
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestWeightsLinearField(t *testing.T) {
	ip := Params{}
	ip.Defaults()
	pos := spherePos(24)
	var from, to []int
	for i := range pos {
		if i%6 == 3 {
			to = append(to, i)
		} else {
			from = append(from, i)
		}
	}
	w, err := Weights(pos, from, to, &ip)
	if err != nil {
		t.Fatal(err)
	}
	field := func(p mat32.Vec3) float64 {
		return 0.3 + 0.5*float64(p.X) - 0.2*float64(p.Y) + 0.4*float64(p.Z)
	}
	for i, ti := range to {
		est := 0.0
		for j, fi := range from {
			est += w.At(i, j) * field(pos[fi])
		}
		act := field(pos[ti])
		if math.Abs(est-act) > 0.1 {
			t.Errorf("target %d: interpolated %v vs actual %v", ti, est, act)
		}
	}
}

func TestWeightsGeometryErrors(t *testing.T) {
	ip := Params{}
	ip.Defaults()
	pos := spherePos(10)

	_, err := Weights(pos, []int{0, 1}, []int{2}, &ip)
	if err == nil {
		t.Fatal("expected GeometryError for 2 reference channels")
	}
	if _, ok := err.(*GeometryError); !ok {
		t.Errorf("got %T, want *GeometryError", err)
	}

	// collinear: all references on the z axis
	line := []mat32.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 2},
		{X: 0, Y: 0, Z: 3},
		{X: 1, Y: 1, Z: 0}, // target, not a reference
	}
	_, err = Weights(line, []int{0, 1, 2, 3}, []int{4}, &ip)
	if err == nil {
		t.Fatal("expected GeometryError for collinear references")
	}
	ge, ok := err.(*GeometryError)
	if !ok {
		t.Fatalf("got %T, want *GeometryError", err)
	}
	if ge.NRef != 4 {
		t.Errorf("GeometryError.NRef = %d, want 4", ge.NRef)
	}
}
