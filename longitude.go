/*
Copyright © 2016 the CIS authors.
This file is part of CIS.

CIS is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CIS is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CIS.  If not, see <http://www.gnu.org/licenses/>.
*/

package cis

import (
	"sort"

	"github.com/ctessum/sparse"
)

// SetLongitudeRange rotates the longitude coordinate array and changes
// its values by 360 as necessary to force the values to be within a 360
// degree range starting at the specified value, i.e.
//
//	rangeStart <= longitude < rangeStart + 360
//
// The data array and any auxiliary coordinates sharing the longitude
// dimension are rotated correspondingly. The longitude points are assumed
// to be monotonically increasing. If the field has no longitude
// coordinate, or the points already satisfy the range, nothing happens.
func (f *GriddedField) SetLongitudeRange(rangeStart float64) {
	lonCoord, lonIdx := f.dimCoordIndex("longitude")
	if lonCoord == nil {
		return
	}
	points := lonCoord.Points.Elements
	n := len(points)
	rollBounds := lonCoord.HasBounds()
	idx1 := sort.SearchFloat64s(points, rangeStart)
	idx2 := sort.SearchFloat64s(points, rangeStart+360.)
	shift := 0
	var newLonPoints []float64
	var shiftValueOf []bool
	var correction float64
	if 0 < idx1 && idx1 < n {
		// The lower edge of the requested window falls inside the
		// current point range: rotate it to the front, then add 360 to
		// every point that wrapped around past the end of the array.
		shift = -idx1
		lonMin := points[idx1]
		newLonPoints = rollFloats(points, shift)
		shiftValueOf = make([]bool, n)
		for i, p := range newLonPoints {
			shiftValueOf[i] = p < lonMin
		}
		correction = 360.
	} else if 0 < idx2 && idx2 < n {
		// The upper edge of the window falls inside the range: rotate
		// the tail to the back and subtract 360 from the points at or
		// beyond the boundary.
		shift = n - idx2
		lonMax := points[idx2]
		newLonPoints = rollFloats(points, shift)
		shiftValueOf = make([]bool, n)
		for i, p := range newLonPoints {
			shiftValueOf[i] = p >= lonMax
		}
		correction = -360.
	}
	if shift == 0 {
		return
	}
	for i, s := range shiftValueOf {
		if s {
			newLonPoints[i] += correction
		}
	}
	var newLonBounds *sparse.DenseArray
	if rollBounds {
		newLonBounds = rollDense(lonCoord.Bounds, shift, 0)
		// Shift both bound edges of every point that was shifted. The
		// check cannot be made independently per edge because an upper
		// or lower bound may fall outside the 360 degree range; those
		// are left as they are to preserve monotonicity.
		for i, s := range shiftValueOf {
			if s {
				newLonBounds.Elements[2*i] += correction
				newLonBounds.Elements[2*i+1] += correction
			}
		}
	}
	// Roll any auxiliary coordinate sharing the longitude dimension,
	// along its longitude-aligned axis only.
	for _, aux := range f.auxCoords {
		for axis, d := range aux.dims {
			if d == lonIdx {
				aux.Coord.Points = rollDense(aux.Points, shift, axis)
				break
			}
		}
	}
	f.Data = rollDense(f.Data, shift, lonIdx)
	copy(lonCoord.Points.Elements, newLonPoints)
	if rollBounds {
		lonCoord.Bounds = newLonBounds
	}
}

// rollFloats circularly rotates s by shift, so the element at index i
// moves to index (i+shift) mod len(s). A negative shift rotates toward
// the front.
func rollFloats(s []float64, shift int) []float64 {
	n := len(s)
	out := make([]float64, n)
	shift = ((shift % n) + n) % n
	for i, v := range s {
		out[(i+shift)%n] = v
	}
	return out
}

// rollDense circularly rotates a dense array by shift along the given
// axis, leaving the other axes untouched.
func rollDense(a *sparse.DenseArray, shift, axis int) *sparse.DenseArray {
	out := sparse.ZerosDense(a.Shape...)
	n := a.Shape[axis]
	shift = ((shift % n) + n) % n
	stride := 1
	for i := axis + 1; i < len(a.Shape); i++ {
		stride *= a.Shape[i]
	}
	for i, v := range a.Elements {
		pos := (i / stride) % n
		out.Elements[i+((pos+shift)%n-pos)*stride] = v
	}
	return out
}
