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
	"fmt"
	"sort"

	"github.com/ctessum/sparse"
)

// A Limit is an inclusive coordinate range used when subsetting.
type Limit struct {
	Min, Max float64
}

// Subset extracts the part of the field where each named dimension
// coordinate lies within its (inclusive) limit. Coordinates without a
// limit are kept whole. The receiver is not modified. An error is
// returned if a named coordinate does not exist or if no data lies within
// the requested ranges.
func (f *GriddedField) Subset(limits map[string]Limit) (*GriddedField, error) {
	// Resolve all limits to index ranges before slicing anything.
	type axisRange struct {
		dim    int
		lo, hi int // inclusive point index range
	}
	var ranges []axisRange
	for name, limit := range limits {
		c, dim := f.dimCoordIndex(name)
		if c == nil {
			return nil, fmt.Errorf("cis: cannot subset %s: no dimension coordinate %s", f.VarName, name)
		}
		points := c.Points.Elements
		lo := sort.SearchFloat64s(points, limit.Min)
		hi := sort.SearchFloat64s(points, limit.Max)
		// hi is the insertion point of Max; step back unless Max is
		// exactly on a grid point.
		if hi == len(points) || points[hi] != limit.Max {
			hi--
		}
		if lo > hi {
			return nil, fmt.Errorf("cis: no %s values of %s within [%g, %g]", name, f.VarName, limit.Min, limit.Max)
		}
		ranges = append(ranges, axisRange{dim: dim, lo: lo, hi: hi})
	}

	o := f.Copy()
	for _, r := range ranges {
		o.Data = sliceDense(o.Data, r.dim, r.lo, r.hi+1)
		if c := o.dimCoords[r.dim]; c != nil {
			c.Points = sliceDense(c.Points, 0, r.lo, r.hi+1)
			if c.HasBounds() {
				c.Bounds = sliceDense(c.Bounds, 0, r.lo, r.hi+1)
			}
		}
		for _, a := range o.auxCoords {
			for axis, d := range a.dims {
				if d == r.dim {
					a.Coord.Points = sliceDense(a.Points, axis, r.lo, r.hi+1)
					break
				}
			}
		}
	}
	o.AddHistory(fmt.Sprintf("Subsetted with limits %v.", limits))
	return o, nil
}

// sliceDense extracts the half-open index range [lo, hi) along the given
// axis of a dense array.
func sliceDense(a *sparse.DenseArray, axis, lo, hi int) *sparse.DenseArray {
	outShape := make([]int, len(a.Shape))
	copy(outShape, a.Shape)
	outShape[axis] = hi - lo
	out := sparse.ZerosDense(outShape...)
	strides := denseStrides(a.Shape)
	outStrides := denseStrides(outShape)
	for i := range out.Elements {
		// Map the output element back to its input position, offset by
		// lo along the sliced axis.
		ii := 0
		for dim := range outShape {
			pos := i / outStrides[dim] % outShape[dim]
			if dim == axis {
				pos += lo
			}
			ii += pos * strides[dim]
		}
		out.Elements[i] = a.Elements[ii]
	}
	return out
}
