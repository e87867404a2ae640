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
	"math"
	"sort"
)

// A Collocator resamples a data field onto the grid of a sample field.
type Collocator interface {
	Name() string
	Collocate(sample, data *GriddedField) (*GriddedField, error)
}

// SampledFrom resamples data onto the grid of the receiver. For gridded
// data the method may be "lin" (multilinear interpolation, the default)
// or "nn" (nearest neighbour); a kernel cannot be specified for either.
func (f *GriddedField) SampledFrom(data *GriddedField, how, kernel string) (*GriddedField, error) {
	var col Collocator
	switch how {
	case "", "lin":
		col = linCollocator{}
	case "nn":
		col = nnCollocator{}
	default:
		return nil, fmt.Errorf("cis: invalid method specified for gridded -> gridded collocation: %s", how)
	}
	if kernel != "" {
		return nil, fmt.Errorf("cis: cannot specify kernel when method is 'lin' or 'nn'")
	}
	return col.Collocate(f, data)
}

// axisPair maps one sample dimension onto the matching data dimension.
type axisPair struct {
	samplePoints []float64
	dataPoints   []float64
	dataAxis     int
}

// matchAxes pairs every dimension coordinate of the sample grid with the
// data dimension coordinate of the same name. Both fields must be fully
// described by matching dimension coordinates.
func matchAxes(sample, data *GriddedField) ([]axisPair, error) {
	if sample.NDim() != data.NDim() {
		return nil, fmt.Errorf("cis: cannot collocate %d-dimensional %s onto %d-dimensional %s grid",
			data.NDim(), data.VarName, sample.NDim(), sample.VarName)
	}
	pairs := make([]axisPair, sample.NDim())
	for dim := range pairs {
		sc := sample.DimCoord(dim)
		if sc == nil {
			return nil, fmt.Errorf("cis: sample grid %s has an anonymous dimension %d", sample.VarName, dim)
		}
		name := sc.StandardName
		if name == "" {
			name = sc.Name
		}
		dc, dataAxis := data.dimCoordIndex(name)
		if dc == nil {
			return nil, fmt.Errorf("cis: data %s has no dimension coordinate %s", data.VarName, name)
		}
		pairs[dim] = axisPair{
			samplePoints: sc.Points.Elements,
			dataPoints:   dc.Points.Elements,
			dataAxis:     dataAxis,
		}
	}
	return pairs, nil
}

type nnCollocator struct{}

func (nnCollocator) Name() string { return "nn" }

// Collocate picks, for every sample grid point, the value at the nearest
// data grid point along each axis.
func (nnCollocator) Collocate(sample, data *GriddedField) (*GriddedField, error) {
	pairs, err := matchAxes(sample, data)
	if err != nil {
		return nil, err
	}
	out, err := sample.MakeNewWithSameCoordinates(data.VarName, nil)
	if err != nil {
		return nil, err
	}
	out.Units = data.Units
	out.LongName = data.LongName
	outStrides := denseStrides(out.Data.Shape)
	dataStrides := denseStrides(data.Data.Shape)
	for i := range out.Data.Elements {
		di := 0
		for dim, p := range pairs {
			pos := i / outStrides[dim] % out.Data.Shape[dim]
			di += nearestIndex(p.dataPoints, p.samplePoints[pos]) * dataStrides[p.dataAxis]
		}
		out.Data.Elements[i] = data.Data.Elements[di]
	}
	out.AddHistory(fmt.Sprintf("Collocated %s onto %s grid using nn.", data.VarName, sample.VarName))
	return out, nil
}

// nearestIndex returns the index of the element of the monotonically
// increasing slice points closest to v, preferring the lower neighbour on
// ties.
func nearestIndex(points []float64, v float64) int {
	j := sort.SearchFloat64s(points, v)
	if j == 0 {
		return 0
	}
	if j == len(points) {
		return len(points) - 1
	}
	if v-points[j-1] <= points[j]-v {
		return j - 1
	}
	return j
}

type linCollocator struct{}

func (linCollocator) Name() string { return "lin" }

// Collocate resamples data onto the sample grid by multilinear
// interpolation. Sample points outside the data coordinate range become
// NaN.
func (linCollocator) Collocate(sample, data *GriddedField) (*GriddedField, error) {
	pairs, err := matchAxes(sample, data)
	if err != nil {
		return nil, err
	}
	out, err := sample.MakeNewWithSameCoordinates(data.VarName, nil)
	if err != nil {
		return nil, err
	}
	out.Units = data.Units
	out.LongName = data.LongName
	outStrides := denseStrides(out.Data.Shape)
	dataStrides := denseStrides(data.Data.Shape)
	ndim := len(pairs)
	lower := make([]int, ndim)      // lower bracketing index per axis
	weight := make([]float64, ndim) // weight of the upper neighbour
	for i := range out.Data.Elements {
		outside := false
		for dim, p := range pairs {
			pos := i / outStrides[dim] % out.Data.Shape[dim]
			v := p.samplePoints[pos]
			lo, w, ok := bracket(p.dataPoints, v)
			if !ok {
				outside = true
				break
			}
			lower[dim] = lo
			weight[dim] = w
		}
		if outside {
			out.Data.Elements[i] = math.NaN()
			continue
		}
		// Accumulate the weighted contributions of the 2^ndim corner
		// cells surrounding the sample point.
		var val float64
		for corner := 0; corner < 1<<uint(ndim); corner++ {
			w := 1.0
			di := 0
			for dim, p := range pairs {
				idx := lower[dim]
				if corner&(1<<uint(dim)) != 0 {
					if weight[dim] == 0 {
						w = 0
						break
					}
					idx++
					w *= weight[dim]
				} else {
					w *= 1 - weight[dim]
				}
				di += idx * dataStrides[p.dataAxis]
			}
			if w != 0 {
				val += w * data.Data.Elements[di]
			}
		}
		out.Data.Elements[i] = val
	}
	out.AddHistory(fmt.Sprintf("Collocated %s onto %s grid using lin.", data.VarName, sample.VarName))
	return out, nil
}

// bracket locates v within the monotonically increasing slice points,
// returning the lower bracketing index and the interpolation weight of
// the upper neighbour. ok is false if v lies outside the point range.
func bracket(points []float64, v float64) (lo int, w float64, ok bool) {
	n := len(points)
	j := sort.SearchFloat64s(points, v)
	switch {
	case j == 0:
		if v == points[0] {
			return 0, 0, true
		}
		return 0, 0, false
	case j == n:
		return 0, 0, false
	case points[j] == v:
		return j, 0, true
	default:
		return j - 1, (v - points[j-1]) / (points[j] - points[j-1]), true
	}
}
