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
	"strings"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// An Aggregator reduces data when a field is collapsed over one or more
// coordinates. It is either a Kernel or a MultiKernel.
type Aggregator interface {
	Name() string
}

// A Kernel reduces a slice of values, gathered across the collapsed
// dimensions for one output cell, to a single value. NaN elements are
// missing data and must be ignored; a kernel receiving no valid values
// returns NaN.
type Kernel interface {
	Aggregator
	Aggregate(values []float64) float64
}

// A MultiKernel produces several outputs per collapse, one field per
// subkernel. The subkernel names are appended to the output variable
// names.
type MultiKernel interface {
	Aggregator
	Subkernels() []Kernel
}

// AggregationKernels holds the kernels that can be selected by name on
// the command line.
var AggregationKernels = map[string]Aggregator{
	"sum":     sumKernel{},
	"mean":    meanKernel{},
	"min":     minKernel{},
	"max":     maxKernel{},
	"stddev":  stdDevKernel{},
	"moments": momentsKernel{},
}

// validValues filters NaN (missing) elements out of values.
func validValues(values []float64) []float64 {
	valid := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

type sumKernel struct{}

func (sumKernel) Name() string { return "sum" }
func (sumKernel) Aggregate(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Sum(valid)
}

type meanKernel struct{}

func (meanKernel) Name() string { return "mean" }
func (meanKernel) Aggregate(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Sum(valid) / float64(len(valid))
}

type minKernel struct{}

func (minKernel) Name() string { return "min" }
func (minKernel) Aggregate(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Min(valid)
}

type maxKernel struct{}

func (maxKernel) Name() string { return "max" }
func (maxKernel) Aggregate(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}
	return floats.Max(valid)
}

type stdDevKernel struct{}

func (stdDevKernel) Name() string { return "stddev" }
func (stdDevKernel) Aggregate(values []float64) float64 {
	var d stats.Stats
	for _, v := range values {
		if !math.IsNaN(v) {
			d.Update(v)
		}
	}
	if d.Count() < 2 {
		return math.NaN()
	}
	return d.SampleStandardDeviation()
}

type numPointsKernel struct{}

func (numPointsKernel) Name() string { return "num_points" }
func (numPointsKernel) Aggregate(values []float64) float64 {
	return float64(len(validValues(values)))
}

// momentsKernel aggregates to the mean, the sample standard deviation and
// the number of contributing points.
type momentsKernel struct{}

func (momentsKernel) Name() string { return "moments" }
func (momentsKernel) Subkernels() []Kernel {
	return []Kernel{meanKernel{}, stdDevKernel{}, numPointsKernel{}}
}

// Collapsed collapses the field over the named dimension coordinates
// using the given aggregator, removing the corresponding data dimensions.
// Auxiliary coordinates spanning a collapsed dimension are dropped. A nil
// kernel collapses using the mean. The result is a list because a
// MultiKernel such as "moments" expands to several output fields.
func (f *GriddedField) Collapsed(coords []string, kernel Aggregator) (GriddedFieldList, error) {
	if kernel == nil {
		kernel = meanKernel{}
	}
	axes := make([]int, 0, len(coords))
	for _, name := range coords {
		c, dim := f.dimCoordIndex(name)
		if c == nil {
			return nil, fmt.Errorf("cis: cannot collapse %s: no dimension coordinate %s", f.VarName, name)
		}
		axes = append(axes, dim)
	}
	var kernels []Kernel
	var suffix bool
	switch k := kernel.(type) {
	case MultiKernel:
		kernels = k.Subkernels()
		suffix = true
	case Kernel:
		kernels = []Kernel{k}
	default:
		return nil, fmt.Errorf("cis: invalid kernel specified: %s", kernel.Name())
	}

	var out GriddedFieldList
	for _, k := range kernels {
		data := collapseDense(f.Data, axes, k)
		name := f.VarName
		if suffix {
			name += "_" + k.Name()
		}
		o := NewGriddedField(name, data)
		o.LongName = f.LongName
		o.Units = f.Units
		for key, v := range f.Attributes {
			o.Attributes[key] = v
		}
		// Attach the surviving coordinates, remapping their dimensions.
		newDim := 0
		for dim, c := range f.dimCoords {
			if containsInt(axes, dim) {
				continue
			}
			if c != nil {
				if err := o.AddDimCoord(c.Copy(), newDim); err != nil {
					return nil, err
				}
			}
			newDim++
		}
		for _, a := range f.auxCoords {
			if anyCollapsed(a.dims, axes) {
				continue
			}
			newDims := make([]int, len(a.dims))
			for i, d := range a.dims {
				newDims[i] = d - countLess(axes, d)
			}
			if err := o.AddAuxCoord(a.Coord.Copy(), newDims...); err != nil {
				return nil, err
			}
		}
		o.AddHistory(fmt.Sprintf("Collapsed onto %s using %s kernel.", strings.Join(coords, ", "), k.Name()))
		out = append(out, o)
	}
	return out, nil
}

// CollapseGridded collapses a field over the named coordinates using a
// kernel selected by name, defaulting to the mean.
func CollapseGridded(f *GriddedField, coords []string, kernelName string) (GriddedFieldList, error) {
	var kernel Aggregator
	if kernelName != "" {
		var ok bool
		kernel, ok = AggregationKernels[kernelName]
		if !ok {
			return nil, fmt.Errorf("cis: invalid kernel specified: %s", kernelName)
		}
	}
	return f.Collapsed(coords, kernel)
}

// collapseDense reduces a over the given axes with kernel k.
func collapseDense(a *sparse.DenseArray, axes []int, k Kernel) *sparse.DenseArray {
	outShape := make([]int, 0, len(a.Shape))
	for dim, n := range a.Shape {
		if !containsInt(axes, dim) {
			outShape = append(outShape, n)
		}
	}
	out := sparse.ZerosDense(outShape...)
	groups := make([][]float64, len(out.Elements))

	strides := denseStrides(a.Shape)
	outStrides := denseStrides(outShape)
	for i, v := range a.Elements {
		oi := 0
		oax := 0
		for dim := range a.Shape {
			if containsInt(axes, dim) {
				continue
			}
			oi += (i / strides[dim] % a.Shape[dim]) * outStrides[oax]
			oax++
		}
		groups[oi] = append(groups[oi], v)
	}
	for i, g := range groups {
		out.Elements[i] = k.Aggregate(g)
	}
	return out
}

// denseStrides returns the element stride of each axis of a row-major
// array with the given shape.
func denseStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}
	return strides
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func anyCollapsed(dims, axes []int) bool {
	for _, d := range dims {
		if containsInt(axes, d) {
			return true
		}
	}
	return false
}

// countLess returns how many elements of axes are less than d.
func countLess(axes []int, d int) int {
	n := 0
	for _, a := range axes {
		if a < d {
			n++
		}
	}
	return n
}
