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
	"math"
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// sampleGrid builds an empty field on the given latitude x longitude grid
// for use as a collocation target.
func sampleGrid(t *testing.T, latPoints, lonPoints []float64) *GriddedField {
	t.Helper()
	f := NewGriddedField("sample", sparse.ZerosDense(len(latPoints), len(lonPoints)))
	lat := &Coord{
		Name:         "latitude",
		StandardName: "latitude",
		Units:        "degrees_north",
		Points:       arrayFrom(latPoints, []int{len(latPoints)}),
	}
	if err := f.AddDimCoord(lat, 0); err != nil {
		t.Fatal(err)
	}
	lon := &Coord{
		Name:         "longitude",
		StandardName: "longitude",
		Units:        "degrees_east",
		Points:       arrayFrom(lonPoints, []int{len(lonPoints)}),
	}
	if err := f.AddDimCoord(lon, 1); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSampledFrom_dispatch(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{-45, 45}, []float64{0, 10, 20, 30})

	if _, err := sample.SampledFrom(data, "box", ""); err == nil {
		t.Error("expected error for invalid method but got none")
	}
	if _, err := sample.SampledFrom(data, "lin", "mean"); err == nil {
		t.Error("expected error for kernel with lin but got none")
	}
	if _, err := sample.SampledFrom(data, "nn", "mean"); err == nil {
		t.Error("expected error for kernel with nn but got none")
	}
}

func TestSampledFrom_nnIdentity(t *testing.T) {
	// Sample grid identical to the data grid: the result is the data.
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{-45, 45}, []float64{0, 10, 20, 30})
	out, err := sample.SampledFrom(data, "nn", "")
	if err != nil {
		t.Fatal(err)
	}
	if out.VarName != "tas" {
		t.Errorf("name: have %s, want tas", out.VarName)
	}
	if !reflect.DeepEqual(out.Data.Elements, data.Data.Elements) {
		t.Errorf("have %v, want %v", out.Data.Elements, data.Data.Elements)
	}
}

func TestSampledFrom_nn(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{-45, 45}, []float64{4, 26})
	out, err := sample.SampledFrom(data, "nn", "")
	if err != nil {
		t.Fatal(err)
	}
	// 4 is nearest to 0; 26 is nearest to 30.
	want := []float64{0, 3, 4, 7}
	if !reflect.DeepEqual(out.Data.Elements, want) {
		t.Errorf("have %v, want %v", out.Data.Elements, want)
	}
}

func TestSampledFrom_nnTie(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	// 5 is equidistant from 0 and 10: the lower neighbour wins.
	sample := sampleGrid(t, []float64{-45, 45}, []float64{5})
	out, err := sample.SampledFrom(data, "nn", "")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 4}
	if !reflect.DeepEqual(out.Data.Elements, want) {
		t.Errorf("have %v, want %v", out.Data.Elements, want)
	}
}

func TestSampledFrom_lin(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{-45, 45}, []float64{5, 15})
	out, err := sample.SampledFrom(data, "lin", "")
	if err != nil {
		t.Fatal(err)
	}
	// Midpoints along longitude in each row.
	want := []float64{0.5, 1.5, 4.5, 5.5}
	if !reflect.DeepEqual(out.Data.Elements, want) {
		t.Errorf("have %v, want %v", out.Data.Elements, want)
	}
}

func TestSampledFrom_linBothAxes(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{0}, []float64{0})
	// Default method is lin.
	out, err := sample.SampledFrom(data, "", "")
	if err != nil {
		t.Fatal(err)
	}
	// Latitude 0 is midway between -45 and 45: mean of 0 and 4.
	if out.Data.Elements[0] != 2 {
		t.Errorf("have %v, want 2", out.Data.Elements[0])
	}
}

func TestSampledFrom_linOutsideRange(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := sampleGrid(t, []float64{-45, 45}, []float64{-5, 15})
	out, err := sample.SampledFrom(data, "lin", "")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(out.Data.Elements[0]) {
		t.Errorf("outside range: have %v, want NaN", out.Data.Elements[0])
	}
	if out.Data.Elements[1] != 1.5 {
		t.Errorf("inside range: have %v, want 1.5", out.Data.Elements[1])
	}
}

func TestSampledFrom_mismatchedGrids(t *testing.T) {
	data := testField(t, []float64{0, 10, 20, 30})
	sample := NewGriddedField("sample", sparse.ZerosDense(3))
	c := &Coord{
		Name:         "air_pressure",
		StandardName: "air_pressure",
		Points:       arrayFrom([]float64{1000, 900, 800}, []int{3}),
	}
	if err := sample.AddDimCoord(c, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := sample.SampledFrom(data, "nn", ""); err == nil {
		t.Error("expected error for mismatched dimensionality but got none")
	}

	sample2 := sampleGrid(t, []float64{-45, 45}, []float64{0, 10})
	sample2.dimCoords[1].Name = "air_pressure"
	sample2.dimCoords[1].StandardName = "air_pressure"
	if _, err := sample2.SampledFrom(data, "nn", ""); err == nil {
		t.Error("expected error for unmatched coordinate but got none")
	}
}
