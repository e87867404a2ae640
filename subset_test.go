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
	"reflect"
	"testing"
)

func TestSubset_longitude(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	o, err := f.Subset(map[string]Limit{"longitude": {Min: 0, Max: 200}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o.Data.Shape, []int{2, 3}) {
		t.Fatalf("shape: have %v, want [2 3]", o.Data.Shape)
	}
	wantLon := []float64{10, 170, 190}
	if haveLon := o.Coord("longitude").Points.Elements; !reflect.DeepEqual(haveLon, wantLon) {
		t.Errorf("points: have %v, want %v", haveLon, wantLon)
	}
	wantData := []float64{0, 1, 2, 4, 5, 6}
	if !reflect.DeepEqual(o.Data.Elements, wantData) {
		t.Errorf("data: have %v, want %v", o.Data.Elements, wantData)
	}
	// The receiver must be untouched.
	if !reflect.DeepEqual(f.Data.Shape, []int{2, 4}) {
		t.Errorf("receiver modified: shape %v", f.Data.Shape)
	}
}

func TestSubset_latitude(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	o, err := f.Subset(map[string]Limit{"latitude": {Min: 0, Max: 90}})
	if err != nil {
		t.Fatal(err)
	}
	wantData := []float64{4, 5, 6, 7}
	if !reflect.DeepEqual(o.Data.Elements, wantData) {
		t.Errorf("data: have %v, want %v", o.Data.Elements, wantData)
	}
	if haveLat := o.Coord("latitude").Points.Elements; !reflect.DeepEqual(haveLat, []float64{45}) {
		t.Errorf("points: have %v, want [45]", haveLat)
	}
}

func TestSubset_maxOnGridPoint(t *testing.T) {
	// An upper limit exactly on a grid point is inclusive.
	f := testField(t, []float64{10, 170, 190, 350})
	o, err := f.Subset(map[string]Limit{"longitude": {Min: 10, Max: 190}})
	if err != nil {
		t.Fatal(err)
	}
	wantLon := []float64{10, 170, 190}
	if haveLon := o.Coord("longitude").Points.Elements; !reflect.DeepEqual(haveLon, wantLon) {
		t.Errorf("points: have %v, want %v", haveLon, wantLon)
	}
}

func TestSubset_bothAxes(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	o, err := f.Subset(map[string]Limit{
		"longitude": {Min: 100, Max: 360},
		"latitude":  {Min: -90, Max: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o.Data.Shape, []int{1, 3}) {
		t.Fatalf("shape: have %v, want [1 3]", o.Data.Shape)
	}
	wantData := []float64{1, 2, 3}
	if !reflect.DeepEqual(o.Data.Elements, wantData) {
		t.Errorf("data: have %v, want %v", o.Data.Elements, wantData)
	}
}

func TestSubset_bounds(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	lon := f.Coord("longitude")
	lon.Bounds = arrayFrom([]float64{
		0, 80,
		80, 180,
		180, 280,
		280, 360,
	}, []int{4, 2})
	o, err := f.Subset(map[string]Limit{"longitude": {Min: 0, Max: 200}})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 80, 80, 180, 180, 280}
	if have := o.Coord("longitude").Bounds.Elements; !reflect.DeepEqual(have, want) {
		t.Errorf("bounds: have %v, want %v", have, want)
	}
}

func TestSubset_errors(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	if _, err := f.Subset(map[string]Limit{"air_pressure": {Min: 0, Max: 1}}); err == nil {
		t.Error("expected error for unknown coordinate but got none")
	}
	if _, err := f.Subset(map[string]Limit{"latitude": {Min: 1000, Max: 2000}}); err == nil {
		t.Error("expected error for empty selection but got none")
	}
}

func TestSubset_auxCoord(t *testing.T) {
	f := testField(t, []float64{10, 170, 190, 350})
	aux := &Coord{Name: "surface_elevation", Points: arrayFrom([]float64{0, 10, 20, 30, 40, 50, 60, 70}, []int{2, 4})}
	if err := f.AddAuxCoord(aux, 0, 1); err != nil {
		t.Fatal(err)
	}
	o, err := f.Subset(map[string]Limit{"longitude": {Min: 0, Max: 200}})
	if err != nil {
		t.Fatal(err)
	}
	c := o.Coord("surface_elevation")
	if c == nil {
		t.Fatal("auxiliary coordinate lost in subset")
	}
	want := []float64{0, 10, 20, 40, 50, 60}
	if !reflect.DeepEqual(c.Points.Elements, want) {
		t.Errorf("aux points: have %v, want %v", c.Points.Elements, want)
	}
}
