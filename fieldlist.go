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

import "fmt"

// A GriddedFieldList holds multiple gridded fields that are processed
// together. The fields are expected to share coordinates, so the
// coordinate accessors delegate to the first field.
type GriddedFieldList []*GriddedField

// IsGridded reports whether the data and coordinates are gridded.
func (l GriddedFieldList) IsGridded() bool {
	return true
}

// NDim returns the number of data dimensions, taken from the first field.
func (l GriddedFieldList) NDim() int {
	return l[0].NDim()
}

// Coord returns the coordinate matching name from the first field.
func (l GriddedFieldList) Coord(name string) *Coord {
	return l[0].Coord(name)
}

// CoordDims returns the data dimensions spanned by the given coordinate
// in the first field.
func (l GriddedFieldList) CoordDims(c *Coord) []int {
	return l[0].CoordDims(c)
}

// DimCoords returns the dimension coordinates of the first field.
func (l GriddedFieldList) DimCoords() []*Coord {
	return l[0].DimCoords()
}

// AuxCoords returns the auxiliary coordinates of the first field.
func (l GriddedFieldList) AuxCoords() []*Coord {
	return l[0].AuxCoords()
}

// AddAuxCoord attaches an auxiliary coordinate to every field in the
// list.
func (l GriddedFieldList) AddAuxCoord(c *Coord, dims ...int) error {
	for _, f := range l {
		if err := f.AddAuxCoord(c, dims...); err != nil {
			return err
		}
	}
	return nil
}

// RemoveCoord detaches the named coordinate from every field in the list.
func (l GriddedFieldList) RemoveCoord(name string) {
	for _, f := range l {
		f.RemoveCoord(name)
	}
}

// SetLongitudeRange rewraps the longitude coordinate of every field in
// the list to start at rangeStart.
func (l GriddedFieldList) SetLongitudeRange(rangeStart float64) {
	for _, f := range l {
		f.SetLongitudeRange(rangeStart)
	}
}

// Collapsed collapses every field in the list over the named coordinates.
func (l GriddedFieldList) Collapsed(coords []string, kernel Aggregator) (GriddedFieldList, error) {
	var out GriddedFieldList
	for _, f := range l {
		o, err := f.Collapsed(coords, kernel)
		if err != nil {
			return nil, err
		}
		out = append(out, o...)
	}
	return out, nil
}

// Subset subsets every field in the list with the same limits.
func (l GriddedFieldList) Subset(limits map[string]Limit) (GriddedFieldList, error) {
	var out GriddedFieldList
	for _, f := range l {
		o, err := f.Subset(limits)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Field returns the field with the given variable name.
func (l GriddedFieldList) Field(varName string) (*GriddedField, error) {
	for _, f := range l {
		if f.VarName == varName {
			return f, nil
		}
	}
	return nil, fmt.Errorf("cis: no field named %s in list", varName)
}

func (l GriddedFieldList) String() string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.VarName
	}
	return fmt.Sprintf("<GriddedFieldList: %v>", names)
}
