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

// Package cis implements the gridded-data core of the Community
// Intercomparison Suite: labeled multi-dimensional fields with attached
// coordinates, and the subsetting, aggregation, longitude-rewrapping and
// collocation operations performed on them.
package cis

import (
	"fmt"
	"time"

	"github.com/ctessum/sparse"
)

// A Coord is a coordinate array describing one or more dimensions of a
// field. A dimension coordinate spans exactly one dimension and has
// monotonic points; an auxiliary coordinate may span several dimensions
// and need not be monotonic.
type Coord struct {
	// Name is the variable name of the coordinate.
	Name string
	// StandardName is the CF standard name, e.g. "longitude".
	StandardName string
	// Units holds the coordinate units, e.g. "degrees_east".
	Units string
	// Points holds the coordinate values. For a dimension coordinate the
	// shape is [n]; for an auxiliary coordinate it matches the lengths of
	// the spanned data dimensions.
	Points *sparse.DenseArray
	// Bounds optionally holds (lower, upper) cell bounds with shape
	// [n, 2]. Only dimension coordinates carry bounds.
	Bounds *sparse.DenseArray
}

// Len returns the number of coordinate points.
func (c *Coord) Len() int {
	return len(c.Points.Elements)
}

// Copy returns a deep copy of the coordinate.
func (c *Coord) Copy() *Coord {
	o := &Coord{
		Name:         c.Name,
		StandardName: c.StandardName,
		Units:        c.Units,
		Points:       c.Points.Copy(),
	}
	if c.Bounds != nil {
		o.Bounds = c.Bounds.Copy()
	}
	return o
}

// HasBounds reports whether the coordinate carries cell bounds.
func (c *Coord) HasBounds() bool {
	return c.Bounds != nil && len(c.Bounds.Elements) != 0
}

// An auxCoord pairs an auxiliary coordinate with the data dimensions it
// spans, in the order of its point array axes.
type auxCoord struct {
	*Coord
	dims []int
}

// A GriddedField is a multi-dimensional data array with attached
// coordinate arrays and metadata. It wraps the underlying dense array
// rather than extending it, so externally-constructed arrays can be
// adopted without copying.
type GriddedField struct {
	// VarName is the variable name of the field.
	VarName string
	// LongName is a human-readable description.
	LongName string
	// Units holds the physical units of the data.
	Units string
	// Attributes holds variable and global attributes.
	Attributes map[string]string

	// Data holds the field values. Missing values are NaN.
	Data *sparse.DenseArray

	dimCoords []*Coord // one entry per data dimension; nil if anonymous
	auxCoords []auxCoord

	// localAttributes records which attribute keys belong to the
	// variable rather than to the file, for use when saving.
	localAttributes []string
}

// NewGriddedField creates a field wrapping the given data array.
func NewGriddedField(varName string, data *sparse.DenseArray) *GriddedField {
	return &GriddedField{
		VarName:    varName,
		Attributes: make(map[string]string),
		Data:       data,
		dimCoords:  make([]*Coord, len(data.Shape)),
	}
}

// NDim returns the number of data dimensions.
func (f *GriddedField) NDim() int {
	return len(f.Data.Shape)
}

// AddDimCoord attaches a dimension coordinate to the given data
// dimension.
func (f *GriddedField) AddDimCoord(c *Coord, dim int) error {
	if dim < 0 || dim >= f.NDim() {
		return fmt.Errorf("cis: dimension %d out of range for %d-dimensional field %s", dim, f.NDim(), f.VarName)
	}
	if len(c.Points.Shape) != 1 || c.Len() != f.Data.Shape[dim] {
		return fmt.Errorf("cis: coordinate %s does not match dimension %d of field %s", c.Name, dim, f.VarName)
	}
	if c.HasBounds() && (len(c.Bounds.Shape) != 2 || c.Bounds.Shape[0] != c.Len() || c.Bounds.Shape[1] != 2) {
		return fmt.Errorf("cis: coordinate %s has malformed bounds", c.Name)
	}
	f.dimCoords[dim] = c
	return nil
}

// AddAuxCoord attaches an auxiliary coordinate spanning the given data
// dimensions, which must match the axes of the coordinate point array in
// order.
func (f *GriddedField) AddAuxCoord(c *Coord, dims ...int) error {
	if len(dims) != len(c.Points.Shape) {
		return fmt.Errorf("cis: auxiliary coordinate %s spans %d axes but %d dimensions were given", c.Name, len(c.Points.Shape), len(dims))
	}
	for i, d := range dims {
		if d < 0 || d >= f.NDim() {
			return fmt.Errorf("cis: dimension %d out of range for %d-dimensional field %s", d, f.NDim(), f.VarName)
		}
		if c.Points.Shape[i] != f.Data.Shape[d] {
			return fmt.Errorf("cis: auxiliary coordinate %s does not match dimension %d of field %s", c.Name, d, f.VarName)
		}
	}
	dd := make([]int, len(dims))
	copy(dd, dims)
	f.auxCoords = append(f.auxCoords, auxCoord{Coord: c, dims: dd})
	return nil
}

// DimCoord returns the dimension coordinate attached to the given data
// dimension, or nil if the dimension is anonymous.
func (f *GriddedField) DimCoord(dim int) *Coord {
	return f.dimCoords[dim]
}

// DimCoords returns the dimension coordinates, indexed by data dimension.
// Anonymous dimensions have nil entries.
func (f *GriddedField) DimCoords() []*Coord {
	o := make([]*Coord, len(f.dimCoords))
	copy(o, f.dimCoords)
	return o
}

// AuxCoords returns the auxiliary coordinates.
func (f *GriddedField) AuxCoords() []*Coord {
	o := make([]*Coord, len(f.auxCoords))
	for i, a := range f.auxCoords {
		o[i] = a.Coord
	}
	return o
}

// Coord returns the first coordinate whose standard name or variable name
// matches name, or nil if there is none. Dimension coordinates are
// searched before auxiliary coordinates.
func (f *GriddedField) Coord(name string) *Coord {
	for _, c := range f.dimCoords {
		if c != nil && (c.StandardName == name || c.Name == name) {
			return c
		}
	}
	for _, a := range f.auxCoords {
		if a.StandardName == name || a.Name == name {
			return a.Coord
		}
	}
	return nil
}

// CoordDims returns the data dimensions spanned by the given coordinate.
func (f *GriddedField) CoordDims(c *Coord) []int {
	for i, dc := range f.dimCoords {
		if dc == c {
			return []int{i}
		}
	}
	for _, a := range f.auxCoords {
		if a.Coord == c {
			dd := make([]int, len(a.dims))
			copy(dd, a.dims)
			return dd
		}
	}
	return nil
}

// dimCoordIndex returns the dimension coordinate with the given standard
// or variable name together with its data dimension, or (nil, -1).
func (f *GriddedField) dimCoordIndex(name string) (*Coord, int) {
	for i, c := range f.dimCoords {
		if c != nil && (c.StandardName == name || c.Name == name) {
			return c, i
		}
	}
	return nil, -1
}

// RemoveCoord detaches the first coordinate matching name.
func (f *GriddedField) RemoveCoord(name string) {
	for i, c := range f.dimCoords {
		if c != nil && (c.StandardName == name || c.Name == name) {
			f.dimCoords[i] = nil
			return
		}
	}
	for i, a := range f.auxCoords {
		if a.StandardName == name || a.Name == name {
			f.auxCoords = append(f.auxCoords[:i], f.auxCoords[i+1:]...)
			return
		}
	}
}

// Name returns the variable name of the field.
func (f *GriddedField) Name() string {
	return f.VarName
}

// IsGridded reports whether the data and coordinates are gridded. It is
// always true for a GriddedField; ungridded (point cloud) data implements
// the same method.
func (f *GriddedField) IsGridded() bool {
	return true
}

// History returns the history attribute.
func (f *GriddedField) History() string {
	return f.Attributes["history"]
}

// AddHistory appends to, or creates, the history attribute, prefixing the
// new entry with a UTC timestamp.
func (f *GriddedField) AddHistory(newHistory string) {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05Z ")
	if _, ok := f.Attributes["history"]; !ok {
		f.Attributes["history"] = timestamp + newHistory
	} else {
		f.Attributes["history"] += "\n" + timestamp + newHistory
	}
}

// AddAttributes adds variable attributes to this field, recording them as
// local (variable) attributes rather than global ones.
func (f *GriddedField) AddAttributes(attributes map[string]string) {
	for key, value := range attributes {
		f.Attributes[key] = value
		f.localAttributes = append(f.localAttributes, key)
	}
}

// RemoveAttribute removes a variable attribute from this field.
func (f *GriddedField) RemoveAttribute(key string) {
	delete(f.Attributes, key)
	for i, k := range f.localAttributes {
		if k == key {
			f.localAttributes = append(f.localAttributes[:i], f.localAttributes[i+1:]...)
			break
		}
	}
}

// MakeNewWithSameCoordinates creates a new field sharing this field's
// coordinates. If data is nil the new field is filled with zeros.
func (f *GriddedField) MakeNewWithSameCoordinates(varName string, data *sparse.DenseArray) (*GriddedField, error) {
	if data == nil {
		data = sparse.ZerosDense(f.Data.Shape...)
	}
	if !shapeEqual(data.Shape, f.Data.Shape) {
		return nil, fmt.Errorf("cis: data shape %v does not match field %s shape %v", data.Shape, f.VarName, f.Data.Shape)
	}
	o := NewGriddedField(varName, data)
	o.Units = f.Units
	copy(o.dimCoords, f.dimCoords)
	o.auxCoords = append(o.auxCoords, f.auxCoords...)
	return o, nil
}

// Copy returns a deep copy of the field.
func (f *GriddedField) Copy() *GriddedField {
	o := NewGriddedField(f.VarName, f.Data.Copy())
	o.LongName = f.LongName
	o.Units = f.Units
	for k, v := range f.Attributes {
		o.Attributes[k] = v
	}
	o.localAttributes = append(o.localAttributes, f.localAttributes...)
	for i, c := range f.dimCoords {
		if c != nil {
			o.dimCoords[i] = c.Copy()
		}
	}
	for _, a := range f.auxCoords {
		dd := make([]int, len(a.dims))
		copy(dd, a.dims)
		o.auxCoords = append(o.auxCoords, auxCoord{Coord: a.Coord.Copy(), dims: dd})
	}
	return o
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
