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
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ReadField reads one variable and its coordinates from a NetCDF file.
func ReadField(path, varName string) (*GriddedField, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cis: opening %s: %v", path, err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("cis: reading %s: %v", path, err)
	}
	return readVar(f, path, varName)
}

// ReadFieldList reads every data variable from a NetCDF file, skipping
// coordinate and bounds variables.
func ReadFieldList(path string) (GriddedFieldList, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cis: opening %s: %v", path, err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return nil, fmt.Errorf("cis: reading %s: %v", path, err)
	}
	support := supportVars(f)
	var out GriddedFieldList
	for _, v := range f.Header.Variables() {
		if _, ok := support[v]; ok {
			continue
		}
		field, err := readVar(f, path, v)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("cis: no data variables found in %s", path)
	}
	return out, nil
}

// supportVars lists the variables in a file that describe other variables
// (coordinates, auxiliary coordinates and bounds) rather than holding
// data of their own.
func supportVars(f *cdf.File) map[string]struct{} {
	support := make(map[string]struct{})
	for _, v := range f.Header.Variables() {
		dims := f.Header.Dimensions(v)
		if len(dims) == 1 && dims[0] == v {
			support[v] = struct{}{}
		}
		if b := attrString(f, v, "bounds"); b != "" {
			support[b] = struct{}{}
		}
		if c := attrString(f, v, "coordinates"); c != "" {
			for _, aux := range strings.Fields(c) {
				support[aux] = struct{}{}
			}
		}
	}
	return support
}

func readVar(f *cdf.File, path, varName string) (*GriddedField, error) {
	lengths := f.Header.Lengths(varName)
	if len(lengths) == 0 {
		return nil, fmt.Errorf("cis: variable %s not in file %s", varName, path)
	}
	dims := f.Header.Dimensions(varName)
	data, err := readFull(f, varName)
	if err != nil {
		return nil, fmt.Errorf("cis: reading %s from %s: %v", varName, path, err)
	}
	field := NewGriddedField(varName, arrayFrom(data, lengths))
	field.Units = attrString(f, varName, "units")
	field.LongName = attrString(f, varName, "long_name")
	if h := attrString(f, "", "history"); h != "" {
		field.Attributes["history"] = h
	}

	// Dimension coordinates follow the same-name convention.
	for i, dim := range dims {
		if !varExists(f, dim) {
			continue
		}
		points, err := readFull(f, dim)
		if err != nil {
			return nil, fmt.Errorf("cis: reading coordinate %s from %s: %v", dim, path, err)
		}
		c := &Coord{
			Name:         dim,
			StandardName: attrString(f, dim, "standard_name"),
			Units:        attrString(f, dim, "units"),
			Points:       arrayFrom(points, []int{lengths[i]}),
		}
		if bndsVar := attrString(f, dim, "bounds"); bndsVar != "" && varExists(f, bndsVar) {
			bounds, err := readFull(f, bndsVar)
			if err != nil {
				return nil, fmt.Errorf("cis: reading bounds %s from %s: %v", bndsVar, path, err)
			}
			c.Bounds = arrayFrom(bounds, []int{lengths[i], 2})
		}
		if err := field.AddDimCoord(c, i); err != nil {
			return nil, err
		}
	}

	// Auxiliary coordinates are named by the "coordinates" attribute.
	for _, auxName := range strings.Fields(attrString(f, varName, "coordinates")) {
		if !varExists(f, auxName) {
			continue
		}
		points, err := readFull(f, auxName)
		if err != nil {
			return nil, fmt.Errorf("cis: reading coordinate %s from %s: %v", auxName, path, err)
		}
		auxDims := f.Header.Dimensions(auxName)
		auxLengths := f.Header.Lengths(auxName)
		mapped := make([]int, len(auxDims))
		for i, ad := range auxDims {
			mapped[i] = -1
			for j, dd := range dims {
				if ad == dd {
					mapped[i] = j
					break
				}
			}
			if mapped[i] == -1 {
				return nil, fmt.Errorf("cis: auxiliary coordinate %s in %s spans dimension %s not used by %s", auxName, path, ad, varName)
			}
		}
		c := &Coord{
			Name:         auxName,
			StandardName: attrString(f, auxName, "standard_name"),
			Units:        attrString(f, auxName, "units"),
			Points:       arrayFrom(points, auxLengths),
		}
		if err := field.AddAuxCoord(c, mapped...); err != nil {
			return nil, err
		}
	}
	return field, nil
}

func varExists(f *cdf.File, name string) bool {
	return len(f.Header.Lengths(name)) != 0
}

// attrString returns a string attribute of a variable (or of the file,
// for v == ""), or "" if the attribute is absent or not a string.
func attrString(f *cdf.File, v, name string) string {
	if a := f.Header.GetAttribute(v, name); a != nil {
		if s, ok := a.(string); ok {
			return s
		}
	}
	return ""
}

// readFull reads an entire variable into a float64 slice.
func readFull(f *cdf.File, varName string) ([]float64, error) {
	r := f.Reader(varName, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(b))
		for i, v := range b {
			out[i] = float64(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported variable type %T", buf)
	}
}

func arrayFrom(elements []float64, shape []int) *sparse.DenseArray {
	a := sparse.ZerosDense(shape...)
	copy(a.Elements, elements)
	return a
}

// Save writes the field and its coordinates to a NetCDF file.
func (f *GriddedField) Save(path string) error {
	return GriddedFieldList{f}.Save(path)
}

// Save writes all fields in the list, with their shared coordinates, to a
// NetCDF file.
func (l GriddedFieldList) Save(path string) error {
	if len(l) == 0 {
		return fmt.Errorf("cis: no fields to save to %s", path)
	}
	// Collect the dimensions of all fields. Anonymous dimensions get
	// generated names.
	var dimNames []string
	var dimLengths []int
	haveDim := make(map[string]int)
	addDim := func(name string, length int) error {
		if n, ok := haveDim[name]; ok {
			if n != length {
				return fmt.Errorf("cis: dimension %s has conflicting lengths %d and %d", name, n, length)
			}
			return nil
		}
		haveDim[name] = length
		dimNames = append(dimNames, name)
		dimLengths = append(dimLengths, length)
		return nil
	}
	varDims := make(map[*GriddedField][]string)
	needBounds := false
	for fi, f := range l {
		names := make([]string, f.NDim())
		for dim := range names {
			if c := f.DimCoord(dim); c != nil {
				names[dim] = c.Name
				if c.HasBounds() {
					needBounds = true
				}
			} else {
				names[dim] = fmt.Sprintf("dim%d_%d", fi, dim)
			}
			if err := addDim(names[dim], f.Data.Shape[dim]); err != nil {
				return err
			}
		}
		varDims[f] = names
	}
	if needBounds {
		if err := addDim("nv", 2); err != nil {
			return err
		}
	}

	h := cdf.NewHeader(dimNames, dimLengths)
	wrote := make(map[string][]float64)
	addCoordVar := func(c *Coord, dims []string) {
		if _, ok := wrote[c.Name]; ok {
			return
		}
		h.AddVariable(c.Name, dims, []float64{0.})
		if c.Units != "" {
			h.AddAttribute(c.Name, "units", c.Units)
		}
		if c.StandardName != "" {
			h.AddAttribute(c.Name, "standard_name", c.StandardName)
		}
		wrote[c.Name] = c.Points.Elements
		if c.HasBounds() {
			bndsName := c.Name + "_bnds"
			h.AddAttribute(c.Name, "bounds", bndsName)
			h.AddVariable(bndsName, []string{dims[0], "nv"}, []float64{0.})
			wrote[bndsName] = c.Bounds.Elements
		}
	}
	for _, f := range l {
		names := varDims[f]
		for dim := range names {
			if c := f.DimCoord(dim); c != nil {
				addCoordVar(c, []string{names[dim]})
			}
		}
		var auxNames []string
		for _, a := range f.auxCoords {
			auxDimNames := make([]string, len(a.dims))
			for i, d := range a.dims {
				auxDimNames[i] = names[d]
			}
			addCoordVar(a.Coord, auxDimNames)
			auxNames = append(auxNames, a.Name)
		}
		h.AddVariable(f.VarName, names, []float64{0.})
		if f.Units != "" {
			h.AddAttribute(f.VarName, "units", f.Units)
		}
		if f.LongName != "" {
			h.AddAttribute(f.VarName, "long_name", f.LongName)
		}
		if len(auxNames) > 0 {
			h.AddAttribute(f.VarName, "coordinates", strings.Join(auxNames, " "))
		}
		for _, k := range f.localAttributes {
			h.AddAttribute(f.VarName, k, f.Attributes[k])
		}
		wrote[f.VarName] = f.Data.Elements
	}
	if history := l[0].History(); history != "" {
		h.AddAttribute("", "history", history)
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("cis: creating netcdf file %s: %v", path, err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cis: creating %s: %v", path, err)
	}
	defer ff.Close()
	cf, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("cis: creating netcdf file %s: %v", path, err)
	}
	for name, elements := range wrote {
		begin := make([]int, len(cf.Header.Lengths(name)))
		w := cf.Writer(name, begin, cf.Header.Lengths(name))
		if _, err := w.Write(elements); err != nil {
			return fmt.Errorf("cis: writing %s to %s: %v", name, path, err)
		}
	}
	return nil
}
