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

package timeparse

import (
	"reflect"
	"testing"
	"time"
)

func TestParsePartialDatetime(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"2008", []int{2008}},
		{"2008-06", []int{2008, 6}},
		{"2008-06-12", []int{2008, 6, 12}},
		{"2008-06-12:14", []int{2008, 6, 12, 14}},
		{"2008-06-12 14", []int{2008, 6, 12, 14}},
		{"2008-06-12T14", []int{2008, 6, 12, 14}},
		{"2008-06-12:14:30", []int{2008, 6, 12, 14, 30}},
		{"2008-06-12T14:30:59", []int{2008, 6, 12, 14, 30, 59}},
		{"2008-06-12 14:30:59", []int{2008, 6, 12, 14, 30, 59}},
	}
	for _, test := range tests {
		dt, err := ParsePartialDatetime(test.in)
		if err != nil {
			t.Errorf("%s: %v", test.in, err)
			continue
		}
		if !reflect.DeepEqual(dt.Components(), test.want) {
			t.Errorf("%s: have %v, want %v", test.in, dt.Components(), test.want)
		}
	}
}

func TestParsePartialDatetime_malformed(t *testing.T) {
	tests := []string{
		"",
		"junk",
		"2008-06-12-10",          // too many date components
		"2008-06-12T14:30:59:10", // too many time components
		"2008-06T14",             // time without a full date
		"2008:14",                // colon split leaves a bare year
		"2008-xx-12",
		"2008-06-12Tab",
	}
	for _, test := range tests {
		if _, err := ParsePartialDatetime(test); err == nil {
			t.Errorf("%s: expected error but got none", test)
		} else if _, ok := err.(MalformedDateError); !ok {
			t.Errorf("%s: error type %T, want MalformedDateError", test, err)
		}
	}
}

func TestPartialDateTime_accessors(t *testing.T) {
	dt, err := ParsePartialDatetime("2008-06-12T14")
	if err != nil {
		t.Fatal(err)
	}
	if y, ok := dt.Year(); !ok || y != 2008 {
		t.Errorf("year: have %d (%v), want 2008", y, ok)
	}
	if h, ok := dt.Hour(); !ok || h != 14 {
		t.Errorf("hour: have %d (%v), want 14", h, ok)
	}
	if _, ok := dt.Minute(); ok {
		t.Error("minute should be unspecified")
	}
	if _, ok := dt.Second(); ok {
		t.Error("second should be unspecified")
	}
}

func TestPartialDateTime_bounds(t *testing.T) {
	tests := []struct {
		in           string
		lower, upper time.Time
	}{
		{
			"2008",
			time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2008, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			"2008-02",
			time.Date(2008, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2008, 2, 29, 23, 59, 59, 0, time.UTC), // leap year
		},
		{
			"2009-02",
			time.Date(2009, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2009, 2, 28, 23, 59, 59, 0, time.UTC),
		},
		{
			"2008-06-12T14",
			time.Date(2008, 6, 12, 14, 0, 0, 0, time.UTC),
			time.Date(2008, 6, 12, 14, 59, 59, 0, time.UTC),
		},
	}
	for _, test := range tests {
		dt, err := ParsePartialDatetime(test.in)
		if err != nil {
			t.Fatal(err)
		}
		if lower := dt.Lower(); !lower.Equal(test.lower) {
			t.Errorf("%s lower: have %v, want %v", test.in, lower, test.lower)
		}
		if upper := dt.Upper(); !upper.Equal(test.upper) {
			t.Errorf("%s upper: have %v, want %v", test.in, upper, test.upper)
		}
	}
}
