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

package cisutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lnashier/viper"

	"github.com/cistools/cis"
	"github.com/cistools/cis/timeparse"
)

func TestCheckOutputFile(t *testing.T) {
	if _, err := checkOutputFile(""); err == nil {
		t.Error("expected error for empty output file but got none")
	}
	if _, err := checkOutputFile(filepath.Join(t.TempDir(), "nope", "out.nc")); err == nil {
		t.Error("expected error for missing output directory but got none")
	}
	dir := t.TempDir()
	f, err := checkOutputFile(filepath.Join(dir, "out.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if f != filepath.Join(dir, "out.nc") {
		t.Errorf("have %s", f)
	}
}

func TestParseLimit(t *testing.T) {
	if _, have, err := parseLimit("", "longitude"); err != nil || have {
		t.Errorf("empty: have %v, %v", have, err)
	}
	if _, have, err := parseLimit("None", "longitude"); err != nil || have {
		t.Errorf("None: have %v, %v", have, err)
	}
	v, have, err := parseLimit("42.5", "longitude")
	if err != nil || !have || v != 42.5 {
		t.Errorf("42.5: have %g, %v, %v", v, have, err)
	}
	v, have, err = parseLimit("1600-01-02", "start time")
	if err != nil || !have || v != 1 {
		t.Errorf("1600-01-02: have %g, %v, %v", v, have, err)
	}
	_, _, err = parseLimit("junk", "longitude")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if want := "'junk' is not a valid longitude"; err.Error() != want {
		t.Errorf("have %q, want %q", err.Error(), want)
	}
}

func TestParseTimeLimit(t *testing.T) {
	// A bare number passes through unchanged.
	v, have, err := parseTimeLimit("10", "start time", false)
	if err != nil || !have || v != 10 {
		t.Errorf("10: have %g, %v, %v", v, have, err)
	}
	// A partial date/time expands to its earliest instant as a lower
	// limit and its latest as an upper limit.
	lower, _, err := parseTimeLimit("2008", "start time", false)
	if err != nil {
		t.Fatal(err)
	}
	if want := timeparse.StandardTime(time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)); lower != want {
		t.Errorf("lower: have %g, want %g", lower, want)
	}
	upper, _, err := parseTimeLimit("2008", "end time", true)
	if err != nil {
		t.Fatal(err)
	}
	if want := timeparse.StandardTime(time.Date(2008, 12, 31, 23, 59, 59, 0, time.UTC)); upper != want {
		t.Errorf("upper: have %g, want %g", upper, want)
	}
	if lower >= upper {
		t.Error("lower limit should precede upper limit")
	}
	// A duration is not a time limit.
	_, _, err = parseTimeLimit("P1D", "start time", false)
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if want := "'P1D' is not a valid start time"; err.Error() != want {
		t.Errorf("have %q, want %q", err.Error(), want)
	}
}

func TestSubsetLimits(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Subset.LonMin", "0")
	cfg.Set("Subset.LonMax", "180")
	cfg.Set("Subset.LatMin", "-45")
	cfg.Set("Subset.LatMax", "45")
	limits, err := subsetLimits(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if limits["longitude"] != (cis.Limit{Min: 0, Max: 180}) {
		t.Errorf("longitude: have %+v", limits["longitude"])
	}
	if limits["latitude"] != (cis.Limit{Min: -45, Max: 45}) {
		t.Errorf("latitude: have %+v", limits["latitude"])
	}
	if _, ok := limits["time"]; ok {
		t.Error("unexpected time limit")
	}
}

func TestSubsetLimits_time(t *testing.T) {
	cfg := viper.New()
	cfg.Set("Subset.StartTime", "2008-06")
	cfg.Set("Subset.EndTime", "2008-06")
	limits, err := subsetLimits(cfg)
	if err != nil {
		t.Fatal(err)
	}
	l, ok := limits["time"]
	if !ok {
		t.Fatal("time limit missing")
	}
	if l.Min >= l.Max {
		t.Errorf("time limit not expanded: %+v", l)
	}
}

func TestSubsetLimits_errors(t *testing.T) {
	if _, err := subsetLimits(viper.New()); err == nil {
		t.Error("expected error for no limits but got none")
	}

	cfg := viper.New()
	cfg.Set("Subset.LonMin", "0")
	if _, err := subsetLimits(cfg); err == nil {
		t.Error("expected error for LonMin without LonMax but got none")
	}

	cfg = viper.New()
	cfg.Set("Subset.LatMin", "junk")
	cfg.Set("Subset.LatMax", "45")
	if _, err := subsetLimits(cfg); err == nil {
		t.Error("expected error for malformed latitude but got none")
	}
}
