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
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"

	"github.com/cistools/cis"
	"github.com/cistools/cis/timeparse"
)

// loadInput reads the data the command operates on, downloading the input
// file first if it is a URL. If a single variable is configured only that
// variable is read.
func loadInput(cfg *viper.Viper) (cis.GriddedFieldList, error) {
	input := os.ExpandEnv(cfg.GetString("InputFile"))
	if input == "" {
		return nil, fmt.Errorf("cis: no input file specified; set InputFile")
	}
	input = maybeDownload(input)
	if v := cfg.GetString("Variable"); v != "" {
		f, err := cis.ReadField(input, v)
		if err != nil {
			return nil, err
		}
		return cis.GriddedFieldList{f}, nil
	}
	return cis.ReadFieldList(input)
}

// saveOutput writes the results of a command to the configured output
// file.
func saveOutput(cfg *viper.Viper, fields cis.GriddedFieldList) error {
	output, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return err
	}
	logrus.WithField("file", output).Info("saving")
	return fields.Save(output)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="out.nc")`)
	}
	f = os.ExpandEnv(f)
	d := filepath.Dir(f)
	if _, err := os.Stat(d); err != nil {
		return f, fmt.Errorf("cis: the output directory %s doesn't exist", d)
	}
	return f, nil
}

// subsetLimits builds the coordinate limits for the subset command from
// the configuration.
func subsetLimits(cfg *viper.Viper) (map[string]cis.Limit, error) {
	limits := make(map[string]cis.Limit)

	lonMin, haveLonMin, err := parseLimit(cfg.GetString("Subset.LonMin"), "longitude")
	if err != nil {
		return nil, err
	}
	lonMax, haveLonMax, err := parseLimit(cfg.GetString("Subset.LonMax"), "longitude")
	if err != nil {
		return nil, err
	}
	if haveLonMin != haveLonMax {
		return nil, fmt.Errorf("cis: Subset.LonMin and Subset.LonMax must be specified together")
	}
	if haveLonMin {
		limits["longitude"] = cis.Limit{Min: lonMin, Max: lonMax}
	}

	latMin, haveLatMin, err := parseLimit(cfg.GetString("Subset.LatMin"), "latitude")
	if err != nil {
		return nil, err
	}
	latMax, haveLatMax, err := parseLimit(cfg.GetString("Subset.LatMax"), "latitude")
	if err != nil {
		return nil, err
	}
	if haveLatMin != haveLatMax {
		return nil, fmt.Errorf("cis: Subset.LatMin and Subset.LatMax must be specified together")
	}
	if haveLatMin {
		limits["latitude"] = cis.Limit{Min: latMin, Max: latMax}
	}

	t0, haveT0, err := parseTimeLimit(cfg.GetString("Subset.StartTime"), "start time", false)
	if err != nil {
		return nil, err
	}
	t1, haveT1, err := parseTimeLimit(cfg.GetString("Subset.EndTime"), "end time", true)
	if err != nil {
		return nil, err
	}
	if haveT0 != haveT1 {
		return nil, fmt.Errorf("cis: Subset.StartTime and Subset.EndTime must be specified together")
	}
	if haveT0 {
		limits["time"] = cis.Limit{Min: t0, Max: t1}
	}

	if len(limits) == 0 {
		return nil, fmt.Errorf("cis: no subset limits specified")
	}
	return limits, nil
}

// parseLimit converts a coordinate limit option to a number. Date/times
// are accepted and converted to the standard time unit. Parse failures
// are reported as user-facing messages, not passed up raw.
func parseLimit(s, name string) (float64, bool, error) {
	if s == "" || s == "None" {
		return 0, false, nil
	}
	v, err := timeparse.ParseAsNumberOrDatetime(s)
	if err != nil {
		return 0, false, fmt.Errorf("'%s' is not a valid %s", s, name)
	}
	return v, true, nil
}

// parseTimeLimit converts a time limit option to the standard time unit.
// A partial date/time is expanded to its earliest instant for a lower
// limit and its latest instant for an upper limit, so that for example
// EndTime=2008 includes all of 2008.
func parseTimeLimit(s, name string, upper bool) (float64, bool, error) {
	if s == "" || s == "None" {
		return 0, false, nil
	}
	v, err := timeparse.ParseAsNumberOrPartialDatetime(s)
	if err != nil {
		return 0, false, fmt.Errorf("'%s' is not a valid %s", s, name)
	}
	switch v.Kind {
	case timeparse.NumberValue:
		return v.Number, true, nil
	case timeparse.DateTimeValue:
		if upper {
			return timeparse.StandardTime(v.DateTime.Upper()), true, nil
		}
		return timeparse.StandardTime(v.DateTime.Lower()), true, nil
	default:
		return 0, false, fmt.Errorf("'%s' is not a valid %s", s, name)
	}
}
