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

// Package cisutil binds the CIS gridded-data operations to a command
// line.
package cisutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cistools/cis"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to CIS.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "InputFile",
			usage: `
              InputFile specifies the NetCDF file to read data from. It may
              be a local path or an http(s) URL.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags(), collapseCmd.Flags(), lonrangeCmd.Flags(), collocateCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the NetCDF file to write results to.`,
			shorthand:  "o",
			defaultVal: "out.nc",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags(), collapseCmd.Flags(), lonrangeCmd.Flags(), collocateCmd.Flags()},
		},
		{
			name: "Variable",
			usage: `
              Variable specifies a single variable to operate on. If empty,
              all data variables in the input file are used.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags(), collapseCmd.Flags(), lonrangeCmd.Flags(), collocateCmd.Flags()},
		},
		{
			name: "Subset.LonMin",
			usage: `
              Subset.LonMin specifies the minimum longitude to include in the
              subset, in degrees.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Subset.LonMax",
			usage: `
              Subset.LonMax specifies the maximum longitude to include in the
              subset, in degrees.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Subset.LatMin",
			usage: `
              Subset.LatMin specifies the minimum latitude to include in the
              subset, in degrees.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Subset.LatMax",
			usage: `
              Subset.LatMax specifies the maximum latitude to include in the
              subset, in degrees.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Subset.StartTime",
			usage: `
              Subset.StartTime specifies the start of the time range to
              include in the subset, either as a number in the standard time
              unit (days since 1600-01-01) or as a partial ISO 8601 date/time
              such as 2008 or 2008-06-12T10:00. A partial date/time is
              expanded to its earliest instant.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Subset.EndTime",
			usage: `
              Subset.EndTime specifies the end of the time range to include
              in the subset, in the same formats as Subset.StartTime. A
              partial date/time is expanded to its latest instant.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{subsetCmd.Flags()},
		},
		{
			name: "Collapse.Over",
			usage: `
              Collapse.Over specifies the coordinates to collapse the data
              over, e.g. longitude,latitude.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{collapseCmd.Flags()},
		},
		{
			name: "Collapse.Kernel",
			usage: `
              Collapse.Kernel specifies the aggregation kernel: one of sum,
              mean, min, max, stddev or moments. The default is mean.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{collapseCmd.Flags()},
		},
		{
			name: "LonRangeStart",
			usage: `
              LonRangeStart specifies the starting value of the 360 degree
              longitude window to rewrap the data into, e.g. -180 or 0.`,
			defaultVal: -180.0,
			flagsets:   []*pflag.FlagSet{lonrangeCmd.Flags()},
		},
		{
			name: "Collocate.SampleFile",
			usage: `
              Collocate.SampleFile specifies the NetCDF file holding the grid
              to resample the input data onto.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{collocateCmd.Flags()},
		},
		{
			name: "Collocate.SampleVariable",
			usage: `
              Collocate.SampleVariable specifies the variable in the sample
              file whose grid is to be used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{collocateCmd.Flags()},
		},
		{
			name: "Collocate.How",
			usage: `
              Collocate.How specifies the collocation method: lin or nn.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{collocateCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CIS")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(subsetCmd)
	Root.AddCommand(collapseCmd)
	Root.AddCommand(lonrangeCmd)
	Root.AddCommand(collocateCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cis: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cis",
	Short: "A tool for intercomparison of gridded geophysical data.",
	Long: `CIS subsets, aggregates, rewraps and collocates gridded geophysical
datasets held in NetCDF files. Use the subcommands specified below to access
the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CIS_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CIS.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("CIS v%s\n", cis.Version)
	},
	DisableAutoGenTag: true,
}

// subsetCmd extracts part of a dataset by coordinate ranges.
var subsetCmd = &cobra.Command{
	Use:   "subset",
	Short: "Extract part of a dataset by coordinate ranges.",
	Long: `subset extracts the part of the input data lying within the given
longitude, latitude and time limits and writes it to the output file. Time
limits may be given as partial date/times.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadInput(Cfg)
		if err != nil {
			return err
		}
		limits, err := subsetLimits(Cfg)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"fields": len(fields),
			"limits": limits,
		}).Info("subsetting")
		out, err := fields.Subset(limits)
		if err != nil {
			return err
		}
		return saveOutput(Cfg, out)
	},
	DisableAutoGenTag: true,
}

// collapseCmd aggregates a dataset over one or more coordinates.
var collapseCmd = &cobra.Command{
	Use:   "collapse",
	Short: "Aggregate a dataset over one or more coordinates.",
	Long: `collapse aggregates the input data over the coordinates named by
Collapse.Over using the kernel named by Collapse.Kernel, removing the
corresponding dimensions, and writes the result to the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadInput(Cfg)
		if err != nil {
			return err
		}
		over, err := cast.ToStringSliceE(Cfg.Get("Collapse.Over"))
		if err != nil {
			return err
		}
		if len(over) == 0 {
			return fmt.Errorf("cis: no coordinates specified to collapse over; set Collapse.Over")
		}
		kernel := Cfg.GetString("Collapse.Kernel")
		logrus.WithFields(logrus.Fields{
			"fields": len(fields),
			"over":   over,
			"kernel": kernel,
		}).Info("collapsing")
		var out cis.GriddedFieldList
		for _, f := range fields {
			o, err := cis.CollapseGridded(f, over, kernel)
			if err != nil {
				return err
			}
			out = append(out, o...)
		}
		return saveOutput(Cfg, out)
	},
	DisableAutoGenTag: true,
}

// lonrangeCmd rewraps longitudes into a requested 360 degree window.
var lonrangeCmd = &cobra.Command{
	Use:   "lonrange",
	Short: "Rewrap longitudes into a 360 degree window.",
	Long: `lonrange rotates the data so that the longitude coordinate values
fall within the 360 degree window starting at LonRangeStart, and writes the
result to the output file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadInput(Cfg)
		if err != nil {
			return err
		}
		start := Cfg.GetFloat64("LonRangeStart")
		logrus.WithFields(logrus.Fields{
			"fields": len(fields),
			"start":  start,
		}).Info("rewrapping longitudes")
		fields.SetLongitudeRange(start)
		return saveOutput(Cfg, fields)
	},
	DisableAutoGenTag: true,
}

// collocateCmd resamples a dataset onto the grid of another.
var collocateCmd = &cobra.Command{
	Use:   "collocate",
	Short: "Resample a dataset onto the grid of another.",
	Long: `collocate resamples the input data onto the grid of the variable
named by Collocate.SampleVariable in Collocate.SampleFile, using the method
named by Collocate.How (lin or nn), and writes the result to the output
file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := loadInput(Cfg)
		if err != nil {
			return err
		}
		sampleFile := Cfg.GetString("Collocate.SampleFile")
		if sampleFile == "" {
			return fmt.Errorf("cis: no sample file specified; set Collocate.SampleFile")
		}
		sample, err := cis.ReadField(maybeDownload(sampleFile), Cfg.GetString("Collocate.SampleVariable"))
		if err != nil {
			return err
		}
		how := Cfg.GetString("Collocate.How")
		logrus.WithFields(logrus.Fields{
			"fields": len(fields),
			"sample": sample.VarName,
			"how":    how,
		}).Info("collocating")
		var out cis.GriddedFieldList
		for _, f := range fields {
			o, err := sample.SampledFrom(f, how, "")
			if err != nil {
				return err
			}
			out = append(out, o)
		}
		return saveOutput(Cfg, out)
	},
	DisableAutoGenTag: true,
}
