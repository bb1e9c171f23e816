/*
Copyright © 2026 the Climagg authors.
This file is part of Climagg.

Climagg is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Climagg is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Climagg.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package climaggutil contains the command-line interface to Climagg.
package climaggutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/climagg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	aggCmds := []*pflag.FlagSet{climCmd.Flags(), yearMeanCmd.Flags(), cycleCmd.Flags()}
	seasonCmds := []*pflag.FlagSet{climCmd.Flags(), yearMeanCmd.Flags()}
	plotCmds := []*pflag.FlagSet{yearMeanCmd.Flags(), cycleCmd.Flags()}

	// Options are the configuration options available to Climagg.
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
			name: "Input",
			usage: `
              Input is the path to the NetCDF file holding the monthly data.
              It can include environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   aggCmds,
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the variable in the Input file to aggregate.
              Its first dimension must be time.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   aggCmds,
		},
		{
			name: "Calendar",
			usage: `
              Calendar is the calendar system of the data: one of noleap, 365_day,
              standard, gregorian, proleptic_gregorian, all_leap, 366_day or 360_day.
              If it is left blank, the calendar attribute of the time variable in the
              Input file is used.`,
			defaultVal: "",
			flagsets:   aggCmds,
		},
		{
			name: "Season",
			usage: `
              Season is the part of the year to aggregate: "annual", a month number
              (1 for January) or consecutive month initials such as "DJF" or "JJAS".`,
			shorthand:  "s",
			defaultVal: "annual",
			flagsets:   seasonCmds,
		},
		{
			name: "SkipMissing",
			usage: `
              SkipMissing specifies whether missing values should be left out of the
              weighted sums. If false, any missing value makes the result for its
              group missing.`,
			defaultVal: false,
			flagsets:   aggCmds,
		},
		{
			name: "Period",
			usage: `
              Period restricts the aggregation to whole years, given as "start-end"
              (for example "1979-2014"). The data must hold every month of the
              period. If it is left blank, the whole record is used.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   aggCmds,
		},
		{
			name: "Output",
			usage: `
              Output is the path where the result should be written as a NetCDF file.
              If it is left blank, a summary is only printed. It can include
              environment variables.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   aggCmds,
		},
		{
			name: "Plot",
			usage: `
              Plot is the path of an image file (.png, .svg, .pdf) where a plot of
              the result should be saved. If it is left blank, no plot is made.`,
			defaultVal: "",
			flagsets:   plotCmds,
		},
		{
			name: "Element",
			usage: `
              Element is the index of the grid cell, counting through the flattened
              field, that is plotted.`,
			defaultVal: 0,
			flagsets:   plotCmds,
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of groups aggregated in parallel. Zero uses
              one worker per processor.`,
			defaultVal: 0,
			flagsets:   append(aggCmds, batchCmd.Flags()),
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, messages are only
              written to the terminal.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of logged messages: debug, info,
              warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CLIMAGG")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
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
	Root.AddCommand(calendarsCmd)
	Root.AddCommand(climCmd)
	Root.AddCommand(yearMeanCmd)
	Root.AddCommand(cycleCmd)
	Root.AddCommand(batchCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("climagg: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "climagg",
	Short: "Calendar-aware climatologies of monthly data.",
	Long: `climagg computes climatologies, seasonal means and mean annual cycles
from monthly model output and observations, weighting each month by its number
of days in the calendar the data use.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CLIMAGG_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of Climagg.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("Climagg v%s\n", climagg.Version)
	},
	DisableAutoGenTag: true,
}

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List the supported calendars",
	Long: `calendars prints the number of days in each month of every supported
calendar system, for a year that is not a leap year.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCalendars(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var climCmd = &cobra.Command{
	Use:   "clim",
	Short: "Calculate a climatology",
	Long: `clim calculates the month-length weighted mean of the selected season
over the whole record (or Period), giving a single field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFromConfig(cmd, ModeClimatology)
	},
	DisableAutoGenTag: true,
}

var yearMeanCmd = &cobra.Command{
	Use:   "yearmean",
	Short: "Calculate seasonal means for each year",
	Long: `yearmean calculates the month-length weighted mean of each occurrence of
the selected season. Seasons that cross the end of the year, such as DJF, are
labeled with the year of their first month. Incomplete seasons at the start and
end of the record are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFromConfig(cmd, ModeYearMean)
	},
	DisableAutoGenTag: true,
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Calculate the mean annual cycle",
	Long: `cycle calculates the month-length weighted mean of each calendar month
across all of the years in the record (or Period), giving twelve fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFromConfig(cmd, ModeAnnualCycle)
	},
	DisableAutoGenTag: true,
}

var batchCmd = &cobra.Command{
	Use:   "batch jobs.toml",
	Short: "Run several aggregations",
	Long: `batch runs the aggregations listed in a TOML file. Each [[Job]] table
takes the same keys as the configuration (Mode, Input, Variable, Calendar,
Season, SkipMissing, Period, Workers, Output, Plot, Element), where Mode is
one of "clim", "yearmean" or "cycle". Apart from Output, Plot and Element,
keys that are left out of a job are taken from the configuration. A key
given in a job always wins, so for example SkipMissing = false or
Calendar = "" override the configuration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0])
	},
	DisableAutoGenTag: true,
}
