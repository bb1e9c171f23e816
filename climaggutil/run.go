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

package climaggutil

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climagg"
	"github.com/spatialmodel/climagg/figures"
	"github.com/spatialmodel/climagg/internal/hash"
	"github.com/spatialmodel/climagg/ncdata"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
)

// Aggregation modes.
const (
	ModeClimatology = "clim"
	ModeYearMean    = "yearmean"
	ModeAnnualCycle = "cycle"
)

// A Job holds the settings for one aggregation.
type Job struct {
	Mode        string
	Input       string
	Variable    string
	Calendar    string
	Season      string
	SkipMissing bool
	Period      string
	Output      string
	Plot        string
	Element     int
	Workers     int
}

// settings holds the resolved job settings that determine the values of a
// result. Equivalent spellings (e.g. "djf" and "DJF") give the same settings.
type settings struct {
	Mode, Variable, Calendar, Season, Period string
	SkipMissing                              bool
}

// jobFromConfig returns a job in the given mode with its settings read
// from Cfg.
func jobFromConfig(mode string) *Job {
	return &Job{
		Mode:        mode,
		Input:       Cfg.GetString("Input"),
		Variable:    Cfg.GetString("Variable"),
		Calendar:    Cfg.GetString("Calendar"),
		Season:      Cfg.GetString("Season"),
		SkipMissing: Cfg.GetBool("SkipMissing"),
		Period:      Cfg.GetString("Period"),
		Output:      Cfg.GetString("Output"),
		Plot:        Cfg.GetString("Plot"),
		Element:     Cfg.GetInt("Element"),
		Workers:     Cfg.GetInt("Workers"),
	}
}

// grouping returns the grouping used by mode.
func grouping(mode string) (climagg.Grouping, error) {
	switch mode {
	case ModeClimatology:
		return climagg.AllTime, nil
	case ModeYearMean:
		return climagg.PerYear, nil
	case ModeAnnualCycle:
		return climagg.PerCalendarMonth, nil
	default:
		return 0, fmt.Errorf("climagg: invalid Mode %q: it should be %q, %q or %q",
			mode, ModeClimatology, ModeYearMean, ModeAnnualCycle)
	}
}

// withLogger runs f with a logger configured from Cfg.
func withLogger(cmd *cobra.Command, f func(log logrus.FieldLogger) error) error {
	log, closeLog, err := newLogger(cmd.OutOrStderr(), Cfg.GetString("LogLevel"), Cfg.GetString("LogFile"))
	if err != nil {
		return err
	}
	err = f(log)
	if cerr := closeLog(); err == nil {
		err = cerr
	}
	return err
}

func runFromConfig(cmd *cobra.Command, mode string) error {
	return withLogger(cmd, func(log logrus.FieldLogger) error {
		_, err := Run(jobFromConfig(mode), log, cmd.OutOrStdout())
		return err
	})
}

// Run carries out job. It writes a summary of the result to w, and writes
// the result and its plot to the job's Output and Plot files if they are
// specified.
func Run(job *Job, log logrus.FieldLogger, w io.Writer) (*climagg.ReducedSeries, error) {
	g, err := grouping(job.Mode)
	if err != nil {
		return nil, err
	}
	input, err := checkInputFile(job.Input)
	if err != nil {
		return nil, err
	}
	if job.Variable == "" {
		return nil, fmt.Errorf(`you need to specify a Variable configuration variable (for example: Variable="tas")`)
	}
	output, err := checkOutputFile(job.Output)
	if err != nil {
		return nil, err
	}
	plotFile, err := checkPlotFile(job.Plot)
	if err != nil {
		return nil, err
	}
	if plotFile != "" && g == climagg.AllTime {
		return nil, fmt.Errorf("climagg: a Plot can only be made for the %q and %q modes", ModeYearMean, ModeAnnualCycle)
	}
	season := climagg.Annual
	if g != climagg.PerCalendarMonth {
		if season, err = parseSeason(job.Season); err != nil {
			return nil, err
		}
	}
	period, err := parsePeriod(job.Period)
	if err != nil {
		return nil, err
	}

	log = log.WithFields(logrus.Fields{"input": input, "variable": job.Variable, "mode": job.Mode})
	log.Info("reading input")
	ts, fileCal, err := ncdata.ReadFile(input, job.Variable)
	if err != nil {
		return nil, err
	}
	cal, err := parseCalendar(job.Calendar, fileCal)
	if err != nil {
		return nil, err
	}
	if cal != fileCal {
		log.Warnf("using calendar %s instead of %s from the input file", cal, fileCal)
	}
	if period != nil {
		if ts, err = climagg.SelectPeriod(period.Start, period.End, ts); err != nil {
			return nil, err
		}
	}

	a := &climagg.Aggregator{
		Calendar:    cal,
		SkipMissing: job.SkipMissing,
		Workers:     job.Workers,
		Log:         log,
	}
	r, err := a.Aggregate(ts, season, g)
	if err != nil {
		return nil, err
	}
	r.Settings = hash.Hash(settings{
		Mode:        job.Mode,
		Variable:    job.Variable,
		Calendar:    cal.String(),
		Season:      season.String(),
		SkipMissing: job.SkipMissing,
		Period:      r.Period.String(),
	})
	log.WithFields(logrus.Fields{"groups": r.Len(), "period": r.Period.String()}).Info("aggregation finished")

	if output != "" {
		if err := ncdata.WriteFile(output, r); err != nil {
			return nil, err
		}
		log.Infof("wrote %s", output)
	}
	if plotFile != "" {
		if err := savePlot(r, job.Element, plotFile); err != nil {
			return nil, err
		}
		log.Infof("wrote %s", plotFile)
	}
	if err := summarize(w, r); err != nil {
		return nil, err
	}
	return r, nil
}

func savePlot(r *climagg.ReducedSeries, element int, path string) error {
	var p *plot.Plot
	var err error
	switch r.Grouping {
	case climagg.PerCalendarMonth:
		p, err = figures.AnnualCycle(r, element)
	default:
		p, err = figures.YearSeries(r, element)
	}
	if err != nil {
		return err
	}
	return figures.Save(p, path)
}

// summarize writes one line per group of r. Single-element fields are
// printed directly; larger fields are described by their minimum, mean and
// maximum over non-missing elements.
func summarize(w io.Writer, r *climagg.ReducedSeries) error {
	if _, err := fmt.Fprintf(w, "# %s %s %s (%s, %v)\n", r.Name, r.Season, r.Grouping, r.Calendar, r.Period); err != nil {
		return err
	}
	for i, key := range r.Keys {
		var line string
		if e := r.Data[i].Elements; len(e) == 1 {
			line = fmt.Sprintf("%d\t%g\n", key, e[0])
		} else {
			min, mean, max := stats(e)
			line = fmt.Sprintf("%d\tmin=%g\tmean=%g\tmax=%g\n", key, min, mean, max)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// stats returns the minimum, mean and maximum of the non-NaN values in v,
// or NaNs if there are none.
func stats(v []float64) (min, mean, max float64) {
	valid := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			valid = append(valid, x)
		}
	}
	if len(valid) == 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	return floats.Min(valid), floats.Sum(valid) / float64(len(valid)), floats.Max(valid)
}
