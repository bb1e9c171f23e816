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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climagg"
	"github.com/spf13/cast"
)

// checkInputFile expands any environment variables in f and makes sure
// that the file exists.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an input file configuration variable (for example: Input="tas_Amon.nc")`)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("climagg: problem with Input file: %v", err)
	}
	return f, nil
}

// checkOutputFile expands any environment variables in f and makes sure
// that the directory it will be written to exists. An empty f means
// no output file.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", nil
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("climagg: the Output directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkPlotFile is like checkOutputFile but also requires an image
// extension that gonum/plot can write.
func checkPlotFile(f string) (string, error) {
	f, err := checkOutputFile(f)
	if err != nil || f == "" {
		return f, err
	}
	switch strings.ToLower(filepath.Ext(f)) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
		return f, nil
	}
	return f, fmt.Errorf("climagg: unsupported Plot file type %q", filepath.Ext(f))
}

// parseCalendar returns the calendar named by s, or def if s is empty.
func parseCalendar(s string, def climagg.Calendar) (climagg.Calendar, error) {
	if s == "" {
		return def, nil
	}
	return climagg.ParseCalendar(s)
}

// parseSeason interprets s as a month number if it is an integer and as a
// season label otherwise.
func parseSeason(s string) (climagg.Season, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return climagg.Annual, nil
	}
	if m, err := cast.ToIntE(strings.TrimLeft(s, "0")); err == nil {
		return climagg.MonthSeason(m)
	}
	return climagg.ParseSeason(s)
}

// parsePeriod parses a period of whole years written as "start-end" or
// as a single year. An empty s returns nil.
func parsePeriod(s string) (*climagg.Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "-")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("climagg: invalid Period %q: it should be in the form start-end", s)
	}
	start, err := cast.ToIntE(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("climagg: invalid Period start year %q", parts[0])
	}
	end, err := cast.ToIntE(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("climagg: invalid Period end year %q", parts[1])
	}
	if start > end {
		return nil, fmt.Errorf("climagg: invalid Period %q: %w", s, climagg.ErrPeriodBounds)
	}
	return &climagg.Period{Start: start, End: end}, nil
}

// newLogger returns a logger at the given level that writes to out and,
// if logFile is not empty, to logFile. The returned function closes the
// log file.
func newLogger(out io.Writer, level, logFile string) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("climagg: invalid LogLevel: %v", err)
	}
	log.Level = lvl
	log.Out = out
	closer := func() error { return nil }
	if logFile != "" {
		f, err := os.Create(os.ExpandEnv(logFile))
		if err != nil {
			return nil, nil, fmt.Errorf("climagg: problem creating log file: %v", err)
		}
		log.Out = io.MultiWriter(out, f)
		closer = f.Close
	}
	return log, closer, nil
}

// printCalendars writes the month lengths of every supported calendar
// for 2001, and the calendar's lengths of 2001 and of 2000.
func printCalendars(w io.Writer) error {
	const year = 2001
	if _, err := fmt.Fprintf(w, "%-20s %s  2001  2000\n", "calendar",
		"Jan Feb Mar Apr May Jun Jul Aug Sep Oct Nov Dec"); err != nil {
		return err
	}
	for _, c := range climagg.Calendars {
		var b strings.Builder
		fmt.Fprintf(&b, "%-20s", c)
		for m := 1; m <= 12; m++ {
			d, err := climagg.DaysInMonth(c, year, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, " %3d", d)
		}
		n, err := c.DaysInYear(year)
		if err != nil {
			return err
		}
		nLeap, err := c.DaysInYear(2000)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "  %4d  %4d\n", n, nLeap)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
