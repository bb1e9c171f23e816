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

package ncdata

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/climagg"
)

// groupDim returns the name of the dimension that indexes the groups of a
// result, or "" if the result has a single group.
func groupDim(g climagg.Grouping) string {
	switch g {
	case climagg.PerYear:
		return "year"
	case climagg.PerCalendarMonth:
		return "month"
	default:
		return ""
	}
}

// WriteReduced writes r to w as a NetCDF file. Per-year and annual-cycle
// results get a leading "year" or "month" dimension with a coordinate
// variable holding the group keys. The season, calendar, period and input
// fingerprint are stored as attributes of the data variable.
func WriteReduced(w cdf.ReaderWriterAt, r *climagg.ReducedSeries) error {
	if r.Len() == 0 {
		return fmt.Errorf("ncdata: %w: nothing to write", climagg.ErrEmptyGroup)
	}
	name := r.Name
	if name == "" {
		name = "data"
	}
	shape := r.Data[0].Shape
	dims := make([]string, len(shape))
	for i := range shape {
		if len(r.Dims) == len(shape) {
			dims[i] = r.Dims[i]
		} else {
			dims[i] = fmt.Sprintf("dim%d", i)
		}
	}
	lengths := append([]int{}, shape...)
	gdim := groupDim(r.Grouping)
	if gdim != "" {
		dims = append([]string{gdim}, dims...)
		lengths = append([]int{r.Len()}, lengths...)
	}

	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "comment", "Month-length weighted aggregation of monthly data")
	if gdim != "" {
		h.AddVariable(gdim, []string{gdim}, []int32{0})
		if gdim == "year" {
			h.AddAttribute(gdim, "description", "Year in which each season began")
		} else {
			h.AddAttribute(gdim, "description", "Calendar month")
		}
	}
	h.AddVariable(name, dims, []float64{0})
	if r.Units != "" {
		h.AddAttribute(name, "units", r.Units)
	}
	h.AddAttribute(name, "season", r.Season.String())
	h.AddAttribute(name, "calendar", r.Calendar.String())
	h.AddAttribute(name, "grouping", r.Grouping.String())
	h.AddAttribute(name, "period", r.Period.String())
	h.AddAttribute(name, "source_fingerprint", r.Source)
	if r.Settings != "" {
		h.AddAttribute(name, "settings_fingerprint", r.Settings)
	}
	counts := make([]int32, len(r.Counts))
	for i, c := range r.Counts {
		counts[i] = int32(c)
	}
	h.AddAttribute(name, "months_per_group", counts)
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("ncdata: creating file: %v", err)
	}
	if gdim != "" {
		keys := make([]int32, r.Len())
		for i, k := range r.Keys {
			keys[i] = int32(k)
		}
		if _, err := f.Writer(gdim, []int{0}, []int{r.Len()}).Write(keys); err != nil {
			return fmt.Errorf("ncdata: writing %s: %v", gdim, err)
		}
	}
	var data []float64
	for _, d := range r.Data {
		data = append(data, d.Elements...)
	}
	if _, err := f.Writer(name, make([]int, len(lengths)), lengths).Write(data); err != nil {
		return fmt.Errorf("ncdata: writing %s: %v", name, err)
	}
	return nil
}

// WriteFile writes r to a new NetCDF file at path.
func WriteFile(path string, r *climagg.ReducedSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReduced(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
