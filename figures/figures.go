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

// Package figures draws aggregation results.
package figures

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/climagg"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Default figure size.
var (
	Width  = 4 * vg.Inch
	Height = 3 * vg.Inch
)

// AnnualCycle plots element index of the payloads of a per-calendar-month
// result against the month.
func AnnualCycle(r *climagg.ReducedSeries, index int) (*plot.Plot, error) {
	if r.Grouping != climagg.PerCalendarMonth {
		return nil, fmt.Errorf("figures: annual cycle plot needs a %v result, not %v", climagg.PerCalendarMonth, r.Grouping)
	}
	p, err := newPlot(r, index, "Month")
	if err != nil {
		return nil, err
	}
	ticks := make(plot.ConstantTicks, len(r.Keys))
	for i, k := range r.Keys {
		ticks[i] = plot.Tick{Value: float64(k), Label: monthNames[k-1]}
	}
	p.X.Tick.Marker = ticks
	p.X.Min, p.X.Max = 0.5, 12.5
	return p, nil
}

// YearSeries plots element index of the payloads of a per-year result
// against the label year. Unless the season is annual, the x axis label
// lists the months of the season.
func YearSeries(r *climagg.ReducedSeries, index int) (*plot.Plot, error) {
	if r.Grouping != climagg.PerYear {
		return nil, fmt.Errorf("figures: year series plot needs a %v result, not %v", climagg.PerYear, r.Grouping)
	}
	xLabel := "Year"
	if r.Season.Kind != climagg.AnnualSeason {
		xLabel = fmt.Sprintf("Year (%s)", monthList(r.Season))
	}
	return newPlot(r, index, xLabel)
}

// monthList returns the abbreviated names of the months of s, in season order.
func monthList(s climagg.Season) string {
	months := s.Months()
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = monthNames[m-1]
	}
	return strings.Join(names, ", ")
}

func newPlot(r *climagg.ReducedSeries, index int, xLabel string) (*plot.Plot, error) {
	if r.Len() == 0 {
		return nil, fmt.Errorf("figures: nothing to plot")
	}
	if index < 0 || index >= len(r.Data[0].Elements) {
		return nil, fmt.Errorf("figures: element %d out of range [0, %d)", index, len(r.Data[0].Elements))
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	name := r.Name
	if name == "" {
		name = "data"
	}
	p.Title.Text = fmt.Sprintf("%s %s (%s, %v)", name, r.Season, r.Calendar, r.Period)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = r.Units

	xy := make(plotter.XYs, r.Len())
	n := 0
	for i, k := range r.Keys {
		v := r.Data[i].Elements[index]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xy[n].X, xy[n].Y = float64(k), v
		n++
	}
	xy = xy[:n]
	if len(xy) == 0 {
		return nil, fmt.Errorf("figures: all values of element %d are missing", index)
	}
	if err := plotutil.AddLinePoints(p, xy); err != nil {
		return nil, err
	}
	return p, nil
}

// Write writes p to w in the given format, e.g. "png", "svg" or "pdf".
func Write(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes p to the named file, in the format given by its extension.
func Save(p *plot.Plot, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("figures: no file extension in %q to choose the image format", path)
	}
	return p.Save(Width, Height, path)
}
