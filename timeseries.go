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

package climagg

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ctessum/sparse"
)

// TimePoint labels one monthly sample.
type TimePoint struct {
	Year, Month int
}

// Before reports whether t comes before u.
func (t TimePoint) Before(u TimePoint) bool {
	if t.Year != u.Year {
		return t.Year < u.Year
	}
	return t.Month < u.Month
}

// Next returns the month following t.
func (t TimePoint) Next() TimePoint {
	if t.Month == 12 {
		return TimePoint{Year: t.Year + 1, Month: 1}
	}
	return TimePoint{Year: t.Year, Month: t.Month + 1}
}

func (t TimePoint) String() string {
	return fmt.Sprintf("%04d-%02d", t.Year, t.Month)
}

// MonthlyAxis returns n consecutive months starting at start.
func MonthlyAxis(start TimePoint, n int) []TimePoint {
	o := make([]TimePoint, n)
	t := start
	for i := range o {
		o[i] = t
		t = t.Next()
	}
	return o
}

// TimeSeries is a monthly time series of gridded (or scalar) data. Data[i]
// holds the field for Time[i]; every field has the same shape. Missing
// values are NaN.
type TimeSeries struct {
	Time []TimePoint
	Data []*sparse.DenseArray

	// Name, Units and Dims optionally describe the variable.
	Name, Units string
	Dims        []string
}

// NewScalarSeries creates a time series holding one value per time step.
func NewScalarSeries(time []TimePoint, values []float64) *TimeSeries {
	ts := &TimeSeries{Time: time, Data: make([]*sparse.DenseArray, len(values))}
	for i, v := range values {
		d := sparse.ZerosDense(1)
		d.Elements[0] = v
		ts.Data[i] = d
	}
	return ts
}

// Len returns the number of time steps.
func (ts *TimeSeries) Len() int { return len(ts.Time) }

// Shape returns the shape of the payload at each time step.
func (ts *TimeSeries) Shape() []int {
	if len(ts.Data) == 0 {
		return nil
	}
	return ts.Data[0].Shape
}

// check makes sure that ts is non-empty, that its time axis is strictly
// increasing with valid months and that its payloads all have the same shape.
func (ts *TimeSeries) check() error {
	if ts == nil || len(ts.Time) == 0 {
		return fmt.Errorf("climagg: %w", ErrEmptySeries)
	}
	if len(ts.Time) != len(ts.Data) {
		return fmt.Errorf("climagg: %w: %d time steps but %d payloads", ErrShapeMismatch, len(ts.Time), len(ts.Data))
	}
	if err := checkAxis(ts.Time); err != nil {
		return err
	}
	shape := ts.Data[0].Shape
	for i, d := range ts.Data {
		if !sameShape(d.Shape, shape) {
			return fmt.Errorf("climagg: %w: payload at %v has shape %v; want %v",
				ErrShapeMismatch, ts.Time[i], d.Shape, shape)
		}
	}
	return nil
}

func checkAxis(axis []TimePoint) error {
	if len(axis) == 0 {
		return fmt.Errorf("climagg: %w", ErrEmptySeries)
	}
	for i, t := range axis {
		if t.Month < 1 || t.Month > 12 {
			return fmt.Errorf("climagg: %w: %d at time step %d", ErrInvalidMonth, t.Month, i)
		}
		if i > 0 && !axis[i-1].Before(t) {
			return fmt.Errorf("climagg: %w: %v follows %v", ErrUnordered, t, axis[i-1])
		}
	}
	return nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Years returns the first and last calendar year in ts.
func (ts *TimeSeries) Years() (first, last int) {
	if len(ts.Time) == 0 {
		return 0, 0
	}
	return ts.Time[0].Year, ts.Time[len(ts.Time)-1].Year
}

// Slice returns the part of ts between January of startYear and December of
// endYear, inclusive. The payloads are shared with ts.
func (ts *TimeSeries) Slice(startYear, endYear int) *TimeSeries {
	o := &TimeSeries{Name: ts.Name, Units: ts.Units, Dims: ts.Dims}
	for i, t := range ts.Time {
		if t.Year >= startYear && t.Year <= endYear {
			o.Time = append(o.Time, t)
			o.Data = append(o.Data, ts.Data[i])
		}
	}
	return o
}

// WriteHash writes the time axis and payloads of ts to w in binary form.
func (ts *TimeSeries) WriteHash(w io.Writer) {
	for i, t := range ts.Time {
		binary.Write(w, binary.LittleEndian, [2]int64{int64(t.Year), int64(t.Month)})
		binary.Write(w, binary.LittleEndian, ts.Data[i].Elements)
	}
}
