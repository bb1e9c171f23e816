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

// Package ncdata reads monthly time series from NetCDF files that follow
// the CF conventions and writes aggregation results back to NetCDF.
package ncdata

import (
	"fmt"
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/climagg"
)

// ReadMonthly reads variable varName from a NetCDF file. The first
// dimension of the variable must be the time dimension, with a coordinate
// variable of the same name carrying CF "units" and (optionally)
// "calendar" attributes. The calendar the data are stored in is returned
// along with the series; files without a calendar attribute use the CF
// default, "standard". Fill values are converted to NaN.
func ReadMonthly(rw cdf.ReaderWriterAt, varName string) (*climagg.TimeSeries, climagg.Calendar, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, 0, fmt.Errorf("ncdata: opening file: %v", err)
	}
	dims := f.Header.Dimensions(varName)
	if len(dims) == 0 {
		return nil, 0, fmt.Errorf("ncdata: variable %q not in file", varName)
	}
	timeVar := dims[0]

	cal := climagg.Standard
	if c, ok := f.Header.GetAttribute(timeVar, "calendar").(string); ok && c != "" {
		cal, err = climagg.ParseCalendar(c)
		if err != nil {
			return nil, 0, err
		}
	}
	units, ok := f.Header.GetAttribute(timeVar, "units").(string)
	if !ok {
		return nil, 0, fmt.Errorf("ncdata: time variable %q has no units", timeVar)
	}
	tvals, err := readAll(f, timeVar)
	if err != nil {
		return nil, 0, err
	}
	times, err := DecodeTime(tvals, units, cal)
	if err != nil {
		return nil, 0, err
	}

	ts := &climagg.TimeSeries{
		Time: times,
		Data: make([]*sparse.DenseArray, len(times)),
		Name: varName,
		Dims: dims[1:],
	}
	ts.Units, _ = f.Header.GetAttribute(varName, "units").(string)
	fill := fillValues(f.Header, varName)

	shape := f.Header.Lengths(varName)[1:]
	n := 1
	for _, l := range shape {
		n *= l
	}
	if len(shape) == 0 {
		shape = []int{1}
	}
	start, end := make([]int, len(dims)), make([]int, len(dims))
	copy(end[1:], f.Header.Lengths(varName)[1:])
	for i := range times {
		start[0], end[0] = i, i+1
		r := f.Reader(varName, start, end)
		buf := r.Zero(n)
		if _, err := r.Read(buf); err != nil {
			return nil, 0, fmt.Errorf("ncdata: reading %s at %v: %v", varName, times[i], err)
		}
		data := sparse.ZerosDense(shape...)
		if err := toFloat64(buf, data.Elements); err != nil {
			return nil, 0, fmt.Errorf("ncdata: variable %s: %v", varName, err)
		}
		for j, v := range data.Elements {
			if fill(v) {
				data.Elements[j] = math.NaN()
			}
		}
		ts.Data[i] = data
	}
	return ts, cal, nil
}

// ReadFile opens the named file and reads variable varName from it with
// ReadMonthly.
func ReadFile(path, varName string) (*climagg.TimeSeries, climagg.Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return ReadMonthly(f, varName)
}

// readAll reads all of the values of a variable as float64.
func readAll(f *cdf.File, varName string) ([]float64, error) {
	r := f.Reader(varName, nil, nil)
	buf := r.Zero(-1)
	n, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("ncdata: reading %s: %v", varName, err)
	}
	o := make([]float64, n)
	if err := toFloat64(buf, o); err != nil {
		return nil, fmt.Errorf("ncdata: variable %s: %v", varName, err)
	}
	return o, nil
}

// toFloat64 copies the numeric slice buf into dst.
func toFloat64(buf interface{}, dst []float64) error {
	switch b := buf.(type) {
	case []float64:
		copy(dst, b)
	case []float32:
		for i := range dst {
			dst[i] = float64(b[i])
		}
	case []int32:
		for i := range dst {
			dst[i] = float64(b[i])
		}
	case []int16:
		for i := range dst {
			dst[i] = float64(b[i])
		}
	case []uint8:
		for i := range dst {
			dst[i] = float64(b[i])
		}
	default:
		return fmt.Errorf("unsupported data type %T", buf)
	}
	return nil
}

// fillValues returns a function reporting whether a value equals the
// _FillValue or missing_value attribute of a variable.
func fillValues(h *cdf.Header, varName string) func(float64) bool {
	var fills []float64
	for _, a := range []string{"_FillValue", "missing_value"} {
		attr := h.GetAttribute(varName, a)
		if attr == nil {
			continue
		}
		v := make([]float64, 1)
		if err := toFloat64(attr, v); err == nil {
			fills = append(fills, v...)
		}
	}
	return func(x float64) bool {
		for _, f := range fills {
			// Fill values are stored at the precision of the variable.
			if x == f || float32(x) == float32(f) {
				return true
			}
		}
		return false
	}
}
