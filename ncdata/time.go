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
	"math"
	"strconv"
	"strings"

	"github.com/spatialmodel/climagg"
)

// timeUnits is a parsed CF time unit string such as "days since 1850-01-01".
type timeUnits struct {
	unit string // "days" or "months"

	// scale converts a value to the unit above.
	scale float64

	ref climagg.TimePoint

	// refOffset is the position of the reference date within its month,
	// in days.
	refOffset float64
}

var dayScales = map[string]float64{
	"day": 1, "days": 1, "d": 1,
	"hour": 1.0 / 24, "hours": 1.0 / 24, "hr": 1.0 / 24, "h": 1.0 / 24,
	"minute": 1.0 / 1440, "minutes": 1.0 / 1440, "min": 1.0 / 1440,
	"second": 1.0 / 86400, "seconds": 1.0 / 86400, "sec": 1.0 / 86400, "s": 1.0 / 86400,
}

// parseTimeUnits parses a CF "<unit> since <date>[ <time>]" string.
func parseTimeUnits(units string) (*timeUnits, error) {
	parts := strings.Fields(strings.Replace(units, "T", " ", 1))
	if len(parts) < 3 || strings.ToLower(parts[1]) != "since" {
		return nil, fmt.Errorf("ncdata: time units %q are not of the form '<unit> since <date>'", units)
	}
	u := &timeUnits{}
	unit := strings.ToLower(parts[0])
	switch {
	case unit == "month" || unit == "months":
		u.unit, u.scale = "months", 1
	case dayScales[unit] != 0:
		u.unit, u.scale = "days", dayScales[unit]
	default:
		return nil, fmt.Errorf("ncdata: unsupported time unit %q in %q", parts[0], units)
	}

	date := strings.Split(parts[2], "-")
	if len(date) != 3 {
		return nil, fmt.Errorf("ncdata: invalid reference date %q in time units %q", parts[2], units)
	}
	var ymd [3]int
	for i, s := range date {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("ncdata: invalid reference date %q in time units %q", parts[2], units)
		}
		ymd[i] = v
	}
	if ymd[1] < 1 || ymd[1] > 12 || ymd[2] < 1 || ymd[2] > 31 {
		return nil, fmt.Errorf("ncdata: invalid reference date %q in time units %q", parts[2], units)
	}
	u.ref = climagg.TimePoint{Year: ymd[0], Month: ymd[1]}
	u.refOffset = float64(ymd[2] - 1)

	if len(parts) > 3 && strings.Contains(parts[3], ":") {
		hms := strings.Split(parts[3], ":")
		f := []float64{24, 1440, 86400}
		for i, s := range hms {
			if i > 2 {
				break
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("ncdata: invalid reference time %q in time units %q", parts[3], units)
			}
			u.refOffset += v / f[i]
		}
	}
	return u, nil
}

// DecodeTime converts the values of a CF time coordinate into the months
// they fall in, counting days in calendar cal.
func DecodeTime(values []float64, units string, cal climagg.Calendar) ([]climagg.TimePoint, error) {
	u, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	if !cal.Valid() {
		return nil, fmt.Errorf("ncdata: %w: %v", climagg.ErrInvalidCalendar, cal)
	}
	o := make([]climagg.TimePoint, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("ncdata: time value %d is %g", i, v)
		}
		if u.unit == "months" {
			o[i] = addMonths(u.ref, int(math.Floor(v*u.scale)))
			continue
		}
		o[i], err = addDays(cal, u.ref, u.refOffset+v*u.scale)
		if err != nil {
			return nil, err
		}
	}
	return o, nil
}

func addMonths(t climagg.TimePoint, n int) climagg.TimePoint {
	m := t.Year*12 + t.Month - 1 + n
	y := m / 12
	if m < 0 && m%12 != 0 {
		y--
	}
	return climagg.TimePoint{Year: y, Month: m - y*12 + 1}
}

// addDays returns the month containing the day that is days days after
// the start of month t.
func addDays(cal climagg.Calendar, t climagg.TimePoint, days float64) (climagg.TimePoint, error) {
	for days < 0 {
		t = addMonths(t, -1)
		d, err := climagg.DaysInMonth(cal, t.Year, t.Month)
		if err != nil {
			return t, err
		}
		days += float64(d)
	}
	for {
		if t.Month == 1 {
			n, err := cal.DaysInYear(t.Year)
			if err != nil {
				return t, err
			}
			if days >= float64(n) {
				days -= float64(n)
				t.Year++
				continue
			}
		}
		d, err := climagg.DaysInMonth(cal, t.Year, t.Month)
		if err != nil {
			return t, err
		}
		if days < float64(d) {
			return t, nil
		}
		days -= float64(d)
		t = t.Next()
	}
}
