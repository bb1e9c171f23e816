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

// Package climagg computes calendar-aware climatologies, seasonal means and
// mean annual cycles from monthly geophysical time series. Each month is
// weighted by its length in the calendar system the data were produced with,
// so that, for example, a 28-day February counts for less than a 31-day January.
package climagg

import (
	"fmt"
	"strings"
)

// Calendar is a calendar system used by climate models and observation
// products.
type Calendar int

// These are the supported calendar systems.
const (
	NoLeap Calendar = iota
	Day365
	Standard
	Gregorian
	ProlepticGregorian
	AllLeap
	Day366
	Day360
)

// Calendars lists every supported calendar system.
var Calendars = []Calendar{NoLeap, Day365, Standard, Gregorian, ProlepticGregorian, AllLeap, Day366, Day360}

var calendarNames = map[Calendar]string{
	NoLeap:             "noleap",
	Day365:             "365_day",
	Standard:           "standard",
	Gregorian:          "gregorian",
	ProlepticGregorian: "proleptic_gregorian",
	AllLeap:            "all_leap",
	Day366:             "366_day",
	Day360:             "360_day",
}

// gregorianReformYear is the first full year of the Gregorian calendar in
// the mixed Julian/Gregorian "standard" calendar.
const gregorianReformYear = 1583

// Days per month, January first, before any leap-year adjustment.
var (
	dpm365 = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	dpm366 = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	dpm360 = [12]int{30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30}
)

// ParseCalendar returns the calendar with the given CF name. Names are
// matched case-insensitively and hyphens may stand in for underscores,
// so "365-day" and "no-leap" are accepted.
func ParseCalendar(name string) (Calendar, error) {
	n := strings.Replace(strings.ToLower(strings.TrimSpace(name)), "-", "_", -1)
	if n == "no_leap" {
		n = "noleap"
	}
	for _, c := range Calendars {
		if calendarNames[c] == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("climagg: %w: %q; valid calendars are %s", ErrInvalidCalendar, name, calendarList())
}

func calendarList() string {
	names := make([]string, len(Calendars))
	for i, c := range Calendars {
		names[i] = calendarNames[c]
	}
	return strings.Join(names, ", ")
}

// String returns the CF name of the calendar.
func (c Calendar) String() string {
	if n, ok := calendarNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Calendar(%d)", int(c))
}

// Valid reports whether c is one of the supported calendars.
func (c Calendar) Valid() bool {
	_, ok := calendarNames[c]
	return ok
}

func (c Calendar) check() error {
	if !c.Valid() {
		return fmt.Errorf("climagg: %w: %v; valid calendars are %s", ErrInvalidCalendar, c, calendarList())
	}
	return nil
}

// table returns the canonical days-per-month table of c.
func (c Calendar) table() [12]int {
	switch c {
	case NoLeap, Day365, Standard, Gregorian, ProlepticGregorian:
		return dpm365
	case AllLeap, Day366:
		return dpm366
	case Day360:
		return dpm360
	default:
		panic(fmt.Errorf("climagg: no month table for %v", c))
	}
}

// IsLeapYear reports whether year is a leap year in calendar c.
// Calendars with fixed month lengths never have leap years.
func IsLeapYear(c Calendar, year int) bool {
	switch c {
	case Standard, Gregorian:
		if year%4 != 0 {
			return false
		}
		// Years before the 1582 reform follow the Julian rule.
		return !(year%100 == 0 && year%400 != 0 && year >= gregorianReformYear)
	case ProlepticGregorian:
		if year%4 != 0 {
			return false
		}
		return !(year%100 == 0 && year%400 != 0)
	case NoLeap, Day365, AllLeap, Day366, Day360:
		return false
	default:
		return false
	}
}

// DaysInMonth returns the number of days in the given month (1-12) of the
// given year under calendar c.
func DaysInMonth(c Calendar, year, month int) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("climagg: %w: %d", ErrInvalidMonth, month)
	}
	d := c.table()[month-1]
	if month == 2 && IsLeapYear(c, year) {
		d++
	}
	return d, nil
}

// DaysInYear returns the number of days in the given year under calendar c.
func (c Calendar) DaysInYear(year int) (int, error) {
	if err := c.check(); err != nil {
		return 0, err
	}
	n := 0
	for m := 1; m <= 12; m++ {
		d, _ := DaysInMonth(c, year, m)
		n += d
	}
	return n, nil
}
