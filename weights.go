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
	"fmt"
	"math"
	"sort"
)

// Grouping specifies how the months selected by a season are collected
// into the groups that are each reduced to one value.
type Grouping int

const (
	// AllTime puts every selected month of the record into one group.
	AllTime Grouping = iota

	// PerYear makes one group per occurrence of the season, keyed by the
	// year in which that occurrence began.
	PerYear

	// PerCalendarMonth makes one group per calendar month, across years.
	PerCalendarMonth
)

func (g Grouping) String() string {
	switch g {
	case AllTime:
		return "all-time"
	case PerYear:
		return "per-year"
	case PerCalendarMonth:
		return "per-calendar-month"
	default:
		return fmt.Sprintf("Grouping(%d)", int(g))
	}
}

// WeightGroup holds the normalized weights of the members of one
// aggregation group.
type WeightGroup struct {
	// Key is the label year for PerYear groups, the calendar month for
	// PerCalendarMonth groups and zero for AllTime.
	Key int

	// Index holds the positions of the members in the time axis, in order.
	Index []int

	// Time holds the time points of the members.
	Time []TimePoint

	// Weights holds the weight of each member. They sum to one.
	Weights []float64
}

// Sum returns the sum of the weights in g.
func (g *WeightGroup) Sum() float64 {
	return kahanSum(g.Weights)
}

// BuildWeights calculates month-length weights for the months of axis that
// fall within season s, collected into groups as specified by g. Within
// each group the weight of a month is its length in days divided by the
// total length of the months in the group. Groups are returned sorted by
// key.
//
// Partial occurrences of a season at the start or end of axis are kept as
// groups of their own, containing only the months that are present.
func BuildWeights(axis []TimePoint, cal Calendar, s Season, g Grouping) ([]WeightGroup, error) {
	if err := cal.check(); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := checkAxis(axis); err != nil {
		return nil, err
	}
	keyFunc, err := groupKey(s, g)
	if err != nil {
		return nil, err
	}

	groups := make(map[int]*WeightGroup)
	raw := make(map[int][]float64)
	for i, t := range axis {
		if !s.Contains(t.Month) {
			continue
		}
		days, err := DaysInMonth(cal, t.Year, t.Month)
		if err != nil {
			return nil, err
		}
		k := keyFunc(t)
		grp, ok := groups[k]
		if !ok {
			grp = &WeightGroup{Key: k}
			groups[k] = grp
		}
		grp.Index = append(grp.Index, i)
		grp.Time = append(grp.Time, t)
		raw[k] = append(raw[k], float64(days))
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("climagg: %w: season %v in %v through %v", ErrEmptyGroup, s,
			axis[0], axis[len(axis)-1])
	}

	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	o := make([]WeightGroup, len(keys))
	for i, k := range keys {
		grp := groups[k]
		grp.Weights = normalize(raw[k])
		o[i] = *grp
	}
	return o, nil
}

// groupKey returns a function that gives the group key of a time point.
func groupKey(s Season, g Grouping) (func(TimePoint) int, error) {
	switch g {
	case AllTime:
		return func(TimePoint) int { return 0 }, nil
	case PerYear:
		return s.LabelYear, nil
	case PerCalendarMonth:
		return func(t TimePoint) int { return t.Month }, nil
	default:
		return nil, fmt.Errorf("climagg: invalid grouping %v", g)
	}
}

// normalize returns the elements of v divided by their sum.
func normalize(v []float64) []float64 {
	total := kahanSum(v)
	o := make([]float64, len(v))
	for i, x := range v {
		o[i] = x / total
	}
	return o
}

// kahanSum adds the elements of v using Neumaier's variant of compensated
// summation.
func kahanSum(v []float64) float64 {
	var sum, c float64
	for _, x := range v {
		t := sum + x
		if math.Abs(sum) >= math.Abs(x) {
			c += (sum - t) + x
		} else {
			c += (x - t) + sum
		}
		sum = t
	}
	return sum + c
}
