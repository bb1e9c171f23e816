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
	"io/ioutil"
	"math"
	"runtime"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climagg/internal/hash"
	"golang.org/x/sync/errgroup"
)

// weightTolerance is the allowed deviation of the sum of the weights in a
// group from one.
const weightTolerance = 1e-6

// ReducedSeries is the result of aggregating a TimeSeries.
type ReducedSeries struct {
	Grouping Grouping
	Season   Season
	Calendar Calendar

	// Keys holds the key of each group: the label year for PerYear
	// results, the calendar month for PerCalendarMonth results and a
	// single zero for AllTime results.
	Keys []int

	// Data holds the aggregated field of each group.
	Data []*sparse.DenseArray

	// Counts holds the number of time steps in each group.
	Counts []int

	// Period holds the first and last year that contributed to the result.
	Period Period

	// Source is a fingerprint of the input series.
	Source string

	// Settings optionally holds a fingerprint of the settings that
	// produced the result. Aggregate leaves it empty.
	Settings string

	Name, Units string
	Dims        []string
}

// Len returns the number of groups in r.
func (r *ReducedSeries) Len() int { return len(r.Keys) }

// Scalar returns the values of a result whose fields hold a single element,
// one per group.
func (r *ReducedSeries) Scalar() []float64 {
	o := make([]float64, len(r.Data))
	for i, d := range r.Data {
		o[i] = d.Elements[0]
	}
	return o
}

// An Aggregator reduces monthly time series along their time axis, weighting
// each month by its length in the configured calendar.
type Aggregator struct {
	Calendar Calendar

	// SkipMissing specifies whether missing (NaN) values are left out of
	// the weighted sums. If false, a missing value makes the result for
	// its group missing.
	SkipMissing bool

	// Workers is the maximum number of groups reduced concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int

	Log logrus.FieldLogger
}

// NewAggregator returns an aggregator for data in the given calendar.
func NewAggregator(cal Calendar) *Aggregator {
	return &Aggregator{Calendar: cal}
}

func (a *Aggregator) logger() logrus.FieldLogger {
	if a.Log != nil {
		return a.Log
	}
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

// Climatology returns the long-term mean of the months of ts that fall in
// season, which may be anything accepted by ResolveSeason.
func (a *Aggregator) Climatology(ts *TimeSeries, season interface{}) (*ReducedSeries, error) {
	return a.Aggregate(ts, season, AllTime)
}

// YearMean returns the mean of each occurrence of season in ts, keyed by
// the year in which the occurrence began.
func (a *Aggregator) YearMean(ts *TimeSeries, season interface{}) (*ReducedSeries, error) {
	return a.Aggregate(ts, season, PerYear)
}

// AnnualCycle returns the mean of each calendar month across the years of ts.
func (a *Aggregator) AnnualCycle(ts *TimeSeries) (*ReducedSeries, error) {
	return a.Aggregate(ts, Annual, PerCalendarMonth)
}

// Aggregate reduces the months of ts that fall in season into the groups
// specified by g. The input is not modified.
func (a *Aggregator) Aggregate(ts *TimeSeries, season interface{}, g Grouping) (*ReducedSeries, error) {
	if err := a.Calendar.check(); err != nil {
		return nil, err
	}
	s, err := ResolveSeason(season)
	if err != nil {
		return nil, err
	}
	if err := ts.check(); err != nil {
		return nil, err
	}
	groups, err := BuildWeights(ts.Time, a.Calendar, s, g)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		checkWeightSum(g, &groups[i])
	}

	r := &ReducedSeries{
		Grouping: g,
		Season:   s,
		Calendar: a.Calendar,
		Keys:     make([]int, len(groups)),
		Counts:   make([]int, len(groups)),
		Data:     make([]*sparse.DenseArray, len(groups)),
		Period:   period(g, groups),
		Source:   hash.Hash(ts),
		Name:     ts.Name,
		Units:    ts.Units,
		Dims:     ts.Dims,
	}

	workers := a.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := range groups {
		i := i
		r.Keys[i] = groups[i].Key
		r.Counts[i] = len(groups[i].Index)
		eg.Go(func() error {
			r.Data[i] = reduce(ts, &groups[i], a.SkipMissing)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a.logger().WithFields(logrus.Fields{
		"calendar": a.Calendar,
		"season":   s,
		"grouping": g,
		"groups":   len(groups),
		"period":   r.Period,
	}).Debug("aggregated time series")
	return r, nil
}

// Aggregate is a shortcut for aggregating ts with a default Aggregator.
func Aggregate(ts *TimeSeries, cal Calendar, season interface{}, g Grouping, skipMissing bool) (*ReducedSeries, error) {
	a := NewAggregator(cal)
	a.SkipMissing = skipMissing
	return a.Aggregate(ts, season, g)
}

// checkWeightSum panics if the weights in grp do not sum to one.
func checkWeightSum(g Grouping, grp *WeightGroup) {
	sum := grp.Sum()
	if math.IsNaN(sum) || math.Abs(sum-1) > weightTolerance {
		panic(&WeightSumViolation{Grouping: g, Key: grp.Key, Sum: sum})
	}
}

// reduce calculates the weighted sum of the members of grp for every
// element of the payload.
func reduce(ts *TimeSeries, grp *WeightGroup, skipMissing bool) *sparse.DenseArray {
	out := sparse.ZerosDense(ts.Shape()...)
	terms := make([]float64, 0, len(grp.Index))
	for e := range out.Elements {
		terms = terms[:0]
		missing := false
		for j, idx := range grp.Index {
			v := ts.Data[idx].Elements[e]
			if math.IsNaN(v) {
				if skipMissing {
					continue
				}
				missing = true
				break
			}
			terms = append(terms, grp.Weights[j]*v)
		}
		if missing || len(terms) == 0 {
			out.Elements[e] = math.NaN()
			continue
		}
		out.Elements[e] = kahanSum(terms)
	}
	return out
}

// period returns the span of years covered by groups.
func period(g Grouping, groups []WeightGroup) Period {
	if g == PerYear {
		return Period{Start: groups[0].Key, End: groups[len(groups)-1].Key}
	}
	p := Period{Start: math.MaxInt32, End: math.MinInt32}
	for _, grp := range groups {
		for _, t := range grp.Time {
			if t.Year < p.Start {
				p.Start = t.Year
			}
			if t.Year > p.End {
				p.End = t.Year
			}
		}
	}
	return p
}
