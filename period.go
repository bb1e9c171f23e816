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

import "fmt"

// Period is a span of years, inclusive at both ends.
type Period struct {
	Start, End int
}

func (p Period) String() string {
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}

// CheckPeriodSize checks that ts holds exactly one sample for every month of
// the years startYear through endYear.
func CheckPeriodSize(startYear, endYear int, ts *TimeSeries) error {
	want := (endYear - startYear + 1) * 12
	if ts.Len() != want {
		first, last := ts.Years()
		return fmt.Errorf("climagg: %w: period %d-%d needs %d monthly samples but there are %d "+
			"(the data cover %d-%d)", ErrPeriodSize, startYear, endYear, want, ts.Len(), first, last)
	}
	return nil
}

// CheckPeriodBounds checks that the years startYear through endYear lie
// within the span of ts.
func CheckPeriodBounds(startYear, endYear int, ts *TimeSeries) error {
	if ts.Len() == 0 {
		return fmt.Errorf("climagg: %w", ErrEmptySeries)
	}
	first, last := ts.Years()
	if startYear < first {
		return fmt.Errorf("climagg: %w: period start %d is before the first year of data %d",
			ErrPeriodBounds, startYear, first)
	}
	if endYear > last {
		return fmt.Errorf("climagg: %w: period end %d is after the last year of data %d",
			ErrPeriodBounds, endYear, last)
	}
	return nil
}

// SelectPeriod returns the years startYear through endYear of ts after
// checking that they are present and complete.
func SelectPeriod(startYear, endYear int, ts *TimeSeries) (*TimeSeries, error) {
	if startYear > endYear {
		return nil, fmt.Errorf("climagg: %w: start %d is after end %d", ErrPeriodBounds, startYear, endYear)
	}
	if err := CheckPeriodBounds(startYear, endYear, ts); err != nil {
		return nil, err
	}
	sub := ts.Slice(startYear, endYear)
	if err := CheckPeriodSize(startYear, endYear, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
