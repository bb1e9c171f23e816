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
	"errors"
	"testing"
)

func TestSelectPeriod(t *testing.T) {
	ts := indexSeries(TimePoint{1979, 1}, 12*36)
	sub, err := SelectPeriod(1981, 1990, ts)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 120 {
		t.Errorf("%d samples; want 120", sub.Len())
	}
	if first, last := sub.Years(); first != 1981 || last != 1990 {
		t.Errorf("years %d-%d", first, last)
	}
	if sub.Data[0] != ts.Data[24] {
		t.Error("payloads should be shared with the original series")
	}

	tests := []struct {
		start, end int
		err        error
	}{
		{1978, 1990, ErrPeriodBounds},
		{1990, 2020, ErrPeriodBounds},
		{1990, 1980, ErrPeriodBounds},
	}
	for _, test := range tests {
		if _, err := SelectPeriod(test.start, test.end, ts); !errors.Is(err, test.err) {
			t.Errorf("%d-%d: err = %v; want %v", test.start, test.end, err, test.err)
		}
	}
}

func TestCheckPeriodSize(t *testing.T) {
	// Starts in February, so the first year is incomplete.
	ts := indexSeries(TimePoint{2000, 2}, 23)
	if err := CheckPeriodSize(2000, 2001, ts); !errors.Is(err, ErrPeriodSize) {
		t.Errorf("err = %v; want ErrPeriodSize", err)
	}
	if _, err := SelectPeriod(2000, 2001, ts); !errors.Is(err, ErrPeriodSize) {
		t.Errorf("err = %v; want ErrPeriodSize", err)
	}
	if err := CheckPeriodSize(2000, 2001, indexSeries(TimePoint{2000, 1}, 24)); err != nil {
		t.Error(err)
	}
}

func TestCheckPeriodBoundsEmpty(t *testing.T) {
	if err := CheckPeriodBounds(2000, 2001, &TimeSeries{}); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("err = %v; want ErrEmptySeries", err)
	}
}
