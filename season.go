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
	"strings"
	"unicode/utf8"
)

// monthLetters holds the initials of the months, twice, so that every
// contiguous season, including those that run from December into January,
// is a substring.
const monthLetters = "JFMAMJJASONDJFMAMJJASOND"

// SeasonKind distinguishes the forms a Season can take.
type SeasonKind int

// These are the season kinds.
const (
	AnnualSeason SeasonKind = iota
	SingleMonth
	MonthRange
)

func (k SeasonKind) String() string {
	switch k {
	case AnnualSeason:
		return "annual"
	case SingleMonth:
		return "month"
	case MonthRange:
		return "range"
	default:
		return fmt.Sprintf("SeasonKind(%d)", int(k))
	}
}

// Season is a resolved season specification: the whole year, a single
// calendar month, or a contiguous range of months. A range with Wraps set
// runs from Start through December and on into January up to End.
type Season struct {
	Kind       SeasonKind
	Start, End int
	Wraps      bool

	// Label is the name the season was resolved from, e.g. "DJF".
	Label string
}

// Annual is the season covering every month.
var Annual = Season{Kind: AnnualSeason, Start: 1, End: 12, Label: "annual"}

// ParseSeason resolves a season label. "annual" (in any case) is the whole
// year; otherwise the label must be two to twelve consecutive month
// initials, such as "DJF" or "JJAS". Single months must be given as
// numbers with MonthSeason.
func ParseSeason(label string) (Season, error) {
	if strings.EqualFold(label, "annual") {
		return Annual, nil
	}
	if len(label) < 2 || len(label) > 12 {
		return Season{}, fmt.Errorf("climagg: %w: %q; use \"annual\", a month number 1-12 "+
			"or 2 to 12 consecutive month initials such as \"DJF\"", ErrInvalidSeason, label)
	}
	for j := 0; j < len(label); j++ {
		if label[j] >= utf8.RuneSelf {
			return Season{}, fmt.Errorf("climagg: %w: %q contains non-ASCII characters",
				ErrInvalidSeason, label)
		}
	}
	i := strings.Index(monthLetters, strings.ToUpper(label))
	if i < 0 {
		return Season{}, fmt.Errorf("climagg: %w: %q is not a sequence of consecutive month initials",
			ErrInvalidSeason, label)
	}
	s := Season{Kind: MonthRange, Start: i + 1, Label: strings.ToUpper(label)}
	s.End = s.Start + len(label) - 1
	if s.End > 12 {
		s.End -= 12
		s.Wraps = true
	}
	return s, nil
}

// MonthSeason returns the season consisting of only the given calendar month.
func MonthSeason(month int) (Season, error) {
	if month < 1 || month > 12 {
		return Season{}, fmt.Errorf("climagg: %w: month %d is not between 1 and 12", ErrInvalidSeason, month)
	}
	return Season{Kind: SingleMonth, Start: month, End: month, Label: fmt.Sprint(month)}, nil
}

// ResolveSeason resolves v, which may be a season label, an integer month
// number or an already resolved Season.
func ResolveSeason(v interface{}) (Season, error) {
	switch s := v.(type) {
	case Season:
		if err := s.check(); err != nil {
			return Season{}, err
		}
		return s, nil
	case string:
		return ParseSeason(s)
	case int:
		return MonthSeason(s)
	case int32:
		return MonthSeason(int(s))
	case int64:
		return MonthSeason(int(s))
	default:
		return Season{}, fmt.Errorf("climagg: %w: %v (%T)", ErrInvalidSeason, v, v)
	}
}

// check makes sure that s is one of the seasons that ParseSeason,
// MonthSeason or Annual could have produced.
func (s Season) check() error {
	inRange := func(m int) bool { return m >= 1 && m <= 12 }
	var ok bool
	switch s.Kind {
	case AnnualSeason:
		ok = s.Start == 1 && s.End == 12 && !s.Wraps
	case SingleMonth:
		ok = inRange(s.Start) && s.End == s.Start && !s.Wraps
	case MonthRange:
		ok = inRange(s.Start) && inRange(s.End) && s.Wraps == (s.End < s.Start) && s.End != s.Start
	}
	if !ok {
		return fmt.Errorf("climagg: %w: %v season with months %d-%d (wraps: %v)",
			ErrInvalidSeason, s.Kind, s.Start, s.End, s.Wraps)
	}
	return nil
}

// Contains reports whether the given calendar month is part of s.
func (s Season) Contains(month int) bool {
	switch s.Kind {
	case AnnualSeason:
		return true
	case SingleMonth:
		return month == s.Start
	case MonthRange:
		if s.Wraps {
			return month >= s.Start || month <= s.End
		}
		return month >= s.Start && month <= s.End
	default:
		return false
	}
}

// LabelYear returns the year in which the occurrence of s that contains t
// began. It differs from t.Year only for the January-side months of a
// wrapping season: January 2001 belongs to the DJF season of 2000.
func (s Season) LabelYear(t TimePoint) int {
	if s.Kind == MonthRange && s.Wraps && t.Month <= s.End {
		return t.Year - 1
	}
	return t.Year
}

// Months returns the calendar months of s in season order.
func (s Season) Months() []int {
	n := s.End - s.Start + 1
	if s.Wraps {
		n += 12
	}
	o := make([]int, n)
	for i := range o {
		o[i] = (s.Start+i-1)%12 + 1
	}
	return o
}

func (s Season) String() string {
	if s.Label != "" {
		return s.Label
	}
	switch s.Kind {
	case AnnualSeason:
		return "annual"
	case SingleMonth:
		return fmt.Sprint(s.Start)
	default:
		return fmt.Sprintf("%d-%d", s.Start, s.End)
	}
}
