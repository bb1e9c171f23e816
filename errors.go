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
	"fmt"
)

// Errors returned for invalid input. They are wrapped together with the
// offending value, so use errors.Is to test for them.
var (
	ErrInvalidCalendar = errors.New("invalid calendar")
	ErrInvalidSeason   = errors.New("invalid season")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrEmptySeries     = errors.New("empty time series")
	ErrEmptyGroup      = errors.New("no time steps match the season")
	ErrShapeMismatch   = errors.New("payload shape mismatch")
	ErrUnordered       = errors.New("time axis is not strictly increasing")
	ErrPeriodSize      = errors.New("series length does not match period")
	ErrPeriodBounds    = errors.New("period outside of series")
)

// WeightSumViolation is the panic value raised when the weights of an
// aggregation group do not sum to one. It indicates a bug in the weight
// calculation rather than a problem with the input.
type WeightSumViolation struct {
	Grouping Grouping
	Key      int
	Sum      float64
}

func (w *WeightSumViolation) Error() string {
	return fmt.Sprintf("climagg: weights of %v group %d sum to %.9g, not 1", w.Grouping, w.Key, w.Sum)
}
