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

// Package hash computes fingerprints that identify the data and settings
// an aggregation was computed from.
package hash

import (
	"fmt"
	"hash/fnv"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// A Hasher writes the contents that identify it to w.
type Hasher interface {
	WriteHash(w io.Writer)
}

// printer prints objects deterministically: map keys are sorted and
// pointers are followed without printing their addresses.
var printer = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Hash returns a hash key for the specified object. Objects that implement
// Hasher supply their own contents; other objects are hashed by their
// printed Go representation, so unexported fields count too.
func Hash(object interface{}) string {
	h := fnv.New128a()
	if hr, ok := object.(Hasher); ok {
		hr.WriteHash(h)
	} else {
		printer.Fprintf(h, "%#v", object)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
