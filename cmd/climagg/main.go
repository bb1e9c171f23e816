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

// Command climagg calculates calendar-aware climatologies, seasonal means
// and mean annual cycles from monthly NetCDF data.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/climagg/climaggutil"
)

func main() {
	if err := climaggutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
