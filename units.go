/*
Copyright © 2023 the biogas authors.
This file is part of biogas.

biogas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

biogas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with biogas.  If not, see <http://www.gnu.org/licenses/>.
*/

package biogas

import (
	"fmt"

	"github.com/ctessum/unit"
)

// dayDim is time in days and gasDim is a normal litre of gas. Both must be
// set before the dimension sets below are built.
var (
	dayDim = unit.NewDimension("day")
	gasDim = unit.NewDimension("LN")
)

// Units
var (
	kgPerDay = unit.Dimensions{
		unit.MassDim: 1,
		dayDim:       -1}
	meter3PerDay = unit.Dimensions{
		unit.LengthDim: 3,
		dayDim:         -1}
	loadingRateUnits = unit.Dimensions{
		unit.MassDim:   1,
		unit.LengthDim: -3,
		dayDim:         -1}
	gasPerDay = unit.Dimensions{
		gasDim: 1,
		dayDim: -1}
	normalLiters = unit.Dimensions{
		gasDim: 1}
	days = unit.Dimensions{
		dayDim: 1}
)

// quantity formats v with the given dimensions.
func quantity(v float64, d unit.Dimensions) string {
	u := unit.New(v, d)
	return fmt.Sprintf("%.4g %v", u.Value(), u.Dimensions())
}
