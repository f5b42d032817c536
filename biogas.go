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

// Package biogas models the biogas and methane production of a continuously
// fed anaerobic digester that is supplied with a sequence of substrate
// mixtures. Specific yields follow a modified Gompertz function for each
// substrate, and the reactor is treated as a linear time-invariant system
// whose impulse response is the daily derivative of the mixture yield curve.
package biogas

import "errors"

// Version gives the version number.
const Version = "1.1.0"

var (
	// ErrSubstrateNotFound is returned when a mixture refers to a substrate
	// that is not present in the reference table.
	ErrSubstrateNotFound = errors.New("substrate not found")

	// ErrNoVolatileSolids is returned when a mixture contains no volatile
	// solids, which would make the required feed infinite.
	ErrNoVolatileSolids = errors.New("mixture has no volatile solids")

	// ErrInvalidScenario is returned when the reactor, horizon, or
	// mixture schedule cannot be simulated.
	ErrInvalidScenario = errors.New("invalid scenario")
)
