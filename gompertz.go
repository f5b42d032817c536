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
	"math"

	"gonum.org/v1/gonum/floats"
)

// Gompertz returns the cumulative specific biogas yield [L_N/kgVS] at time
// t [d] according to the modified Gompertz function with biogas potential
// p [L_N/kgVS], maximum production rate rm [L_N/kgVS/d], and lag phase
// lag [d]. p must be > 0.
func Gompertz(t, p, rm, lag float64) float64 {
	return p * math.Exp(-math.Exp((rm*math.E/p)*(lag-t)+1))
}

// YieldCurve holds cumulative specific biogas yields [L_N/kgVS] at
// day offsets 0 through the hydraulic retention time, inclusive.
type YieldCurve []float64

// NewYieldCurve evaluates the Gompertz function of substrate s at each day
// from 0 to hrt.
func NewYieldCurve(s SubstrateRecord, hrt int) YieldCurve {
	if hrt < 0 {
		hrt = 0
	}
	y := make(YieldCurve, hrt+1)
	for t := range y {
		y[t] = Gompertz(float64(t), s.P, s.Rm, s.Lag)
	}
	return y
}

// RetentionTime returns the number of days spanned by the curve.
func (y YieldCurve) RetentionTime() int { return len(y) - 1 }

// Daily returns the specific yield produced on each day of the retention
// time [L_N/kgVS/d], i.e., the forward difference of the curve.
func (y YieldCurve) Daily() []float64 {
	if len(y) < 2 {
		return nil
	}
	d := make([]float64, len(y)-1)
	for i := range d {
		d[i] = y[i+1] - y[i]
	}
	return d
}

// Scale returns a copy of the curve multiplied by f.
func (y YieldCurve) Scale(f float64) []float64 {
	o := make([]float64, len(y))
	copy(o, y)
	floats.Scale(f, o)
	return o
}
