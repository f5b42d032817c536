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
	"math"
)

// Limits holds the thresholds used by the feasibility checks and the
// water balance. The carbon to nitrogen band is set per mixture.
type Limits struct {
	LoadingRateMin        float64 `toml:"LoadingRateMin"`        // [kgVS/m³/d]
	LoadingRateMax        float64 `toml:"LoadingRateMax"`        // [kgVS/m³/d]
	MashedWaterContentMin float64 `toml:"MashedWaterContentMin"` // fraction
	RetentionTimeMin      float64 `toml:"RetentionTimeMin"`      // [d]
	RetentionTimeMax      float64 `toml:"RetentionTimeMax"`      // [d]

	// PressTargetWaterContent is the water content the digestate is
	// pressed down to when recovering water.
	PressTargetWaterContent float64 `toml:"PressTargetWaterContent"`

	// ShareTolerance is the allowed deviation of the share sum from 1.
	// Zero requires an exact sum.
	ShareTolerance float64 `toml:"ShareTolerance"`
}

// DefaultLimits returns the thresholds for wet fermentation.
func DefaultLimits() Limits {
	return Limits{
		LoadingRateMin:          1.5,
		LoadingRateMax:          3.5,
		MashedWaterContentMin:   0.88,
		RetentionTimeMin:        20,
		RetentionTimeMax:        50,
		PressTargetWaterContent: 0.5,
		ShareTolerance:          1e-9,
	}
}

// Default carbon to nitrogen band.
const (
	DefaultCNRatioMin = 10.
	DefaultCNRatioMax = 40.
)

// Status is the outcome of a feasibility check.
type Status int

// Check outcomes.
const (
	OK Status = iota
	TooLow
	TooHigh
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case TooLow:
		return "too_low"
	case TooHigh:
		return "too_high"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Names of the feasibility checks.
const (
	CheckShares             = "shares"
	CheckLoadingRate        = "loading_rate"
	CheckCNRatio            = "cn_ratio"
	CheckMashedWaterContent = "mashed_water_content"
	CheckRetentionTime      = "retention_time"
)

// Check is the result of comparing a value against an acceptable band.
// Checks are advisory and never stop a run.
type Check struct {
	Name     string
	Value    float64
	Min, Max float64
	Status   Status
}

// Ratio returns the checked value formatted for reporting.
func (c Check) Ratio() string {
	return fmt.Sprintf("%.2f", c.Value)
}

func (c Check) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Name, c.Status, c.Ratio())
}

// newCheck classifies v against the inclusive band [min, max].
func newCheck(name string, v, min, max float64) Check {
	c := Check{Name: name, Value: v, Min: min, Max: max}
	switch {
	case v < min:
		c.Status = TooLow
	case v > max:
		c.Status = TooHigh
	}
	return c
}

// Checks runs the feasibility checks for a mixture with composition c and
// water balance b fed to reactor r.
func Checks(spec MixtureSpec, c Composition, b Balance, r Reactor, l Limits) []Check {
	shares := newCheck(CheckShares, c.ShareSum, 1, 1)
	if math.Abs(c.ShareSum-1) <= l.ShareTolerance {
		shares.Status = OK
	}
	cnMin, cnMax := spec.CNRatioBand()
	return []Check{
		shares,
		newCheck(CheckLoadingRate, r.LoadingRate, l.LoadingRateMin, l.LoadingRateMax),
		newCheck(CheckCNRatio, c.CNRatio(), cnMin, cnMax),
		newCheck(CheckMashedWaterContent, b.MashedWaterContent, l.MashedWaterContentMin, 1),
		newCheck(CheckRetentionTime, float64(spec.RetentionTime), l.RetentionTimeMin, l.RetentionTimeMax),
	}
}
