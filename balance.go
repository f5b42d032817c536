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

	"github.com/ctessum/unit"
)

// Reactor describes the fermenter.
type Reactor struct {
	// Volume is the fermenter volume [m³].
	Volume float64 `toml:"FermenterVolume"`

	// LoadingRate is the organic loading rate [kgVS/m³/d].
	LoadingRate float64 `toml:"LoadingRate"`
}

func (r Reactor) check() error {
	if !(r.Volume > 0) || math.IsInf(r.Volume, 0) {
		return fmt.Errorf("fermenter volume=%g but should be >0", r.Volume)
	}
	if !(r.LoadingRate > 0) || math.IsInf(r.LoadingRate, 0) {
		return fmt.Errorf("loading rate=%g but should be >0", r.LoadingRate)
	}
	return nil
}

// Balance holds the daily mass and water balance for feeding a mixture.
// Water quantities are in kg, taking 1 L of water as 1 kg.
type Balance struct {
	VolumeFlow float64 // hydraulic flow [m³/d]
	Feed       float64 // fresh substrate [kg FM/d]

	// Dilution is the water that must be added to the feed to reach the
	// hydraulic flow [L/d]. A negative value means no water is needed.
	Dilution float64

	// DilutionPerFeed is Dilution per kg of fresh feed [L/kg FM].
	DilutionPerFeed float64

	MashedVolatileSolids float64 // fraction of the diluted feed
	MashedWaterContent   float64 // fraction of the diluted feed

	// Recoverable is the water that can be recovered per day by pressing
	// the digestate down to the press target water content [kg/d].
	Recoverable float64

	// External is the water that must be supplied from outside per day
	// after reuse of the recovered water [kg/d].
	External float64
}

// NewBalance calculates the feed and water balance of a mixture with
// composition c fed to reactor r at retention time hrt [d].
func NewBalance(c Composition, r Reactor, hrt int, l Limits) (Balance, error) {
	if err := r.check(); err != nil {
		return Balance{}, fmt.Errorf("biogas: %v: %w", err, ErrInvalidScenario)
	}
	if hrt <= 0 {
		return Balance{}, fmt.Errorf("biogas: retention time=%d but should be >0: %w", hrt, ErrInvalidScenario)
	}
	if !(c.VolatileSolids > 0) {
		return Balance{}, fmt.Errorf("biogas: volatile solids=%g: %w", c.VolatileSolids, ErrNoVolatileSolids)
	}
	if !(l.PressTargetWaterContent >= 0 && l.PressTargetWaterContent < 1) {
		return Balance{}, fmt.Errorf("biogas: press target water content=%g but should be in [0, 1): %w",
			l.PressTargetWaterContent, ErrInvalidScenario)
	}

	volume := unit.New(r.Volume, unit.Meter3)
	flow := unit.Div(volume, unit.New(float64(hrt), days))
	if err := flow.Check(meter3PerDay); err != nil {
		return Balance{}, fmt.Errorf("biogas: volume flow: %v", err)
	}
	feed := unit.Div(unit.Mul(volume, unit.New(r.LoadingRate, loadingRateUnits)),
		unit.New(c.VolatileSolids, unit.Dimless))
	if err := feed.Check(kgPerDay); err != nil {
		return Balance{}, fmt.Errorf("biogas: feed: %v", err)
	}

	var b Balance
	b.VolumeFlow = flow.Value()
	b.Feed = feed.Value()
	flowL := b.VolumeFlow * 1000
	b.Dilution = flowL - b.Feed
	b.DilutionPerFeed = b.Dilution / b.Feed
	b.MashedVolatileSolids = b.Feed * c.VolatileSolids / flowL

	// A negative dilution is water the mash lacks to fill the hydraulic
	// flow, so it lowers the mashed water content below the feed's.
	b.MashedWaterContent = (b.Dilution + b.Feed*c.WaterContent) / (b.Dilution + b.Feed)
	added := math.Max(0, b.Dilution)

	// Pressing keeps the dry matter and enough water to reach the target
	// water content w in the solid fraction: DM·w/(1-w) per kg fed.
	w := l.PressTargetWaterContent
	retained := c.DryMatter * w / (1 - w)
	b.Recoverable = math.Max(0, b.Feed*(c.WaterContent-retained)+added)
	b.External = math.Max(0, b.Dilution-b.Recoverable)
	return b, nil
}
