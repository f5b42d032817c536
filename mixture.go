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
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Component is a substrate and its share of the fresh mass of a mixture.
type Component struct {
	Substrate string  `toml:"Substrate"`
	Share     float64 `toml:"Share"`
}

// MixtureSpec specifies a substrate mixture and the period during which
// the reactor is fed with it.
type MixtureSpec struct {
	Name string `toml:"Name"`

	// Components are the substrates in the mixture. Their shares
	// should sum to 1.
	Components []Component `toml:"Components"`

	// RetentionTime is the hydraulic retention time [d].
	RetentionTime int `toml:"RetentionTime"`

	// Start is the day on which the reactor switches to this mixture.
	Start int `toml:"Start"`

	// CNRatioMin and CNRatioMax bound the acceptable carbon to
	// nitrogen ratio of the mixture.
	CNRatioMin float64 `toml:"CNRatioMin"`
	CNRatioMax float64 `toml:"CNRatioMax"`
}

// CNRatioBand returns the acceptable carbon to nitrogen band of the
// mixture, substituting the defaults for unset bounds.
func (s MixtureSpec) CNRatioBand() (min, max float64) {
	min, max = s.CNRatioMin, s.CNRatioMax
	if min == 0 {
		min = DefaultCNRatioMin
	}
	if max == 0 {
		max = DefaultCNRatioMax
	}
	return min, max
}

// Mixture is a MixtureSpec whose substrates have been resolved
// against a Database.
type Mixture struct {
	Spec MixtureSpec

	// Substrates holds the record for each of Spec.Components, in order.
	Substrates []SubstrateRecord
}

// Resolve looks up the substrates of spec. It is an error for the mixture
// to be empty, to name a substrate more than once, or to name a substrate
// that is not in the database.
func (db *Database) Resolve(spec MixtureSpec) (*Mixture, error) {
	if len(spec.Components) == 0 {
		return nil, fmt.Errorf("biogas: mixture %s has no substrates: %w", spec.Name, ErrInvalidScenario)
	}
	m := &Mixture{
		Spec:       spec,
		Substrates: make([]SubstrateRecord, len(spec.Components)),
	}
	seen := make(map[string]bool, len(spec.Components))
	for i, c := range spec.Components {
		s, err := db.Lookup(c.Substrate)
		if err != nil {
			return nil, fmt.Errorf("biogas: mixture %s: %w %q", spec.Name, ErrSubstrateNotFound, c.Substrate)
		}
		if seen[s.Short] {
			return nil, fmt.Errorf("biogas: mixture %s: substrate %s is listed more than once: %w",
				spec.Name, s.Short, ErrInvalidScenario)
		}
		seen[s.Short] = true
		if !(c.Share >= 0) || math.IsInf(c.Share, 0) {
			return nil, fmt.Errorf("biogas: mixture %s: share of %s is %g: %w",
				spec.Name, s.Short, c.Share, ErrInvalidScenario)
		}
		m.Substrates[i] = s
	}
	return m, nil
}

// Shares returns the share of each component.
func (m *Mixture) Shares() []float64 {
	o := make([]float64, len(m.Spec.Components))
	for i, c := range m.Spec.Components {
		o[i] = c.Share
	}
	return o
}

// Label describes the mixture as its substrates and their shares,
// e.g. "CM 60%, GS 40%".
func (m *Mixture) Label() string {
	parts := make([]string, len(m.Spec.Components))
	for i, c := range m.Spec.Components {
		parts[i] = fmt.Sprintf("%s %g%%", m.Substrates[i].Short, c.Share*100)
	}
	return strings.Join(parts, ", ")
}

// Composition holds the share-weighted properties of a mixture.
type Composition struct {
	ShareSum         float64 // sum of the component shares
	WaterContent     float64 // fraction of fresh mass
	DryMatter        float64 // fraction of fresh mass
	VolatileSolids   float64 // fraction of fresh mass
	VolatileSolidsDM float64 // fraction of dry matter
	Methane          float64 // fraction of biogas
	Carbon           float64 // [g/kg]
	Nitrogen         float64 // [g/kg]
}

// Composition calculates the share-weighted properties of the mixture.
func (m *Mixture) Composition() Composition {
	n := len(m.Substrates)
	wc := make([]float64, n)
	dm := make([]float64, n)
	vsFM := make([]float64, n)
	vs := make([]float64, n)
	ch4 := make([]float64, n)
	c := make([]float64, n)
	nn := make([]float64, n)
	for i, s := range m.Substrates {
		wc[i] = s.WaterContent
		dm[i] = s.DryMatter
		vsFM[i] = s.DryMatter * s.VolatileSolids
		vs[i] = s.VolatileSolids
		ch4[i] = s.Methane
		c[i] = s.Carbon
		nn[i] = s.Nitrogen
	}
	share := m.Shares()
	return Composition{
		ShareSum:         floats.Sum(share),
		WaterContent:     floats.Dot(share, wc),
		DryMatter:        floats.Dot(share, dm),
		VolatileSolids:   floats.Dot(share, vsFM),
		VolatileSolidsDM: floats.Dot(share, vs),
		Methane:          floats.Dot(share, ch4),
		Carbon:           floats.Dot(share, c),
		Nitrogen:         floats.Dot(share, nn),
	}
}

// CNRatio returns the carbon to nitrogen ratio of the mixture. It is
// +Inf if the mixture contains carbon but no nitrogen.
func (c Composition) CNRatio() float64 {
	if c.Nitrogen == 0 {
		if c.Carbon == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return c.Carbon / c.Nitrogen
}

// YieldCurve returns the share-weighted cumulative specific yield of the
// mixture over its retention time.
func (m *Mixture) YieldCurve() YieldCurve {
	hrt := m.Spec.RetentionTime
	if hrt < 0 {
		hrt = 0
	}
	y := make(YieldCurve, hrt+1)
	for i, s := range m.Substrates {
		floats.AddScaled(y, m.Spec.Components[i].Share, NewYieldCurve(s, hrt))
	}
	return y
}
