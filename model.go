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
	"sync"

	"github.com/spatialmodel/biogas/internal/hash"
	"gonum.org/v1/gonum/floats"
)

// Scenario holds the inputs of a model run.
type Scenario struct {
	Reactor

	// Horizon is the number of days to simulate.
	Horizon int `toml:"Horizon"`

	// Mixtures are fed to the reactor in order. Each mixture is fed from
	// its Start day until the Start day of the next mixture, and the last
	// mixture until the end of the horizon. The first mixture must
	// start on day 0.
	Mixtures []MixtureSpec `toml:"Mixtures"`

	Limits Limits `toml:"Limits"`
}

// Validate checks whether the scenario can be simulated.
func (s *Scenario) Validate() error {
	if err := s.Reactor.check(); err != nil {
		return fmt.Errorf("biogas: %v: %w", err, ErrInvalidScenario)
	}
	if s.Horizon <= 0 {
		return fmt.Errorf("biogas: horizon=%d but should be >0: %w", s.Horizon, ErrInvalidScenario)
	}
	if len(s.Mixtures) == 0 {
		return fmt.Errorf("biogas: no mixtures specified: %w", ErrInvalidScenario)
	}
	if s.Mixtures[0].Start != 0 {
		return fmt.Errorf("biogas: the first mixture starts on day %d but should start on day 0: %w",
			s.Mixtures[0].Start, ErrInvalidScenario)
	}
	prev := 0
	for i, m := range s.Mixtures {
		if m.Start < prev || m.Start > s.Horizon {
			return fmt.Errorf("biogas: mixture %s starts on day %d but should start in [%d, %d]: %w",
				mixtureName(m, i), m.Start, prev, s.Horizon, ErrInvalidScenario)
		}
		if m.RetentionTime <= 0 {
			return fmt.Errorf("biogas: mixture %s: retention time=%d but should be >0: %w",
				mixtureName(m, i), m.RetentionTime, ErrInvalidScenario)
		}
		if lo, hi := m.CNRatioBand(); lo > hi {
			return fmt.Errorf("biogas: mixture %s: C/N band [%g, %g] is empty: %w",
				mixtureName(m, i), lo, hi, ErrInvalidScenario)
		}
		prev = m.Start
	}
	return nil
}

// Window returns the days [start, end) on which mixture i is fed.
func (s *Scenario) Window(i int) (start, end int) {
	start = s.Mixtures[i].Start
	end = s.Horizon
	if i+1 < len(s.Mixtures) {
		end = s.Mixtures[i+1].Start
	}
	return start, end
}

func mixtureName(m MixtureSpec, i int) string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("Mix %d", i+1)
}

// MixtureResult holds the calculations for one mixture.
type MixtureResult struct {
	Name        string
	Mixture     *Mixture
	Composition Composition
	Balance     Balance
	Checks      []Check

	// Yield is the cumulative specific yield of the mixture [L_N/kgVS].
	Yield YieldCurve

	// Impulse is the production on each day after a single day's
	// feed [L_N/d].
	Impulse []float64

	// BatchBiogas and BatchMethane are the cumulative productions from a
	// single day's feed [L_N].
	BatchBiogas, BatchMethane []float64

	// Start and End bound the days [Start, End) on which the mixture
	// is fed.
	Start, End int

	// Biogas and Methane are the daily productions attributable to the
	// mixture over the horizon [L_N/d].
	Biogas, Methane []float64
}

// Expected returns the production on the last day the mixture is fed,
// or 0 if it is never fed.
func (m *MixtureResult) Expected() float64 {
	if m.End <= m.Start || m.End > len(m.Biogas) {
		return 0
	}
	return m.Biogas[m.End-1]
}

// Failed returns the checks whose status is not OK.
func (m *MixtureResult) Failed() []Check {
	var o []Check
	for _, c := range m.Checks {
		if c.Status != OK {
			o = append(o, c)
		}
	}
	return o
}

// Results holds the outcome of a model run.
type Results struct {
	// ID identifies the scenario and substrate table the results were
	// calculated from.
	ID string

	Horizon  int
	Mixtures []*MixtureResult

	// Biogas and Methane are the total daily productions of the
	// reactor [L_N/d].
	Biogas, Methane []float64
}

// Days returns the day index of each entry of the production series.
func (r *Results) Days() []float64 {
	d := make([]float64, r.Horizon)
	for i := range d {
		d[i] = float64(i)
	}
	return d
}

// Run calculates the production of every mixture in the scenario using
// substrate properties from db, and sums them into the reactor total.
// Mixtures are processed concurrently.
func (s *Scenario) Run(db *Database) (*Results, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	r := &Results{
		ID:       hash.Fingerprint(*s, db.records),
		Horizon:  s.Horizon,
		Mixtures: make([]*MixtureResult, len(s.Mixtures)),
	}
	errs := make([]error, len(s.Mixtures))
	var wg sync.WaitGroup
	wg.Add(len(s.Mixtures))
	for i := range s.Mixtures {
		go func(i int) {
			defer wg.Done()
			r.Mixtures[i], errs[i] = s.runMixture(db, i)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	biogas := make([][]float64, len(r.Mixtures))
	methane := make([][]float64, len(r.Mixtures))
	for i, m := range r.Mixtures {
		biogas[i] = m.Biogas
		methane[i] = m.Methane
	}
	r.Biogas = Sum(s.Horizon, biogas...)
	r.Methane = Sum(s.Horizon, methane...)
	return r, nil
}

// runMixture processes mixture i. It is the same calculation for
// every mixture; only the inputs differ.
func (s *Scenario) runMixture(db *Database, i int) (*MixtureResult, error) {
	spec := s.Mixtures[i]
	name := mixtureName(spec, i)
	spec.Name = name
	mix, err := db.Resolve(spec)
	if err != nil {
		return nil, err
	}
	c := mix.Composition()
	b, err := NewBalance(c, s.Reactor, spec.RetentionTime, s.Limits)
	if err != nil {
		return nil, fmt.Errorf("%w (mixture %s)", err, name)
	}

	o := &MixtureResult{
		Name:        name,
		Mixture:     mix,
		Composition: c,
		Balance:     b,
		Checks:      Checks(spec, c, b, s.Reactor, s.Limits),
		Yield:       mix.YieldCurve(),
	}
	o.Start, o.End = s.Window(i)

	// kg VS fed per day.
	vsLoad := b.Feed * c.VolatileSolids
	o.Impulse = o.Yield.Daily()
	floats.Scale(vsLoad, o.Impulse)
	o.BatchBiogas = o.Yield.Scale(vsLoad)
	o.BatchMethane = YieldCurve(o.BatchBiogas).Scale(c.Methane)

	o.Biogas = Convolve(FeedSchedule(o.Start, o.End, s.Horizon), o.Impulse, s.Horizon)
	o.Methane = make([]float64, len(o.Biogas))
	copy(o.Methane, o.Biogas)
	floats.Scale(c.Methane, o.Methane)
	return o, nil
}
