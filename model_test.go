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
	"errors"
	"testing"
)

func TestRun(t *testing.T) {
	r := testResults(t)
	if len(r.Mixtures) != 4 {
		t.Fatalf("have %d mixtures", len(r.Mixtures))
	}
	if len(r.Biogas) != 60 || len(r.Methane) != 60 {
		t.Fatalf("series lengths %d, %d", len(r.Biogas), len(r.Methane))
	}
	windows := [][2]int{{0, 15}, {15, 30}, {30, 45}, {45, 60}}
	for i, m := range r.Mixtures {
		if m.Name != testScenario().Mixtures[i].Name {
			t.Errorf("mixture %d is %s", i, m.Name)
		}
		if m.Start != windows[i][0] || m.End != windows[i][1] {
			t.Errorf("%s: window [%d, %d)", m.Name, m.Start, m.End)
		}
		if len(m.Impulse) != m.Mixture.Spec.RetentionTime {
			t.Errorf("%s: impulse length %d", m.Name, len(m.Impulse))
		}
		if len(m.BatchBiogas) != m.Mixture.Spec.RetentionTime+1 {
			t.Errorf("%s: batch length %d", m.Name, len(m.BatchBiogas))
		}
		if m.Expected() != m.Biogas[m.End-1] || m.Expected() <= 0 {
			t.Errorf("%s: expected production %g", m.Name, m.Expected())
		}
	}
	if fs := r.Mixtures[0].Failed(); len(fs) != 0 {
		t.Errorf("Mix 1 failed checks %v", fs)
	}
}

// Each mixture produces nothing before it is fed and nothing after the
// residual production of its last feed.
func TestRunWindows(t *testing.T) {
	r := testResults(t)
	for _, m := range r.Mixtures {
		tailEnd := m.End + len(m.Impulse) - 1
		for d, v := range m.Biogas {
			if (d < m.Start || d >= tailEnd) && v != 0 {
				t.Errorf("%s: day %d production %g outside [%d, %d)", m.Name, d, v, m.Start, tailEnd)
			}
		}
		if m.Biogas[m.Start] != m.Impulse[0] {
			t.Errorf("%s: first day production %g; want %g", m.Name, m.Biogas[m.Start], m.Impulse[0])
		}
	}
}

func TestRunTotal(t *testing.T) {
	r := testResults(t)
	for d := range r.Biogas {
		var biogas, methane float64
		for _, m := range r.Mixtures {
			biogas += m.Biogas[d]
			methane += m.Methane[d]
		}
		if r.Biogas[d] != biogas {
			t.Errorf("day %d: total %g; sum of mixtures %g", d, r.Biogas[d], biogas)
		}
		if r.Methane[d] != methane {
			t.Errorf("day %d: methane total %g; sum of mixtures %g", d, r.Methane[d], methane)
		}
	}
}

// The production of a single mixture at steady state is the feed times
// the yield over the retention time.
func TestRunSteadyState(t *testing.T) {
	s := &Scenario{
		Reactor: Reactor{Volume: 500, LoadingRate: 3.5},
		Horizon: 60,
		Limits:  DefaultLimits(),
		Mixtures: []MixtureSpec{{
			Components:    []Component{{"Ref", 1}},
			RetentionTime: 30,
		}},
	}
	r, err := s.Run(testDatabase(t))
	if err != nil {
		t.Fatal(err)
	}
	m := r.Mixtures[0]
	if m.Name != "Mix 1" {
		t.Errorf("default name %q", m.Name)
	}
	want := 500 * 3.5 * (m.Yield[30] - m.Yield[0])
	for d := 29; d < 60; d++ {
		if different(r.Biogas[d], want, 1e-9) {
			t.Errorf("day %d: %g; want %g", d, r.Biogas[d], want)
		}
		if different(r.Methane[d], want*0.55, 1e-9) {
			t.Errorf("day %d: methane %g; want %g", d, r.Methane[d], want*0.55)
		}
	}
}

// Moving a changeover to the end of the horizon leaves the following
// mixture unfed, and the total is the sum of the others.
func TestRunCollapsedWindow(t *testing.T) {
	s := testScenario()
	s.Mixtures[3].Start = s.Horizon
	r, err := s.Run(testDatabase(t))
	if err != nil {
		t.Fatal(err)
	}
	m := r.Mixtures[3]
	if m.Start != m.End {
		t.Errorf("window [%d, %d)", m.Start, m.End)
	}
	if m.Expected() != 0 {
		t.Errorf("expected production %g", m.Expected())
	}
	for d, v := range m.Biogas {
		if v != 0 {
			t.Errorf("day %d: %g", d, v)
		}
	}
	for d := range r.Biogas {
		sum := r.Mixtures[0].Biogas[d] + r.Mixtures[1].Biogas[d] + r.Mixtures[2].Biogas[d]
		if absDifferent(r.Biogas[d], sum, 1e-9) {
			t.Errorf("day %d: total %g; want %g", d, r.Biogas[d], sum)
		}
	}
}

func TestRunErrors(t *testing.T) {
	db := testDatabase(t)
	for _, test := range []struct {
		name   string
		modify func(s *Scenario)
		err    error
	}{
		{
			name:   "missing substrate",
			modify: func(s *Scenario) { s.Mixtures[2].Components[0].Substrate = "Straw" },
			err:    ErrSubstrateNotFound,
		},
		{
			name: "no volatile solids",
			modify: func(s *Scenario) {
				s.Mixtures[1].Components = []Component{{"Sample1", 0}, {"Sample3", 0}}
			},
			err: ErrNoVolatileSolids,
		},
		{
			name:   "zero horizon",
			modify: func(s *Scenario) { s.Horizon = 0 },
			err:    ErrInvalidScenario,
		},
		{
			name:   "no mixtures",
			modify: func(s *Scenario) { s.Mixtures = nil },
			err:    ErrInvalidScenario,
		},
		{
			name:   "late first mixture",
			modify: func(s *Scenario) { s.Mixtures[0].Start = 3 },
			err:    ErrInvalidScenario,
		},
		{
			name:   "decreasing changeover",
			modify: func(s *Scenario) { s.Mixtures[2].Start = 10 },
			err:    ErrInvalidScenario,
		},
		{
			name:   "changeover after horizon",
			modify: func(s *Scenario) { s.Mixtures[3].Start = 61 },
			err:    ErrInvalidScenario,
		},
		{
			name:   "empty C/N band",
			modify: func(s *Scenario) { s.Mixtures[0].CNRatioMin = 38 },
			err:    ErrInvalidScenario,
		},
		{
			name:   "zero retention time",
			modify: func(s *Scenario) { s.Mixtures[1].RetentionTime = 0 },
			err:    ErrInvalidScenario,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := testScenario()
			test.modify(s)
			_, err := s.Run(db)
			if !errors.Is(err, test.err) {
				t.Errorf("have error %v; want %v", err, test.err)
			}
		})
	}
}

func TestRunID(t *testing.T) {
	db := testDatabase(t)
	a, err := testScenario().Run(db)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testScenario().Run(db)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == "" || a.ID != b.ID {
		t.Errorf("IDs %q and %q should be equal", a.ID, b.ID)
	}
	s := testScenario()
	s.LoadingRate = 3
	c, err := s.Run(db)
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == a.ID {
		t.Error("changed scenario has the same ID")
	}
}
