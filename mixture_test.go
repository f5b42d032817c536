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
	"math"
	"testing"
)

func TestResolveErrors(t *testing.T) {
	db := testDatabase(t)
	for _, test := range []struct {
		name string
		spec MixtureSpec
		err  error
	}{
		{
			name: "empty",
			spec: MixtureSpec{Name: "m", RetentionTime: 30},
			err:  ErrInvalidScenario,
		},
		{
			name: "missing substrate",
			spec: MixtureSpec{Name: "m", Components: []Component{{"CM", 0.5}, {"Straw", 0.5}}},
			err:  ErrSubstrateNotFound,
		},
		{
			name: "duplicate substrate",
			spec: MixtureSpec{Name: "m", Components: []Component{{"CM", 0.5}, {"CM", 0.5}}},
			err:  ErrInvalidScenario,
		},
		{
			name: "negative share",
			spec: MixtureSpec{Name: "m", Components: []Component{{"CM", 1.5}, {"GS", -0.5}}},
			err:  ErrInvalidScenario,
		},
		{
			name: "NaN share",
			spec: MixtureSpec{Name: "m", Components: []Component{{"CM", math.NaN()}}},
			err:  ErrInvalidScenario,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := db.Resolve(test.spec)
			if !errors.Is(err, test.err) {
				t.Errorf("have error %v; want %v", err, test.err)
			}
		})
	}
}

func TestComposition(t *testing.T) {
	db := testDatabase(t)
	m, err := db.Resolve(MixtureSpec{
		Name:          "m",
		Components:    []Component{{"CM", 0.6}, {"GS", 0.4}},
		RetentionTime: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	c := m.Composition()
	want := Composition{
		ShareSum:         1,
		WaterContent:     0.6*0.78 + 0.4*0.65,
		DryMatter:        0.6*(1-0.78) + 0.4*(1-0.65),
		VolatileSolids:   0.6*(1-0.78)*0.85 + 0.4*(1-0.65)*0.9,
		VolatileSolidsDM: 0.6*0.85 + 0.4*0.9,
		Methane:          0.6*0.55 + 0.4*0.53,
		Carbon:           0.6*400 + 0.4*440,
		Nitrogen:         0.6*20 + 0.4*22,
	}
	for _, test := range []struct {
		name       string
		have, want float64
	}{
		{"share sum", c.ShareSum, want.ShareSum},
		{"water content", c.WaterContent, want.WaterContent},
		{"dry matter", c.DryMatter, want.DryMatter},
		{"volatile solids", c.VolatileSolids, want.VolatileSolids},
		{"volatile solids DM", c.VolatileSolidsDM, want.VolatileSolidsDM},
		{"methane", c.Methane, want.Methane},
		{"carbon", c.Carbon, want.Carbon},
		{"nitrogen", c.Nitrogen, want.Nitrogen},
		{"C/N", c.CNRatio(), want.Carbon / want.Nitrogen},
	} {
		t.Run(test.name, func(t *testing.T) {
			if different(test.have, test.want, testTolerance) {
				t.Errorf("have %g; want %g", test.have, test.want)
			}
		})
	}
	if l := m.Label(); l != "CM 60%, GS 40%" {
		t.Errorf("label %q", l)
	}
}

func TestCNRatio(t *testing.T) {
	if r := (Composition{}).CNRatio(); r != 0 {
		t.Errorf("no carbon or nitrogen: %g", r)
	}
	if r := (Composition{Carbon: 10}).CNRatio(); !math.IsInf(r, 1) {
		t.Errorf("no nitrogen: %g", r)
	}
}

// A mixture of a single substrate has the yield curve of that substrate.
func TestSingleSubstrateYieldCurve(t *testing.T) {
	db := testDatabase(t)
	m, err := db.Resolve(MixtureSpec{
		Name:          "m",
		Components:    []Component{{"Sample3", 1}},
		RetentionTime: 25,
	})
	if err != nil {
		t.Fatal(err)
	}
	s, _ := db.Lookup("Sample3")
	want := NewYieldCurve(s, 25)
	have := m.YieldCurve()
	if len(have) != len(want) {
		t.Fatalf("length %d; want %d", len(have), len(want))
	}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("day %d: %g != %g", i, have[i], want[i])
		}
	}
}

func TestCNRatioBand(t *testing.T) {
	lo, hi := MixtureSpec{}.CNRatioBand()
	if lo != DefaultCNRatioMin || hi != DefaultCNRatioMax {
		t.Errorf("default band [%g, %g]", lo, hi)
	}
	lo, hi = MixtureSpec{CNRatioMax: 35}.CNRatioBand()
	if lo != DefaultCNRatioMin || hi != 35 {
		t.Errorf("band [%g, %g]", lo, hi)
	}
}
