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
	"testing"
)

const testTolerance = 1e-9

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

func testDatabase(t *testing.T) *Database {
	db, err := ReadDatabaseFile("testdata/substrates.csv")
	if err != nil {
		t.Fatal(err)
	}
	return db
}

// testScenario is a four-mixture scenario with changeovers on days 15,
// 30 and 45.
func testScenario() *Scenario {
	return &Scenario{
		Reactor: Reactor{Volume: 500, LoadingRate: 3.5},
		Horizon: 60,
		Limits:  DefaultLimits(),
		Mixtures: []MixtureSpec{
			{
				Name:          "Mix 1",
				Components:    []Component{{"Sample1", 0.6}, {"Sample2", 0.4}},
				RetentionTime: 30,
				CNRatioMax:    35,
			},
			{
				Name:          "Mix 2",
				Components:    []Component{{"Sample1", 0.5}, {"Sample3", 0.5}},
				RetentionTime: 25,
				Start:         15,
			},
			{
				Name:          "Mix 3",
				Components:    []Component{{"CM", 0.7}, {"GS", 0.3}},
				RetentionTime: 35,
				Start:         30,
			},
			{
				Name:          "Mix 4",
				Components:    []Component{{"CM", 0.5}, {"GS", 0.3}, {"Sample2", 0.2}},
				RetentionTime: 40,
				Start:         45,
			},
		},
	}
}

func testResults(t *testing.T) *Results {
	r, err := testScenario().Run(testDatabase(t))
	if err != nil {
		t.Fatal(err)
	}
	return r
}
