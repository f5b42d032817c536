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
	"reflect"
	"strings"
	"testing"
)

func TestReadDatabase(t *testing.T) {
	db := testDatabase(t)
	if db.Len() != 6 {
		t.Errorf("have %d substrates; want 6", db.Len())
	}
	want := []string{"CM", "GS", "Ref", "Sample1", "Sample2", "Sample3"}
	if !reflect.DeepEqual(db.Names(), want) {
		t.Errorf("names %v; want %v", db.Names(), want)
	}
	s, err := db.Lookup(" Sample2 ")
	if err != nil {
		t.Fatal(err)
	}
	wc := 0.67
	wantRec := SubstrateRecord{
		Short: "Sample2", Name: "maize silage",
		WaterContent: wc, VolatileSolids: 0.95,
		P: 620, Rm: 45, Lag: 0.8, Carbon: 450, Nitrogen: 13, Methane: 0.52,
		DryMatter: 1 - wc,
	}
	if !reflect.DeepEqual(s, wantRec) {
		t.Errorf("have %+v\nwant %+v", s, wantRec)
	}
	if _, err := db.Lookup("Sample9"); !errors.Is(err, ErrSubstrateNotFound) {
		t.Errorf("lookup of missing substrate: %v", err)
	}
}

func TestReadDatabaseErrors(t *testing.T) {
	for _, test := range []struct {
		name, table string
	}{
		{
			name:  "empty",
			table: "",
		},
		{
			name:  "missing column",
			table: "Short;WC;VS;P;Rm;l;C;N\nA;0.9;0.8;300;20;1;400;20\n",
		},
		{
			name:  "bad number",
			table: "Short;WC;VS;P;Rm;l;C;N;methane\nA;wet;0.8;300;20;1;400;20;0.5\n",
		},
		{
			name:  "duplicate",
			table: "Short;WC;VS;P;Rm;l;C;N;methane\nA;0.9;0.8;300;20;1;400;20;0.5\n A ;0.9;0.8;300;20;1;400;20;0.5\n",
		},
		{
			name:  "fraction out of range",
			table: "Short;WC;VS;P;Rm;l;C;N;methane\nA;1.2;0.8;300;20;1;400;20;0.5\n",
		},
		{
			name:  "zero potential",
			table: "Short;WC;VS;P;Rm;l;C;N;methane\nA;0.9;0.8;0;20;1;400;20;0.5\n",
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ReadDatabase(strings.NewReader(test.table)); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := ReadDatabaseFile("testdata/missing.csv"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
