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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// SubstrateRecord holds the properties of a single substrate in the
// reference table.
type SubstrateRecord struct {
	// Short is the key used to refer to the substrate in mixtures.
	Short string `csv:"Short" toml:"Short"`

	// Name is an optional long description.
	Name string `csv:"Name" toml:"Name"`

	WaterContent   float64 `csv:"WC" toml:"WC"`           // fraction of fresh mass
	VolatileSolids float64 `csv:"VS" toml:"VS"`           // fraction of dry matter
	P              float64 `csv:"P" toml:"P"`             // biogas potential [L_N/kgVS]
	Rm             float64 `csv:"Rm" toml:"Rm"`           // maximum production rate [L_N/kgVS/d]
	Lag            float64 `csv:"l" toml:"l"`             // lag phase [d]
	Carbon         float64 `csv:"C" toml:"C"`             // [g/kg]
	Nitrogen       float64 `csv:"N" toml:"N"`             // [g/kg]
	Methane        float64 `csv:"methane" toml:"methane"` // fraction of biogas

	// DryMatter is 1 - WaterContent. It is set when the record is added
	// to a Database.
	DryMatter float64 `csv:"-" toml:"-"`
}

// substrateColumns are the columns that must be present in a reference table.
var substrateColumns = []string{"Short", "WC", "VS", "P", "Rm", "l", "C", "N", "methane"}

func (s *SubstrateRecord) check() error {
	if s.Short == "" {
		return fmt.Errorf("substrate with empty short name")
	}
	fractions := []float64{s.WaterContent, s.VolatileSolids, s.Methane}
	names := []string{"WC", "VS", "methane"}
	for i, v := range fractions {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("substrate %s: %s=%g but should be in [0, 1]", s.Short, names[i], v)
		}
	}
	if !(s.P > 0) {
		return fmt.Errorf("substrate %s: P=%g but should be >0", s.Short, s.P)
	}
	nonNeg := []float64{s.Rm, s.Lag, s.Carbon, s.Nitrogen}
	names = []string{"Rm", "l", "C", "N"}
	for i, v := range nonNeg {
		if !(v >= 0) {
			return fmt.Errorf("substrate %s: %s=%g but should be >=0", s.Short, names[i], v)
		}
	}
	return nil
}

// Database is a read-only table of substrate properties.
type Database struct {
	records []SubstrateRecord
	index   map[string]int
}

// NewDatabase creates a database from the given records, checking that each
// one is valid and that short names are unique.
func NewDatabase(records ...SubstrateRecord) (*Database, error) {
	db := &Database{
		records: make([]SubstrateRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		r.Short = strings.TrimSpace(r.Short)
		if err := r.check(); err != nil {
			return nil, fmt.Errorf("biogas: %v", err)
		}
		if _, ok := db.index[r.Short]; ok {
			return nil, fmt.Errorf("biogas: duplicate substrate %s", r.Short)
		}
		r.DryMatter = 1 - r.WaterContent
		db.index[r.Short] = len(db.records)
		db.records = append(db.records, r)
	}
	return db, nil
}

// ReadDatabase reads a semicolon-delimited reference table. Whitespace
// surrounding headers and values is ignored.
func ReadDatabase(r io.Reader) (*Database, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	var rows []*SubstrateRecord
	if err := gocsv.UnmarshalCSV(&trimReader{r: cr}, &rows); err != nil {
		return nil, fmt.Errorf("biogas: reading substrate table: %w", err)
	}
	records := make([]SubstrateRecord, len(rows))
	for i, row := range rows {
		records[i] = *row
	}
	return NewDatabase(records...)
}

// ReadDatabaseFile reads the reference table at path.
func ReadDatabaseFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("biogas: opening substrate table: %w", err)
	}
	defer f.Close()
	return ReadDatabase(f)
}

// Lookup returns the record with the given short name.
func (db *Database) Lookup(short string) (SubstrateRecord, error) {
	i, ok := db.index[strings.TrimSpace(short)]
	if !ok {
		return SubstrateRecord{}, fmt.Errorf("biogas: %w: %q", ErrSubstrateNotFound, short)
	}
	return db.records[i], nil
}

// Len returns the number of substrates in the database.
func (db *Database) Len() int { return len(db.records) }

// Names returns the sorted short names of all substrates.
func (db *Database) Names() []string {
	o := make([]string, 0, len(db.records))
	for _, r := range db.records {
		o = append(o, r.Short)
	}
	sort.Strings(o)
	return o
}

// trimReader strips whitespace from every field of a csv.Reader and makes
// sure the required columns are present before gocsv decodes the rows.
type trimReader struct {
	r *csv.Reader
}

func (t *trimReader) Read() ([]string, error) {
	rec, err := t.r.Read()
	if err != nil {
		return nil, err
	}
	return trimFields(rec), nil
}

func (t *trimReader) ReadAll() ([][]string, error) {
	recs, err := t.r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty substrate table")
	}
	for i, rec := range recs {
		recs[i] = trimFields(rec)
	}
	have := make(map[string]bool, len(recs[0]))
	for _, h := range recs[0] {
		have[h] = true
	}
	for _, c := range substrateColumns {
		if !have[c] {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	return recs, nil
}

func trimFields(rec []string) []string {
	for i, v := range rec {
		rec[i] = strings.TrimSpace(v)
	}
	return rec
}
