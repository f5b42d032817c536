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
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/tealeg/xlsx"
)

// Outputter is a holder for output parameters.
//
// fileName contains the path where the production table will be saved.
//
// If methane is true, methane columns are added after the biogas columns.
//
// outputVariables maps the names of additional columns to expressions
// that define how they are calculated from the built-in columns
// (day, biogasMix1..N, biogastotal and, if requested,
// methaneMix1..N and methanetotal).
type Outputter struct {
	fileName        string
	methane         bool
	outputVariables map[string]string
	outputFunctions map[string]govaluate.ExpressionFunction
	expressions     map[string]*govaluate.EvaluableExpression
}

// NewOutputter initializes a new Outputter holder and adds a set of default
// output functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'max(x, y, ...)' and 'min(x, y, ...)' which return the largest and
// smallest of their arguments.
func NewOutputter(fileName string, methane bool, outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("biogas: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"max": extremum("max", math.Max),
		"min": extremum("min", math.Min),
	}
	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	o := &Outputter{
		fileName:        fileName,
		methane:         methane,
		outputVariables: outputVariables,
		outputFunctions: defaultOutputFuncs,
		expressions:     make(map[string]*govaluate.EvaluableExpression),
	}
	for name, expr := range outputVariables {
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("biogas: output variable '%s': %v", name, err)
		}
		o.expressions[name] = e
	}
	return o, nil
}

func extremum(name string, f func(a, b float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) == 0 {
			return nil, fmt.Errorf("biogas: function '%s' needs at least 1 argument", name)
		}
		v := arg[0].(float64)
		for _, a := range arg[1:] {
			v = f(v, a.(float64))
		}
		return v, nil
	}
}

// FileName returns the path of the production table.
func (o *Outputter) FileName() string { return o.fileName }

// Columns returns the names of the columns of the production table
// for a run with n mixtures.
func (o *Outputter) Columns(n int) []string {
	cols := []string{"day"}
	for i := 0; i < n; i++ {
		cols = append(cols, fmt.Sprintf("biogasMix%d", i+1))
	}
	cols = append(cols, "biogastotal")
	if o.methane {
		for i := 0; i < n; i++ {
			cols = append(cols, fmt.Sprintf("methaneMix%d", i+1))
		}
		cols = append(cols, "methanetotal")
	}
	return append(cols, o.derivedNames()...)
}

func (o *Outputter) derivedNames() []string {
	names := make([]string, 0, len(o.expressions))
	for k := range o.expressions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Table returns the production table for r, one row per day.
func (o *Outputter) Table(r *Results) (columns []string, rows [][]float64, err error) {
	columns = o.Columns(len(r.Mixtures))
	nBase := len(columns) - len(o.expressions)
	base := make(map[string]struct{}, nBase)
	for _, c := range columns[:nBase] {
		base[c] = struct{}{}
	}
	derived := o.derivedNames()
	for _, name := range derived {
		if _, ok := base[name]; ok {
			return nil, nil, fmt.Errorf("biogas: output variable '%s' duplicates a built-in column", name)
		}
		for _, v := range o.expressions[name].Vars() {
			if _, ok := base[v]; !ok {
				return nil, nil, fmt.Errorf("biogas: undefined variable name '%s' in output variable '%s'", v, name)
			}
		}
	}

	rows = make([][]float64, r.Horizon)
	params := make(map[string]interface{}, nBase)
	for d := range rows {
		row := make([]float64, 0, len(columns))
		row = append(row, float64(d))
		for _, m := range r.Mixtures {
			row = append(row, m.Biogas[d])
		}
		row = append(row, r.Biogas[d])
		if o.methane {
			for _, m := range r.Mixtures {
				row = append(row, m.Methane[d])
			}
			row = append(row, r.Methane[d])
		}
		for i, v := range row {
			params[columns[i]] = v
		}
		for _, name := range derived {
			v, err := o.expressions[name].Evaluate(params)
			if err != nil {
				return nil, nil, fmt.Errorf("biogas: evaluating output variable '%s' on day %d: %v", name, d, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, nil, fmt.Errorf("biogas: output variable '%s' evaluates to %T, not a number", name, v)
			}
			row = append(row, f)
		}
		rows[d] = row
	}
	return columns, rows, nil
}

// WriteCSV writes the production table for r to w, separated by semicolons.
func (o *Outputter) WriteCSV(w io.Writer, r *Results) error {
	columns, rows, err := o.Table(r)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(columns); err != nil {
		return err
	}
	rec := make([]string, len(columns))
	for _, row := range rows {
		rec[0] = strconv.Itoa(int(row[0]))
		for i, v := range row[1:] {
			rec[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Output writes the production table for r to the Outputter's file,
// creating its directory if necessary.
func (o *Outputter) Output(r *Results) error {
	f, err := createFile(o.fileName)
	if err != nil {
		return err
	}
	if err := o.WriteCSV(f, r); err != nil {
		f.Close()
		return fmt.Errorf("biogas: writing output file: %v", err)
	}
	return f.Close()
}

// Workbook returns a spreadsheet with the production table for r on
// the "production" sheet and the mixture checks on the "checks" sheet.
func (o *Outputter) Workbook(r *Results) (*xlsx.File, error) {
	columns, rows, err := o.Table(r)
	if err != nil {
		return nil, err
	}
	f := xlsx.NewFile()
	prod, err := f.AddSheet("production")
	if err != nil {
		return nil, err
	}
	header := prod.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}
	for _, row := range rows {
		xr := prod.AddRow()
		xr.AddCell().SetInt(int(row[0]))
		for _, v := range row[1:] {
			xr.AddCell().SetFloat(v)
		}
	}

	checks, err := f.AddSheet("checks")
	if err != nil {
		return nil, err
	}
	header = checks.AddRow()
	for _, c := range []string{"mixture", "check", "value", "min", "max", "status"} {
		header.AddCell().SetString(c)
	}
	for _, m := range r.Mixtures {
		for _, c := range m.Checks {
			xr := checks.AddRow()
			xr.AddCell().SetString(m.Name)
			xr.AddCell().SetString(c.Name)
			xr.AddCell().SetFloat(c.Value)
			xr.AddCell().SetFloat(c.Min)
			xr.AddCell().SetFloat(c.Max)
			xr.AddCell().SetString(c.Status.String())
		}
	}
	return f, nil
}

// WriteWorkbook saves the spreadsheet returned by Workbook to fileName.
func (o *Outputter) WriteWorkbook(fileName string, r *Results) error {
	wb, err := o.Workbook(r)
	if err != nil {
		return err
	}
	f, err := createFile(fileName)
	if err != nil {
		return err
	}
	if err := wb.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("biogas: writing workbook: %v", err)
	}
	return f.Close()
}

// makeDir creates any missing parent directories of fileName.
func makeDir(fileName string) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fmt.Errorf("biogas: creating output directory: %v", err)
	}
	return nil
}

// createFile creates fileName and any missing parent directories.
func createFile(fileName string) (*os.File, error) {
	if err := makeDir(fileName); err != nil {
		return nil, err
	}
	f, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("biogas: creating output file: %v", err)
	}
	return f, nil
}
