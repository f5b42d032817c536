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
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Line colors of the first mixtures. Later mixtures use the
// plotutil palette.
var mixtureColors = []color.Color{
	color.NRGBA{0, 0, 0, 255},
	color.NRGBA{0, 0, 139, 255},
	color.NRGBA{0, 0, 255, 255},
	color.NRGBA{0, 128, 0, 255},
}

func mixtureColor(i int) color.Color {
	if i < len(mixtureColors) {
		return mixtureColors[i]
	}
	return plotutil.Color(i)
}

// Plot returns a line plot of the daily biogas production of each
// mixture and of the reactor total.
func (r *Results) Plot() (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = "daily biogas production"
	p.X.Label.Text = "time (d)"
	p.Y.Label.Text = "biogas production (L_N/d)"
	p.Legend.Top = true
	p.Legend.Left = true

	t := r.Days()
	for i, m := range r.Mixtures {
		l, err := plotter.NewLine(xys(t, m.Biogas))
		if err != nil {
			return nil, fmt.Errorf("biogas: plotting mixture %s: %v", m.Name, err)
		}
		l.LineStyle.Color = mixtureColor(i)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%s (%s)", m.Name, m.Mixture.Label()), l)
	}
	total, err := plotter.NewLine(xys(t, r.Biogas))
	if err != nil {
		return nil, fmt.Errorf("biogas: plotting total: %v", err)
	}
	total.LineStyle.Color = color.NRGBA{255, 0, 0, 255}
	total.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(total)
	p.Legend.Add("total", total)
	p.Y.Min = 0
	return p, nil
}

// WritePlot writes the plot returned by Plot to w as a PNG image.
func (r *Results) WritePlot(w io.Writer) error {
	p, err := r.Plot()
	if err != nil {
		return err
	}
	ww, hh := 8*vg.Inch, 5*vg.Inch
	wt, err := p.WriterTo(ww, hh, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot writes the plot to fileName, creating its directory if necessary.
func (r *Results) SavePlot(fileName string) error {
	f, err := createFile(fileName)
	if err != nil {
		return err
	}
	if err := r.WritePlot(f); err != nil {
		f.Close()
		return fmt.Errorf("biogas: writing plot: %v", err)
	}
	return f.Close()
}

func xys(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	return xy
}
