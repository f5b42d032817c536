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

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// mass formats a daily mass flow [kg/d], switching to grams for
// small flows.
func mass(v float64) string {
	if v < 0.1 {
		return fmt.Sprintf("%.2f g/d", v*1000)
	}
	return fmt.Sprintf("%.2f kg/d", v)
}

// water formats a daily water flow [L/d], switching to millilitres for
// small flows.
func water(v float64) string {
	if v > -0.1 && v < 0.1 {
		return fmt.Sprintf("%.2f mL/d", v*1000)
	}
	return fmt.Sprintf("%.2f L/d", v)
}

// Report logs the composition, water balance and failed checks of
// each mixture, followed by a summary of the reactor production.
func (r *Results) Report(log logrus.FieldLogger) {
	for _, m := range r.Mixtures {
		b := m.Balance
		c := m.Composition
		log.WithFields(logrus.Fields{
			"mixture":         m.Name,
			"substrates":      m.Mixture.Label(),
			"days":            fmt.Sprintf("[%d, %d)", m.Start, m.End),
			"water_content":   fmt.Sprintf("%.3f", c.WaterContent),
			"volatile_solids": fmt.Sprintf("%.3f", c.VolatileSolids),
			"cn_ratio":        fmt.Sprintf("%.2f", c.CNRatio()),
			"volume_flow":     quantity(b.VolumeFlow, meter3PerDay),
			"feed":            mass(b.Feed),
			"dilution":        water(b.Dilution),
		}).Info("mixture")
		log.WithFields(logrus.Fields{
			"mixture":              m.Name,
			"mashed_water_content": fmt.Sprintf("%.3f", b.MashedWaterContent),
			"recoverable_water":    water(b.Recoverable),
			"external_water":       water(b.External),
		}).Info("water balance")
		for _, ch := range m.Failed() {
			log.WithFields(logrus.Fields{
				"mixture": m.Name,
				"check":   ch.Name,
				"value":   ch.Ratio(),
				"min":     ch.Min,
				"max":     ch.Max,
				"status":  ch.Status.String(),
			}).Warn("mixture check failed")
		}
		log.WithFields(logrus.Fields{
			"mixture":  m.Name,
			"expected": quantity(m.Expected(), gasPerDay),
			"batch":    quantity(m.BatchBiogas[len(m.BatchBiogas)-1], normalLiters),
		}).Info("biogas production")
	}
	log.WithFields(logrus.Fields{
		"run":     r.ID,
		"peak":    quantity(floats.Max(r.Biogas), gasPerDay),
		"mean":    quantity(stat.Mean(r.Biogas, nil), gasPerDay),
		"total":   quantity(floats.Sum(r.Biogas), normalLiters),
		"methane": quantity(floats.Sum(r.Methane), normalLiters),
	}).Info("reactor production")
}
