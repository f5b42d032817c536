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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/floats"
)

// Registry returns a Prometheus registry holding gauges that describe r.
func (r *Results) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "run_info",
		Help:      "Identifies the inputs of the run.",
	}, []string{"run", "version"})
	info.WithLabelValues(r.ID, Version).Set(1)

	horizon := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "horizon_days",
		Help:      "Number of simulated days.",
	})
	horizon.Set(float64(r.Horizon))

	total := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "production_liters",
		Help:      "Gas produced over the horizon [L_N].",
	}, []string{"gas"})
	total.WithLabelValues("biogas").Set(floats.Sum(r.Biogas))
	total.WithLabelValues("methane").Set(floats.Sum(r.Methane))

	peak := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "peak_production_liters_per_day",
		Help:      "Largest daily biogas production of the reactor [L_N/d].",
	})
	peak.Set(floats.Max(r.Biogas))

	expected := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "mixture_expected_liters_per_day",
		Help:      "Biogas production on the last day a mixture is fed [L_N/d].",
	}, []string{"mixture"})
	feed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "mixture_feed_kilograms_per_day",
		Help:      "Fresh substrate fed per day.",
	}, []string{"mixture"})
	external := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "mixture_external_water_liters_per_day",
		Help:      "Water supplied from outside per day after recovery.",
	}, []string{"mixture"})
	check := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "biogas",
		Name:      "mixture_check_status",
		Help:      "Outcome of a mixture check: 0 ok, 1 too low, 2 too high.",
	}, []string{"mixture", "check"})
	for i, m := range r.Mixtures {
		label := strconv.Itoa(i+1) + ":" + m.Name
		expected.WithLabelValues(label).Set(m.Expected())
		feed.WithLabelValues(label).Set(m.Balance.Feed)
		external.WithLabelValues(label).Set(m.Balance.External)
		for _, c := range m.Checks {
			check.WithLabelValues(label, c.Name).Set(float64(c.Status))
		}
	}

	reg.MustRegister(info, horizon, total, peak, expected, feed, external, check)
	return reg
}

// WriteMetrics writes the gauges returned by Registry to fileName in the
// Prometheus text format.
func (r *Results) WriteMetrics(fileName string) error {
	if err := makeDir(fileName); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(fileName, r.Registry())
}
