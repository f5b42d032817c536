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

package biogasutil

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/biogas"
	"github.com/spf13/cobra"
)

// Run runs the model.
//
// CobraCommand is the cobra.Command instance where Run is called from.
// Log messages are written to its output as well as to LogFile.
//
// LogFile is the path to the desired logfile location.
//
// OutputFile is the path to the desired production table location.
//
// PlotFile, WorkbookFile, and MetricsFile are the paths of the optional
// plot, Excel workbook, and Prometheus metrics outputs. Outputs with
// empty paths are skipped.
//
// If OutputMethane is true, methane columns are added to the production
// table. OutputVariables specifies additional derived columns.
//
// SubstrateDatabase is the path to the table of substrate properties.
//
// Level is the lowest level of log messages that are written.
func Run(CobraCommand *cobra.Command, LogFile, OutputFile, PlotFile, WorkbookFile, MetricsFile string,
	OutputMethane bool, OutputVariables map[string]string, SubstrateDatabase string,
	s *biogas.Scenario, Level logrus.Level) error {

	startTime := time.Now()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("biogas: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.Out = io.MultiWriter(CobraCommand.OutOrStdout(), logfile)
	log.Formatter = &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	}
	log.Level = Level

	o, err := biogas.NewOutputter(OutputFile, OutputMethane, OutputVariables, nil)
	if err != nil {
		return err
	}
	log.Debug("parsed output variable expressions")

	db, err := biogas.ReadDatabaseFile(SubstrateDatabase)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":       SubstrateDatabase,
		"substrates": db.Len(),
	}).Info("read substrate table")

	log.WithFields(logrus.Fields{
		"volume":       s.Volume,
		"loading rate": s.LoadingRate,
		"horizon":      s.Horizon,
		"mixtures":     len(s.Mixtures),
	}).Info("running model")
	r, err := s.Run(db)
	if err != nil {
		return err
	}
	r.Report(log)

	if err := o.Output(r); err != nil {
		return err
	}
	log.WithField("file", OutputFile).Info("wrote production table")
	if PlotFile != "" {
		if err := r.SavePlot(PlotFile); err != nil {
			return err
		}
		log.WithField("file", PlotFile).Info("wrote plot")
	}
	if WorkbookFile != "" {
		if err := o.WriteWorkbook(WorkbookFile, r); err != nil {
			return err
		}
		log.WithField("file", WorkbookFile).Info("wrote workbook")
	}
	if MetricsFile != "" {
		if err := r.WriteMetrics(MetricsFile); err != nil {
			return err
		}
		log.WithField("file", MetricsFile).Info("wrote metrics")
	}

	log.WithField("duration", time.Since(startTime).String()).Info("biogas completed")
	return nil
}
