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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/biogas"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// defaultMixtures are the four mixtures of the example plant.
var defaultMixtures = []mixtureConfig{
	{
		Name:          "Mix 1",
		Substrates:    []string{"Sample1", "Sample2"},
		Shares:        []float64{0.6, 0.4},
		RetentionTime: 30,
		CNRatioMin:    biogas.DefaultCNRatioMin,
		CNRatioMax:    35,
	},
	{
		Name:          "Mix 2",
		Substrates:    []string{"Sample1", "Sample3"},
		Shares:        []float64{0.5, 0.5},
		RetentionTime: 30,
	},
	{
		Name:          "Mix 3",
		Substrates:    []string{"CM", "GS"},
		Shares:        []float64{0.7, 0.3},
		RetentionTime: 30,
	},
	{
		Name:          "Mix 4",
		Substrates:    []string{"CM", "GS", "Sample2"},
		Shares:        []float64{0.5, 0.3, 0.2},
		RetentionTime: 30,
	},
}

func init() {
	limits := biogas.DefaultLimits()

	// Options are the configuration options available to biogas.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "EnvFile",
			usage: `
              EnvFile is a file of KEY=value lines that are loaded into the
              environment before the configuration is read. It is ignored
              if it does not exist.`,
			defaultVal: ".env",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SubstrateDatabase",
			usage: `
              SubstrateDatabase is the path to the semicolon-delimited table
              of substrate properties. It can include environment variables.`,
			shorthand:  "d",
			defaultVal: "testdata/substrates.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "FermenterVolume",
			usage: `
              FermenterVolume is the working volume of the fermenter [m³].`,
			defaultVal: 500.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "LoadingRate",
			usage: `
              LoadingRate is the organic loading rate [kg VS/m³/d].`,
			defaultVal: 3.5,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Horizon",
			usage: `
              Horizon is the number of days for which production is
              calculated.`,
			defaultVal: 30,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "ChangeoverDays",
			usage: `
              ChangeoverDays are the days on which the reactor switches to the
              second and each following mixture. There must be one fewer
              changeover day than there are mixtures, and they must not
              decrease. A changeover day equal to Horizon means the
              following mixture is never fed.`,
			defaultVal: []int{30, 30, 30},
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Mixtures",
			usage: `
              Mixtures is the list of substrate mixtures fed to the reactor,
              in order. Each mixture has a Name, a list of Substrates
              referring to the Short column of the substrate table, the
              fresh mass Shares of the substrates, the hydraulic
              RetentionTime [d], and optionally the acceptable CNRatioMin
              and CNRatioMax. In a configuration file it is an array of
              tables; on the command line or in an environment variable it
              is a JSON list.`,
			defaultVal: defaultMixtures,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.LoadingRateMin",
			usage: `
              Limits.LoadingRateMin is the lowest recommended organic loading
              rate [kg VS/m³/d].`,
			defaultVal: limits.LoadingRateMin,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.LoadingRateMax",
			usage: `
              Limits.LoadingRateMax is the highest recommended organic loading
              rate [kg VS/m³/d].`,
			defaultVal: limits.LoadingRateMax,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.MashedWaterContentMin",
			usage: `
              Limits.MashedWaterContentMin is the lowest water content of the
              diluted feed that can be pumped in wet fermentation.`,
			defaultVal: limits.MashedWaterContentMin,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.RetentionTimeMin",
			usage: `
              Limits.RetentionTimeMin is the shortest recommended hydraulic
              retention time [d].`,
			defaultVal: limits.RetentionTimeMin,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.RetentionTimeMax",
			usage: `
              Limits.RetentionTimeMax is the longest recommended hydraulic
              retention time [d].`,
			defaultVal: limits.RetentionTimeMax,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.PressTargetWaterContent",
			usage: `
              Limits.PressTargetWaterContent is the water content the
              digestate is pressed down to when recovering process water.`,
			defaultVal: limits.PressTargetWaterContent,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "Limits.ShareTolerance",
			usage: `
              Limits.ShareTolerance is the allowed deviation of the sum of the
              substrate shares of a mixture from 1. Set it to 0 to require
              the shares to sum to exactly 1.`,
			defaultVal: limits.ShareTolerance,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), configCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the semicolon-delimited table of daily
              production. It can include environment variables. Its
              directory is created if it does not exist.`,
			shorthand:  "o",
			defaultVal: "output/outputdata_conti.csv",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to the PNG plot of daily production. It can
              include environment variables. Leave it empty to skip the plot.`,
			defaultVal: "output/daily_biogas_production.png",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "WorkbookFile",
			usage: `
              WorkbookFile is the path to an Excel workbook holding the daily
              production and the mixture checks. It can include environment
              variables. Leave it empty to skip the workbook.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetricsFile",
			usage: `
              MetricsFile is the path to a Prometheus text file summarizing the
              run, for collection by a node exporter. It can include
              environment variables. Leave it empty to skip it.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputMethane",
			usage: `
              OutputMethane specifies whether methane columns are added to the
              production table.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional columns of the production
              table as a map of names to expressions over the built-in
              columns (day, biogasMix1..N, biogastotal and, with
              OutputMethane, methaneMix1..N and methanetotal). Expressions
              can use the functions exp, max, and min.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can
              include environment variables. If LogFile is left blank, the
              logfile will be saved in the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the lowest level of messages that are logged:
              debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("BIOGAS")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			case int:
				set.Int(option.name, option.defaultVal.(int), option.usage)
			case []int:
				set.IntSlice(option.name, option.defaultVal.([]int), option.usage)
			case float64:
				set.Float64(option.name, option.defaultVal.(float64), option.usage)
			case map[string]string, []mixtureConfig:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				set.String(option.name, s, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(configCmd)
}

// loadEnv loads the environment file, if there is one.
func loadEnv() error {
	f := Cfg.GetString("EnvFile")
	if f == "" {
		return nil
	}
	if _, err := os.Stat(f); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(f); err != nil {
		return fmt.Errorf("biogas: problem reading environment file: %v", err)
	}
	return nil
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("biogas: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "biogas",
	Short: "A continuous biogas production model.",
	Long: `biogas estimates the daily biogas and methane production of a continuously
fed fermenter whose substrate mixture changes over time. Substrate kinetics
follow the modified Gompertz equation; each mixture is checked for loading
rate, carbon to nitrogen ratio, water content and retention time, and its
water balance is calculated.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'BIOGAS_var' where 'var' is
the name of the variable to be set. Environment variables can also be placed
in a .env file. Refer to https://github.com/spf13/viper for additional
configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := loadEnv(); err != nil {
			return err
		}
		return setConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of biogas.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("biogas v%s\n", biogas.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs the model.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run calculates the daily production of each mixture and of the reactor,
reports the mixture checks and water balances, and writes the production
table, plot, and optional workbook and metrics file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := ScenarioConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		outputVars, err := getStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
		if err != nil {
			return fmt.Errorf("biogas: LogLevel: %v", err)
		}
		return Run(cmd,
			checkLogFile(os.ExpandEnv(Cfg.GetString("LogFile")), outputFile),
			outputFile,
			os.ExpandEnv(Cfg.GetString("PlotFile")),
			os.ExpandEnv(Cfg.GetString("WorkbookFile")),
			os.ExpandEnv(Cfg.GetString("MetricsFile")),
			Cfg.GetBool("OutputMethane"),
			checkOutputVars(outputVars),
			os.ExpandEnv(Cfg.GetString("SubstrateDatabase")),
			s, level,
		)
	},
	DisableAutoGenTag: true,
}

// configCmd prints the scenario that the current configuration describes.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the scenario configuration.",
	Long: `config prints the scenario described by the current configuration
file, flags, and environment variables in TOML format, after checking that
every substrate is in the substrate table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := ScenarioConfig(Cfg)
		if err != nil {
			return err
		}
		db, err := biogas.ReadDatabaseFile(os.ExpandEnv(Cfg.GetString("SubstrateDatabase")))
		if err != nil {
			return err
		}
		for _, m := range s.Mixtures {
			if _, err := db.Resolve(m); err != nil {
				return err
			}
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(s)
	},
	DisableAutoGenTag: true,
}
