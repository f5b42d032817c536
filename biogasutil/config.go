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
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/biogas"
	"github.com/spf13/cast"
)

// mixtureConfig is the configuration form of a mixture: parallel lists
// of substrates and shares.
type mixtureConfig struct {
	Name          string    `json:"Name"`
	Substrates    []string  `json:"Substrates"`
	Shares        []float64 `json:"Shares"`
	RetentionTime int       `json:"RetentionTime"`
	CNRatioMin    float64   `json:"CNRatioMin,omitempty"`
	CNRatioMax    float64   `json:"CNRatioMax,omitempty"`
}

// spec converts the configuration to a mixture that starts on day start.
func (m mixtureConfig) spec(start int) (biogas.MixtureSpec, error) {
	if len(m.Substrates) != len(m.Shares) {
		return biogas.MixtureSpec{}, fmt.Errorf("mixture %s has %d substrates but %d shares",
			m.Name, len(m.Substrates), len(m.Shares))
	}
	s := biogas.MixtureSpec{
		Name:          m.Name,
		Components:    make([]biogas.Component, len(m.Substrates)),
		RetentionTime: m.RetentionTime,
		Start:         start,
		CNRatioMin:    m.CNRatioMin,
		CNRatioMax:    m.CNRatioMax,
	}
	for i, sub := range m.Substrates {
		s.Components[i] = biogas.Component{Substrate: strings.TrimSpace(sub), Share: m.Shares[i]}
	}
	return s, nil
}

// ScenarioConfig unmarshals a viper configuration for a model run.
func ScenarioConfig(cfg *viper.Viper) (*biogas.Scenario, error) {
	mixtures, err := getMixtures("Mixtures", cfg)
	if err != nil {
		return nil, fmt.Errorf("biogas: Mixtures: %v", err)
	}
	changeover, err := toIntSliceE(cfg.Get("ChangeoverDays"))
	if err != nil {
		return nil, fmt.Errorf("biogas: ChangeoverDays: %v", err)
	}
	if len(changeover) != len(mixtures)-1 {
		return nil, fmt.Errorf("biogas: %d ChangeoverDays are specified for %d Mixtures but there should be %d",
			len(changeover), len(mixtures), len(mixtures)-1)
	}

	s := &biogas.Scenario{
		Reactor: biogas.Reactor{
			Volume:      cfg.GetFloat64("FermenterVolume"),
			LoadingRate: cfg.GetFloat64("LoadingRate"),
		},
		Horizon: cfg.GetInt("Horizon"),
		Limits: biogas.Limits{
			LoadingRateMin:          cfg.GetFloat64("Limits.LoadingRateMin"),
			LoadingRateMax:          cfg.GetFloat64("Limits.LoadingRateMax"),
			MashedWaterContentMin:   cfg.GetFloat64("Limits.MashedWaterContentMin"),
			RetentionTimeMin:        cfg.GetFloat64("Limits.RetentionTimeMin"),
			RetentionTimeMax:        cfg.GetFloat64("Limits.RetentionTimeMax"),
			PressTargetWaterContent: cfg.GetFloat64("Limits.PressTargetWaterContent"),
			ShareTolerance:          cfg.GetFloat64("Limits.ShareTolerance"),
		},
		Mixtures: make([]biogas.MixtureSpec, len(mixtures)),
	}
	for i, m := range mixtures {
		start := 0
		if i > 0 {
			start = changeover[i-1]
		}
		s.Mixtures[i], err = m.spec(start)
		if err != nil {
			return nil, fmt.Errorf("biogas: %v", err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// getMixtures returns the list of mixtures from a viper configuration,
// accounting for the fact that it might be a json list if it was set
// from a command line argument or environment variable.
func getMixtures(varName string, cfg *viper.Viper) ([]mixtureConfig, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case []mixtureConfig:
		return v, nil
	case string:
		var o []mixtureConfig
		d := json.NewDecoder(bytes.NewBufferString(v))
		d.DisallowUnknownFields()
		if err := d.Decode(&o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		list, err := cast.ToSliceE(i)
		if err != nil {
			return nil, fmt.Errorf("invalid type %#v", i)
		}
		o := make([]mixtureConfig, len(list))
		for j, item := range list {
			if o[j], err = toMixtureConfig(item); err != nil {
				return nil, fmt.Errorf("mixture %d: %v", j+1, err)
			}
		}
		return o, nil
	}
}

// toMixtureConfig converts a table read from a configuration file.
// Keys are matched without regard to case.
func toMixtureConfig(i interface{}) (mixtureConfig, error) {
	var o mixtureConfig
	raw, err := cast.ToStringMapE(i)
	if err != nil {
		return o, err
	}
	m := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		m[strings.ToLower(k)] = v
	}
	for k := range m {
		switch k {
		case "name", "substrates", "shares", "retentiontime", "cnratiomin", "cnratiomax":
		default:
			return o, fmt.Errorf("unknown field %q", k)
		}
	}
	if o.Name, err = cast.ToStringE(m["name"]); err != nil {
		return o, fmt.Errorf("Name: %v", err)
	}
	if o.Substrates, err = cast.ToStringSliceE(m["substrates"]); err != nil {
		return o, fmt.Errorf("Substrates: %v", err)
	}
	if o.Shares, err = toFloat64SliceE(m["shares"]); err != nil {
		return o, fmt.Errorf("Shares: %v", err)
	}
	if o.RetentionTime, err = cast.ToIntE(m["retentiontime"]); err != nil {
		return o, fmt.Errorf("RetentionTime: %v", err)
	}
	if v, ok := m["cnratiomin"]; ok {
		if o.CNRatioMin, err = cast.ToFloat64E(v); err != nil {
			return o, fmt.Errorf("CNRatioMin: %v", err)
		}
	}
	if v, ok := m["cnratiomax"]; ok {
		if o.CNRatioMax, err = cast.ToFloat64E(v); err != nil {
			return o, fmt.Errorf("CNRatioMax: %v", err)
		}
	}
	return o, nil
}

func toFloat64SliceE(i interface{}) ([]float64, error) {
	if v, ok := i.([]float64); ok {
		return v, nil
	}
	list, err := cast.ToSliceE(i)
	if err != nil {
		return nil, err
	}
	o := make([]float64, len(list))
	for j, v := range list {
		if o[j], err = cast.ToFloat64E(v); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func toIntSliceE(s interface{}) ([]int, error) {
	switch v := s.(type) {
	case []int:
		return v, nil
	case []interface{}:
		o := make([]int, len(v))
		for i, val := range v {
			var err error
			if o[i], err = cast.ToIntE(val); err != nil {
				return nil, err
			}
		}
		return o, nil
	case string:
		var o []int
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("invalid type %#v", s)
	}
}

// getStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func getStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if v == "" {
			return o, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("biogas: %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("biogas: invalid type for %s: %#v", varName, i)
	}
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) map[string]string {
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output/outputdata_conti.csv")`)
	}
	f = os.ExpandEnv(f)
	if err := os.MkdirAll(filepath.Dir(f), os.ModePerm); err != nil {
		return f, fmt.Errorf("biogas: creating the OutputFile directory: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
