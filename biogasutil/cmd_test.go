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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/biogas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatabase = "../testdata/substrates.csv"

// setTestConfig points the configuration at the example file and writes
// all outputs to a temporary directory.
func setTestConfig(t *testing.T) string {
	dir := t.TempDir()
	Cfg.Set("config", "../cmd/biogas/configExample.toml")
	Cfg.Set("SubstrateDatabase", testDatabase)
	Cfg.Set("OutputFile", filepath.Join(dir, "output", "outputdata_conti.csv"))
	Cfg.Set("PlotFile", filepath.Join(dir, "output", "daily_biogas_production.png"))
	Cfg.Set("WorkbookFile", filepath.Join(dir, "output", "biogas.xlsx"))
	Cfg.Set("MetricsFile", filepath.Join(dir, "output", "biogas.prom"))
	Cfg.Set("LogFile", "")
	return dir
}

func TestRunCmd(t *testing.T) {
	dir := setTestConfig(t)
	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs([]string{"run"})
	require.NoError(t, Root.Execute())

	for _, f := range []string{
		"outputdata_conti.csv",
		"outputdata_conti.log",
		"daily_biogas_production.png",
		"biogas.xlsx",
		"biogas.prom",
	} {
		_, err := os.Stat(filepath.Join(dir, "output", f))
		assert.NoError(t, err, f)
	}

	b, err := os.ReadFile(filepath.Join(dir, "output", "outputdata_conti.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 61)
	header := strings.Split(lines[0], ";")
	require.Len(t, header, 12)
	assert.Equal(t, []string{"day",
		"biogasMix1", "biogasMix2", "biogasMix3", "biogasMix4", "biogastotal",
		"methaneMix1", "methaneMix2", "methaneMix3", "methaneMix4", "methanetotal"}, header[:11])
	assert.Equal(t, "methanefrac", strings.ToLower(header[11]))

	assert.Contains(t, out.String(), "reactor production")
	assert.Contains(t, out.String(), "biogas completed")
}

func TestConfigCmd(t *testing.T) {
	setTestConfig(t)
	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs([]string{"config"})
	require.NoError(t, Root.Execute())

	var s biogas.Scenario
	_, err := toml.Decode(out.String(), &s)
	require.NoError(t, err)
	assert.Equal(t, 60, s.Horizon)
	assert.Equal(t, 500., s.Volume)
	require.Len(t, s.Mixtures, 4)
	assert.Equal(t, []int{0, 15, 30, 45},
		[]int{s.Mixtures[0].Start, s.Mixtures[1].Start, s.Mixtures[2].Start, s.Mixtures[3].Start})
	assert.Equal(t, biogas.Component{Substrate: "Sample3", Share: 0.5}, s.Mixtures[1].Components[1])
	assert.Equal(t, 35., s.Mixtures[0].CNRatioMax)
	assert.Equal(t, 0.88, s.Limits.MashedWaterContentMin)
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	Root.SetOutput(&out)
	Root.SetArgs([]string{"version"})
	require.NoError(t, Root.Execute())
	assert.Equal(t, "biogas v"+biogas.Version+"\n", out.String())
}

func TestRunCmdMissingSubstrate(t *testing.T) {
	setTestConfig(t)
	old := Cfg.Get("Mixtures")
	defer Cfg.Set("Mixtures", old)
	Cfg.Set("Mixtures", `[{"Name":"Mix 1","Substrates":["Straw"],"Shares":[1],"RetentionTime":30},
		{"Name":"Mix 2","Substrates":["CM"],"Shares":[1],"RetentionTime":30},
		{"Name":"Mix 3","Substrates":["CM"],"Shares":[1],"RetentionTime":30},
		{"Name":"Mix 4","Substrates":["CM"],"Shares":[1],"RetentionTime":30}]`)
	Root.SetOutput(&bytes.Buffer{})
	Root.SetArgs([]string{"run"})
	err := Root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Straw")
}
