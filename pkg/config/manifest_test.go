package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const tabsManifest = `
name: tabs
min_version: v0.2.0
conductor: one_active
strategy: partial
screens:
  - name: editor
    can_close: false
  - name: preview
    fail_on: activate
steps:
  - activate_root
  - activate editor
  - close editor
  - can_close
  - close_root
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(tabsManifest))
	require.NoError(t, err)

	assert.Equal(t, "tabs", m.Name)
	assert.Equal(t, KindOneActive, m.Conductor)
	assert.Equal(t, StrategyPartial, m.Strategy)
	require.Len(t, m.Screens, 2)
	assert.False(t, m.Screens[0].AllowsClose())
	assert.True(t, m.Screens[1].AllowsClose())
	assert.Equal(t, "activate", m.Screens[1].FailOn)
	assert.Equal(t, []Step{
		{Op: StepActivateRoot},
		{Op: StepActivate, Target: "editor"},
		{Op: StepClose, Target: "editor"},
		{Op: StepCanClose},
		{Op: StepCloseRoot},
	}, m.Steps)

	s, ok := m.Screen("preview")
	assert.True(t, ok)
	assert.Equal(t, "preview", s.Name)
	_, ok = m.Screen("missing")
	assert.False(t, ok)
}

func TestParseManifestDefaults(t *testing.T) {
	m, err := ParseManifest([]byte("name: x\nscreens: [{name: a}]\nsteps: [activate a]\n"))
	require.NoError(t, err)
	assert.Equal(t, KindSingle, m.Conductor)
	assert.Equal(t, StrategyDefault, m.Strategy)
}

func TestParseManifestErrors(t *testing.T) {
	tests := map[string]string{
		"empty":            "",
		"unknown field":    "name: x\ncolour: red\n",
		"unknown kind":     "conductor: tree\n",
		"unknown strategy": "strategy: vote\n",
		"bad version":      "min_version: latest\n",
		"unnamed screen":   "screens: [{can_close: true}]\n",
		"duplicate screen": "screens: [{name: a}, {name: a}]\n",
		"unknown hook":     "screens: [{name: a, fail_on: render}]\n",
		"unknown step":     "steps: [jump]\n",
		"missing target":   "screens: [{name: a}]\nsteps: [activate]\n",
		"extra argument":   "steps: [can_close now]\n",
		"unknown target":   "screens: [{name: a}]\nsteps: [close b]\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestStepRoundTrip(t *testing.T) {
	out, err := yaml.Marshal([]Step{{Op: StepActivate, Target: "a"}, {Op: StepCanClose}})
	require.NoError(t, err)
	assert.Equal(t, "- activate a\n- can_close\n", string(out))
}

func TestCheckVersion(t *testing.T) {
	m := &Manifest{Name: "x", MinVersion: "v0.2.0"}
	assert.NoError(t, m.CheckVersion("v0.2.0"))
	assert.NoError(t, m.CheckVersion("v1.0.0"))
	assert.NoError(t, m.CheckVersion("dev"))
	assert.Error(t, m.CheckVersion("v0.1.9"))

	assert.NoError(t, (&Manifest{}).CheckVersion("v0.0.1"))
}

func TestLoadManifest(t *testing.T) {
	path := writeFile(t, "tabs.yaml", tabsManifest)
	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "tabs", m.Name)

	_, err = LoadManifest(path + ".missing")
	assert.Error(t, err)
}
