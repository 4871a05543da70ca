package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
version_name: "v1.1 Sprint Season"
season_mode_default: SPRINT
weights:
  engine: 0.5
  vessel: 0.2
  resources: 0.2
  system: 0.1
veto_thresholds:
  alcohol_units: 0
  sleep_min: 5
  missed_logs: 1
lock_settings:
  bypass_phrase: "I am ignoring my better judgement"
  cooldown_mins: 60
change_log_note: "Sprint focus - engine weight up"
`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "v1.1 Sprint Season", doc.VersionName)
	assert.Equal(t, SeasonSprint, doc.SeasonMode)
	assert.Equal(t, 0.5, doc.Weights.Engine)
	assert.Equal(t, 5, doc.Vetoes.SleepMin)
	assert.Equal(t, 60, doc.Locks.CooldownMins)
}

func TestParseYAML_RejectsUnknownFields(t *testing.T) {
	bad := sampleYAML + "\nsurprise_field: true\n"
	_, err := ParseYAML([]byte(bad))
	require.Error(t, err, "typos must fail at parse, not default silently")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v1.1 Sprint Season", doc.VersionName)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate_Genesis(t *testing.T) {
	doc := Genesis()
	assert.NoError(t, doc.Validate())
	assert.True(t, doc.WeightsBalanced())
}

func TestValidate_SchemaViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"empty version name", func(d *Document) { d.VersionName = "" }},
		{"unknown season mode", func(d *Document) { d.SeasonMode = "OFFSEASON" }},
		{"negative weight", func(d *Document) { d.Weights.Engine = -0.1 }},
		{"negative alcohol threshold", func(d *Document) { d.Vetoes.AlcoholUnits = -1 }},
		{"sleep floor above scale", func(d *Document) { d.Vetoes.SleepMin = 11 }},
		{"empty bypass phrase", func(d *Document) { d.Locks.BypassPhrase = "" }},
		{"negative cooldown", func(d *Document) { d.Locks.CooldownMins = -5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Genesis()
			tc.mutate(&doc)
			assert.Error(t, doc.Validate())
		})
	}
}

func TestWeightsBalanced(t *testing.T) {
	doc := Genesis()
	assert.True(t, doc.WeightsBalanced())

	doc.Weights.System = 0.2 // sum 1.1
	assert.False(t, doc.WeightsBalanced())
	assert.InDelta(t, 1.1, doc.WeightSum(), 1e-9)
}

func TestPayloads_RoundTrip(t *testing.T) {
	doc := Genesis()

	weights, vetoes, locks, err := doc.Payloads()
	require.NoError(t, err)
	assert.NotEmpty(t, locks)

	w, v, err := ParsePayloads(weights, vetoes)
	require.NoError(t, err)
	assert.Equal(t, doc.Weights, w)
	assert.Equal(t, doc.Vetoes, v)
}

func TestParsePayloads_Malformed(t *testing.T) {
	_, _, err := ParsePayloads("{not json", "{}")
	require.Error(t, err)

	_, _, err = ParsePayloads("{}", "nope")
	require.Error(t, err)
}
