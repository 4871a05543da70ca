// Package config defines versioned scoring configuration documents: the
// weight map, veto thresholds and lock settings that govern a day's score.
//
// Documents arrive as YAML, are validated against an embedded CUE schema at
// publish time, and are stored as JSON payloads in the ledger. A published
// version is immutable; rule changes always produce a new version.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lifeos/internal/scoring"
)

//go:embed schema.cue
var schemaCUE string

// Season modes supported by season_mode_default.
const (
	SeasonStandard = "STANDARD"
	SeasonSprint   = "SPRINT"
	SeasonRecovery = "RECOVERY"
)

// LockSettings configure the override path: the bypass phrase a caller must
// supply to override a veto lock, and the cooldown before retrying.
type LockSettings struct {
	BypassPhrase string `json:"bypass_phrase" yaml:"bypass_phrase"`
	CooldownMins int    `json:"cooldown_mins" yaml:"cooldown_mins"`
}

// Document is one scoring configuration version as authored. Field names
// match the stored JSON payloads and the YAML publish format.
type Document struct {
	VersionName   string          `json:"version_name" yaml:"version_name"`
	SeasonMode    string          `json:"season_mode_default" yaml:"season_mode_default"`
	Weights       scoring.Weights `json:"weights" yaml:"weights"`
	Vetoes        scoring.Vetoes  `json:"veto_thresholds" yaml:"veto_thresholds"`
	Locks         LockSettings    `json:"lock_settings" yaml:"lock_settings"`
	ChangeLogNote string          `json:"change_log_note,omitempty" yaml:"change_log_note,omitempty"`
}

// Genesis returns the seed configuration used to bootstrap an empty
// registry.
func Genesis() Document {
	return Document{
		VersionName: "v1.0 Genesis",
		SeasonMode:  SeasonStandard,
		Weights: scoring.Weights{
			Engine:    0.4,
			Vessel:    0.3,
			Resources: 0.2,
			System:    0.1,
		},
		Vetoes: scoring.Vetoes{
			AlcoholUnits: 0,
			SleepMin:     5,
			MissedLogs:   1,
		},
		Locks: LockSettings{
			BypassPhrase: "I am ignoring my better judgement",
			CooldownMins: 60,
		},
		ChangeLogNote: "Initial Boot",
	}
}

// ParseYAML decodes a YAML configuration document. Unknown fields are
// rejected so typos surface at publish time rather than as silent defaults.
func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse config document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses a YAML configuration document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config document: %w", err)
	}
	return ParseYAML(data)
}

// Validate unifies the document with the embedded CUE schema and requires
// a fully concrete result. Returns the first schema violation found.
func (d *Document) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Document: %w", err)
	}

	val := ctx.Encode(d)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config document: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config document invalid: %w", err)
	}
	return nil
}

// WeightSum returns the sum of the four domain weights. Callers warn when
// the sum strays from 1.0; it is not enforced.
func (d *Document) WeightSum() float64 {
	w := d.Weights
	return w.Engine + w.Vessel + w.Resources + w.System
}

// WeightsBalanced reports whether the weights sum to 1.0 within a small
// tolerance.
func (d *Document) WeightsBalanced() bool {
	return math.Abs(d.WeightSum()-1.0) < 1e-9
}

// Payloads serializes the three stored JSON columns.
func (d *Document) Payloads() (weights, vetoes, locks string, err error) {
	wb, err := json.Marshal(d.Weights)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal weights: %w", err)
	}
	vb, err := json.Marshal(d.Vetoes)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal veto thresholds: %w", err)
	}
	lb, err := json.Marshal(d.Locks)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal lock settings: %w", err)
	}
	return string(wb), string(vb), string(lb), nil
}

// ParsePayloads reconstructs scoring rules from the stored JSON columns.
func ParsePayloads(weightsJSON, vetoesJSON string) (scoring.Weights, scoring.Vetoes, error) {
	var w scoring.Weights
	if err := json.Unmarshal([]byte(weightsJSON), &w); err != nil {
		return scoring.Weights{}, scoring.Vetoes{}, fmt.Errorf("unmarshal weights: %w", err)
	}
	var v scoring.Vetoes
	if err := json.Unmarshal([]byte(vetoesJSON), &v); err != nil {
		return scoring.Weights{}, scoring.Vetoes{}, fmt.Errorf("unmarshal veto thresholds: %w", err)
	}
	return w, v, nil
}
