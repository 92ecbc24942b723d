package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ConductorKind selects the conductor a scenario drives.
type ConductorKind string

const (
	KindSingle    ConductorKind = "single"
	KindOneActive ConductorKind = "one_active"
	KindAllActive ConductorKind = "all_active"
)

// Close strategies a scenario can select.
const (
	StrategyDefault = "default"
	StrategyPartial = "partial"
)

// Hooks a scenario screen can be told to fail.
var Hooks = []string{"initialize", "activate", "activated", "deactivate", "can_close"}

// Manifest describes a scripted lifecycle scenario.
//
//	name: tabs
//	conductor: one_active
//	screens:
//	  - name: editor
//	    can_close: false
//	  - name: preview
//	steps:
//	  - activate_root
//	  - activate editor
//	  - activate preview
//	  - close editor
//	  - can_close
type Manifest struct {
	Name string `yaml:"name"`
	// MinVersion is the oldest conductor release that runs the scenario.
	MinVersion string        `yaml:"min_version,omitempty"`
	Conductor  ConductorKind `yaml:"conductor,omitempty"`
	Strategy   string        `yaml:"strategy,omitempty"`
	Screens    []ScreenSpec  `yaml:"screens"`
	Steps      []Step        `yaml:"steps"`
}

// ScreenSpec describes one scenario screen.
type ScreenSpec struct {
	Name string `yaml:"name"`
	// CanClose is the answer of the screen's close guard. Unset allows.
	CanClose *bool `yaml:"can_close,omitempty"`
	// FailOn names a hook that returns an error.
	FailOn string `yaml:"fail_on,omitempty"`
}

// AllowsClose reports the screen's close guard answer.
func (s ScreenSpec) AllowsClose() bool {
	return s.CanClose == nil || *s.CanClose
}

// StepOp is a scenario operation.
type StepOp string

const (
	StepActivateRoot   StepOp = "activate_root"
	StepDeactivateRoot StepOp = "deactivate_root"
	StepCloseRoot      StepOp = "close_root"
	StepCanClose       StepOp = "can_close"
	StepActivate       StepOp = "activate"
	StepDeactivate     StepOp = "deactivate"
	StepClose          StepOp = "close"
)

func (op StepOp) takesTarget() bool {
	switch op {
	case StepActivate, StepDeactivate, StepClose:
		return true
	}
	return false
}

func (op StepOp) known() bool {
	switch op {
	case StepActivateRoot, StepDeactivateRoot, StepCloseRoot, StepCanClose, StepActivate, StepDeactivate, StepClose:
		return true
	}
	return false
}

// Step is one scenario operation, written as "op" or "op target".
type Step struct {
	Op     StepOp
	Target string
}

// ParseStep parses "op" or "op target".
func ParseStep(s string) (Step, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Step{}, errors.New("empty step")
	}
	step := Step{Op: StepOp(fields[0])}
	if !step.Op.known() {
		return Step{}, fmt.Errorf("unknown step %q", fields[0])
	}
	switch {
	case step.Op.takesTarget() && len(fields) != 2:
		return Step{}, fmt.Errorf("step %q needs one screen name", s)
	case !step.Op.takesTarget() && len(fields) != 1:
		return Step{}, fmt.Errorf("step %q takes no arguments", s)
	}
	if len(fields) == 2 {
		step.Target = fields[1]
	}
	return step, nil
}

func (s Step) String() string {
	if s.Target == "" {
		return string(s.Op)
	}
	return string(s.Op) + " " + s.Target
}

// UnmarshalYAML decodes a step from a scalar.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	step, err := ParseStep(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*s = step
	return nil
}

// MarshalYAML encodes a step as a scalar.
func (s Step) MarshalYAML() (any, error) {
	return s.String(), nil
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates a manifest. Unknown fields are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, err
	}
	if m.Conductor == "" {
		m.Conductor = KindSingle
	}
	if m.Strategy == "" {
		m.Strategy = StrategyDefault
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks kinds, names and step targets.
func (m *Manifest) Validate() error {
	switch m.Conductor {
	case KindSingle, KindOneActive, KindAllActive:
	default:
		return fmt.Errorf("unknown conductor kind %q", m.Conductor)
	}
	switch m.Strategy {
	case StrategyDefault, StrategyPartial:
	default:
		return fmt.Errorf("unknown close strategy %q", m.Strategy)
	}
	if m.MinVersion != "" && !semver.IsValid(m.MinVersion) {
		return fmt.Errorf("min_version %q is not a semantic version", m.MinVersion)
	}

	seen := make(map[string]bool, len(m.Screens))
	for i, s := range m.Screens {
		if s.Name == "" {
			return fmt.Errorf("screen %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate screen %q", s.Name)
		}
		seen[s.Name] = true
		if s.FailOn != "" && !slices.Contains(Hooks, s.FailOn) {
			return fmt.Errorf("screen %q: unknown hook %q", s.Name, s.FailOn)
		}
	}

	for i, step := range m.Steps {
		if step.Op.takesTarget() && !seen[step.Target] {
			return fmt.Errorf("step %d (%s): unknown screen %q", i, step, step.Target)
		}
	}
	return nil
}

// CheckVersion reports an error when version is a release older than
// MinVersion. Development builds, whose version is not semantic, pass.
func (m *Manifest) CheckVersion(version string) error {
	if m.MinVersion == "" || !semver.IsValid(version) {
		return nil
	}
	if semver.Compare(version, m.MinVersion) < 0 {
		return fmt.Errorf("scenario %q needs conductor %s or newer, this is %s", m.Name, m.MinVersion, version)
	}
	return nil
}

// Screen returns the screen named name.
func (m *Manifest) Screen(name string) (ScreenSpec, bool) {
	for _, s := range m.Screens {
		if s.Name == name {
			return s, true
		}
	}
	return ScreenSpec{}, false
}

