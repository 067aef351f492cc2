// Package scenario loads and replays scripted sequences of operations against
// an observable value.
package scenario

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/observe/pkg/errors"
)

// Op names a scenario step.
type Op string

const (
	OpSet          Op = "set"
	OpSetSilently  Op = "set_silently"
	OpSetIfChanged Op = "set_if_changed"
	OpTrigger      Op = "trigger"
	OpMutate       Op = "mutate"
	OpAttach       Op = "attach"
	OpDrop         Op = "drop"
	OpExpect       Op = "expect"
)

// Scenario is a scripted run against a single observable integer.
type Scenario struct {
	// Requires is the minimum tool version, as a semantic version.
	Requires string `yaml:"requires,omitempty"`
	// Initial is the starting value.
	Initial int64 `yaml:"initial"`
	// Observers are attached, in order, before the first step.
	Observers []string `yaml:"observers,omitempty"`
	// Steps are executed in order.
	Steps []Step `yaml:"steps"`
}

// Step is a single operation.
type Step struct {
	Op Op `yaml:"op"`

	// Value is the operand of set, set_silently and set_if_changed, and the
	// expected value of expect.
	Value *int64 `yaml:"value,omitempty"`
	// Observer names the observer for attach and drop.
	Observer string `yaml:"observer,omitempty"`
	// Add and Mul select the mutate function; exactly one must be set.
	Add *int64 `yaml:"add,omitempty"`
	Mul *int64 `yaml:"mul,omitempty"`
	// Subscribers is the expected number of relations held for named
	// observers. A dropped observer still counts until a pass prunes it.
	Subscribers *int `yaml:"subscribers,omitempty"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.Error{
			Op:   "scenario.Load",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		}
	}
	return Parse(data)
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if stderrors.Is(err, io.EOF) {
			err = fmt.Errorf("empty scenario")
		}
		return nil, &errors.Error{
			Op:   "scenario.Parse",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("failed to parse scenario: %w", err),
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario for structural mistakes.
func (s *Scenario) Validate() error {
	if s.Requires != "" && !semver.IsValid(s.Requires) {
		return &errors.Error{
			Op:   "scenario.Validate",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("requires: %q is not a semantic version (want e.g. v0.1.0)", s.Requires),
		}
	}

	seen := make(map[string]bool, len(s.Observers))
	for _, name := range s.Observers {
		if name == "" {
			return configError(0, fmt.Errorf("observer names cannot be empty"))
		}
		if seen[name] {
			return configError(0, fmt.Errorf("observer %q listed twice", name))
		}
		seen[name] = true
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return configError(i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Op {
	case OpSet, OpSetSilently, OpSetIfChanged:
		if st.Value == nil {
			return fmt.Errorf("%s requires value", st.Op)
		}
	case OpTrigger:
	case OpMutate:
		if (st.Add == nil) == (st.Mul == nil) {
			return fmt.Errorf("mutate requires exactly one of add or mul")
		}
	case OpAttach, OpDrop:
		if st.Observer == "" {
			return fmt.Errorf("%s requires observer", st.Op)
		}
	case OpExpect:
		if st.Value == nil && st.Subscribers == nil {
			return fmt.Errorf("expect requires value or subscribers")
		}
	case "":
		return fmt.Errorf("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// CheckVersion reports an error if the scenario requires a newer version than
// version. A scenario without requires accepts any version.
func (s *Scenario) CheckVersion(version string) error {
	if s.Requires == "" {
		return nil
	}
	if !semver.IsValid(version) {
		return &errors.Error{
			Op:   "scenario.CheckVersion",
			Kind: errors.KindVersion,
			Err:  fmt.Errorf("tool version %q is not a semantic version", version),
		}
	}
	if semver.Compare(version, s.Requires) < 0 {
		return &errors.Error{
			Op:   "scenario.CheckVersion",
			Kind: errors.KindVersion,
			Err:  fmt.Errorf("scenario requires %s, this is %s", s.Requires, version),
		}
	}
	return nil
}

func configError(step int, err error) error {
	return &errors.Error{
		Op:   "scenario.Validate",
		Kind: errors.KindConfig,
		Step: step,
		Err:  err,
	}
}
