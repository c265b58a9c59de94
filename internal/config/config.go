// Package config loads the YAML scenario files driven by the vbind CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/delaneyj/vbind/reactive"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoTemplate  = errors.New("scenario has neither template nor html")
	ErrBadFailMode = errors.New("unknown fail_mode")
	ErrEmptyStep   = errors.New("step has no action")
)

const DefaultEl = "#app"

// Scenario describes a template, its data and a script of interactions.
type Scenario struct {
	Template string                `yaml:"template,omitempty"`
	HTML     string                `yaml:"html,omitempty"`
	El       string                `yaml:"el,omitempty"`
	Data     map[string]any        `yaml:"data,omitempty"`
	Methods  map[string]MethodSpec `yaml:"methods,omitempty"`
	Steps    []Step                `yaml:"steps,omitempty"`
	Dedupe   bool                  `yaml:"dedupe,omitempty"`
	FailMode string                `yaml:"fail_mode,omitempty"`

	dir string
}

// MethodSpec is a declarative event handler: the writes it performs.
type MethodSpec struct {
	Set map[string]any `yaml:"set"`
}

// Step is one scripted interaction; exactly one field is set.
type Step struct {
	Set   map[string]any `yaml:"set,omitempty"`
	Input *InputStep     `yaml:"input,omitempty"`
	Click *ClickStep     `yaml:"click,omitempty"`
}

type InputStep struct {
	Target string `yaml:"target"`
	Value  string `yaml:"value"`
}

type ClickStep struct {
	Target string `yaml:"target"`
}

func (s Step) String() string {
	switch {
	case s.Input != nil:
		return fmt.Sprintf("input %s = %q", s.Input.Target, s.Input.Value)
	case s.Click != nil:
		return "click " + s.Click.Target
	case len(s.Set) > 0:
		return fmt.Sprintf("set %v", s.Set)
	default:
		return "empty"
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	sc.dir = filepath.Dir(path)
	return sc, nil
}

// Parse decodes a scenario and fills in defaults.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Template == "" && sc.HTML == "" {
		return nil, ErrNoTemplate
	}
	if sc.El == "" {
		sc.El = DefaultEl
	}
	if _, err := sc.Mode(); err != nil {
		return nil, err
	}
	for i, step := range sc.Steps {
		if step.Input == nil && step.Click == nil && len(step.Set) == 0 {
			return nil, fmt.Errorf("step %d: %w", i, ErrEmptyStep)
		}
	}
	return &sc, nil
}

// Markup returns the inline html, or reads the template file relative to the
// scenario file.
func (sc *Scenario) Markup() (string, error) {
	if sc.HTML != "" {
		return sc.HTML, nil
	}
	path := sc.Template
	if !filepath.IsAbs(path) {
		path = filepath.Join(sc.dir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(b), nil
}

func (sc *Scenario) Mode() (reactive.FailMode, error) {
	switch sc.FailMode {
	case "", "fast", reactive.FailFast.String():
		return reactive.FailFast, nil
	case "collect", reactive.FailCollect.String():
		return reactive.FailCollect, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadFailMode, sc.FailMode)
	}
}
