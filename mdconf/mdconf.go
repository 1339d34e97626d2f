// Package mdconf loads molecular dynamics experiment configurations.
//
// An experiment is a YAML document that parametrizes the external dynamics
// pipeline through declarative dependency injection: every component entry
// names a target constructor and its keyword arguments, and kwargs may nest
// further components.
// The package validates the documents but never instantiates anything; the
// configs are data consumed by the external framework.
package mdconf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Component names a target constructor and its keyword arguments.
type Component struct {
	Target string         `yaml:"target"`
	Kwargs map[string]any `yaml:"kwargs"`
}

// Name returns the last segment of the target path.
func (c *Component) Name() string {
	parts := strings.Split(c.Target, ".")
	return parts[len(parts)-1]
}

// Validate checks the component and every component nested in its kwargs.
func (c *Component) Validate() error {
	if c.Target == "" {
		return errors.Errorf("empty target")
	}
	for _, part := range strings.Split(c.Target, ".") {
		if part == "" {
			return errors.Errorf("target %q", c.Target)
		}
	}
	for key, v := range c.Kwargs {
		nested, ok := asComponent(v)
		if !ok {
			continue
		}
		if err := nested.Validate(); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%s.%s", c.Target, key))
		}
	}
	return nil
}

// asComponent interprets a kwarg value as a nested component.
// A mapping is a component when it carries a target key.
func asComponent(v any) (*Component, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	target, ok := m["target"].(string)
	if !ok {
		return nil, false
	}
	c := &Component{Target: target}
	if kwargs, ok := m["kwargs"].(map[string]any); ok {
		c.Kwargs = kwargs
	}
	return c, true
}

// System describes the simulated system.
type System struct {
	MoleculeFile string  `yaml:"molecule_file"`
	NReplicas    int     `yaml:"n_replicas"`
	Temperature  float64 `yaml:"temperature"`
}

// Dynamics describes the propagation scheme.
type Dynamics struct {
	Integrator Component  `yaml:"integrator"`
	Thermostat *Component `yaml:"thermostat"`
}

// Experiment is a complete dynamics experiment configuration.
type Experiment struct {
	Device     string      `yaml:"device"`
	Precision  int         `yaml:"precision"`
	Seed       *int64      `yaml:"seed"`
	System     System      `yaml:"system"`
	Calculator Component   `yaml:"calculator"`
	Dynamics   Dynamics    `yaml:"dynamics"`
	Logging    []Component `yaml:"logging"`
	NSteps     int         `yaml:"n_steps"`
}

// Load reads and validates an experiment file.
func Load(path string) (*Experiment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	e, err := Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return e, nil
}

// Parse parses and validates an experiment document.
func Parse(b []byte) (*Experiment, error) {
	e := &Experiment{}
	if err := yaml.Unmarshal(b, e); err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := e.Validate(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return e, nil
}

// Validate checks required sections and value ranges.
func (e *Experiment) Validate() error {
	switch e.Device {
	case "cpu", "cuda":
	default:
		return errors.Errorf("device %q", e.Device)
	}
	switch e.Precision {
	case 32, 64:
	default:
		return errors.Errorf("precision %d", e.Precision)
	}
	if e.System.MoleculeFile == "" {
		return errors.Errorf("no molecule file")
	}
	if e.System.NReplicas < 1 {
		return errors.Errorf("n_replicas %d", e.System.NReplicas)
	}
	if e.System.Temperature < 0 {
		return errors.Errorf("temperature %f", e.System.Temperature)
	}
	if e.NSteps < 1 {
		return errors.Errorf("n_steps %d", e.NSteps)
	}

	if err := e.Calculator.Validate(); err != nil {
		return errors.Wrap(err, "calculator")
	}
	if err := e.Dynamics.Integrator.Validate(); err != nil {
		return errors.Wrap(err, "integrator")
	}
	if e.Dynamics.Thermostat != nil {
		if err := e.Dynamics.Thermostat.Validate(); err != nil {
			return errors.Wrap(err, "thermostat")
		}
	}
	for i := range e.Logging {
		if err := e.Logging[i].Validate(); err != nil {
			return errors.Wrap(err, fmt.Sprintf("logging %d", i))
		}
	}
	return nil
}

// Components returns every top level component of the experiment.
func (e *Experiment) Components() []*Component {
	cs := []*Component{&e.Calculator, &e.Dynamics.Integrator}
	if e.Dynamics.Thermostat != nil {
		cs = append(cs, e.Dynamics.Thermostat)
	}
	for i := range e.Logging {
		cs = append(cs, &e.Logging[i])
	}
	return cs
}
