package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/interact"
)

type EventKind string

const (
	Press   EventKind = "press"
	Move    EventKind = "move"
	Release EventKind = "release"
)

// Event is one pointer action applied before the given tick runs.
type Event struct {
	Tick   int       `yaml:"tick"`
	Kind   EventKind `yaml:"kind"`
	Button string    `yaml:"button,omitempty"`
	X      float64   `yaml:"x"`
	Y      float64   `yaml:"y"`
	DX     float64   `yaml:"dx"`
	DY     float64   `yaml:"dy"`
}

// Perturbation kicks the fore tip with a random impulse every Every ticks.
type Perturbation struct {
	Every     int     `yaml:"every"`
	Magnitude float64 `yaml:"magnitude"`
	Seed      int64   `yaml:"seed"`
}

// Scenario is a scripted interactive session
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Ticks       int           `yaml:"ticks"`
	Events      []Event       `yaml:"events"`
	Perturb     *Perturbation `yaml:"perturb,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes and validates a scenario. Events are ordered by
// tick, keeping file order within a tick.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(sc.Events, func(i, j int) bool {
		return sc.Events[i].Tick < sc.Events[j].Tick
	})
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	var errs []error
	if sc.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("ticks must be positive, got %d", sc.Ticks))
	}
	for i, ev := range sc.Events {
		if ev.Tick < 0 || ev.Tick >= sc.Ticks {
			errs = append(errs, fmt.Errorf("event %d: tick %d outside [0, %d)", i, ev.Tick, sc.Ticks))
		}
		switch ev.Kind {
		case Press, Release:
			if _, err := interact.ParseButton(ev.Button); err != nil {
				errs = append(errs, fmt.Errorf("event %d: %w", i, err))
			}
		case Move:
		default:
			errs = append(errs, fmt.Errorf("event %d: unknown kind %q", i, ev.Kind))
		}
	}
	if p := sc.Perturb; p != nil {
		if p.Every <= 0 {
			errs = append(errs, fmt.Errorf("perturb every must be positive, got %d", p.Every))
		}
		if p.Magnitude < 0 {
			errs = append(errs, fmt.Errorf("perturb magnitude must be non-negative, got %g", p.Magnitude))
		}
	}
	return errors.Join(errs...)
}
