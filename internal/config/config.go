package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/arm"
	"github.com/san-kum/armsim/internal/continuous"
	"github.com/san-kum/armsim/internal/dynamo"
	"github.com/san-kum/armsim/internal/interact"
	"github.com/san-kum/armsim/internal/physics"
	"github.com/san-kum/armsim/internal/world"
)

const (
	DefaultWidth      = 1200.0
	DefaultHeight     = 800.0
	DefaultGravity    = -9800.0
	DefaultIterations = 350
	DefaultDt         = 1.0 / 60.0
	DefaultLowerBound = 0.0

	DefaultTheta     = 30.0
	DefaultOmega     = 400.0
	DefaultDuration  = 5.0
	DefaultSamples   = 200
	DefaultFirstStep = 0.1
	DefaultMinStep   = 1e-6
	DefaultAtol      = 0.1
	DefaultRtol      = 1e-3
	DefaultMaxSteps  = 500000
)

type Config struct {
	Scene     SceneConfig     `yaml:"scene"`
	Validator ValidatorConfig `yaml:"validator"`
}

type SceneConfig struct {
	Width       float64         `yaml:"width"`
	Height      float64         `yaml:"height"`
	Gravity     cp.Vector       `yaml:"gravity"`
	Iterations  uint            `yaml:"iterations"`
	Dt          float64         `yaml:"dt"`
	LowerBound  float64         `yaml:"lower_bound"`
	Arm         arm.Layout      `yaml:"arm"`
	Interaction interact.Config `yaml:"interaction"`
}

type InitStateConfig struct {
	Theta float64 `yaml:"theta"`
	Omega float64 `yaml:"omega"`
}

type SolverConfig struct {
	FirstStep float64 `yaml:"first_step"`
	MinStep   float64 `yaml:"min_step"`
	MaxStep   float64 `yaml:"max_step,omitempty"` // 0 means unbounded
	Atol      float64 `yaml:"atol"`
	Rtol      float64 `yaml:"rtol"`
	MaxSteps  int     `yaml:"max_steps"`
}

type ValidatorConfig struct {
	Params    physics.ArmParams `yaml:"params"`
	InitState InitStateConfig   `yaml:"init_state"`
	Duration  float64           `yaml:"duration"`
	Samples   int               `yaml:"samples"`
	Solver    SolverConfig      `yaml:"solver"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Width:       DefaultWidth,
			Height:      DefaultHeight,
			Gravity:     cp.Vector{X: 0, Y: DefaultGravity},
			Iterations:  DefaultIterations,
			Dt:          DefaultDt,
			LowerBound:  DefaultLowerBound,
			Arm:         arm.DefaultLayout(DefaultWidth, DefaultHeight),
			Interaction: interact.DefaultConfig(),
		},
		Validator: ValidatorConfig{
			Params:    physics.DefaultArmParams(),
			InitState: InitStateConfig{Theta: DefaultTheta, Omega: DefaultOmega},
			Duration:  DefaultDuration,
			Samples:   DefaultSamples,
			Solver: SolverConfig{
				FirstStep: DefaultFirstStep,
				MinStep:   DefaultMinStep,
				Atol:      DefaultAtol,
				Rtol:      DefaultRtol,
				MaxSteps:  DefaultMaxSteps,
			},
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads a YAML file over cfg; keys absent from the file keep cfg's
// values.
func Overlay(path string, cfg *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := c.WorldConfig(); err != nil {
		errs = append(errs, err)
	}
	if c.Scene.Width <= 0 || c.Scene.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: screen %gx%g", dynamo.ErrParameterBounds, c.Scene.Width, c.Scene.Height))
	}
	if err := c.Scene.Arm.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Scene.Interaction.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Validator.Params.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Validator.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: validator duration %g", dynamo.ErrParameterBounds, c.Validator.Duration))
	}
	if c.Validator.Samples < 1 {
		errs = append(errs, fmt.Errorf("%w: validator samples %d", dynamo.ErrParameterBounds, c.Validator.Samples))
	}
	s := c.Validator.Solver
	if s.FirstStep <= 0 || s.MinStep <= 0 || s.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("%w: solver steps must be positive", dynamo.ErrParameterBounds))
	}
	if s.Atol <= 0 && s.Rtol <= 0 {
		errs = append(errs, fmt.Errorf("%w: solver tolerance must be positive", dynamo.ErrParameterBounds))
	}
	return errors.Join(errs...)
}

func (c *Config) WorldConfig() (world.Config, error) {
	wc := world.Config{
		Gravity:    c.Scene.Gravity,
		Iterations: c.Scene.Iterations,
		Dt:         c.Scene.Dt,
	}
	return wc, wc.Validate()
}

func (v ValidatorConfig) InitialState() physics.ArmState {
	return physics.ArmState{Theta: v.InitState.Theta, Omega: v.InitState.Omega}
}

func (v ValidatorConfig) Grid() continuous.Grid {
	return continuous.Linspace(0, v.Duration, v.Samples)
}

func (v ValidatorConfig) Options() continuous.Options {
	opts := continuous.DefaultOptions()
	opts.FirstStep = v.Solver.FirstStep
	opts.MinStep = v.Solver.MinStep
	opts.MaxStep = math.Inf(1)
	if v.Solver.MaxStep > 0 {
		opts.MaxStep = v.Solver.MaxStep
	}
	opts.Tolerance = dynamo.Tolerance{Abs: v.Solver.Atol, Rel: v.Solver.Rtol}
	opts.MaxSteps = v.Solver.MaxSteps
	return opts
}

// Trajectory builds the configured continuous run.
func (v ValidatorConfig) Trajectory() (*continuous.Trajectory, error) {
	a, err := physics.NewArm(v.Params)
	if err != nil {
		return nil, err
	}
	return continuous.NewTrajectory(a, v.InitialState(), v.Grid(), v.Options())
}
