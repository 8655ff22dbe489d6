package config

import "sort"

type Preset struct {
	Description string
	Apply       func(c *Config)
}

var Presets = map[string]Preset{
	"default": {
		Description: "the reference arm and validator run",
		Apply:       func(*Config) {},
	},
	"frictionless": {
		Description: "validator without friction, small swing about the -90 deg equilibrium",
		Apply: func(c *Config) {
			c.Validator.Params.Friction = 0
			c.Validator.InitState = InitStateConfig{Theta: -80, Omega: 0}
			c.Validator.Solver.FirstStep = 1e-3
			c.Validator.Solver.MinStep = 1e-9
			c.Validator.Solver.Atol = 1e-9
			c.Validator.Solver.Rtol = 1e-9
		},
	},
	"heavy-coin": {
		Description: "projectiles four times heavier",
		Apply: func(c *Config) {
			c.Scene.Interaction.Projectile.Mass = 240
		},
	},
	"moon": {
		Description: "one sixth gravity",
		Apply: func(c *Config) {
			c.Scene.Gravity.Y = -1620
		},
	},
	"loose-spring": {
		Description: "soft elbow spring",
		Apply: func(c *Config) {
			c.Scene.Arm.Spring.Stiffness = 1e4
			c.Scene.Arm.Spring.Damping = 500
		},
	},
}

// GetPreset returns a fresh default config with the named preset applied, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	p.Apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
