// Package config loads and saves simulation configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultN           = 1000
	DefaultDensity     = 0.8
	DefaultCutoff      = 2.5
	DefaultSkin        = 0.3
	DefaultDt          = 0.005
	DefaultTemperature = 1.0
	DefaultGamma       = 1.0
)

type Config struct {
	N       int     `yaml:"n"`
	Density float64 `yaml:"density"`
	Cutoff  float64 `yaml:"cutoff"`
	Skin    float64 `yaml:"skin"`
	Dt      float64 `yaml:"dt"`
	Seed    int64   `yaml:"seed"`

	Loops        int `yaml:"loops"`
	StepsPerLoop int `yaml:"steps_per_loop"`

	LJ         LJConfig         `yaml:"lj"`
	Warmup     WarmupConfig     `yaml:"warmup"`
	Thermostat ThermostatConfig `yaml:"thermostat"`
}

type LJConfig struct {
	Epsilon float64 `yaml:"epsilon"`
	Sigma   float64 `yaml:"sigma"`
}

type WarmupConfig struct {
	Loops        int     `yaml:"loops"`
	StepsPerLoop int     `yaml:"steps_per_loop"`
	CapRadius    float64 `yaml:"cap_radius"`
	EpsilonStart float64 `yaml:"epsilon_start"`
}

type ThermostatConfig struct {
	// Type selects the thermostat: "dpd", "langevin" or "none".
	Type        string  `yaml:"type"`
	Gamma       float64 `yaml:"gamma"`
	TGamma      float64 `yaml:"tgamma"`
	Temperature float64 `yaml:"temperature"`
	// Viscosity enables dyadic stress accumulation during pair kernels.
	Viscosity bool `yaml:"viscosity"`
}

func Default() *Config {
	return &Config{
		N:            DefaultN,
		Density:      DefaultDensity,
		Cutoff:       DefaultCutoff,
		Skin:         DefaultSkin,
		Dt:           DefaultDt,
		Loops:        50,
		StepsPerLoop: 100,
		LJ: LJConfig{
			Epsilon: 1.0,
			Sigma:   1.0,
		},
		Warmup: WarmupConfig{
			Loops:        50,
			StepsPerLoop: 100,
			CapRadius:    0.6,
			EpsilonStart: 0.1,
		},
		Thermostat: ThermostatConfig{
			Type:        "dpd",
			Gamma:       DefaultGamma,
			Temperature: DefaultTemperature,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
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
	if c.N <= 0 {
		return fmt.Errorf("config: n must be positive, got %d", c.N)
	}
	if c.Density <= 0 {
		return fmt.Errorf("config: density must be positive, got %f", c.Density)
	}
	if c.Cutoff <= 0 {
		return fmt.Errorf("config: cutoff must be positive, got %f", c.Cutoff)
	}
	if c.Skin < 0 {
		return fmt.Errorf("config: skin must be non-negative, got %f", c.Skin)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	switch c.Thermostat.Type {
	case "dpd", "langevin", "none", "":
	default:
		return fmt.Errorf("config: unknown thermostat %q", c.Thermostat.Type)
	}
	if c.Thermostat.Gamma < 0 || c.Thermostat.TGamma < 0 {
		return fmt.Errorf("config: friction coefficients must be non-negative")
	}
	if c.Thermostat.Temperature < 0 {
		return fmt.Errorf("config: temperature must be non-negative")
	}
	return nil
}
