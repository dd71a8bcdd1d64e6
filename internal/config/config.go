package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultT1       = 1.0
	DefaultDt0      = 0.01
	DefaultAtol     = 1e-6
	DefaultRtol     = 1e-6
	DefaultMaxSteps = 10000
)

type Config struct {
	Model    string  `yaml:"model"`
	Scheme   string  `yaml:"scheme"`
	T0       float64 `yaml:"t0"`
	T1       float64 `yaml:"t1"`
	Dt0      float64 `yaml:"dt0"`
	Adaptive bool    `yaml:"adaptive"`
	Atol     float64 `yaml:"atol"`
	Rtol     float64 `yaml:"rtol"`
	MaxSteps int     `yaml:"max_steps"`
	Seed     int64   `yaml:"seed"`
	Adjoint  string  `yaml:"adjoint"`

	InitState []float64 `yaml:"init_state"`
	Args      []float64 `yaml:"args"`
	SaveAt    []float64 `yaml:"save_at"`

	Controller ControllerConfig `yaml:"controller"`
}

// ControllerConfig exposes the adaptive controller's tuning values; zero
// fields keep the controller defaults.
type ControllerConfig struct {
	Safety    float64 `yaml:"safety"`
	MinFactor float64 `yaml:"min_factor"`
	MaxFactor float64 `yaml:"max_factor"`
	KP        float64 `yaml:"kp"`
	KI        float64 `yaml:"ki"`
	MinDt     float64 `yaml:"min_dt"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:    "decay",
		Scheme:   "dopri5",
		T0:       0,
		T1:       DefaultT1,
		Dt0:      DefaultDt0,
		Atol:     DefaultAtol,
		Rtol:     DefaultRtol,
		MaxSteps: DefaultMaxSteps,
		Adjoint:  "direct",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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
