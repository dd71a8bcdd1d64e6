package config

var Presets = map[string]map[string]*Config{
	"decay": {
		"quick": {
			Model: "decay", Scheme: "dopri5", T1: 1, Dt0: 0.1,
			InitState: []float64{2}, Args: []float64{1},
		},
		"tight": {
			Model: "decay", Scheme: "dopri5", T1: 1, Dt0: 0.1,
			Adaptive: true, Atol: 1e-10, Rtol: 1e-10,
			InitState: []float64{2}, Args: []float64{1},
		},
	},
	"oscillator": {
		"period": {
			Model: "oscillator", Scheme: "dopri5", T1: 6.2832, Dt0: 0.01,
			InitState: []float64{1, 0}, Args: []float64{1},
		},
		"symplectic": {
			Model: "oscillator", Scheme: "leapfrog", T1: 100, Dt0: 0.01,
			InitState: []float64{1, 0}, Args: []float64{1},
		},
	},
	"vanderpol": {
		"relaxed": {
			Model: "vanderpol", Scheme: "dopri5", T1: 20, Dt0: 0.01,
			Adaptive: true, Atol: 1e-8, Rtol: 1e-8,
			InitState: []float64{2, 0}, Args: []float64{1},
		},
		"stiff": {
			Model: "vanderpol", Scheme: "ieuler", T1: 20, Dt0: 0.001,
			InitState: []float64{2, 0}, Args: []float64{100},
		},
	},
	"gbm": {
		"market": {
			Model: "gbm", Scheme: "euler", T1: 1, Dt0: 0.001, Seed: 42,
			InitState: []float64{1}, Args: []float64{0.05, 0.2},
		},
	},
}

func GetPreset(model, name string) *Config {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	return group[name]
}

func ListPresets(model string) []string {
	group, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
