package config

import "sort"

var Presets = map[string]map[string]*Config{
	BoundaryDirichlet: {
		"plate": preset(BoundaryDirichlet, 10, 10, 150000, 1, 10, 200),
		"short": preset(BoundaryDirichlet, 10, 10, 150000, 1, 10, 20),
		"long":  preset(BoundaryDirichlet, 40, 10, 150000, 0.1, 10, 2000),
	},
	BoundaryNeumann: {
		"plate":   preset(BoundaryNeumann, 10, 10, 150000, 1, 10, 200),
		"cooling": preset(BoundaryNeumann, 20, 10, 100000, 0.5, 10, 400),
	},
}

func preset(kind string, nodes int, length, k, timestep float64, minStep, maxStep int) *Config {
	cfg := DefaultConfig()
	cfg.Boundary.Kind = kind
	cfg.Mesh.Nodes = nodes
	cfg.Material.Length = length
	cfg.Material.K = k
	cfg.Simulation.Timestep = timestep
	cfg.Simulation.MinimumStep = minStep
	cfg.Simulation.MaximumStep = maxStep
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(kind, name string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
