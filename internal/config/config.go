package config

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/heatrod/internal/heat"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName     = "metal_plate"
	DefaultLength   = 10.0
	DefaultK        = 150000.0
	DefaultCp       = 1000.0
	DefaultDensity  = 1000.0
	DefaultNodes    = 10
	DefaultTInit    = 1000.0
	DefaultTimestep = 1.0
	DefaultMinStep  = 10
	DefaultMaxStep  = 200

	BoundaryDirichlet = "dirichlet"
	BoundaryNeumann   = "neumann"
)

type Config struct {
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
	Material   MaterialConfig   `yaml:"material" json:"material"`
	Mesh       MeshConfig       `yaml:"mesh" json:"mesh"`
	Boundary   BoundaryConfig   `yaml:"boundary" json:"boundary"`
}

type SimulationConfig struct {
	Timestep    float64 `yaml:"timestep" json:"timestep"`
	MinimumStep int     `yaml:"minimum_step" json:"minimum_step"`
	MaximumStep int     `yaml:"maximum_step" json:"maximum_step"`
}

type MaterialConfig struct {
	Name    string  `yaml:"name" json:"name"`
	Length  float64 `yaml:"length" json:"length"`
	K       float64 `yaml:"k" json:"k"`
	Cp      float64 `yaml:"cp" json:"cp"`
	Density float64 `yaml:"density" json:"density"`
}

type MeshConfig struct {
	Nodes int     `yaml:"nodes" json:"nodes"`
	TInit float64 `yaml:"t_init" json:"t_init"`
}

type BoundaryConfig struct {
	Kind  string  `yaml:"kind" json:"kind"`
	Left  float64 `yaml:"left" json:"left"`
	Right float64 `yaml:"right" json:"right"`
	Flux  float64 `yaml:"flux" json:"flux"`
}

// DefaultConfig is the metal plate run: 10 nodes over 10 m, k = 150000,
// fixed ends at 1000 and 1100, 200 iterations of 1 s.
func DefaultConfig() *Config {
	b := heat.DefaultBoundary()
	return &Config{
		Simulation: SimulationConfig{
			Timestep:    DefaultTimestep,
			MinimumStep: DefaultMinStep,
			MaximumStep: DefaultMaxStep,
		},
		Material: MaterialConfig{
			Name:    DefaultName,
			Length:  DefaultLength,
			K:       DefaultK,
			Cp:      DefaultCp,
			Density: DefaultDensity,
		},
		Mesh: MeshConfig{
			Nodes: DefaultNodes,
			TInit: DefaultTInit,
		},
		Boundary: BoundaryConfig{
			Kind:  BoundaryDirichlet,
			Left:  b.Left,
			Right: b.Right,
			Flux:  b.Flux,
		},
	}
}

// Load reads a YAML or INI file on top of DefaultConfig, picking the format
// from the extension.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return loadINI(path)
	default:
		return loadYAML(path)
	}
}

func loadYAML(path string) (*Config, error) {
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

func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	d := DefaultConfig()

	sim := file.Section("simulation")
	mat := file.Section("material")
	mesh := file.Section("mesh")
	bnd := file.Section("boundary")

	return &Config{
		Simulation: SimulationConfig{
			Timestep:    sim.Key("timestep").MustFloat64(d.Simulation.Timestep),
			MinimumStep: sim.Key("minimum_step").MustInt(d.Simulation.MinimumStep),
			MaximumStep: sim.Key("maximum_step").MustInt(d.Simulation.MaximumStep),
		},
		Material: MaterialConfig{
			Name:    mat.Key("name").MustString(d.Material.Name),
			Length:  mat.Key("length").MustFloat64(d.Material.Length),
			K:       mat.Key("k").MustFloat64(d.Material.K),
			Cp:      mat.Key("cp").MustFloat64(d.Material.Cp),
			Density: mat.Key("density").MustFloat64(d.Material.Density),
		},
		Mesh: MeshConfig{
			Nodes: mesh.Key("nodes").MustInt(d.Mesh.Nodes),
			TInit: mesh.Key("t_init").MustFloat64(d.Mesh.TInit),
		},
		Boundary: BoundaryConfig{
			Kind:  bnd.Key("kind").MustString(d.Boundary.Kind),
			Left:  bnd.Key("left").MustFloat64(d.Boundary.Left),
			Right: bnd.Key("right").MustFloat64(d.Boundary.Right),
			Flux:  bnd.Key("flux").MustFloat64(d.Boundary.Flux),
		},
	}, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) SimulationParameter() heat.SimulationParameter {
	return heat.SimulationParameter{
		Timestep:    c.Simulation.Timestep,
		MinimumStep: c.Simulation.MinimumStep,
		MaximumStep: c.Simulation.MaximumStep,
	}
}

func (c *Config) MaterialProperty() heat.MaterialProperty {
	return heat.MaterialProperty{
		Name:    c.Material.Name,
		Length:  c.Material.Length,
		K:       c.Material.K,
		Cp:      c.Material.Cp,
		Density: c.Material.Density,
	}
}

func (c *Config) HeatBoundary() heat.Boundary {
	return heat.Boundary{Left: c.Boundary.Left, Right: c.Boundary.Right, Flux: c.Boundary.Flux}
}

// Run is a validated configuration with a fresh mesh. F0 is already set.
type Run struct {
	Kind      string
	Parameter heat.SimulationParameter
	Material  heat.MaterialProperty
	Mesh      *heat.Mesh
	Boundary  heat.Boundary
}

func (c *Config) Build() (*Run, error) {
	kind := strings.ToLower(c.Boundary.Kind)
	if kind != BoundaryDirichlet && kind != BoundaryNeumann {
		return nil, fmt.Errorf("%w: unknown boundary kind %q", heat.ErrInvalidConfiguration, c.Boundary.Kind)
	}

	sp := c.SimulationParameter()
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	mp := c.MaterialProperty()
	if err := mp.Validate(); err != nil {
		return nil, err
	}

	mesh, err := heat.NewMesh(c.Mesh.Nodes, mp.Length, mp.Cp, c.Mesh.TInit, mp.Density)
	if err != nil {
		return nil, err
	}
	mesh.SetFourier(sp, mp)

	return &Run{
		Kind:      kind,
		Parameter: sp,
		Material:  mp,
		Mesh:      mesh,
		Boundary:  c.HeatBoundary(),
	}, nil
}

// Sequence returns the snapshot sequence of the configured boundary driver.
func (r *Run) Sequence() iter.Seq[heat.Field] {
	if r.Kind == BoundaryNeumann {
		return heat.NeumannWith(r.Parameter, r.Material, r.Mesh, r.Boundary)
	}
	return heat.DirichletWith(r.Parameter, r.Material, r.Mesh, r.Boundary)
}

// Bounds is the temperature range a stable fixed-end run stays within.
func (r *Run) Bounds() (lo, hi float64) {
	lo, hi = r.Mesh.T.Min(), r.Mesh.T.Max()
	for _, v := range []float64{r.Boundary.Left, r.Boundary.Right} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
