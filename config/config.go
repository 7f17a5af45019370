// Package config provides configuration loading and access for the
// driving simulation and its NEAT population.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and evolution configuration parameters.
type Config struct {
	Sim        SimConfig        `yaml:"sim"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Speciation SpeciationConfig `yaml:"speciation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds the numeric constants affecting observable simulation
// behaviour.
type SimConfig struct {
	DT                float64 `yaml:"dt"`
	MaxVelocity       float64 `yaml:"max_velocity"`
	FrictionAccel     float64 `yaml:"friction_accel"`
	CarAcceleration   float64 `yaml:"car_acceleration"`
	CarRotationSpeed  float64 `yaml:"car_rotation_speed"`
	MaxRayLength      float64 `yaml:"max_ray_length"`
	RayAngleDegrees   float64 `yaml:"ray_angle_degrees"`
	BoundingBoxWidth  float64 `yaml:"bounding_box_width"`
	BoundingBoxHeight float64 `yaml:"bounding_box_height"`
	GridSize          float64 `yaml:"grid_size"`
	WallInsert        float64 `yaml:"wall_insert"`
	FitnessScale      float64 `yaml:"fitness_scale"`

	// StagnationEpsilon/StagnationTicks/StagnationPushbackTicks gate when
	// the driver loop ends a generation early: a generation's deadline is
	// StagnationTicks ticks away; any car improving its fitness by more
	// than StagnationEpsilon pushes the deadline back by
	// StagnationPushbackTicks. This is a tick-quantized port of the
	// original's wall-clock "1000ms budget, +100ms on progress" rule.
	StagnationEpsilon       float64 `yaml:"stagnation_epsilon"`
	StagnationTicks         int     `yaml:"stagnation_ticks"`
	StagnationPushbackTicks int     `yaml:"stagnation_pushback_ticks"`
}

// PopulationConfig holds Population construction parameters.
type PopulationConfig struct {
	Size       int `yaml:"size"`
	NumOutputs int `yaml:"num_outputs"`
	Seed       int64 `yaml:"seed"`
}

// MutationConfig holds genome mutation rates.
type MutationConfig struct {
	NodeChance             float64 `yaml:"node_chance"`
	LinkChance             float64 `yaml:"link_chance"`
	WeightChance           float64 `yaml:"weight_chance"`
	WeightRandomizedChance float64 `yaml:"weight_randomized_chance"`
	SignedWeightInit       bool    `yaml:"signed_weight_init"`
}

// SpeciationConfig holds speciation and reproduction parameters.
type SpeciationConfig struct {
	Threshold              float64 `yaml:"threshold"`
	SurvivalThreshold       float64 `yaml:"survival_threshold"`
	MutationOnlyOffspring  float64 `yaml:"mutation_only_offspring"`
	MutationAfterCrossover float64 `yaml:"mutation_after_crossover"`
	InterspeciesMatingRate float64 `yaml:"interspecies_mating_rate"`
	C1                     float64 `yaml:"c1"`
	C2                     float64 `yaml:"c2"`
	C3                     float64 `yaml:"c3"`
}

// TelemetryConfig holds telemetry collection parameters.
type TelemetryConfig struct {
	HallOfFameSize int `yaml:"hall_of_fame_size"`

	// ChampionMultiplier gates the "new champion" bookmark: the best
	// fitness seen must beat the previous best by this factor. The first
	// generation, which has no previous best, never fires it.
	ChampionMultiplier float64 `yaml:"champion_multiplier"`

	// StagnationBookmarkGens is how many consecutive non-improving
	// generations must pass before a recovery is worth bookmarking.
	StagnationBookmarkGens int `yaml:"stagnation_bookmark_gens"`

	// SpeciesSpikeMultiplier gates the "species count spike" bookmark.
	SpeciesSpikeMultiplier float64 `yaml:"species_spike_multiplier"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	// NumInputs is the network input width: normalized velocity plus
	// three sight-ray readings.
	NumInputs int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded
// defaults if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.NumInputs = 4 // normalized velocity + 3 sight rays
}
