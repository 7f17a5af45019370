package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds aggregated statistics for a single generation.
type GenerationStats struct {
	Generation     int     `csv:"generation"`
	PopulationSize int     `csv:"population_size"`
	SpeciesCount   int     `csv:"species_count"`
	BestFitness    float64 `csv:"best_fitness"`
	MeanFitness    float64 `csv:"mean_fitness"`
	StdDevFitness  float64 `csv:"stddev_fitness"`
	WorstFitness   float64 `csv:"worst_fitness"`

	// BestGenomeNodes/BestGenomeConnections track topology growth of the
	// generation's fittest genome.
	BestGenomeNodes       int `csv:"best_genome_nodes"`
	BestGenomeConnections int `csv:"best_genome_connections"`
}

// ComputeFitnessStats derives the mean, population standard deviation,
// and min/max of a generation's fitness values. Returns all zeros for
// an empty slice.
func ComputeFitnessStats(values []float64) (mean, stddev, min, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean, stddev = stat.PopMeanStdDev(values, nil)

	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	return mean, stddev, min, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population_size", s.PopulationSize),
		slog.Int("species_count", s.SpeciesCount),
		slog.Float64("best_fitness", s.BestFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("stddev_fitness", s.StdDevFitness),
		slog.Float64("worst_fitness", s.WorstFitness),
		slog.Int("best_genome_nodes", s.BestGenomeNodes),
		slog.Int("best_genome_connections", s.BestGenomeConnections),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation", "stats", s)
}
