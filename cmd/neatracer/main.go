// Command neatracer runs the NEAT car-driving simulation headlessly:
// each generation, every car in the population drives around a track
// under its genome's network until it dies or the generation stagnates,
// then the population reproduces and the cycle repeats.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pthm-cable/neatracer/camera"
	"github.com/pthm-cable/neatracer/config"
	"github.com/pthm-cable/neatracer/neat"
	"github.com/pthm-cable/neatracer/sim"
	"github.com/pthm-cable/neatracer/telemetry"
	"github.com/pthm-cable/neatracer/track"
)

var (
	seed        = flag.Int64("seed", 1, "RNG seed for the evolutionary run")
	generations = flag.Int("generations", 100, "number of generations to run")
	populationN = flag.Int("population", 0, "population size (0 = use config default)")
	configPath  = flag.String("config", "", "path to a YAML config overriding the embedded defaults")
	outDir      = flag.String("out", "", "directory to write telemetry CSV/JSON to (empty disables output)")
)

// fitnessEpsilon is added to every car's raw fitness before handing it
// to Population.RecordFitness: a zero relative fitness degenerates
// roulette-wheel parent selection in Species.ChooseParentProportionally.
const fitnessEpsilon = 0.00001

func main() {
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "neatracer: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	slog.SetLogLoggerLevel(slog.LevelInfo)

	popSize := cfg.Population.Size
	if *populationN > 0 {
		popSize = *populationN
	}

	params := neat.Params{
		NodeMutationChance:     cfg.Mutation.NodeChance,
		LinkMutationChance:     cfg.Mutation.LinkChance,
		WeightMutationChance:   cfg.Mutation.WeightChance,
		WeightRandomizedChance: cfg.Mutation.WeightRandomizedChance,
		SignedWeightInit:       cfg.Mutation.SignedWeightInit,
		SpeciationThreshold:    cfg.Speciation.Threshold,
		SurvivalThreshold:      cfg.Speciation.SurvivalThreshold,
		MutationOnlyOffspring:  cfg.Speciation.MutationOnlyOffspring,
		MutationAfterCrossover: cfg.Speciation.MutationAfterCrossover,
		InterspeciesMatingRate: cfg.Speciation.InterspeciesMatingRate,
		C1:                     cfg.Speciation.C1,
		C2:                     cfg.Speciation.C2,
		C3:                     cfg.Speciation.C3,
	}

	pop := neat.New(popSize, cfg.Derived.NumInputs, cfg.Population.NumOutputs, params, *seed)

	out, err := telemetry.NewOutputManager(*outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "neatracer: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	hof := telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize)
	bookmarks := telemetry.NewBookmarkDetector()
	perf := telemetry.NewPerfCollector(30)
	cam := camera.New(1280, 720)

	tr := track.Oval(8, 6, 2)

	for gen := 0; gen < *generations; gen++ {
		perf.StartTick()

		perf.StartPhase(telemetry.PhaseEvaluate)
		fitness := runGeneration(pop, tr, cam)
		perf.StartPhase(telemetry.PhaseTelemetry)

		best := 0
		for i, f := range fitness {
			if f > fitness[best] {
				best = i
			}
			pop.RecordFitness(i, f+fitnessEpsilon)
		}

		mean, stddev, min, max := telemetry.ComputeFitnessStats(fitness)
		stats := telemetry.GenerationStats{
			Generation:            gen,
			PopulationSize:        len(pop.Organisms),
			SpeciesCount:          len(pop.Species),
			BestFitness:           max,
			MeanFitness:           mean,
			StdDevFitness:         stddev,
			WorstFitness:          min,
			BestGenomeNodes:       len(pop.Organisms[best].Genome.Nodes),
			BestGenomeConnections: len(pop.Organisms[best].Genome.Connections),
		}
		stats.LogStats()

		hof.Consider(pop.Organisms[best].Genome, max, gen)
		for _, b := range bookmarks.Check(stats) {
			b.LogBookmark()
			if err := out.WriteBookmark(b); err != nil {
				slog.Warn("failed to write bookmark", "error", err)
			}
		}
		if err := out.WriteTelemetry(stats); err != nil {
			slog.Warn("failed to write telemetry", "error", err)
		}

		perf.StartPhase(telemetry.PhaseReproduce)
		pop.Epoch()
		perf.EndTick()

		perfStats := perf.Stats()
		if err := out.WritePerf(perfStats, int32(gen)); err != nil {
			slog.Warn("failed to write perf", "error", err)
		}
	}

	if err := out.WriteHallOfFame(hof); err != nil {
		fmt.Fprintf(os.Stderr, "neatracer: %v\n", err)
		os.Exit(1)
	}
}

// runGeneration drives every car in one population around tr until all
// cars die or the generation stagnates, returning each car's final
// fitness. The camera follows whichever car has the highest live
// fitness, falling back to car 0 once every car is dead.
func runGeneration(pop *neat.Population, tr track.Track, cam *camera.Camera) []float64 {
	cfg := config.Cfg()
	networks := pop.BuildPhenotypes()

	s := sim.New(len(networks), tr)

	deadline := cfg.Sim.StagnationTicks
	bestSoFar := make([]float64, len(networks))

	// First tick's controls are all-neutral: there is no sensor reading
	// yet to feed the networks.
	controls := make([]sim.Controls, len(networks))

	for !s.AllDead() && deadline > 0 {
		sensors := s.Update(cfg.Sim.DT, controls)

		controls = make([]sim.Controls, len(networks))
		for i, net := range networks {
			if s.Dead(i) {
				continue
			}
			out := net.EvaluateInput(sensors[i][:])
			controls[i] = sim.Controls{
				Forward:  out[0] > 0.5,
				Backward: out[1] > 0.5,
				Left:     out[2] > 0.5,
				Right:    out[3] > 0.5,
			}
		}

		fitness := s.GetCarsFitness()
		improved := false
		for i, f := range fitness {
			if f > bestSoFar[i]+cfg.Sim.StagnationEpsilon {
				bestSoFar[i] = f
				improved = true
			}
		}
		if improved {
			deadline += cfg.Sim.StagnationPushbackTicks
		}
		deadline--

		trackBestCar(s)
		cam.Follow(s.Camera.X, s.Camera.Y)
	}

	return s.GetCarsFitness()
}

// trackBestCar points the simulation's camera at the car with the
// highest live fitness, falling back to car 0 if every car is dead.
func trackBestCar(s *sim.Simulation) {
	fitness := s.GetCarsFitness()
	best := 0
	bestFitness := -1.0
	for i, f := range fitness {
		if s.Dead(i) {
			continue
		}
		if f > bestFitness {
			bestFitness = f
			best = i
		}
	}
	s.TrackCar(best)
}
