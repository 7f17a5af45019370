package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Species is a group of organisms whose pairwise compatibility distance
// to a designated representative genome falls below the speciation
// threshold. The representative is an owned clone that survives across
// generations even as member organisms come and go.
type Species struct {
	ID             int
	Representative *Genome
	Organisms      []*Organism

	ExpectedOffspring int
}

func newSpecies(id int, representative *Organism) *Species {
	return &Species{
		ID:             id,
		Representative: representative.Genome.Clone(),
		Organisms:      []*Organism{representative},
	}
}

// RankOrganisms sorts members from most to least fit.
func (s *Species) RankOrganisms() {
	sort.Slice(s.Organisms, func(i, j int) bool {
		return s.Organisms[i].Fitness > s.Organisms[j].Fitness
	})
}

// AdjustFitness applies explicit fitness sharing: each member's adjusted
// fitness is its raw fitness divided by species size, so a large species
// cannot dominate reproduction purely by headcount. Stagnation penalties
// from the full NEAT paper are deliberately not applied here.
func (s *Species) AdjustFitness() {
	size := float64(len(s.Organisms))
	for _, o := range s.Organisms {
		o.AdjustedFitness = o.Fitness / size
	}
}

// EliminateUnfit keeps only the top SurvivalThreshold fraction of
// members (plus one, so a species with at least one member always keeps
// a parent to reproduce from). Assumes members are already ranked.
func (s *Species) EliminateUnfit(params Params) {
	numParents := int(math.Floor(params.SurvivalThreshold*float64(len(s.Organisms)))) + 1
	if numParents < len(s.Organisms) {
		s.Organisms = s.Organisms[:numParents]
	}
}

// CalculateExpectedOffspring sums members' expected offspring, combines
// the fractional remainder with carry from prior species in the epoch
// (emitting one extra whole offspring if that sum exceeds 1), and stores
// the integer result. Returns the new carry, to be passed to the next
// species in epoch order. Spreading the fractional carry this way avoids
// systematically favouring the best-ranked species with rounding.
func (s *Species) CalculateExpectedOffspring(carry float64) float64 {
	var expected float64
	for _, o := range s.Organisms {
		expected += o.ExpectedOffspring
	}

	carry += expected - math.Floor(expected)
	if carry > 1 {
		expected++
		carry--
	}

	s.ExpectedOffspring = int(math.Floor(expected))
	return carry
}

// ChooseParentProportionally runs one roulette-wheel draw over members
// (already ranked, so accumulation order is fitness-descending) weighted
// by raw fitness, and returns the chosen member's index.
func (s *Species) ChooseParentProportionally(totalFitness float64, rng *rand.Rand) int {
	ballLandPoint := rng.Float64() * totalFitness

	idx := 0
	accumulated := s.Organisms[0].Fitness
	for accumulated < ballLandPoint {
		idx++
		accumulated += s.Organisms[idx].Fitness
	}
	return idx
}

// Reproduce generates exactly ExpectedOffspring child genomes. allSpecies
// is the full current species list, needed for interspecies mating; log,
// innovCounter and nodeCounter are the epoch-scoped mutation bookkeeping
// threaded through from Population.epoch.
func (s *Species) Reproduce(allSpecies []*Species, log *innovationLog, innovCounter, nodeCounter *idCounter, params Params, rng *rand.Rand) []*Genome {
	var offspring []*Genome

	var totalFitness float64
	for _, o := range s.Organisms {
		totalFitness += o.Fitness
	}

	for i := 0; i < s.ExpectedOffspring; i++ {
		switch {
		case i == 0 && s.ExpectedOffspring > 5:
			// Elitism: a large species always carries its champion over
			// unchanged.
			offspring = append(offspring, s.Organisms[0].Genome.Clone())

		case len(s.Organisms) == 1 || rng.Float64() < params.MutationOnlyOffspring:
			parent := s.Organisms[s.ChooseParentProportionally(totalFitness, rng)]
			child := parent.Genome.Clone()
			child.Mutate(log, innovCounter, nodeCounter, params, rng)
			offspring = append(offspring, child)

		default:
			firstParent := s.Organisms[s.ChooseParentProportionally(totalFitness, rng)]
			secondParent := s.pickSecondParent(firstParent, allSpecies, totalFitness, params, rng)

			child := FromCrossover(firstParent, secondParent, rng)

			// If the parents are (near-)identical, crossover alone would
			// produce a clone; mutate to keep exploring in that case.
			dist := firstParent.Genome.CompatibilityDistance(secondParent.Genome, params)
			if rng.Float64() < params.MutationAfterCrossover || dist == 0 {
				child.Mutate(log, innovCounter, nodeCounter, params, rng)
			}
			offspring = append(offspring, child)
		}
	}

	return offspring
}

func (s *Species) pickSecondParent(firstParent *Organism, allSpecies []*Species, totalFitness float64, params Params, rng *rand.Rand) *Organism {
	if len(allSpecies) > 1 && rng.Float64() < params.InterspeciesMatingRate {
		var other *Species
		for try := 0; try < 6; try++ {
			candidate := allSpecies[rng.Intn(len(allSpecies))]
			if candidate.ID != s.ID {
				other = candidate
				break
			}
		}
		if other != nil {
			return other.Organisms[0]
		}
	}
	return s.Organisms[s.ChooseParentProportionally(totalFitness, rng)]
}
