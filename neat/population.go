package neat

import (
	"fmt"
	"math/rand"
	"sort"
)

// Population owns a generation of Organisms and the monotonic counters
// (innovation, node, species) that must stay globally unique across the
// whole evolutionary run. These counters, and the rng, are the only
// state shared across component boundaries; they are only ever touched
// serially from Epoch.
type Population struct {
	size       int
	numInputs  int
	numOutputs int
	params     Params
	rng        *rand.Rand

	Organisms []*Organism
	Species   []*Species

	innovationCounter *idCounter
	nodeCounter       *idCounter
	speciesCounter    *idCounter
}

// New allocates size organisms, each with a fresh random genome, and
// reserves the innovation/node id ranges the initial genomes already
// used. seed makes the whole evolutionary run, including every
// subsequent mutation and reproduction draw, reproducible.
func New(size, numInputs, numOutputs int, params Params, seed int64) *Population {
	if size <= 0 {
		panic("neat: population size must be positive")
	}

	rng := rand.New(rand.NewSource(seed))

	organisms := make([]*Organism, size)
	for i := range organisms {
		organisms[i] = &Organism{Genome: NewGenome(numInputs, numOutputs, params, rng)}
	}

	return &Population{
		size:              size,
		numInputs:         numInputs,
		numOutputs:        numOutputs,
		params:            params,
		rng:               rng,
		Organisms:         organisms,
		innovationCounter: newIDCounter(numOutputs),
		nodeCounter:       newIDCounter(numInputs + 1 + numOutputs),
		speciesCounter:    newIDCounter(0),
	}
}

// BuildPhenotypes compiles every organism's genome into a Network,
// indexed the same as Organisms.
func (p *Population) BuildPhenotypes() []*Network {
	networks := make([]*Network, len(p.Organisms))
	for i, o := range p.Organisms {
		networks[i] = o.Genome.AsNetwork()
	}
	return networks
}

// RecordFitness sets organism i's fitness for the generation just
// evaluated.
func (p *Population) RecordFitness(i int, value float64) {
	p.Organisms[i].RecordFitness(value)
}

// Speciate assigns every organism to a species by first-fit compatibility
// distance to each existing species' representative, creating a new
// species (with the organism as its representative) when none matches.
// Species order therefore determines tie-breaking; callers must not sort
// p.Species before calling this.
func (p *Population) Speciate() {
	for _, s := range p.Species {
		s.Organisms = s.Organisms[:0]
	}

	for _, o := range p.Organisms {
		found := false
		for _, s := range p.Species {
			if o.Genome.CompatibilityDistance(s.Representative, p.params) < p.params.SpeciationThreshold {
				s.Organisms = append(s.Organisms, o)
				o.SpeciesID = s.ID
				found = true
				break
			}
		}
		if !found {
			s := newSpecies(p.speciesCounter.nextID(), o)
			o.SpeciesID = s.ID
			p.Species = append(p.Species, s)
		}
	}

	kept := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Organisms) > 0 {
			kept = append(kept, s)
		}
	}
	p.Species = kept
}

// Epoch advances the population by one generation: speciate, rank and
// adjust fitness within species, compute each species' integer expected
// offspring (propagating the fractional carry), eliminate unfit members,
// and reproduce. The per-epoch innovation log is local to this call.
func (p *Population) Epoch() {
	p.Speciate()

	for _, s := range p.Species {
		s.RankOrganisms()
	}
	sort.Slice(p.Species, func(i, j int) bool {
		return p.Species[i].Organisms[0].Fitness > p.Species[j].Organisms[0].Fitness
	})

	for _, s := range p.Species {
		s.AdjustFitness()
	}

	avg := p.averageAdjustedFitness()
	for _, o := range p.Organisms {
		o.ExpectedOffspring = o.AdjustedFitness / avg
	}

	var totalExpected int
	var carry float64
	for _, s := range p.Species {
		carry = s.CalculateExpectedOffspring(carry)
		totalExpected += s.ExpectedOffspring
	}

	var surviving []*Species
	for _, s := range p.Species {
		if s.ExpectedOffspring > 0 {
			surviving = append(surviving, s)
		}
	}
	p.Species = surviving

	if totalExpected < p.size && len(p.Species) > 0 {
		best := p.Species[0]
		for _, s := range p.Species {
			if s.ExpectedOffspring > best.ExpectedOffspring {
				best = s
			}
		}
		best.ExpectedOffspring += p.size - totalExpected
	}

	log := newInnovationLog()
	var newGenomes []*Genome
	for _, s := range p.Species {
		s.EliminateUnfit(p.params)
		newGenomes = append(newGenomes, s.Reproduce(p.Species, log, p.innovationCounter, p.nodeCounter, p.params, p.rng)...)
	}

	if len(newGenomes) != p.size {
		panic(fmt.Sprintf("neat: epoch produced %d organisms, want %d", len(newGenomes), p.size))
	}

	organisms := make([]*Organism, len(newGenomes))
	for i, g := range newGenomes {
		organisms[i] = &Organism{Genome: g}
	}
	p.Organisms = organisms
}

func (p *Population) averageAdjustedFitness() float64 {
	var total float64
	for _, o := range p.Organisms {
		total += o.AdjustedFitness
	}
	return total / float64(p.size)
}
