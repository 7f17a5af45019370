package neat

import (
	"math/rand"
	"testing"
)

func TestNewGenomeIsBiasToOutputOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := NewGenome(4, 4, DefaultParams(), rng)

	if len(g.Connections) != 4 {
		t.Fatalf("len(Connections) = %d, want 4", len(g.Connections))
	}
	for i, c := range g.Connections {
		if c.InNode != 4 {
			t.Errorf("connection %d InNode = %d, want 4 (bias)", i, c.InNode)
		}
		if c.OutNode != 5+i {
			t.Errorf("connection %d OutNode = %d, want %d", i, c.OutNode, 5+i)
		}
		if c.InnovationNum != i {
			t.Errorf("connection %d InnovationNum = %d, want %d", i, c.InnovationNum, i)
		}
	}
}

func TestConnectionsNonDecreasingInInnovationNum(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	params := DefaultParams()
	g := NewGenome(3, 2, params, rng)
	log := newInnovationLog()
	innovCounter := newIDCounter(g.NumOutputs)
	nodeCounter := newIDCounter(g.NumInputs + 1 + g.NumOutputs)

	for i := 0; i < 200; i++ {
		g.Mutate(log, innovCounter, nodeCounter, params, rng)
	}

	for i := 1; i < len(g.Connections); i++ {
		if g.Connections[i].InnovationNum < g.Connections[i-1].InnovationNum {
			t.Fatalf("innovation numbers decreased at index %d: %d -> %d",
				i, g.Connections[i-1].InnovationNum, g.Connections[i].InnovationNum)
		}
	}
}

func TestNodeLayersAcyclic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	params := DefaultParams()
	g := NewGenome(3, 2, params, rng)
	log := newInnovationLog()
	innovCounter := newIDCounter(g.NumOutputs)
	nodeCounter := newIDCounter(g.NumInputs + 1 + g.NumOutputs)

	for i := 0; i < 500; i++ {
		g.Mutate(log, innovCounter, nodeCounter, params, rng)
	}

	// nodeLayers panics on a cycle; reaching here at all is the test.
	layer := g.nodeLayers()
	for _, c := range g.Connections {
		if c.Disabled {
			continue
		}
		if layer[c.InNode] > layer[c.OutNode] {
			t.Errorf("connection %d->%d violates layer ordering: %d > %d",
				c.InNode, c.OutNode, layer[c.InNode], layer[c.OutNode])
		}
	}
}

func TestCompatibilityDistanceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	params := DefaultParams()
	a := NewGenome(3, 2, params, rng)
	b := NewGenome(3, 2, params, rng)

	log := newInnovationLog()
	innovCounter := newIDCounter(a.NumOutputs)
	nodeCounter := newIDCounter(a.NumInputs + 1 + a.NumOutputs)
	for i := 0; i < 20; i++ {
		b.Mutate(log, innovCounter, nodeCounter, params, rng)
	}

	if a.CompatibilityDistance(b, params) != b.CompatibilityDistance(a, params) {
		t.Errorf("compatibility distance is not symmetric: %v vs %v",
			a.CompatibilityDistance(b, params), b.CompatibilityDistance(a, params))
	}
}

func TestCrossoverIdenticalParentsPreservesGenes(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	params := DefaultParams()
	g := NewGenome(3, 2, params, rng)

	orgA := &Organism{Genome: g.Clone(), Fitness: 1.0}
	orgB := &Organism{Genome: g.Clone(), Fitness: 1.0}

	child := FromCrossover(orgA, orgB, rng)

	enabledOf := func(genome *Genome) map[int]float64 {
		m := make(map[int]float64)
		for _, c := range genome.Connections {
			if !c.Disabled {
				m[c.InnovationNum] = c.Weight
			}
		}
		return m
	}

	want := enabledOf(g)
	got := enabledOf(child)

	if len(want) != len(got) {
		t.Fatalf("child has %d enabled genes, want %d", len(got), len(want))
	}
	for innov, weight := range want {
		gotWeight, ok := got[innov]
		if !ok {
			t.Errorf("child missing gene with innovation %d", innov)
			continue
		}
		if gotWeight != weight {
			t.Errorf("gene %d weight = %v, want %v", innov, gotWeight, weight)
		}
	}
}

func TestNewGenomeFreshConnectionWeightsInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	g := NewGenome(4, 4, DefaultParams(), rng)
	for _, c := range g.Connections {
		if c.Weight <= -1 || c.Weight > 1 {
			t.Errorf("weight %v out of (-1, 1]", c.Weight)
		}
	}
}
