package neat

import "testing"

func TestEpochPreservesPopulationSize(t *testing.T) {
	p := New(30, 3, 2, DefaultParams(), 42)
	for gen := 0; gen < 5; gen++ {
		for i, o := range p.Organisms {
			_ = o
			p.RecordFitness(i, float64(i%7)+0.1)
		}
		p.Epoch()
		if len(p.Organisms) != 30 {
			t.Fatalf("generation %d: len(Organisms) = %d, want 30", gen, len(p.Organisms))
		}
	}
}

func TestSpeciateTagsMatchMembership(t *testing.T) {
	p := New(30, 3, 2, DefaultParams(), 7)
	for i := range p.Organisms {
		p.RecordFitness(i, float64(i))
	}
	p.Speciate()

	for _, s := range p.Species {
		for _, o := range s.Organisms {
			if o.SpeciesID != s.ID {
				t.Errorf("organism tagged species %d, but is a member of species %d", o.SpeciesID, s.ID)
			}
		}
	}
}

func TestBuildPhenotypesMatchesOrganismCount(t *testing.T) {
	p := New(10, 4, 2, DefaultParams(), 99)
	networks := p.BuildPhenotypes()
	if len(networks) != len(p.Organisms) {
		t.Fatalf("len(networks) = %d, want %d", len(networks), len(p.Organisms))
	}
	for i, net := range networks {
		out := net.EvaluateInput([]float64{0.1, -0.2, 0.3, 0.4})
		if len(out) != 2 {
			t.Errorf("organism %d: network output length = %d, want 2", i, len(out))
		}
	}
}
