package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pthm-cable/neatracer/neat"
)

// ConnectionSnapshot is the JSON-serializable form of a neat.ConnectionGene.
type ConnectionSnapshot struct {
	InNode        int     `json:"in_node"`
	OutNode       int     `json:"out_node"`
	Weight        float64 `json:"weight"`
	InnovationNum int     `json:"innovation_num"`
	Disabled      bool    `json:"disabled"`
}

// GenomeSnapshot is the JSON-serializable form of a neat.Genome, detached
// from any live population so it can be stored, reloaded, and diffed
// across runs.
type GenomeSnapshot struct {
	NumInputs   int                  `json:"num_inputs"`
	NumOutputs  int                  `json:"num_outputs"`
	Nodes       []int                `json:"nodes"`
	Connections []ConnectionSnapshot `json:"connections"`
}

// SnapshotGenome captures a genome's topology and weights.
func SnapshotGenome(g *neat.Genome) GenomeSnapshot {
	conns := make([]ConnectionSnapshot, len(g.Connections))
	for i, c := range g.Connections {
		conns[i] = ConnectionSnapshot{
			InNode:        c.InNode,
			OutNode:       c.OutNode,
			Weight:        c.Weight,
			InnovationNum: c.InnovationNum,
			Disabled:      c.Disabled,
		}
	}
	nodes := make([]int, len(g.Nodes))
	copy(nodes, g.Nodes)

	return GenomeSnapshot{
		NumInputs:   g.NumInputs,
		NumOutputs:  g.NumOutputs,
		Nodes:       nodes,
		Connections: conns,
	}
}

// HallEntry records one genome's genealogy at the generation it was
// considered for the hall.
type HallEntry struct {
	Genome     GenomeSnapshot
	Fitness    float64
	Generation int
}

// HallOfFame keeps the fittest genomes seen across all generations,
// sorted descending by fitness and capped at maxSize.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall of fame with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{maxSize: maxSize}
}

// Consider evaluates a genome for hall of fame entry. Returns true if it
// was inserted (it may later be evicted by fitter entries crowding it
// out once the hall is full).
func (hof *HallOfFame) Consider(g *neat.Genome, fitness float64, generation int) bool {
	if len(hof.entries) >= hof.maxSize && fitness <= hof.entries[len(hof.entries)-1].Fitness {
		return false
	}

	entry := HallEntry{
		Genome:     SnapshotGenome(g),
		Fitness:    fitness,
		Generation: generation,
	}

	idx := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < fitness
	})
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[idx+1:], hof.entries[idx:])
	hof.entries[idx] = entry

	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}

	return true
}

// Size returns the number of entries currently held.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness in the hall, or 0 if empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Entries returns the hall's entries, fittest first.
func (hof *HallOfFame) Entries() []HallEntry {
	return hof.entries
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file.
func LoadHallOfFameFromFile(path string, maxSize int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(maxSize)
	hof.entries = entries
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return hof, nil
}
