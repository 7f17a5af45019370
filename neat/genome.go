package neat

import (
	"math"
	"math/rand"
)

// Params is the tunable NEAT parameter surface: mutation rates,
// speciation and reproduction thresholds, and the compatibility-distance
// coefficients. Defaults are close to the original NEAT paper.
type Params struct {
	NodeMutationChance     float64
	LinkMutationChance     float64
	WeightMutationChance   float64
	WeightRandomizedChance float64

	SpeciationThreshold float64
	SurvivalThreshold   float64

	MutationOnlyOffspring  float64
	MutationAfterCrossover float64
	InterspeciesMatingRate float64

	C1, C2, C3 float64

	// SignedWeightInit selects between sampling fresh weights uniformly
	// from (-1, 1] (true) or from [0, 1) (false). Both appear in the
	// reference implementation; this resolves the ambiguity as an
	// explicit knob rather than a silent choice.
	SignedWeightInit bool
}

// DefaultParams returns a parameter set close to the original NEAT
// paper's published values.
func DefaultParams() Params {
	return Params{
		NodeMutationChance:     0.03,
		LinkMutationChance:     0.05,
		WeightMutationChance:   0.8,
		WeightRandomizedChance: 0.1,

		SpeciationThreshold: 3.0,
		SurvivalThreshold:   0.2,

		MutationOnlyOffspring:  0.25,
		MutationAfterCrossover: 0.25,
		InterspeciesMatingRate: 0.001,

		C1: 1.0,
		C2: 1.0,
		C3: 0.4,

		SignedWeightInit: true,
	}
}

func randWeight(rng *rand.Rand, params Params) float64 {
	if params.SignedWeightInit {
		// 1-2r over r in [0,1) lands in (-1, 1], matching the uniform
		// range the initial bias->output weights are specified to use.
		return 1 - rng.Float64()*2
	}
	return rng.Float64()
}

// Genome is a NEAT individual's genotype: a set of nodes (identified by
// process-unique integer ids) and the weighted connections between them.
// Nodes are laid out [inputs..., bias, outputs..., hidden...]; the first
// NumInputs+1+NumOutputs ids are fixed for the lifetime of a lineage.
type Genome struct {
	NumInputs  int
	NumOutputs int

	Nodes            []int
	Connections      []*ConnectionGene
	ConnectionsByOut map[int][]*ConnectionGene
}

// NewGenome builds a fresh genome with no hidden nodes: one
// bias-to-output connection per output, weights drawn independently,
// given innovation numbers 0..NumOutputs-1. Every freshly constructed
// genome in a population must agree on these numbers so matched pairs
// compare correctly during crossover.
func NewGenome(numInputs, numOutputs int, params Params, rng *rand.Rand) *Genome {
	nodes := make([]int, numInputs+1+numOutputs)
	for i := range nodes {
		nodes[i] = i
	}

	bias := numInputs
	connections := make([]*ConnectionGene, numOutputs)
	connectionsByOut := make(map[int][]*ConnectionGene, numOutputs)

	for i := 0; i < numOutputs; i++ {
		out := numInputs + 1 + i
		conn := &ConnectionGene{
			InNode:        bias,
			OutNode:       out,
			Weight:        randWeight(rng, params),
			InnovationNum: i,
		}
		connections[i] = conn
		connectionsByOut[out] = []*ConnectionGene{conn}
	}

	return &Genome{
		NumInputs:        numInputs,
		NumOutputs:       numOutputs,
		Nodes:            nodes,
		Connections:      connections,
		ConnectionsByOut: connectionsByOut,
	}
}

// Clone returns a deep copy: every connection gene is duplicated so the
// clone's mutations never affect the original.
func (g *Genome) Clone() *Genome {
	connections := make([]*ConnectionGene, len(g.Connections))
	clonedByOld := make(map[*ConnectionGene]*ConnectionGene, len(g.Connections))
	for i, c := range g.Connections {
		nc := c.clone()
		connections[i] = nc
		clonedByOld[c] = nc
	}

	connectionsByOut := make(map[int][]*ConnectionGene, len(g.ConnectionsByOut))
	for out, conns := range g.ConnectionsByOut {
		newConns := make([]*ConnectionGene, len(conns))
		for i, c := range conns {
			newConns[i] = clonedByOld[c]
		}
		connectionsByOut[out] = newConns
	}

	nodes := make([]int, len(g.Nodes))
	copy(nodes, g.Nodes)

	return &Genome{
		NumInputs:        g.NumInputs,
		NumOutputs:       g.NumOutputs,
		Nodes:            nodes,
		Connections:      connections,
		ConnectionsByOut: connectionsByOut,
	}
}

// Mutate attempts exactly one mutation branch, gated by three
// independent probability checks tested in order. The checks are not a
// partition: it's possible (by design) that none fires in a given call.
// log records structural mutations that happened earlier this epoch so
// an identical mutation reuses the same innovation numbers instead of
// fragmenting the historical record.
func (g *Genome) Mutate(log *innovationLog, innovCounter, nodeCounter *idCounter, params Params, rng *rand.Rand) {
	switch {
	case rng.Float64() < params.NodeMutationChance:
		g.mutateAddNode(log, innovCounter, nodeCounter, rng)
	case rng.Float64() < params.LinkMutationChance:
		g.mutateAddLink(log, innovCounter, params, rng)
	case rng.Float64() < params.WeightMutationChance:
		g.mutateWeights(params, rng)
	}
}

func (g *Genome) mutateAddNode(log *innovationLog, innovCounter, nodeCounter *idCounter, rng *rand.Rand) {
	var enabled []*ConnectionGene
	for _, c := range g.Connections {
		if !c.Disabled {
			enabled = append(enabled, c)
		}
	}
	splitConn := enabled[rng.Intn(len(enabled))]

	var innovA, innovB, newNode int
	if existing, ok := log.findNodeSplit(splitConn.InnovationNum); ok {
		innovA, innovB, newNode = existing.newInnovNum, existing.newInnovNum2, existing.newNodeID
	} else {
		innovA = innovCounter.nextID()
		innovB = innovCounter.nextID()
		newNode = nodeCounter.nextID()
		log.record(innovation{
			isNodeMutation: true,
			oldInnovNum:    splitConn.InnovationNum,
			newInnovNum:    innovA,
			newInnovNum2:   innovB,
			newNodeID:      newNode,
		})
	}

	g.Nodes = append(g.Nodes, newNode)
	splitConn.Disabled = true

	connA := &ConnectionGene{InNode: splitConn.InNode, OutNode: newNode, Weight: 1.0, InnovationNum: innovA}
	connB := &ConnectionGene{InNode: newNode, OutNode: splitConn.OutNode, Weight: splitConn.Weight, InnovationNum: innovB}

	g.Connections = append(g.Connections, connA, connB)
	g.ConnectionsByOut[newNode] = []*ConnectionGene{connA}
	g.ConnectionsByOut[splitConn.OutNode] = append(g.ConnectionsByOut[splitConn.OutNode], connB)
}

// mutateAddLink tries up to 50 random (in, out) proposals and adds the
// first that is acyclic, non-self, and not already connected. A failed
// search after 50 tries leaves the genome unchanged; this is rare and
// harmless given the inherently random genetic process.
func (g *Genome) mutateAddLink(log *innovationLog, innovCounter *idCounter, params Params, rng *rand.Rand) {
	nodeLayer := g.nodeLayers()
	firstOutputIdx := g.NumInputs + 1

	for attempt := 0; attempt < 50; attempt++ {
		outNode := g.Nodes[firstOutputIdx+rng.Intn(len(g.Nodes)-firstOutputIdx)]

		inNodeIdx := rng.Intn(len(g.Nodes) - g.NumOutputs)
		if inNodeIdx >= firstOutputIdx && inNodeIdx < firstOutputIdx+g.NumOutputs {
			inNodeIdx = len(g.Nodes) - inNodeIdx + g.NumInputs
		}
		inNode := g.Nodes[inNodeIdx]

		if nodeLayer[inNode] > nodeLayer[outNode] || inNode == outNode {
			continue
		}

		alreadyExists := false
		for _, conn := range g.ConnectionsByOut[outNode] {
			if !conn.Disabled && conn.InNode == inNode {
				alreadyExists = true
				break
			}
		}
		if alreadyExists {
			continue
		}

		weight := randWeight(rng, params)

		var innovNum int
		if existing, ok := log.findLink(inNode, outNode); ok {
			innovNum = existing.newInnovNum
		} else {
			innovNum = innovCounter.nextID()
			log.record(innovation{nodeStartID: inNode, nodeEndID: outNode, newInnovNum: innovNum})
		}

		newConn := &ConnectionGene{InNode: inNode, OutNode: outNode, Weight: weight, InnovationNum: innovNum}
		g.Connections = append(g.Connections, newConn)
		g.ConnectionsByOut[outNode] = append(g.ConnectionsByOut[outNode], newConn)
		return
	}
}

func (g *Genome) mutateWeights(params Params, rng *rand.Rand) {
	for _, c := range g.Connections {
		if c.Disabled {
			continue
		}
		if rng.Float64() < params.WeightRandomizedChance {
			c.Weight = randWeight(rng, params)
		} else {
			c.Weight += rng.NormFloat64() * 0.3
		}
	}
}

// nodeLayers assigns every node a feed-forward layer number: inputs and
// bias sit at layer 0; every other node's layer is one more than the
// maximum layer among its enabled incoming connections' sources.
// Terminates in O(n^2) given an acyclic graph; panics if a full pass
// places nothing, since that means a cycle slipped into the genome.
func (g *Genome) nodeLayers() map[int]int {
	layer := make(map[int]int, len(g.Nodes))
	for i := 0; i <= g.NumInputs; i++ {
		layer[i] = 0
	}

	nodesToPlace := make([]int, 0, len(g.Nodes)-g.NumInputs-1)
	for i := g.NumInputs + 1; i < len(g.Nodes); i++ {
		nodesToPlace = append(nodesToPlace, g.Nodes[i])
	}

	for len(nodesToPlace) > 0 {
		placed := false
		for idx, node := range nodesToPlace {
			finalized := true
			maxPrevLayer := 0

			for _, conn := range g.ConnectionsByOut[node] {
				if conn.Disabled {
					continue
				}
				l, ok := layer[conn.InNode]
				if !ok {
					finalized = false
					break
				}
				if l > maxPrevLayer {
					maxPrevLayer = l
				}
			}

			if finalized {
				layer[node] = maxPrevLayer + 1
				nodesToPlace = append(nodesToPlace[:idx], nodesToPlace[idx+1:]...)
				placed = true
				break
			}
		}
		if !placed {
			panic("neat: cycle detected while assigning node layers")
		}
	}

	return layer
}

// CompatibilityDistance walks both genomes' connection lists in parallel
// by innovation number, skipping disabled genes on both sides, and
// combines excess, disjoint and average weight difference into a single
// distance used for speciation.
func (g *Genome) CompatibilityDistance(other *Genome, params Params) float64 {
	var excess, disjoint, matching int
	var weightDiffSum float64

	geneA, geneB := 0, 0
	for geneA < len(g.Connections) || geneB < len(other.Connections) {
		switch {
		case geneA == len(g.Connections):
			if !other.Connections[geneB].Disabled {
				excess++
			}
			geneB++
		case geneB == len(other.Connections):
			if !g.Connections[geneA].Disabled {
				excess++
			}
			geneA++
		default:
			if g.Connections[geneA].Disabled {
				geneA++
				continue
			}
			if other.Connections[geneB].Disabled {
				geneB++
				continue
			}

			innovA := g.Connections[geneA].InnovationNum
			innovB := other.Connections[geneB].InnovationNum
			switch {
			case innovA == innovB:
				matching++
				weightDiffSum += math.Abs(g.Connections[geneA].Weight - other.Connections[geneB].Weight)
				geneA++
				geneB++
			case innovA < innovB:
				disjoint++
				geneA++
			default:
				disjoint++
				geneB++
			}
		}
	}

	dist := params.C1*float64(excess) + params.C2*float64(disjoint)
	if matching > 0 {
		dist += params.C3 * (weightDiffSum / float64(matching))
	}
	return dist
}

// AsNetwork compiles the genome into a feed-forward Network: nodes are
// renumbered densely in Nodes order, the evaluation order is derived
// from nodeLayers, and each node's incoming enabled connections are
// translated to the dense numbering.
func (g *Genome) AsNetwork() *Network {
	denseID := make(map[int]int, len(g.Nodes))
	for idx, node := range g.Nodes {
		denseID[node] = idx
	}

	layer := g.nodeLayers()

	maxLayer := 0
	for _, node := range g.Nodes {
		if l := layer[node]; l > maxLayer {
			maxLayer = l
		}
	}

	var evaluationOrder []int
	for l := 1; l <= maxLayer; l++ {
		for _, node := range g.Nodes {
			if layer[node] == l {
				evaluationOrder = append(evaluationOrder, denseID[node])
			}
		}
	}

	connections := make([][]neuralConnection, len(g.Nodes))
	for node, conns := range g.ConnectionsByOut {
		dense := denseID[node]
		list := make([]neuralConnection, 0, len(conns))
		for _, c := range conns {
			if c.Disabled {
				continue
			}
			list = append(list, neuralConnection{inNode: denseID[c.InNode], weight: c.Weight})
		}
		connections[dense] = list
	}

	return &Network{
		numInputs:       g.NumInputs,
		numOutputs:      g.NumOutputs,
		numNodes:        len(g.Nodes),
		evaluationOrder: evaluationOrder,
		connections:     connections,
	}
}

// FromCrossover builds a child genome from two parent Organisms. Genes
// are aligned by innovation number: matching genes are inherited from a
// uniformly-random parent, disjoint and excess genes only from the
// fitter parent (ties broken toward the shorter connection list, to
// favour simpler networks). Every inherited gene is deep-copied so the
// child owns its weight and disabled flag independently.
func FromCrossover(parentA, parentB *Organism, rng *rand.Rand) *Genome {
	genomeA, genomeB := parentA.Genome, parentB.Genome

	nodes := make([]int, genomeA.NumInputs+1+genomeA.NumOutputs)
	nodeSet := make(map[int]bool, len(nodes)*2)
	for i := range nodes {
		nodes[i] = i
		nodeSet[i] = true
	}

	var connections []*ConnectionGene
	connectionsByOut := make(map[int][]*ConnectionGene)

	parentABetter := parentA.Fitness > parentB.Fitness
	if parentA.Fitness == parentB.Fitness {
		parentABetter = len(genomeA.Connections) < len(genomeB.Connections)
	}

	geneA, geneB := 0, 0

crossoverLoop:
	for geneA < len(genomeA.Connections) || geneB < len(genomeB.Connections) {
		var newGene *ConnectionGene

		switch {
		case geneA == len(genomeA.Connections):
			if parentABetter {
				break crossoverLoop
			}
			newGene = genomeB.Connections[geneB]
			geneB++
			if newGene.Disabled {
				continue crossoverLoop
			}
		case geneB == len(genomeB.Connections):
			if !parentABetter {
				break crossoverLoop
			}
			newGene = genomeA.Connections[geneA]
			geneA++
			if newGene.Disabled {
				continue crossoverLoop
			}
		default:
			if genomeA.Connections[geneA].Disabled {
				geneA++
				continue crossoverLoop
			}
			if genomeB.Connections[geneB].Disabled {
				geneB++
				continue crossoverLoop
			}

			innovA := genomeA.Connections[geneA].InnovationNum
			innovB := genomeB.Connections[geneB].InnovationNum
			switch {
			case innovA == innovB:
				if rng.Float64() < 0.5 {
					newGene = genomeA.Connections[geneA]
				} else {
					newGene = genomeB.Connections[geneB]
				}
				geneA++
				geneB++
			case innovA < innovB:
				newGene = genomeA.Connections[geneA]
				geneA++
				if !parentABetter {
					continue crossoverLoop
				}
			default:
				newGene = genomeB.Connections[geneB]
				geneB++
				if parentABetter {
					continue crossoverLoop
				}
			}
		}

		cloned := newGene.clone()
		connections = append(connections, cloned)
		connectionsByOut[cloned.OutNode] = append(connectionsByOut[cloned.OutNode], cloned)
		if !nodeSet[cloned.InNode] {
			nodeSet[cloned.InNode] = true
			nodes = append(nodes, cloned.InNode)
		}
		if !nodeSet[cloned.OutNode] {
			nodeSet[cloned.OutNode] = true
			nodes = append(nodes, cloned.OutNode)
		}
	}

	return &Genome{
		NumInputs:        genomeA.NumInputs,
		NumOutputs:       genomeA.NumOutputs,
		Nodes:            nodes,
		Connections:      connections,
		ConnectionsByOut: connectionsByOut,
	}
}

// innovationLog is the per-epoch record of structural mutations,
// consulted so an identical mutation arising independently in two
// genomes gets the same innovation numbers (and node id).
type innovationLog struct {
	entries []innovation
}

func newInnovationLog() *innovationLog {
	return &innovationLog{}
}

func (l *innovationLog) findNodeSplit(oldInnovNum int) (innovation, bool) {
	for _, e := range l.entries {
		if e.isNodeMutation && e.oldInnovNum == oldInnovNum {
			return e, true
		}
	}
	return innovation{}, false
}

func (l *innovationLog) findLink(in, out int) (innovation, bool) {
	for _, e := range l.entries {
		if !e.isNodeMutation && e.nodeStartID == in && e.nodeEndID == out {
			return e, true
		}
	}
	return innovation{}, false
}

func (l *innovationLog) record(e innovation) {
	l.entries = append(l.entries, e)
}
