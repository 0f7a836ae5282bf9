// Package viterbi implements a min-energy K-best shortest-path solver
// over a layered DAG with per-layer priors and per-transition
// conditional costs, as used to localize fixed edges and to jointly
// decode UPC-A digits.
package viterbi

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInconsistent is returned when layer counts or matrix shapes
// disagree, or when solve is asked to backtrack from an invalid final
// state.
var ErrInconsistent = errors.New("viterbi: inconsistent problem shape")

// Solution is one of the K best paths found by Solve.
type Solution struct {
	// Energy is the total path energy, sum of priors plus conditionals
	// along Sequence.
	Energy float64
	// Sequence holds one state index per layer. A slot is -1 if fewer
	// than K distinct paths exist and this is a sentinel filler.
	Sequence []int
}

// subState is one of the K best partial paths ending at a given state.
type subState struct {
	energy   float64
	srcState int // index of the source state in the previous layer, -1 at layer 0
	srcSub   int // index of the substate within the source state's list
	pathTag  int // used to break ties deterministically among equal-energy substates
}

// Solver holds the layered problem and its K-best working state.
type Solver struct {
	priors       [][]float64     // priors[t][i]
	conditionals [][][]float64   // conditionals[t][i][j], t in [0, T-2]
	k            int
	nStates      []int           // nStates[t] = len(priors[t])
	table        [][][]subState  // table[t][i] = K-best substates ending at state i of layer t
}

// New constructs a solver for the given per-layer priors and
// per-transition conditional matrices, keeping the K best paths per
// state. It returns ErrInconsistent if len(conditionals) !=
// len(priors)-1, or if any conditional matrix's row/column counts
// disagree with the adjoining layers' state counts.
func New(priors [][]float64, conditionals [][][]float64, k int) (*Solver, error) {
	t := len(priors)
	if t == 0 {
		return nil, fmt.Errorf("%w: no layers", ErrInconsistent)
	}
	if len(conditionals) != t-1 {
		return nil, fmt.Errorf("%w: expected %d conditional matrices, got %d", ErrInconsistent, t-1, len(conditionals))
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1", ErrInconsistent)
	}
	nStates := make([]int, t)
	for i, p := range priors {
		nStates[i] = len(p)
		if nStates[i] == 0 {
			return nil, fmt.Errorf("%w: layer %d has no states", ErrInconsistent, i)
		}
	}
	for i, c := range conditionals {
		if len(c) != nStates[i] {
			return nil, fmt.Errorf("%w: conditional %d has %d rows, want %d", ErrInconsistent, i, len(c), nStates[i])
		}
		for _, row := range c {
			if len(row) != nStates[i+1] {
				return nil, fmt.Errorf("%w: conditional %d row has %d cols, want %d", ErrInconsistent, i, len(row), nStates[i+1])
			}
		}
	}
	return &Solver{priors: priors, conditionals: conditionals, k: k, nStates: nStates}, nil
}

// Solve runs the forward DP and returns up to K solutions sorted
// ascending by energy. If finalState >= 0, only paths ending at that
// state of the last layer are considered; finalState must be a valid
// state index of the last layer, or ErrInconsistent is returned.
func (s *Solver) Solve(finalState int) ([]Solution, error) {
	t := len(s.priors)
	lastN := s.nStates[t-1]
	if finalState >= lastN {
		return nil, fmt.Errorf("%w: finalState %d out of range for %d states", ErrInconsistent, finalState, lastN)
	}

	s.table = make([][][]subState, t)

	// Layer 0: each state's best list is just its own prior, tagged by
	// its own state index so downstream tie-breaks are deterministic.
	s.table[0] = make([][]subState, s.nStates[0])
	for i := 0; i < s.nStates[0]; i++ {
		s.table[0][i] = []subState{{energy: s.priors[0][i], srcState: -1, srcSub: -1, pathTag: i}}
	}

	for t1 := 1; t1 < t; t1++ {
		n := s.nStates[t1]
		s.table[t1] = make([][]subState, n)
		cond := s.conditionals[t1-1]
		prev := s.table[t1-1]
		for j := 0; j < n; j++ {
			var candidates []subState
			for i := 0; i < len(prev); i++ {
				for sub, ss := range prev[i] {
					candidates = append(candidates, subState{
						energy:   ss.energy + cond[i][j] + s.priors[t1][j],
						srcState: i,
						srcSub:   sub,
						pathTag:  ss.pathTag,
					})
				}
			}
			s.table[t1][j] = bestK(candidates, s.k)
		}
	}

	// terminal collects every candidate terminal substate as (state,
	// sub-index within table[t-1][state]) so backtracking never has to
	// rediscover which substate produced a given energy.
	type terminal struct {
		state, sub int
	}
	final := s.table[t-1]
	var term []terminal
	var energies []subState
	if finalState >= 0 {
		for sub, ss := range final[finalState] {
			term = append(term, terminal{finalState, sub})
			energies = append(energies, ss)
		}
	} else {
		for i, list := range final {
			for sub, ss := range list {
				term = append(term, terminal{i, sub})
				energies = append(energies, ss)
			}
		}
	}

	order := make([]int, len(term))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := energies[order[a]], energies[order[b]]
		if ea.energy != eb.energy {
			return ea.energy < eb.energy
		}
		if term[order[a]].state != term[order[b]].state {
			return term[order[a]].state < term[order[b]].state
		}
		return ea.pathTag < eb.pathTag
	})

	solutions := make([]Solution, s.k)
	for rank := 0; rank < s.k; rank++ {
		if rank >= len(order) {
			solutions[rank] = Solution{Energy: 0, Sequence: sentinelSequence(t)}
			continue
		}
		idx := order[rank]
		solutions[rank] = Solution{
			Energy:   energies[idx].energy,
			Sequence: s.backtrack(t-1, term[idx].state, term[idx].sub),
		}
	}
	return solutions, nil
}

// backtrack reconstructs the state sequence ending at substate `sub`
// of state `state` in layer `lastLayer`.
func (s *Solver) backtrack(lastLayer, state, sub int) []int {
	seq := make([]int, lastLayer+1)
	for layer := lastLayer; layer >= 0; layer-- {
		seq[layer] = state
		ss := s.table[layer][state][sub]
		if ss.srcState < 0 {
			break
		}
		state, sub = ss.srcState, ss.srcSub
	}
	return seq
}

// bestK keeps the k smallest-energy candidates, tie-broken by lower
// source-state index then lower path tag — the ordering the decoder's
// fixed-edge localization and UPC-A joint decode both depend on being
// stable.
func bestK(candidates []subState, k int) []subState {
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.energy != cb.energy {
			return ca.energy < cb.energy
		}
		if ca.srcState != cb.srcState {
			return ca.srcState < cb.srcState
		}
		return ca.pathTag < cb.pathTag
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func sentinelSequence(t int) []int {
	seq := make([]int, t)
	for i := range seq {
		seq[i] = -1
	}
	return seq
}
