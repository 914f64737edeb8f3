package strategy

import (
	"iter"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"blobwar/internal/domain/game"
)

// node is a hand-built game tree. Child i is reached by the duplicate
// movement onto square i.
type node struct {
	player   bool
	value    int8
	children []*node
}

func leaf(player bool, v int8) *node {
	return &node{player: player, value: v}
}

func branch(player bool, v int8, children ...*node) *node {
	return &node{player: player, value: v, children: children}
}

// leaves builds a node for player whose children are leaves of the given values.
func leaves(player bool, values ...int8) *node {
	n := &node{player: player}
	for _, v := range values {
		n.children = append(n.children, leaf(!player, v))
	}
	return n
}

func moveTo(i int) game.Movement {
	return game.Duplicate(game.PositionFromIndex(i))
}

func randomTree(r *rand.Rand, player bool, depth int) *node {
	n := &node{player: player, value: int8(r.IntN(129) - 64)}
	if depth == 0 {
		return n
	}
	for i := r.IntN(5); i > 0; i-- {
		n.children = append(n.children, randomTree(r, !player, depth-1))
	}
	return n
}

type treeState struct {
	n *node
}

var _ game.State = treeState{}

func (s treeState) CurrentPlayer() bool { return s.n.player }
func (s treeState) Value() int8         { return s.n.value }
func (s treeState) GameOver() bool      { return len(s.n.children) == 0 }

func (s treeState) Play(m game.Movement) game.State {
	return treeState{n: s.n.children[m.To.Index()]}
}

func (s treeState) Movements() iter.Seq[game.Movement] {
	return func(yield func(game.Movement) bool) {
		for i := range s.n.children {
			if !yield(moveTo(i)) {
				return
			}
		}
	}
}

func (s treeState) MovementsSorted() iter.Seq[game.Movement] {
	moves := slices.Collect(s.Movements())
	maximizer := !s.n.player
	slices.SortStableFunc(moves, func(a, b game.Movement) int {
		va, vb := s.n.children[a.To.Index()].value, s.n.children[b.To.Index()].value
		if maximizer {
			return int(vb) - int(va)
		}
		return int(va) - int(vb)
	})
	return slices.Values(moves)
}

// MovementsRandom is deterministic here: reversed natural order.
func (s treeState) MovementsRandom() iter.Seq[game.Movement] {
	moves := slices.Collect(s.Movements())
	slices.Reverse(moves)
	return slices.Values(moves)
}

func (s treeState) MovementsValuable() iter.Seq[game.Movement] {
	return s.MovementsRandom()
}

// countingState counts every Play below it.
type countingState struct {
	game.State
	plays *atomic.Int64
}

func (s countingState) Play(m game.Movement) game.State {
	s.plays.Add(1)
	return countingState{State: s.State.Play(m), plays: s.plays}
}
