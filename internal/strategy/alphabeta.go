package strategy

import (
	"fmt"
	"iter"
	"slices"

	"github.com/samber/lo"

	"blobwar/internal/domain/game"
)

// sortWindow is how many plies below the root keep paying for sorted
// move generation in SortedAlphaBeta.
const sortWindow = 4

// AlphaBeta is a pruned search to Depth plies using sorted ordering near
// the root.
type AlphaBeta struct {
	Depth uint8
}

func (s AlphaBeta) String() string {
	return fmt.Sprintf("Alpha - Beta (max level: %d)", s.Depth)
}

func (s AlphaBeta) ComputeNextMove(state game.State) *game.Movement {
	return SortedAlphaBeta(state, s.Depth, game.MaxValue, game.MinValue, s.Depth).Move
}

type boundedSearch func(child game.State, ceiling, floor int8) int8

// prune walks the children of state in the given order. ceiling is the
// value this node must not reach and floor the value it must not fall to:
// a maximizer stops once its best reaches ceiling and otherwise raises
// floor, a minimizer stops once its best falls to floor and otherwise
// lowers ceiling. The updated bounds only flow to later siblings.
func prune(state game.State, moves iter.Seq[game.Movement], ceiling, floor int8, search boundedSearch) SearchResult {
	best := newRunning(state)
	for m := range moves {
		best.offer(m, search(state.Play(m), ceiling, floor))

		value := best.result.Score
		if best.maximizer {
			if value >= ceiling {
				return best.result
			}
			floor = max(floor, value)
		} else {
			if value <= floor {
				return best.result
			}
			ceiling = min(ceiling, value)
		}
	}
	return best.result
}

// AlphaBetaRec is the plain pruned search in natural move order. Call it
// with ceiling 64 and floor -64 at the root.
func AlphaBetaRec(state game.State, depth uint8, ceiling, floor int8) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	return prune(state, state.Movements(), ceiling, floor, func(child game.State, c, f int8) int8 {
		return AlphaBetaRec(child, depth-1, c, f).Score
	})
}

// AlphaBetaPar searches every root move with a full window in parallel.
// Root moves come from MovementsValuable so the heavy subtrees start first.
func AlphaBetaPar(state game.State, depth uint8, workers int) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	moves := slices.Collect(state.MovementsValuable())
	return searchRoot(state, moves, workers, func(child game.State) int8 {
		return AlphaBetaRec(child, depth-1, game.MaxValue, game.MinValue).Score
	})
}

// SortedAlphaBeta sorts moves within sortWindow plies of the root when the
// search is deeper than 3, and switches to random order with plain
// AlphaBetaRec below that.
func SortedAlphaBeta(state game.State, depth uint8, ceiling, floor int8, originalDepth uint8) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	if originalDepth > 3 && depth >= originalDepth-sortWindow {
		return prune(state, state.MovementsSorted(), ceiling, floor, func(child game.State, c, f int8) int8 {
			return SortedAlphaBeta(child, depth-1, c, f, originalDepth).Score
		})
	}
	return prune(state, state.MovementsRandom(), ceiling, floor, func(child game.State, c, f int8) int8 {
		return AlphaBetaRec(child, depth-1, c, f).Score
	})
}

// DeepeningAlphaBeta is SortedAlphaBeta with the previous iteration's move
// searched first at the root. A hint that is not legal here is ignored.
func DeepeningAlphaBeta(state game.State, depth uint8, ceiling, floor int8, originalDepth uint8, hint *game.Movement) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	moves := state.MovementsSorted()
	if hint != nil {
		moves = hintFirst(moves, *hint)
	}
	return prune(state, moves, ceiling, floor, func(child game.State, c, f int8) int8 {
		return SortedAlphaBeta(child, depth-1, c, f, originalDepth).Score
	})
}

func hintFirst(moves iter.Seq[game.Movement], hint game.Movement) iter.Seq[game.Movement] {
	list := slices.Collect(moves)
	if !lo.Contains(list, hint) {
		return slices.Values(list)
	}
	return slices.Values(append([]game.Movement{hint}, lo.Without(list, hint)...))
}
