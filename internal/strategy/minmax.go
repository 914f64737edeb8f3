package strategy

import (
	"fmt"

	"blobwar/internal/domain/game"
)

// MinMax searches the full tree to Depth plies, splitting the root moves
// across Workers goroutines.
type MinMax struct {
	Depth   uint8
	Workers int
}

func (s MinMax) String() string {
	return fmt.Sprintf("Min - Max (max level: %d)", s.Depth)
}

func (s MinMax) ComputeNextMove(state game.State) *game.Movement {
	return MinMaxPar(state, s.Depth, s.Workers).Move
}

// MinMaxRec is the sequential exhaustive search.
func MinMaxRec(state game.State, depth uint8) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	best := newRunning(state)
	for m := range state.Movements() {
		best.offer(m, MinMaxRec(state.Play(m), depth-1).Score)
	}
	return best.result
}

// MinMaxPar runs one sequential MinMaxRec per root move in parallel.
func MinMaxPar(state game.State, depth uint8, workers int) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}
	return searchRoot(state, collect(state), workers, func(child game.State) int8 {
		return MinMaxRec(child, depth-1).Score
	})
}

type frame struct {
	state game.State
	moves []game.Movement
	next  int
	depth uint8
	via   game.Movement
	best  running
}

// MinMaxIterative is MinMaxRec with an explicit stack instead of recursion.
func MinMaxIterative(state game.State, depth uint8) SearchResult {
	if r, ok := terminal(state, depth); ok {
		return r
	}

	stack := []*frame{{state: state, moves: collect(state), depth: depth, best: newRunning(state)}}
	for {
		top := stack[len(stack)-1]
		if top.next < len(top.moves) {
			m := top.moves[top.next]
			top.next++

			child := top.state.Play(m)
			moves := collect(child)
			if top.depth-1 == 0 || len(moves) == 0 {
				top.best.offer(m, child.Value())
				continue
			}
			stack = append(stack, &frame{state: child, moves: moves, depth: top.depth - 1, via: m, best: newRunning(child)})
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return top.best.result
		}
		stack[len(stack)-1].best.offer(top.via, top.best.result.Score)
	}
}
