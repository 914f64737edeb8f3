// Package strategy holds the move-selection engines: greedy lookahead,
// minimax, alpha-beta with its move-ordering variants, iterative
// deepening and the anytime coordinator.
package strategy

import (
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"blobwar/internal/domain/game"
)

// Strategy picks the next move. A nil result means no legal move exists.
type Strategy interface {
	ComputeNextMove(state game.State) *game.Movement
	fmt.Stringer
}

// SearchResult is the outcome of a depth-bounded search. Move is nil when
// the node was terminal (depth exhausted or no legal moves).
type SearchResult struct {
	Move  *game.Movement
	Score int8
}

func (r SearchResult) String() string {
	return fmt.Sprintf("%s (%d)", game.FormatMove(r.Move), r.Score)
}

func terminal(state game.State, depth uint8) (SearchResult, bool) {
	if depth == 0 || !game.HasMovements(state) {
		return SearchResult{Score: state.Value()}, true
	}
	return SearchResult{}, false
}

// running tracks the best child seen so far at one node. Only a strict
// improvement for the mover replaces it, so the earliest of equal children
// is kept. The first child is always recorded.
type running struct {
	maximizer bool
	result    SearchResult
}

func newRunning(state game.State) running {
	r := running{maximizer: !state.CurrentPlayer()}
	if r.maximizer {
		r.result.Score = game.MinValue
	} else {
		r.result.Score = game.MaxValue
	}
	return r
}

func (r *running) offer(m game.Movement, score int8) {
	if r.result.Move == nil || r.improves(score) {
		r.result = SearchResult{Move: &m, Score: score}
	}
}

func (r *running) improves(score int8) bool {
	if r.maximizer {
		return score > r.result.Score
	}
	return score < r.result.Score
}

// searchRoot scores every root move on its own goroutine, bounded by
// workers, and combines the scores in list order so equal scores resolve
// to the lowest index whatever the completion order.
func searchRoot(state game.State, moves []game.Movement, workers int, search func(child game.State) int8) SearchResult {
	scores := make([]int8, len(moves))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, m := range moves {
		g.Go(func() error {
			scores[i] = search(state.Play(m))
			return nil
		})
	}
	_ = g.Wait()

	best := newRunning(state)
	for i, m := range moves {
		best.offer(m, scores[i])
	}
	return best.result
}

func collect(state game.State) []game.Movement {
	return slices.Collect(state.Movements())
}
