package strategy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"blobwar/internal/domain/game"
)

// MaxDepth is the safety ceiling of iterative deepening.
const MaxDepth uint8 = 99

// DepthSearch is a depth-bounded search taking an ordering hint.
type DepthSearch func(state game.State, depth uint8, hint *game.Movement) SearchResult

// HintedAlphaBeta searches depth plies with hint tried first.
func HintedAlphaBeta(state game.State, depth uint8, hint *game.Movement) SearchResult {
	return DeepeningAlphaBeta(state, depth, game.MaxValue, game.MinValue, depth, hint)
}

// Deepen runs search at depth 1, 2, ... maxDepth, passing each result's move
// as the hint of the next iteration, and hands every completed iteration to
// visit. It returns the deepest result.
func Deepen(state game.State, maxDepth uint8, search DepthSearch, visit func(depth uint8, r SearchResult)) SearchResult {
	maxDepth = min(maxDepth, MaxDepth)

	var (
		hint *game.Movement
		last SearchResult
	)
	for depth := uint8(1); depth <= maxDepth; depth++ {
		last = search(state, depth, hint)
		hint = last.Move
		if visit != nil {
			visit(depth, last)
		}
	}
	return last
}

// Supervisor runs an anytime search under a deadline and returns whatever
// it had published when the deadline hit.
type Supervisor interface {
	Supervise(ctx context.Context, state game.State, kind IterativeKind) (*game.Movement, error)
}

// IterativeDeepening delegates to a deadline supervisor. When supervision
// fails it logs and answers with Greedy so a match can go on.
type IterativeDeepening struct {
	Kind       IterativeKind
	Supervisor Supervisor
	Log        *zap.SugaredLogger
}

func (s IterativeDeepening) String() string {
	return fmt.Sprintf("Iterative deepening (%s)", s.Kind)
}

func (s IterativeDeepening) ComputeNextMove(state game.State) *game.Movement {
	if !game.HasMovements(state) {
		return nil
	}
	m, err := s.Supervisor.Supervise(context.Background(), state, s.Kind)
	if err == nil && m != nil {
		return m
	}
	if s.Log != nil {
		s.Log.Errorw("anytime search gave no move, falling back to greedy", "kind", s.Kind, "error", err)
	}
	return Greedy{}.ComputeNextMove(state)
}
