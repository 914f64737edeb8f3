package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
	"blobwar/internal/strategy"
)

type EngineUseCase struct {
	opts strategy.Options
	log  *zap.SugaredLogger
}

// NewEngineUseCase serves move requests. supervisor may be nil, which
// disables the iterative strategies.
func NewEngineUseCase(workers int, supervisor strategy.Supervisor, log *zap.SugaredLogger) *EngineUseCase {
	return &EngineUseCase{
		opts: strategy.Options{Workers: workers, Supervisor: supervisor, Log: log},
		log:  log,
	}
}

func (e *EngineUseCase) ComputeMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error) {
	state, err := blobwar.Parse(req.Board)
	if err != nil {
		return domain.MoveResponse{}, err
	}
	if state.GameOver() {
		return domain.MoveResponse{}, fmt.Errorf("%w: %s", blobwarErrors.ErrGameOver, req.Board)
	}
	s, err := strategy.Parse(req.Strategy, e.opts)
	if err != nil {
		return domain.MoveResponse{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.MoveResponse{}, err
	}

	m := s.ComputeNextMove(state)
	resp := domain.MoveResponse{Move: game.FormatMove(m), Found: m != nil, Value: state.Value()}
	if m != nil {
		resp.Value = state.Apply(*m).Value()
	}
	e.log.Debugw("computed move", "strategy", s.String(), "board", req.Board, "move", resp.Move, "value", resp.Value)
	return resp, nil
}
