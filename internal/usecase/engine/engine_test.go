package engine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
)

func TestComputeMove(t *testing.T) {
	uc := NewEngineUseCase(2, nil, zap.NewNop().Sugar())
	board := blobwar.Default().Notation()

	for _, name := range []string{"greedy", "minmax:2", "alphabeta:3"} {
		resp, err := uc.ComputeMove(context.Background(), domain.MoveRequest{Board: board, Strategy: name})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		m, err := game.ParseMovement(resp.Move)
		if err != nil || !resp.Found || !game.IsLegal(blobwar.Default(), m) {
			t.Fatalf("%s: expected a legal move, got %+v", name, resp)
		}
		if want := blobwar.Default().Apply(m).Value(); resp.Value != want {
			t.Fatalf("%s: expected value %d, got %d", name, want, resp.Value)
		}
	}
}

func TestComputeMovePass(t *testing.T) {
	uc := NewEngineUseCase(1, nil, zap.NewNop().Sugar())
	board := ".......b/......../......../......../......../###...../###...../r##..... r"
	resp, err := uc.ComputeMove(context.Background(), domain.MoveRequest{Board: board, Strategy: "greedy"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Found || resp.Move != "-" || resp.Value != 0 {
		t.Fatalf("expected a pass, got %+v", resp)
	}
}

func TestComputeMoveErrors(t *testing.T) {
	uc := NewEngineUseCase(1, nil, zap.NewNop().Sugar())
	board := blobwar.Default().Notation()
	tests := []struct {
		req  domain.MoveRequest
		want error
	}{
		{domain.MoveRequest{Board: "rubbish", Strategy: "greedy"}, blobwarErrors.ErrBadNotation},
		{domain.MoveRequest{Board: board, Strategy: "oracle"}, blobwarErrors.ErrUnknownStrategy},
		{domain.MoveRequest{Board: board, Strategy: "iterative"}, blobwarErrors.ErrUnknownStrategy},
		{domain.MoveRequest{Board: board, Strategy: "human"}, blobwarErrors.ErrUnknownStrategy},
		{domain.MoveRequest{Board: "rrrrrrrr/rrrrrrrr/rrrrrrrr/rrrrrrrr/rrrrrrrr/rrrrrrrr/rrrrrrrr/rrrrrrrr b", Strategy: "greedy"}, blobwarErrors.ErrGameOver},
	}
	for _, tt := range tests {
		if _, err := uc.ComputeMove(context.Background(), tt.req); !errors.Is(err, tt.want) {
			t.Errorf("%+v: expected %v, got %v", tt.req, tt.want, err)
		}
	}
}
