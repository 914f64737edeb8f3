package supervisor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
	repo "blobwar/internal/repository"
	"blobwar/internal/strategy"
)

const helperEnv = "BLOBWAR_SUPERVISOR_HELPER"

// TestMain doubles as the child process: with helperEnv set the test
// binary sleeps or exits instead of running tests.
func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "exit":
		os.Exit(0)
	}
	os.Exit(m.Run())
}

type harness struct {
	sup  *Supervisor
	slot *repo.MemorySlot
	args []string
	keys []string
}

func newHarness(helper string, deadline time.Duration) *harness {
	h := &harness{slot: repo.NewMemorySlot()}
	h.sup = &Supervisor{
		log:      zap.NewNop().Sugar(),
		deadline: deadline,
		command: func(ctx context.Context, args ...string) *exec.Cmd {
			h.args = args
			cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^$")
			cmd.Env = append(os.Environ(), helperEnv+"="+helper)
			return cmd
		},
		openSlot: func(_ context.Context, key string) (repo.Slot, error) {
			h.keys = append(h.keys, key)
			return h.slot, nil
		},
	}
	return h
}

func TestSuperviseKillsAtDeadline(t *testing.T) {
	h := newHarness("sleep", 100*time.Millisecond)
	want := game.Jump(game.Position{X: 0, Y: 0}, game.Position{X: 2, Y: 2})
	h.slot.Store(5, &want)

	started := time.Now()
	got, err := h.sup.Supervise(context.Background(), blobwar.Default(), strategy.KindParallel)
	if err != nil {
		t.Fatalf("supervise: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 20*time.Second {
		t.Fatalf("child was not killed at the deadline, took %s", elapsed)
	}
	if got == nil || *got != want {
		t.Fatalf("expected %s, got %s", want, game.FormatMove(got))
	}

	if len(h.keys) != 1 || !strings.HasPrefix(h.keys[0], slotPrefix) {
		t.Fatalf("unexpected slot keys %v", h.keys)
	}
	wantArgs := []string{"anytime", "--board", blobwar.Default().Notation(), "--kind", "parallel", "--slot", h.keys[0]}
	if !slices.Equal(h.args, wantArgs) {
		t.Fatalf("expected args %q, got %q", wantArgs, h.args)
	}
}

func TestSuperviseChildExitsEarly(t *testing.T) {
	h := newHarness("exit", time.Minute)
	want := game.Duplicate(game.Position{X: 1, Y: 1})
	h.slot.Store(99, &want)

	got, err := h.sup.Supervise(context.Background(), blobwar.Default(), strategy.KindAlphaBeta)
	if err != nil {
		t.Fatalf("supervise: %v", err)
	}
	if got == nil || *got != want {
		t.Fatalf("expected %s, got %s", want, game.FormatMove(got))
	}
}

func TestSuperviseWithoutPublication(t *testing.T) {
	h := newHarness("exit", time.Minute)
	_, err := h.sup.Supervise(context.Background(), blobwar.Default(), strategy.KindAlphaBeta)
	if !errors.Is(err, blobwarErrors.ErrNoSlotValue) {
		t.Fatalf("expected ErrNoSlotValue, got %v", err)
	}
}

func TestSuperviseFallsBackThroughStrategy(t *testing.T) {
	h := newHarness("exit", time.Minute)
	state := blobwar.Default()
	m := strategy.IterativeDeepening{Kind: strategy.KindAlphaBeta, Supervisor: h.sup}.ComputeNextMove(state)
	if m == nil || !game.IsLegal(state, *m) {
		t.Fatalf("expected the greedy fallback to give a legal move, got %s", game.FormatMove(m))
	}
}
