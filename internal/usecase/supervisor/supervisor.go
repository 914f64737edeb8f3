package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blobwar/internal/bootstrap"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
	repo "blobwar/internal/repository"
	"blobwar/internal/strategy"
)

const slotPrefix = "blobwar:slot:"

type notated interface {
	Notation() string
}

// Supervisor runs the anytime search in a child process of this binary,
// kills it when the deadline hits and answers with the last move it
// published. The search itself never looks at a clock.
type Supervisor struct {
	cfg      *bootstrap.Config
	log      *zap.SugaredLogger
	deadline time.Duration
	command  func(ctx context.Context, args ...string) *exec.Cmd
	openSlot func(ctx context.Context, key string) (repo.Slot, error)
}

var _ strategy.Supervisor = (*Supervisor)(nil)

// NewSupervisor spawns children as `<self> --config cfgPath anytime ...`.
func NewSupervisor(cfg *bootstrap.Config, cfgPath string, log *zap.SugaredLogger) (*Supervisor, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	s := &Supervisor{
		cfg:      cfg,
		log:      log,
		deadline: time.Duration(cfg.AnytimeDeadlineMs) * time.Millisecond,
	}
	s.command = func(ctx context.Context, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, self, append([]string{"--config", cfgPath}, args...)...)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		return cmd
	}
	s.openSlot = func(ctx context.Context, key string) (repo.Slot, error) {
		return repo.ConnectSharedSlot(ctx, cfg, key, log)
	}
	return s, nil
}

func (s *Supervisor) Supervise(ctx context.Context, state game.State, kind strategy.IterativeKind) (*game.Movement, error) {
	board, ok := state.(notated)
	if !ok {
		return nil, fmt.Errorf("%w: %T has no board notation", blobwarErrors.ErrBadNotation, state)
	}

	key := slotPrefix + uuid.NewString()
	slot, err := s.openSlot(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		if dropper, ok := slot.(interface{ Drop(context.Context) error }); ok {
			if err := dropper.Drop(context.Background()); err != nil {
				s.log.Warnw("drop slot", "key", key, "error", err)
			}
		}
		_ = slot.Close(context.Background())
	}()

	cmd := s.command(ctx, "anytime", "--board", board.Notation(), "--kind", string(kind), "--slot", key)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start anytime search: %w", err)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	timer := time.NewTimer(s.deadline)
	defer timer.Stop()

	select {
	case err := <-exited:
		if err != nil {
			s.log.Warnw("anytime search exited early", "key", key, "error", err)
		}
	case <-timer.C:
		s.stop(cmd, exited)
	case <-ctx.Done():
		s.stop(cmd, exited)
		return nil, ctx.Err()
	}

	published, err := slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	s.log.Debugw("anytime answer", "key", key, "depth", published.Depth, "move", game.FormatMove(published.Move))
	return published.Move, nil
}

func (s *Supervisor) stop(cmd *exec.Cmd, exited <-chan error) {
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.log.Warnw("kill anytime search", "pid", cmd.Process.Pid, "error", err)
	}
	<-exited
}
