package strategy

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"blobwar/internal/domain/game"
	"blobwar/internal/errors"
)

// Publisher is the write side of the shared slot read by the supervisor.
type Publisher interface {
	Store(depth int, m *game.Movement)
}

type IterativeKind string

const (
	KindAlphaBeta IterativeKind = "alphabeta"
	KindMinMax    IterativeKind = "minmax"
	KindParallel  IterativeKind = "parallel"
)

func ParseKind(s string) (IterativeKind, error) {
	switch k := IterativeKind(s); k {
	case KindAlphaBeta, KindMinMax, KindParallel:
		return k, nil
	case "":
		return KindAlphaBeta, nil
	default:
		return "", fmt.Errorf("%w: iterative kind %q", errors.ErrUnknownStrategy, s)
	}
}

// Coordinator keeps publishing ever deeper results until MaxDepth or until
// the process is killed. It never checks a deadline itself.
type Coordinator struct {
	slot     Publisher
	log      *zap.SugaredLogger
	workers  int
	maxDepth uint8
	// depthSearch is the per-depth search of Parallel.
	depthSearch func(state game.State, depth uint8) SearchResult
}

func NewCoordinator(slot Publisher, log *zap.SugaredLogger, workers int) *Coordinator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Coordinator{slot: slot, log: log, workers: workers, maxDepth: MaxDepth}
	c.depthSearch = func(state game.State, depth uint8) SearchResult {
		return AlphaBetaPar(state, depth, c.workers)
	}
	return c
}

// WithMaxDepth lowers the depth ceiling, mostly for tests and benchmarks.
func (c *Coordinator) WithMaxDepth(depth uint8) *Coordinator {
	c.maxDepth = min(depth, MaxDepth)
	return c
}

func (c *Coordinator) Run(state game.State, kind IterativeKind) error {
	switch kind {
	case KindAlphaBeta:
		c.Sequential(state)
	case KindMinMax:
		c.SequentialMinMax(state)
	case KindParallel:
		c.Parallel(state)
	default:
		return fmt.Errorf("%w: iterative kind %q", errors.ErrUnknownStrategy, kind)
	}
	return nil
}

// Sequential runs hint-aware alpha-beta at increasing depth and publishes
// each result once it is complete, so the slot only ever gets deeper.
func (c *Coordinator) Sequential(state game.State) {
	Deepen(state, c.maxDepth, HintedAlphaBeta, c.publish)
}

// SequentialMinMax is Sequential with a root-parallel minimax per depth.
func (c *Coordinator) SequentialMinMax(state game.State) {
	for depth := uint8(1); depth <= c.maxDepth; depth++ {
		c.publish(depth, MinMaxPar(state, depth, c.workers))
	}
}

// Parallel searches all depths concurrently. Every result carries its
// depth and a result shallower than the last published one is dropped,
// so a slow shallow search cannot overwrite a deeper answer.
func (c *Coordinator) Parallel(state game.State) {
	var (
		mu        sync.Mutex
		published uint8
	)

	var g errgroup.Group
	if c.workers > 0 {
		g.SetLimit(c.workers)
	}
	for depth := uint8(1); depth <= c.maxDepth; depth++ {
		g.Go(func() error {
			r := c.depthSearch(state, depth)

			mu.Lock()
			defer mu.Unlock()
			if depth < published {
				c.log.Debugw("dropping stale result", "depth", depth, "published", published)
				return nil
			}
			published = depth
			c.publish(depth, r)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Coordinator) publish(depth uint8, r SearchResult) {
	c.slot.Store(int(depth), r.Move)
	c.log.Infow("published", "depth", depth, "move", game.FormatMove(r.Move), "score", r.Score)
}
