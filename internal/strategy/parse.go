package strategy

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"blobwar/internal/errors"
)

// Options carries what some strategies need beyond their name.
type Options struct {
	Workers    int
	Supervisor Supervisor
	Input      LineReader
	Output     io.Writer
	Log        *zap.SugaredLogger
}

// Parse builds a strategy from its name: greedy, human, minmax:N,
// alphabeta:N or iterative[:alphabeta|minmax|parallel].
func Parse(name string, opts Options) (Strategy, error) {
	kind, arg, _ := strings.Cut(strings.ToLower(strings.TrimSpace(name)), ":")
	switch kind {
	case "greedy":
		return Greedy{}, nil
	case "human":
		if opts.Input == nil || opts.Output == nil {
			return nil, fmt.Errorf("%w: human player needs a terminal", errors.ErrUnknownStrategy)
		}
		return Human{Input: opts.Input, Output: opts.Output}, nil
	case "minmax":
		depth, err := parseDepth(arg)
		if err != nil {
			return nil, err
		}
		return MinMax{Depth: depth, Workers: opts.Workers}, nil
	case "alphabeta":
		depth, err := parseDepth(arg)
		if err != nil {
			return nil, err
		}
		return AlphaBeta{Depth: depth}, nil
	case "iterative":
		k, err := ParseKind(arg)
		if err != nil {
			return nil, err
		}
		if opts.Supervisor == nil {
			return nil, fmt.Errorf("%w: iterative deepening needs a supervisor", errors.ErrUnknownStrategy)
		}
		return IterativeDeepening{Kind: k, Supervisor: opts.Supervisor, Log: opts.Log}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStrategy, name)
	}
}

func parseDepth(s string) (uint8, error) {
	depth, err := strconv.ParseUint(s, 10, 8)
	if err != nil || depth < 1 || uint8(depth) > MaxDepth {
		return 0, fmt.Errorf("%w: depth %q must be within 1..%d", errors.ErrUnknownStrategy, s, MaxDepth)
	}
	return uint8(depth), nil
}
