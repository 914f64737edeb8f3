package strategy

import (
	"fmt"
	"io"
	"strings"

	"blobwar/internal/domain/game"
)

// LineReader is satisfied by *readline.Instance.
type LineReader interface {
	Readline() (string, error)
}

// Human asks for moves on Input until a legal one is typed. Input errors,
// EOF included, give up the move.
type Human struct {
	Input  LineReader
	Output io.Writer
}

func (Human) String() string {
	return "Human"
}

func (h Human) ComputeNextMove(state game.State) *game.Movement {
	if !game.HasMovements(state) {
		return nil
	}
	if s, ok := state.(fmt.Stringer); ok {
		fmt.Fprint(h.Output, s.String())
	}
	for {
		line, err := h.Input.Readline()
		if err != nil {
			return nil
		}
		m, err := game.ParseMovement(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(h.Output, "%v, type a destination like c3 or a jump like a1c3\n", err)
			continue
		}
		if !game.IsLegal(state, m) {
			fmt.Fprintf(h.Output, "%s is not a legal move\n", m)
			continue
		}
		return &m
	}
}
