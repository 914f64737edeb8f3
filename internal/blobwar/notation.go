package blobwar

import (
	"fmt"
	"strings"

	"blobwar/internal/domain/game"
	"blobwar/internal/errors"
)

type Cell byte

const (
	CellEmpty Cell = '.'
	CellHole  Cell = '#'
	CellRed   Cell = 'r'
	CellBlue  Cell = 'b'
)

// Parse reads the compact notation produced by Notation: eight ranks from
// rank 8 down to rank 1 separated by '/', then the side to move.
//
//	b......r/......../......../......../......../......../......../r......b r
func Parse(s string) (Configuration, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Configuration{}, fmt.Errorf("%w: expected board and side, got %q", errors.ErrBadNotation, s)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != game.BoardSide {
		return Configuration{}, fmt.Errorf("%w: expected %d ranks, got %d", errors.ErrBadNotation, game.BoardSide, len(ranks))
	}

	var c Configuration
	for i, rank := range ranks {
		if len(rank) != game.BoardSide {
			return Configuration{}, fmt.Errorf("%w: rank %q", errors.ErrBadNotation, rank)
		}
		y := int8(game.BoardSide - 1 - i)
		for x := 0; x < game.BoardSide; x++ {
			b := bit(game.Position{X: int8(x), Y: y})
			switch Cell(rank[x]) {
			case CellEmpty:
			case CellHole:
				c.holes |= b
			case CellRed:
				c.blobs[red] |= b
			case CellBlue:
				c.blobs[blue] |= b
			default:
				return Configuration{}, fmt.Errorf("%w: cell %q", errors.ErrBadNotation, rank[x])
			}
		}
	}

	switch fields[1] {
	case "r":
	case "b":
		c.player = true
	default:
		return Configuration{}, fmt.Errorf("%w: side %q", errors.ErrBadNotation, fields[1])
	}
	return c, nil
}

func (c Configuration) Notation() string {
	var sb strings.Builder
	for y := game.BoardSide - 1; y >= 0; y-- {
		for x := 0; x < game.BoardSide; x++ {
			sb.WriteByte(byte(c.Cell(game.Position{X: int8(x), Y: int8(y)})))
		}
		if y > 0 {
			sb.WriteByte('/')
		}
	}
	if c.player {
		sb.WriteString(" b")
	} else {
		sb.WriteString(" r")
	}
	return sb.String()
}

// String draws the board with coordinates, rank 8 on top.
func (c Configuration) String() string {
	var sb strings.Builder
	for y := game.BoardSide - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%d ", y+1)
		for x := 0; x < game.BoardSide; x++ {
			sb.WriteByte(byte(c.Cell(game.Position{X: int8(x), Y: int8(y)})))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	mover := "red"
	if c.player {
		mover = "blue"
	}
	fmt.Fprintf(&sb, "red %d, blue %d, %s to move\n", c.Blobs(false), c.Blobs(true), mover)
	return sb.String()
}
