package game

import (
	"fmt"

	"blobwar/internal/errors"
)

const BoardSide = 8

type Position struct {
	X int8 `json:"x" bson:"x"`
	Y int8 `json:"y" bson:"y"`
}

func PositionFromIndex(i int) Position {
	return Position{X: int8(i % BoardSide), Y: int8(i / BoardSide)}
}

func (p Position) Index() int {
	return int(p.Y)*BoardSide + int(p.X)
}

func (p Position) Valid() bool {
	return p.X >= 0 && p.X < BoardSide && p.Y >= 0 && p.Y < BoardSide
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.X, p.Y+1)
}

// Movement is one ply. A duplicate only uses To; From stays zero so that
// two duplicates onto the same cell compare equal.
type Movement struct {
	Jump bool     `json:"jump" bson:"jump"`
	From Position `json:"from" bson:"from"`
	To   Position `json:"to" bson:"to"`
}

func Duplicate(to Position) Movement {
	return Movement{To: to}
}

func Jump(from, to Position) Movement {
	return Movement{Jump: true, From: from, To: to}
}

func (m Movement) String() string {
	if m.Jump {
		return m.From.String() + m.To.String()
	}
	return m.To.String()
}

// ParseMovement reads "c3" (duplicate) or "a1c3" (jump).
func ParseMovement(s string) (Movement, error) {
	switch len(s) {
	case 2:
		to, err := parsePosition(s)
		if err != nil {
			return Movement{}, err
		}
		return Duplicate(to), nil
	case 4:
		from, err := parsePosition(s[:2])
		if err != nil {
			return Movement{}, err
		}
		to, err := parsePosition(s[2:])
		if err != nil {
			return Movement{}, err
		}
		return Jump(from, to), nil
	default:
		return Movement{}, fmt.Errorf("%w: movement %q", errors.ErrBadNotation, s)
	}
}

func parsePosition(s string) (Position, error) {
	p := Position{X: int8(s[0]) - 'a', Y: int8(s[1]) - '1'}
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: position %q", errors.ErrBadNotation, s)
	}
	return p, nil
}

// FormatMove renders an optional movement, "-" standing for none.
func FormatMove(m *Movement) string {
	if m == nil {
		return "-"
	}
	return m.String()
}
