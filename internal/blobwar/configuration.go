package blobwar

import (
	"iter"
	"math/bits"
	"slices"

	"lukechampine.com/frand"

	"blobwar/internal/domain/game"
)

const (
	red  = 0
	blue = 1
)

var (
	adjacent [64]uint64
	ring     [64]uint64
)

func init() {
	for i := 0; i < 64; i++ {
		p := game.PositionFromIndex(i)
		for dy := int8(-2); dy <= 2; dy++ {
			for dx := int8(-2); dx <= 2; dx++ {
				q := game.Position{X: p.X + dx, Y: p.Y + dy}
				if !q.Valid() || (dx == 0 && dy == 0) {
					continue
				}
				if max(abs(dx), abs(dy)) == 1 {
					adjacent[i] |= 1 << q.Index()
				} else {
					ring[i] |= 1 << q.Index()
				}
			}
		}
	}
}

func abs(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

// Configuration is one blobwar position: red and blue blobs, holes and the
// side to move. It is a value type; every move produces a new one.
type Configuration struct {
	blobs  [2]uint64
	holes  uint64
	player bool
}

var _ game.State = Configuration{}

// Default is the starting position: red on a1 and h8, blue on a8 and h1,
// red to move.
func Default() Configuration {
	var c Configuration
	c.blobs[red] = bit(game.Position{X: 0, Y: 0}) | bit(game.Position{X: 7, Y: 7})
	c.blobs[blue] = bit(game.Position{X: 0, Y: 7}) | bit(game.Position{X: 7, Y: 0})
	return c
}

func bit(p game.Position) uint64 {
	return 1 << p.Index()
}

func side(player bool) int {
	if player {
		return blue
	}
	return red
}

func (c Configuration) CurrentPlayer() bool {
	return c.player
}

func (c Configuration) empty() uint64 {
	return ^(c.blobs[red] | c.blobs[blue] | c.holes)
}

func (c Configuration) Cell(p game.Position) Cell {
	b := bit(p)
	switch {
	case c.holes&b != 0:
		return CellHole
	case c.blobs[red]&b != 0:
		return CellRed
	case c.blobs[blue]&b != 0:
		return CellBlue
	default:
		return CellEmpty
	}
}

// Blobs counts the blobs owned by player.
func (c Configuration) Blobs(player bool) int {
	return bits.OnesCount64(c.blobs[side(player)])
}

func (c Configuration) Movements() iter.Seq[game.Movement] {
	return func(yield func(game.Movement) bool) {
		mine := c.blobs[side(c.player)]
		empty := c.empty()
		var reach uint64
		for b := mine; b != 0; b &= b - 1 {
			reach |= adjacent[bits.TrailingZeros64(b)]
		}
		for d := reach & empty; d != 0; d &= d - 1 {
			if !yield(game.Duplicate(game.PositionFromIndex(bits.TrailingZeros64(d)))) {
				return
			}
		}
		for b := mine; b != 0; b &= b - 1 {
			src := bits.TrailingZeros64(b)
			for d := ring[src] & empty; d != 0; d &= d - 1 {
				m := game.Jump(game.PositionFromIndex(src), game.PositionFromIndex(bits.TrailingZeros64(d)))
				if !yield(m) {
					return
				}
			}
		}
	}
}

func (c Configuration) MovementsSorted() iter.Seq[game.Movement] {
	type scored struct {
		m game.Movement
		v int8
	}
	var moves []scored
	for m := range c.Movements() {
		moves = append(moves, scored{m: m, v: c.Apply(m).Value()})
	}
	maximizer := !c.player
	slices.SortStableFunc(moves, func(a, b scored) int {
		if maximizer {
			return int(b.v) - int(a.v)
		}
		return int(a.v) - int(b.v)
	})
	return func(yield func(game.Movement) bool) {
		for _, s := range moves {
			if !yield(s.m) {
				return
			}
		}
	}
}

func (c Configuration) MovementsRandom() iter.Seq[game.Movement] {
	moves := slices.Collect(c.Movements())
	frand.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	return slices.Values(moves)
}

// MovementsValuable puts the moves converting the most blobs first. Those
// children tend to have the largest subtrees, so handing them out early
// keeps root-parallel workers evenly loaded.
func (c Configuration) MovementsValuable() iter.Seq[game.Movement] {
	opponent := c.blobs[side(!c.player)]
	moves := slices.Collect(c.Movements())
	slices.SortStableFunc(moves, func(a, b game.Movement) int {
		return bits.OnesCount64(adjacent[b.To.Index()]&opponent) - bits.OnesCount64(adjacent[a.To.Index()]&opponent)
	})
	return slices.Values(moves)
}

func (c Configuration) Play(m game.Movement) game.State {
	return c.Apply(m)
}

// Apply is Play on the concrete type. The move is assumed legal.
func (c Configuration) Apply(m game.Movement) Configuration {
	me, other := side(c.player), side(!c.player)
	dst := m.To.Index()
	if m.Jump {
		c.blobs[me] &^= 1 << m.From.Index()
	}
	c.blobs[me] |= 1 << dst
	captured := adjacent[dst] & c.blobs[other]
	c.blobs[me] |= captured
	c.blobs[other] &^= captured
	c.player = !c.player
	return c
}

// Skip passes the turn.
func (c Configuration) Skip() Configuration {
	c.player = !c.player
	return c
}

func (c Configuration) Value() int8 {
	return int8(bits.OnesCount64(c.blobs[red]) - bits.OnesCount64(c.blobs[blue]))
}

func (c Configuration) canMove(s int) bool {
	empty := c.empty()
	for b := c.blobs[s]; b != 0; b &= b - 1 {
		i := bits.TrailingZeros64(b)
		if (adjacent[i]|ring[i])&empty != 0 {
			return true
		}
	}
	return false
}

func (c Configuration) GameOver() bool {
	if c.empty() == 0 || c.blobs[red] == 0 || c.blobs[blue] == 0 {
		return true
	}
	return !c.canMove(red) && !c.canMove(blue)
}
