package model

import "fmt"

// Direction is a single-step order. The byte values are the Halite wire
// characters so commands can be written without translation.
type Direction byte

const (
	North Direction = 'n'
	South Direction = 's'
	East  Direction = 'e'
	West  Direction = 'w'
	Still Direction = 'o'
)

// Cardinals lists the four moving directions in the order neighbours are
// generated everywhere in the bot.
var Cardinals = [4]Direction{North, South, East, West}

func (d Direction) String() string { return string(d) }

// Position is an unnormalized grid coordinate. Use GameMap.Normalize before
// indexing.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// Offset returns the position one step in direction d. An unknown direction
// means the caller's bookkeeping is corrupt, so it panics rather than guess.
func (p Position) Offset(d Direction) Position {
	switch d {
	case North:
		return Position{p.X, p.Y - 1}
	case South:
		return Position{p.X, p.Y + 1}
	case East:
		return Position{p.X + 1, p.Y}
	case West:
		return Position{p.X - 1, p.Y}
	case Still:
		return p
	default:
		panic(fmt.Sprintf("model: unknown direction %q", byte(d)))
	}
}

// Cardinals returns the N, S, E, W neighbours (unnormalized).
func (p Position) Cardinals() [4]Position {
	return [4]Position{
		p.Offset(North),
		p.Offset(South),
		p.Offset(East),
		p.Offset(West),
	}
}

// Less orders positions by x then y; used to keep candidate sets stable.
func (p Position) Less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}
