package model

// ShipID identifies a ship for the whole game. Cells refer to ships by id so
// nothing holds a pointer into last turn's roster.
type ShipID int

// NoShip marks an empty cell.
const NoShip ShipID = -1

// Cell is one square of the toroidal map. Inspired, NearestBase and
// Congestion are per-turn annotations recomputed by Game.Annotate.
type Cell struct {
	Pos       Position
	Halite    int
	Occupant  ShipID
	Structure *Base

	Inspired    bool
	NearestBase Position
	Congestion  int // own ships whose nearest base is this cell
}

func (c *Cell) Occupied() bool     { return c.Occupant != NoShip }
func (c *Cell) HasStructure() bool { return c.Structure != nil }

// GameMap is a Width x Height torus stored row-major: Cells[y*Width + x].
type GameMap struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewGameMap builds an empty map. halite may be nil or row-major of length
// width*height.
func NewGameMap(width, height int, halite []int) *GameMap {
	m := &GameMap{Width: width, Height: height, Cells: make([]Cell, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			c := &m.Cells[i]
			c.Pos = Position{x, y}
			c.Occupant = NoShip
			c.NearestBase = c.Pos
			if halite != nil {
				c.Halite = halite[i]
			}
		}
	}
	return m
}

// Normalize wraps p onto the torus.
func (m *GameMap) Normalize(p Position) Position {
	x := ((p.X % m.Width) + m.Width) % m.Width
	y := ((p.Y % m.Height) + m.Height) % m.Height
	return Position{x, y}
}

// Index returns the row-major index of p after normalizing.
func (m *GameMap) Index(p Position) int {
	p = m.Normalize(p)
	return p.Y*m.Width + p.X
}

// At returns the cell at p, wrapping around the edges.
func (m *GameMap) At(p Position) *Cell {
	return &m.Cells[m.Index(p)]
}

// Distance is the toroidal Manhattan distance.
func (m *GameMap) Distance(a, b Position) int {
	a, b = m.Normalize(a), m.Normalize(b)
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	return min(dx, m.Width-dx) + min(dy, m.Height-dy)
}

// Neighbors returns the normalized N, S, E, W neighbours of p.
func (m *GameMap) Neighbors(p Position) [4]Position {
	ns := p.Cardinals()
	for i := range ns {
		ns[i] = m.Normalize(ns[i])
	}
	return ns
}

// DirectionsToward returns the cardinal directions that shorten the toroidal
// distance from src to dst. Empty when src == dst.
func (m *GameMap) DirectionsToward(src, dst Position) []Direction {
	src, dst = m.Normalize(src), m.Normalize(dst)
	var dirs []Direction
	if src.Y != dst.Y {
		dy := dst.Y - src.Y
		if (dy > 0) == (abs(dy) <= m.Height/2) {
			dirs = append(dirs, South)
		} else {
			dirs = append(dirs, North)
		}
	}
	if src.X != dst.X {
		dx := dst.X - src.X
		if (dx > 0) == (abs(dx) <= m.Width/2) {
			dirs = append(dirs, East)
		} else {
			dirs = append(dirs, West)
		}
	}
	return dirs
}

// DirectionTo returns the direction that moves from src onto the adjacent
// cell dst. ok is false when dst is neither src nor a neighbour.
func (m *GameMap) DirectionTo(src, dst Position) (Direction, bool) {
	src, dst = m.Normalize(src), m.Normalize(dst)
	if src == dst {
		return Still, true
	}
	for _, d := range Cardinals {
		if m.Normalize(src.Offset(d)) == dst {
			return d, true
		}
	}
	return Still, false
}

// TotalHalite sums the halite on every cell.
func (m *GameMap) TotalHalite() int {
	total := 0
	for i := range m.Cells {
		total += m.Cells[i].Halite
	}
	return total
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
