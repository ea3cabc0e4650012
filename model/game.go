package model

import (
	"fmt"
	"slices"
)

// PlayerID identifies a player; the host assigns 0..n-1.
type PlayerID int

// Constants are the game parameters sent by the host at startup. The JSON
// names are the Halite engine's.
type Constants struct {
	MaxHalite               int     `json:"MAX_ENERGY"`
	ShipCost                int     `json:"NEW_ENTITY_ENERGY_COST"`
	DropoffCost             int     `json:"DROPOFF_COST"`
	MaxTurns                int     `json:"MAX_TURNS"`
	ExtractRatio            int     `json:"EXTRACT_RATIO"`
	MoveCostRatio           int     `json:"MOVE_COST_RATIO"`
	InspirationEnabled      bool    `json:"INSPIRATION_ENABLED"`
	InspirationRadius       int     `json:"INSPIRATION_RADIUS"`
	InspirationShipCount    int     `json:"INSPIRATION_SHIP_COUNT"`
	InspiredBonusMultiplier float64 `json:"INSPIRED_BONUS_MULTIPLIER"`
	GameSeed                int64   `json:"game_seed"`
}

// DefaultConstants mirrors the stock Halite III rules.
func DefaultConstants() Constants {
	return Constants{
		MaxHalite:               1000,
		ShipCost:                1000,
		DropoffCost:             4000,
		MaxTurns:                400,
		ExtractRatio:            4,
		MoveCostRatio:           10,
		InspirationEnabled:      true,
		InspirationRadius:       4,
		InspirationShipCount:    2,
		InspiredBonusMultiplier: 2,
	}
}

// Extracted is the halite a ship mines from a cell holding h in one turn.
func (c Constants) Extracted(h int) int {
	return (h + c.ExtractRatio - 1) / c.ExtractRatio
}

// MoveCost is the halite burned leaving a cell holding h.
func (c Constants) MoveCost(h int) int {
	return h / c.MoveCostRatio
}

type Ship struct {
	ID     ShipID   `json:"id"`
	Owner  PlayerID `json:"owner"`
	Pos    Position `json:"pos"`
	Halite int      `json:"halite"`

	// Next is the cell the ship is steering for this turn. Only valid within
	// the turn that set it.
	Next Position `json:"-"`
}

// Base is a shipyard or a dropoff.
type Base struct {
	ID       int      `json:"id"`
	Owner    PlayerID `json:"owner"`
	Pos      Position `json:"pos"`
	Shipyard bool     `json:"shipyard"`
}

type Player struct {
	ID       PlayerID         `json:"id"`
	Halite   int              `json:"halite"`
	Shipyard *Base            `json:"shipyard"`
	Ships    map[ShipID]*Ship `json:"-"`
	Dropoffs map[int]*Base    `json:"-"`
}

// NewPlayer creates a player with a shipyard at (x, y).
func NewPlayer(id PlayerID, x, y int) *Player {
	return &Player{
		ID:       id,
		Shipyard: &Base{ID: -1, Owner: id, Pos: Position{x, y}, Shipyard: true},
		Ships:    make(map[ShipID]*Ship),
		Dropoffs: make(map[int]*Base),
	}
}

// ShipList returns the player's ships ordered by id.
func (p *Player) ShipList() []*Ship {
	out := make([]*Ship, 0, len(p.Ships))
	for _, s := range p.Ships {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Ship) int { return int(a.ID) - int(b.ID) })
	return out
}

// Bases returns the shipyard followed by dropoffs ordered by id.
func (p *Player) Bases() []*Base {
	out := []*Base{p.Shipyard}
	ids := make([]int, 0, len(p.Dropoffs))
	for id := range p.Dropoffs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		out = append(out, p.Dropoffs[id])
	}
	return out
}

// Game is the bot's view of the match after a frame update.
type Game struct {
	Turn      int
	MyID      PlayerID
	Players   []*Player
	Map       *GameMap
	Constants Constants

	ships map[ShipID]*Ship
}

// Me returns the bot's own player.
func (g *Game) Me() *Player { return g.Player(g.MyID) }

// Player returns the player with the given id, or nil.
func (g *Game) Player(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Ship looks up any player's ship by id.
func (g *Game) Ship(id ShipID) *Ship {
	return g.ships[id]
}

// Occupant returns the ship recorded on the cell at p, or nil.
func (g *Game) Occupant(p Position) *Ship {
	c := g.Map.At(p)
	if !c.Occupied() {
		return nil
	}
	return g.ships[c.Occupant]
}

// Refresh rebuilds the ship registry and the occupant/structure references
// on every cell. Hosts call it after applying a frame.
func (g *Game) Refresh() error {
	g.ships = make(map[ShipID]*Ship)
	for i := range g.Map.Cells {
		g.Map.Cells[i].Occupant = NoShip
		g.Map.Cells[i].Structure = nil
	}
	for _, p := range g.Players {
		for _, b := range p.Bases() {
			g.Map.At(b.Pos).Structure = b
		}
		for _, s := range p.Ships {
			if _, dup := g.ships[s.ID]; dup {
				return fmt.Errorf("duplicate ship id %d", s.ID)
			}
			s.Pos = g.Map.Normalize(s.Pos)
			s.Owner = p.ID
			g.ships[s.ID] = s
			g.Map.At(s.Pos).Occupant = s.ID
		}
	}
	return nil
}

// MarkUnsafe records ship as the occupant of p unless the cell already holds
// a ship carrying no more cargo.
func (g *Game) MarkUnsafe(p Position, ship *Ship) {
	c := g.Map.At(p)
	if cur := g.Occupant(p); cur == nil || cur.Halite > ship.Halite {
		c.Occupant = ship.ID
		g.ships[ship.ID] = ship
	}
}

// HardStuck reports whether the ship cannot pay to leave its cell.
func (g *Game) HardStuck(s *Ship) bool {
	return s.Halite < g.Constants.MoveCost(g.Map.At(s.Pos).Halite)
}

// NearestBase returns the own base closest to p as annotated this turn.
func (g *Game) NearestBase(p Position) Position {
	return g.Map.At(p).NearestBase
}

// Annotate recomputes the per-turn cell annotations: inspiration, nearest
// own base and base congestion. Safe to call more than once per turn.
func (g *Game) Annotate() {
	me := g.Me()
	bases := me.Bases()
	var enemies []*Ship
	for _, p := range g.Players {
		if p.ID == g.MyID {
			continue
		}
		enemies = append(enemies, p.ShipList()...)
	}

	k := g.Constants
	for i := range g.Map.Cells {
		c := &g.Map.Cells[i]

		near := 0
		if k.InspirationEnabled {
			for _, e := range enemies {
				if g.Map.Distance(c.Pos, e.Pos) <= k.InspirationRadius {
					near++
				}
			}
		}
		c.Inspired = k.InspirationEnabled && near >= k.InspirationShipCount

		c.Congestion = 0
		c.NearestBase = bases[0].Pos
		for _, b := range bases[1:] {
			if g.Map.Distance(c.Pos, b.Pos) < g.Map.Distance(c.Pos, c.NearestBase) {
				c.NearestBase = b.Pos
			}
		}
	}
	for _, s := range me.ShipList() {
		g.Map.At(g.NearestBase(s.Pos)).Congestion++
	}
}

// MarkThreats marks enemy ships and, unless they are stuck, their four
// neighbours as occupied. Ships within one step of our nearest base are
// ignored. Returns the marked positions.
func (g *Game) MarkThreats() []Position {
	var marked []Position
	for _, p := range g.Players {
		if p.ID == g.MyID {
			continue
		}
		for _, s := range p.ShipList() {
			if g.Map.Distance(s.Pos, g.NearestBase(s.Pos)) <= 1 {
				continue
			}
			g.MarkUnsafe(s.Pos, s)
			marked = append(marked, s.Pos)
			if g.HardStuck(s) {
				continue
			}
			for _, n := range g.Map.Neighbors(s.Pos) {
				g.MarkUnsafe(n, s)
				marked = append(marked, n)
			}
		}
	}
	return marked
}

// RemoveShip drops one of the bot's ships from the roster (used when it is
// converted into a dropoff). The cell keeps its occupant for the turn.
func (g *Game) RemoveShip(id ShipID) {
	delete(g.Me().Ships, id)
}

// AddDropoff registers a new own dropoff at p for the rest of the turn.
func (g *Game) AddDropoff(id int, p Position) *Base {
	me := g.Me()
	b := &Base{ID: id, Owner: me.ID, Pos: g.Map.Normalize(p)}
	me.Dropoffs[id] = b
	g.Map.At(b.Pos).Structure = b
	return b
}
