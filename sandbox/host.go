package sandbox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/prospector/ipc"
	"github.com/nstehr/prospector/model"
)

// Host is a single-player game. The authoritative state never leaves the
// host; the bot gets its own copy rebuilt from hello and frame messages,
// exactly as a socket client would.
type Host struct {
	world   *model.Game
	view    *model.Game
	nextID  model.ShipID
	changed map[model.Position]bool

	Deposited int // halite delivered to bases over the game
	Lost      int // ships destroyed in collisions
}

// New seats player 0 with a shipyard at yard and bank halite.
func New(k model.Constants, m *model.GameMap, yard model.Position, bank int) (*Host, error) {
	me := model.NewPlayer(0, yard.X, yard.Y)
	me.Halite = bank
	g, err := model.NewGame(k, 0, []*model.Player{me}, m)
	if err != nil {
		return nil, fmt.Errorf("sandbox game: %w", err)
	}
	return &Host{world: g, changed: make(map[model.Position]bool)}, nil
}

// NewGenerated builds a square map from noise with the shipyard in the
// middle and the engine's default starting bank.
func NewGenerated(k model.Constants, size int, seed int64) (*Host, error) {
	k.GameSeed = seed
	m := Generate(DefaultTerrain(size, seed))
	return New(k, m, model.Position{X: size / 2, Y: size / 2}, 5000)
}

// AddShip places a ship before the first frame.
func (h *Host) AddShip(p model.Position, cargo int) (model.ShipID, error) {
	id := h.nextID
	h.nextID++
	h.world.Me().Ships[id] = &model.Ship{ID: id, Pos: p, Halite: cargo}
	return id, h.world.Refresh()
}

// Bank is the player's current halite.
func (h *Host) Bank() int { return h.world.Me().Halite }

// World exposes the authoritative state for inspection.
func (h *Host) World() *model.Game { return h.world }

func (h *Host) UpdateFrame(ctx context.Context) (*model.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.world.Turn >= h.world.Constants.MaxTurns {
		return nil, ipc.ErrGameOver
	}
	h.world.Turn++

	if h.view == nil {
		v, err := ipc.NewGame(ipc.HelloFor(h.world, 0))
		if err != nil {
			return nil, err
		}
		h.view = v
	}
	changed := make([]model.Position, 0, len(h.changed))
	for p := range h.changed {
		changed = append(changed, p)
	}
	clear(h.changed)
	if err := ipc.ApplyFrame(h.view, ipc.FrameFor(h.world, changed)); err != nil {
		return nil, err
	}
	return h.view, nil
}

// EndTurn applies the bot's orders the way the engine does: spawns and
// conversions first, then moves paid from cargo, mining by ships that
// stayed, collisions and finally deposits.
func (h *Host) EndTurn(ctx context.Context, cmds []model.Command) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	g := h.world
	me := g.Me()
	k := g.Constants

	moves := make(map[model.ShipID]model.Direction)
	spawn := false
	var converts []model.ShipID
	for _, c := range cmds {
		switch c.Kind {
		case model.CommandSpawn:
			spawn = true
			continue
		case model.CommandConvert:
			converts = append(converts, c.Ship)
		case model.CommandMove:
			moves[c.Ship] = c.Dir
		}
		if me.Ships[c.Ship] == nil {
			return false, fmt.Errorf("turn %d: command for unknown ship %d", g.Turn, c.Ship)
		}
	}

	for _, id := range converts {
		s := me.Ships[id]
		cell := g.Map.At(s.Pos)
		if cell.HasStructure() {
			return false, fmt.Errorf("turn %d: ship %d converts on a structure", g.Turn, id)
		}
		need := k.DropoffCost - s.Halite - cell.Halite
		if me.Halite < need {
			return false, fmt.Errorf("turn %d: ship %d cannot afford a dropoff", g.Turn, id)
		}
		me.Halite -= max(0, need)
		cell.Halite = 0
		h.changed[s.Pos] = true
		g.AddDropoff(int(id), s.Pos)
		delete(me.Ships, id)
		delete(moves, id)
	}

	// Ships move or mine; a ship that cannot pay to leave stays.
	for _, s := range me.ShipList() {
		d, ok := moves[s.ID]
		cell := g.Map.At(s.Pos)
		if ok && d != model.Still {
			if cost := k.MoveCost(cell.Halite); s.Halite >= cost {
				s.Halite -= cost
				s.Pos = g.Map.Normalize(s.Pos.Offset(d))
				continue
			}
			slog.Debug("sandbox: ship cannot pay to move", "turn", g.Turn, "ship", s.ID)
		}
		if got := min(k.Extracted(cell.Halite), k.MaxHalite-s.Halite); got > 0 {
			s.Halite += got
			cell.Halite -= got
			h.changed[s.Pos] = true
		}
	}

	if spawn {
		if me.Halite < k.ShipCost {
			return false, fmt.Errorf("turn %d: spawn without funds", g.Turn)
		}
		me.Halite -= k.ShipCost
		id := h.nextID
		me.Ships[id] = &model.Ship{ID: id, Owner: me.ID, Pos: me.Shipyard.Pos}
	}
	for id := range me.Ships {
		h.nextID = max(h.nextID, id+1)
	}

	h.collide()

	for _, s := range me.ShipList() {
		if c := g.Map.At(s.Pos); c.HasStructure() && s.Halite > 0 {
			me.Halite += s.Halite
			h.Deposited += s.Halite
			s.Halite = 0
		}
	}
	if err := g.Refresh(); err != nil {
		return false, err
	}
	return g.Turn < k.MaxTurns, nil
}

// collide destroys every ship sharing a cell. Their cargo lands on the
// cell, or in the bank when the cell is a base.
func (h *Host) collide() {
	g := h.world
	me := g.Me()
	at := make(map[model.Position][]*model.Ship)
	for _, s := range me.ShipList() {
		at[s.Pos] = append(at[s.Pos], s)
	}
	for p, ships := range at {
		if len(ships) < 2 {
			continue
		}
		cell := g.Map.At(p)
		for _, s := range ships {
			if cell.HasStructure() {
				me.Halite += s.Halite
			} else {
				cell.Halite += s.Halite
				h.changed[p] = true
			}
			delete(me.Ships, s.ID)
			h.Lost++
		}
		slog.Warn("sandbox: collision", "turn", g.Turn, "pos", p, "ships", len(ships))
	}
}
