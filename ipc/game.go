package ipc

import (
	"fmt"

	"github.com/nstehr/prospector/model"
)

// NewGame builds the initial game from a hello message.
func NewGame(h HelloMessage) (*model.Game, error) {
	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("bad map size %dx%d", h.Width, h.Height)
	}
	if len(h.Halite) != h.Width*h.Height {
		return nil, fmt.Errorf("map has %d cells, want %d", len(h.Halite), h.Width*h.Height)
	}
	players := make([]*model.Player, 0, len(h.Players))
	for _, p := range h.Players {
		players = append(players, model.NewPlayer(model.PlayerID(p.ID), p.X, p.Y))
	}
	g, err := model.NewGame(h.Constants, model.PlayerID(h.MyID), players, model.NewGameMap(h.Width, h.Height, h.Halite))
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ApplyFrame replaces every roster with the frame's and applies the cell
// updates. Ships missing from the frame are gone.
func ApplyFrame(g *model.Game, f FrameMessage) error {
	g.Turn = f.Turn
	for _, pf := range f.Players {
		p := g.Player(model.PlayerID(pf.ID))
		if p == nil {
			return fmt.Errorf("frame names unknown player %d", pf.ID)
		}
		p.Halite = pf.Halite
		p.Ships = make(map[model.ShipID]*model.Ship, len(pf.Ships))
		for _, s := range pf.Ships {
			id := model.ShipID(s.ID)
			p.Ships[id] = &model.Ship{ID: id, Owner: p.ID, Pos: model.Position{X: s.X, Y: s.Y}, Halite: s.Halite}
		}
		p.Dropoffs = make(map[int]*model.Base, len(pf.Dropoffs))
		for _, d := range pf.Dropoffs {
			p.Dropoffs[d.ID] = &model.Base{ID: d.ID, Owner: p.ID, Pos: model.Position{X: d.X, Y: d.Y}}
		}
	}
	for _, c := range f.Cells {
		g.Map.At(model.Position{X: c.X, Y: c.Y}).Halite = c.Halite
	}
	return g.Refresh()
}

// HelloFor describes g as a hello message; the inverse of NewGame.
func HelloFor(g *model.Game, seat model.PlayerID) HelloMessage {
	h := HelloMessage{
		Constants: g.Constants,
		MyID:      int(seat),
		Width:     g.Map.Width,
		Height:    g.Map.Height,
		Halite:    make([]int, len(g.Map.Cells)),
	}
	for _, p := range g.Players {
		h.Players = append(h.Players, PlayerStart{ID: int(p.ID), X: p.Shipyard.Pos.X, Y: p.Shipyard.Pos.Y})
	}
	for i := range g.Map.Cells {
		h.Halite[i] = g.Map.Cells[i].Halite
	}
	return h
}

// FrameFor describes the current rosters of g plus the given cell changes.
func FrameFor(g *model.Game, changed []model.Position) FrameMessage {
	f := FrameMessage{Turn: g.Turn}
	for _, p := range g.Players {
		pf := PlayerFrame{ID: int(p.ID), Halite: p.Halite}
		for _, s := range p.ShipList() {
			pf.Ships = append(pf.Ships, ShipFrame{ID: int(s.ID), X: s.Pos.X, Y: s.Pos.Y, Halite: s.Halite})
		}
		for _, b := range p.Bases()[1:] {
			pf.Dropoffs = append(pf.Dropoffs, DropoffFrame{ID: b.ID, X: b.Pos.X, Y: b.Pos.Y})
		}
		f.Players = append(f.Players, pf)
	}
	for _, c := range changed {
		f.Cells = append(f.Cells, CellUpdate{X: c.X, Y: c.Y, Halite: g.Map.At(c).Halite})
	}
	return f
}
