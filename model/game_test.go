package model

import "testing"

func twoPlayerGame(t *testing.T) *Game {
	t.Helper()
	me := NewPlayer(0, 1, 1)
	them := NewPlayer(1, 12, 12)
	g, err := NewGame(DefaultConstants(), 0, []*Player{me, them}, NewGameMap(16, 16, nil))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func addShip(t *testing.T, g *Game, owner PlayerID, id ShipID, x, y, halite int) *Ship {
	t.Helper()
	s := &Ship{ID: id, Owner: owner, Pos: Position{x, y}, Halite: halite}
	g.Player(owner).Ships[id] = s
	if err := g.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return s
}

func TestRefreshRejectsDuplicateIDs(t *testing.T) {
	g := twoPlayerGame(t)
	g.Players[0].Ships[1] = &Ship{ID: 1, Pos: Position{2, 2}}
	g.Players[1].Ships[1] = &Ship{ID: 1, Pos: Position{9, 9}}
	if err := g.Refresh(); err == nil {
		t.Error("expected duplicate ship id error")
	}
}

func TestAnnotateNearestBaseAndCongestion(t *testing.T) {
	g := twoPlayerGame(t)
	g.AddDropoff(-5, Position{9, 1})
	addShip(t, g, 0, 1, 2, 1, 0)
	addShip(t, g, 0, 2, 8, 2, 0)
	addShip(t, g, 0, 3, 10, 1, 0)
	g.Annotate()

	if got := g.NearestBase(Position{2, 1}); got != (Position{1, 1}) {
		t.Errorf("NearestBase near shipyard = %v", got)
	}
	if got := g.NearestBase(Position{8, 2}); got != (Position{9, 1}) {
		t.Errorf("NearestBase near dropoff = %v", got)
	}
	if c := g.Map.At(Position{9, 1}).Congestion; c != 2 {
		t.Errorf("dropoff congestion = %d, want 2", c)
	}
	if c := g.Map.At(Position{1, 1}).Congestion; c != 1 {
		t.Errorf("shipyard congestion = %d, want 1", c)
	}
}

func TestAnnotateInspiration(t *testing.T) {
	g := twoPlayerGame(t)
	addShip(t, g, 1, 10, 8, 8, 0)
	addShip(t, g, 1, 11, 8, 10, 0)
	g.Annotate()

	if !g.Map.At(Position{8, 9}).Inspired {
		t.Error("cell between two enemies should be inspired")
	}
	if g.Map.At(Position{1, 1}).Inspired {
		t.Error("shipyard far from enemies should not be inspired")
	}

	g.Constants.InspirationEnabled = false
	g.Annotate()
	if g.Map.At(Position{8, 9}).Inspired {
		t.Error("inspiration disabled but cell still inspired")
	}
}

func TestMarkUnsafeKeepsLighterShip(t *testing.T) {
	g := twoPlayerGame(t)
	light := addShip(t, g, 0, 1, 5, 5, 100)
	heavy := &Ship{ID: 9, Owner: 1, Pos: Position{6, 5}, Halite: 800}
	g.Players[1].Ships[9] = heavy
	if err := g.Refresh(); err != nil {
		t.Fatal(err)
	}

	g.MarkUnsafe(light.Pos, heavy)
	if g.Map.At(light.Pos).Occupant != light.ID {
		t.Error("heavier ship should not displace a lighter occupant")
	}
	g.MarkUnsafe(heavy.Pos, light)
	if g.Map.At(heavy.Pos).Occupant != light.ID {
		t.Error("lighter ship should replace heavier occupant")
	}
}

func TestMarkThreats(t *testing.T) {
	g := twoPlayerGame(t)
	addShip(t, g, 1, 10, 8, 8, 500)
	addShip(t, g, 1, 11, 1, 2, 500) // next to our shipyard, ignored
	g.Annotate()

	marked := g.MarkThreats()
	if len(marked) != 5 {
		t.Fatalf("marked %d cells, want 5", len(marked))
	}
	for _, n := range g.Map.Neighbors(Position{8, 8}) {
		if g.Map.At(n).Occupant != 10 {
			t.Errorf("neighbour %v not marked by enemy", n)
		}
	}
	if g.Map.At(Position{1, 3}).Occupied() {
		t.Error("enemy hugging our base should not mark neighbours")
	}
}

func TestMarkThreatsStuckShipOnlyOwnCell(t *testing.T) {
	g := twoPlayerGame(t)
	g.Map.At(Position{8, 8}).Halite = 500
	addShip(t, g, 1, 10, 8, 8, 10) // 10 < 500/10
	g.Annotate()

	if marked := g.MarkThreats(); len(marked) != 1 {
		t.Errorf("stuck enemy marked %d cells, want 1", len(marked))
	}
}
