package rules

import (
	"math"
	"testing"

	"github.com/nstehr/prospector/model"
)

func TestFewestEnemyShips(t *testing.T) {
	env, g := spawnGame(t, 0, 4)
	third := model.NewPlayer(2, 6, 12)
	third.Ships[200] = &model.Ship{ID: 200, Pos: model.Position{X: 6, Y: 11}}
	g.Players = append(g.Players, third)

	if got := env.FewestEnemyShips(); got != 1 {
		t.Errorf("FewestEnemyShips = %d, want 1", got)
	}
	env.Fleet.HardReturn = true
	if got := env.FewestEnemyShips(); got != 0 {
		t.Errorf("after hard return = %d, want 0", got)
	}
}

func TestFewestEnemyShipsWithoutOpponents(t *testing.T) {
	env, g := spawnGame(t, 0, 0)
	g.Players = g.Players[:1]
	if got := env.FewestEnemyShips(); got != noEnemyFloor {
		t.Errorf("solo FewestEnemyShips = %d, want %d", got, noEnemyFloor)
	}
}

func TestRemainingFraction(t *testing.T) {
	env, g := spawnGame(t, 0, 0)
	if got := env.RemainingFraction(); got != 1 {
		t.Errorf("untouched map = %v, want 1", got)
	}
	for i := 0; i < len(g.Map.Cells)/4; i++ {
		g.Map.Cells[i].Halite = 0
	}
	if got := env.RemainingFraction(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("quarter mined = %v, want 0.75", got)
	}
	env.InitialHalite = 0
	if got := env.RemainingFraction(); got != 0 {
		t.Errorf("unknown start = %v, want 0", got)
	}
}

func TestLastSpawnTurn(t *testing.T) {
	env, _ := spawnGame(t, 0, 0)
	env.Memory = map[string]any{}
	if got := env.LastSpawnTurn(); got != -1 {
		t.Errorf("fresh = %d, want -1", got)
	}
	env.Memory["lastSpawnTurn"] = 42
	if got := env.LastSpawnTurn(); got != 42 {
		t.Errorf("LastSpawnTurn = %d, want 42", got)
	}
}
