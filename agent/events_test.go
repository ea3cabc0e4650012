package agent

import (
	"testing"

	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

func kinds(events []Event) map[EventKind]bool {
	out := make(map[EventKind]bool)
	for _, e := range events {
		out[e.Kind] = true
	}
	return out
}

func TestDetectEventsFirstTurn(t *testing.T) {
	if got := detectEvents(nil, snapshot{turn: 1}); got != nil {
		t.Errorf("first turn events = %v", got)
	}
}

func TestDetectEvents(t *testing.T) {
	prev := &snapshot{
		turn:      10,
		ships:     map[model.ShipID]bool{1: true, 2: true},
		rate:      100,
		remaining: 0.8,
	}
	tests := []struct {
		name string
		cur  snapshot
		want []EventKind
	}{
		{
			name: "quiet turn",
			cur:  snapshot{turn: 11, ships: map[model.ShipID]bool{1: true, 2: true, 3: true}, rate: 90, remaining: 0.76},
		},
		{
			name: "ship lost",
			cur:  snapshot{turn: 11, ships: map[model.ShipID]bool{1: true}, rate: 90, remaining: 0.76},
			want: []EventKind{EventShipsLost},
		},
		{
			name: "dropoff and hard return",
			cur:  snapshot{turn: 11, ships: map[model.ShipID]bool{1: true, 2: true}, dropoffs: 1, hardReturn: true, rate: 90, remaining: 0.76},
			want: []EventKind{EventDropoffBuilt, EventHardReturn},
		},
		{
			name: "rate collapse and contact",
			cur:  snapshot{turn: 11, ships: map[model.ShipID]bool{1: true, 2: true}, contact: true, rate: 40, remaining: 0.76},
			want: []EventKind{EventEconomyCrisis, EventFirstContact},
		},
		{
			name: "quarter mined",
			cur:  snapshot{turn: 11, ships: map[model.ShipID]bool{1: true, 2: true}, rate: 90, remaining: 0.74},
			want: []EventKind{EventHaliteDepleted},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(detectEvents(prev, tt.cur))
			if len(got) != len(tt.want) {
				t.Fatalf("events = %v, want %v", got, tt.want)
			}
			for _, k := range tt.want {
				if !got[k] {
					t.Errorf("missing %s in %v", k, got)
				}
			}
		})
	}
}

func TestTakeSnapshotContact(t *testing.T) {
	me := model.NewPlayer(0, 0, 0)
	me.Ships[1] = &model.Ship{ID: 1, Pos: model.Position{X: 1, Y: 0}}
	enemy := model.NewPlayer(1, 16, 16)
	enemy.Ships[2] = &model.Ship{ID: 2, Pos: model.Position{X: 3, Y: 1}}
	g, err := model.NewGame(model.DefaultConstants(), 0, []*model.Player{me, enemy}, model.NewGameMap(32, 32, nil))
	if err != nil {
		t.Fatal(err)
	}
	g.Annotate()
	s := takeSnapshot(g, fleet.NewContext(1000), 1)
	if !s.contact || !s.ships[1] || s.rate != 1000 {
		t.Errorf("snapshot = %+v", s)
	}
}
