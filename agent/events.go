package agent

import (
	"fmt"
	"strings"

	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

// EventKind identifies a notable change between two consecutive turns.
type EventKind string

const (
	EventShipsLost      EventKind = "ships_lost"
	EventDropoffBuilt   EventKind = "dropoff_built"
	EventHardReturn     EventKind = "hard_return"
	EventFirstContact   EventKind = "first_contact"
	EventEconomyCrisis  EventKind = "economy_crisis"
	EventHaliteDepleted EventKind = "halite_depleted"
)

// Event is a change detected by diffing snapshots; it is logged and never
// fed back into decisions.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// snapshot captures the diffable fields at the end of a turn.
type snapshot struct {
	turn       int
	ships      map[model.ShipID]bool
	dropoffs   int
	hardReturn bool
	contact    bool    // an enemy ship has come within inspiration range of a base
	rate       float64 // mining rate estimate
	remaining  float64 // share of the starting halite left
}

func takeSnapshot(g *model.Game, ctx *fleet.Context, remaining float64) snapshot {
	s := snapshot{
		turn:       g.Turn,
		ships:      make(map[model.ShipID]bool),
		dropoffs:   len(g.Me().Dropoffs),
		hardReturn: ctx.HardReturn,
		rate:       ctx.Rate,
		remaining:  remaining,
	}
	for id := range g.Me().Ships {
		s.ships[id] = true
	}
	radius := g.Constants.InspirationRadius
	for _, p := range g.Players {
		if p.ID == g.MyID {
			continue
		}
		for _, e := range p.Ships {
			if g.Map.Distance(e.Pos, g.NearestBase(e.Pos)) <= radius {
				s.contact = true
			}
		}
	}
	return s
}

// crisisDrop is how far the rate estimate must fall between snapshots to be
// reported.
const crisisDrop = 0.5

// detectEvents compares cur with prev. Returns nil on the first turn.
func detectEvents(prev *snapshot, cur snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event

	var lost []string
	for id := range prev.ships {
		if !cur.ships[id] {
			lost = append(lost, fmt.Sprint(int(id)))
		}
	}
	if len(lost) > 0 {
		events = append(events, Event{
			Kind:   EventShipsLost,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("lost %d ship(s): %s", len(lost), strings.Join(lost, ",")),
		})
	}

	if cur.dropoffs > prev.dropoffs {
		events = append(events, Event{
			Kind:   EventDropoffBuilt,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("dropoffs %d→%d", prev.dropoffs, cur.dropoffs),
		})
	}

	if cur.hardReturn && !prev.hardReturn {
		events = append(events, Event{Kind: EventHardReturn, Turn: cur.turn, Detail: "fleet heading home"})
	}

	if cur.contact && !prev.contact {
		events = append(events, Event{Kind: EventFirstContact, Turn: cur.turn, Detail: "enemy ship near a base"})
	}

	if prev.rate > 0 && cur.rate < prev.rate*crisisDrop {
		events = append(events, Event{
			Kind:   EventEconomyCrisis,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("mining rate %.1f→%.1f", prev.rate, cur.rate),
		})
	}

	// Report each quarter of the map mined once.
	if q := quarter(cur.remaining); q < quarter(prev.remaining) {
		events = append(events, Event{
			Kind:   EventHaliteDepleted,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("%.0f%% of the starting halite left", 100*cur.remaining),
		})
	}
	return events
}

func quarter(f float64) int { return int(f * 4) }
