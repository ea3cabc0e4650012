// Package fleet holds the per-game fleet state and the per-ship decisions
// that read it: task classification and collision safety.
package fleet

import "github.com/nstehr/prospector/model"

// Task is a ship's behaviour for the current turn.
type Task int

const (
	Explore Task = iota
	Return
	HardReturn
)

func (t Task) String() string {
	switch t {
	case Explore:
		return "explore"
	case Return:
		return "return"
	case HardReturn:
		return "hard_return"
	default:
		return "unknown"
	}
}

// Context is the state that survives from one turn to the next. The agent
// owns exactly one per game and hands it to every stage of the pass; nothing
// else writes to it.
type Context struct {
	Tasks      map[model.ShipID]Task
	LastMoved  map[model.ShipID]int
	Aggressive map[model.ShipID]bool // allowed to ram in 3+ player games
	LastCargo  map[model.ShipID]int  // cargo at the previous economy sample

	// HardReturn is set once and never cleared: every ship heads home.
	HardReturn bool

	// Rate is the EWMA of halite mined per explorer per turn.
	Rate float64
}

// NewContext starts a game with the mining rate seeded at initialRate.
func NewContext(initialRate float64) *Context {
	return &Context{
		Tasks:      make(map[model.ShipID]Task),
		LastMoved:  make(map[model.ShipID]int),
		Aggressive: make(map[model.ShipID]bool),
		LastCargo:  make(map[model.ShipID]int),
		Rate:       initialRate,
	}
}

// Task returns the ship's task; ships seen for the first time explore.
func (c *Context) Task(id model.ShipID) Task {
	return c.Tasks[id]
}

// Prune forgets ships that no longer exist.
func (c *Context) Prune(live map[model.ShipID]bool) {
	for id := range c.Tasks {
		if !live[id] {
			delete(c.Tasks, id)
			delete(c.LastMoved, id)
			delete(c.Aggressive, id)
			delete(c.LastCargo, id)
		}
	}
}
