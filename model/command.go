package model

import "fmt"

// CommandKind distinguishes the three orders the host accepts.
type CommandKind int

const (
	CommandMove CommandKind = iota
	CommandConvert
	CommandSpawn
)

// Command is one order for the current turn.
type Command struct {
	Kind CommandKind `json:"kind"`
	Ship ShipID      `json:"ship"`
	Dir  Direction   `json:"dir"`
}

func Move(id ShipID, d Direction) Command { return Command{Kind: CommandMove, Ship: id, Dir: d} }
func StayStill(id ShipID) Command         { return Move(id, Still) }
func Convert(id ShipID) Command           { return Command{Kind: CommandConvert, Ship: id} }
func Spawn() Command                      { return Command{Kind: CommandSpawn, Ship: NoShip} }

// String renders the command in the Halite wire format.
func (c Command) String() string {
	switch c.Kind {
	case CommandMove:
		return fmt.Sprintf("m %d %c", c.Ship, byte(c.Dir))
	case CommandConvert:
		return fmt.Sprintf("c %d", c.Ship)
	case CommandSpawn:
		return "g"
	default:
		return ""
	}
}

// NewGame assembles a game and builds its ship registry.
func NewGame(k Constants, me PlayerID, players []*Player, m *GameMap) (*Game, error) {
	g := &Game{MyID: me, Players: players, Map: m, Constants: k}
	if g.Me() == nil {
		return nil, fmt.Errorf("player %d not in roster", me)
	}
	if err := g.Refresh(); err != nil {
		return nil, err
	}
	return g, nil
}
