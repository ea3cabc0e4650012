package ipc

import "github.com/nstehr/prospector/model"

// Envelope types exchanged with a game host over a socket.
const (
	TypeHello    = "hello"
	TypeAck      = "ack"
	TypeFrame    = "frame"
	TypeCommands = "commands"
)

// HelloMessage opens a game: constants, seating and the starting map.
type HelloMessage struct {
	Constants model.Constants `json:"constants"`
	MyID      int             `json:"my_id"`
	Players   []PlayerStart   `json:"players"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Halite    []int           `json:"halite"` // row-major
}

type PlayerStart struct {
	ID int `json:"id"`
	X  int `json:"x"` // shipyard
	Y  int `json:"y"`
}

type AckMessage struct {
	Status string `json:"status"`
	Name   string `json:"name,omitempty"`
}

// FrameMessage is one turn's update: every player's bank, ships and
// dropoffs, plus the cells whose halite changed.
type FrameMessage struct {
	Turn    int           `json:"turn"`
	Players []PlayerFrame `json:"players"`
	Cells   []CellUpdate  `json:"cells,omitempty"`
}

type PlayerFrame struct {
	ID       int            `json:"id"`
	Halite   int            `json:"halite"`
	Ships    []ShipFrame    `json:"ships,omitempty"`
	Dropoffs []DropoffFrame `json:"dropoffs,omitempty"`
}

type ShipFrame struct {
	ID     int `json:"id"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Halite int `json:"halite"`
}

type DropoffFrame struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

type CellUpdate struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Halite int `json:"halite"`
}

// CommandsMessage answers a frame.
type CommandsMessage struct {
	Turn     int      `json:"turn"`
	Commands []string `json:"commands"`
}
