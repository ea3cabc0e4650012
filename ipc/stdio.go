package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nstehr/prospector/model"
)

// StdioHost speaks the Halite engine's line protocol on a pair of streams:
// constants and map once, then a frame per turn, answered by one line of
// space-separated commands.
type StdioHost struct {
	r    *bufio.Reader
	w    *bufio.Writer
	game *model.Game
}

func NewStdioHost(r io.Reader, w io.Writer) *StdioHost {
	return &StdioHost{r: bufio.NewReaderSize(r, 1<<20), w: bufio.NewWriter(w)}
}

// Init reads the preamble: constants JSON, seating, shipyards and the
// starting halite grid.
func (h *StdioHost) Init() (*model.Game, error) {
	line, err := h.r.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read constants: %w", err)
	}
	hello := HelloMessage{Constants: model.DefaultConstants()}
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &hello.Constants); err != nil {
		return nil, fmt.Errorf("parse constants: %w", err)
	}

	var n int
	if err := h.ints(&n, &hello.MyID); err != nil {
		return nil, fmt.Errorf("read seating: %w", err)
	}
	for i := 0; i < n; i++ {
		var p PlayerStart
		if err := h.ints(&p.ID, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("read player: %w", err)
		}
		hello.Players = append(hello.Players, p)
	}
	if err := h.ints(&hello.Width, &hello.Height); err != nil {
		return nil, fmt.Errorf("read map size: %w", err)
	}
	hello.Halite = make([]int, hello.Width*hello.Height)
	for i := range hello.Halite {
		if err := h.ints(&hello.Halite[i]); err != nil {
			return nil, fmt.Errorf("read cell %d: %w", i, err)
		}
	}

	g, err := NewGame(hello)
	if err != nil {
		return nil, err
	}
	h.game = g
	return g, nil
}

// Ready announces the bot's name, which ends the engine's setup window.
func (h *StdioHost) Ready(name string) error {
	if _, err := fmt.Fprintln(h.w, name); err != nil {
		return err
	}
	return h.w.Flush()
}

// UpdateFrame reads one turn's frame into the game built by Init. It
// returns io.EOF when the engine closes the stream between frames.
func (h *StdioHost) UpdateFrame(ctx context.Context) (*model.Game, error) {
	if h.game == nil {
		return nil, errors.New("update before init")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var f FrameMessage
	if err := h.ints(&f.Turn); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read turn: %w", err)
	}
	for range h.game.Players {
		var pf PlayerFrame
		var ships, dropoffs int
		if err := h.ints(&pf.ID, &ships, &dropoffs, &pf.Halite); err != nil {
			return nil, fmt.Errorf("turn %d player: %w", f.Turn, err)
		}
		for i := 0; i < ships; i++ {
			var s ShipFrame
			if err := h.ints(&s.ID, &s.X, &s.Y, &s.Halite); err != nil {
				return nil, fmt.Errorf("turn %d ship: %w", f.Turn, err)
			}
			pf.Ships = append(pf.Ships, s)
		}
		for i := 0; i < dropoffs; i++ {
			var d DropoffFrame
			if err := h.ints(&d.ID, &d.X, &d.Y); err != nil {
				return nil, fmt.Errorf("turn %d dropoff: %w", f.Turn, err)
			}
			pf.Dropoffs = append(pf.Dropoffs, d)
		}
		f.Players = append(f.Players, pf)
	}
	var cells int
	if err := h.ints(&cells); err != nil {
		return nil, fmt.Errorf("turn %d cell count: %w", f.Turn, err)
	}
	for i := 0; i < cells; i++ {
		var c CellUpdate
		if err := h.ints(&c.X, &c.Y, &c.Halite); err != nil {
			return nil, fmt.Errorf("turn %d cell: %w", f.Turn, err)
		}
		f.Cells = append(f.Cells, c)
	}

	if err := ApplyFrame(h.game, f); err != nil {
		return nil, err
	}
	return h.game, nil
}

// EndTurn writes the turn's commands on a single line. The engine stops
// sending frames after MaxTurns.
func (h *StdioHost) EndTurn(_ context.Context, cmds []model.Command) (bool, error) {
	if _, err := fmt.Fprintln(h.w, strings.Join(EncodeCommands(cmds), " ")); err != nil {
		return false, err
	}
	if err := h.w.Flush(); err != nil {
		return false, err
	}
	return h.game.Turn < h.game.Constants.MaxTurns, nil
}

func (h *StdioHost) ints(dst ...*int) error {
	for _, d := range dst {
		if _, err := fmt.Fscan(h.r, d); err != nil {
			return err
		}
	}
	return nil
}
