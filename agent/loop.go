package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nstehr/prospector/ipc"
)

// Run plays the game host offers until it ends. Running out of frames is a
// normal end; any other host error is returned.
func (a *Agent) Run(ctx context.Context, host ipc.Host) error {
	for {
		g, err := host.UpdateFrame(ctx)
		if errors.Is(err, io.EOF) || errors.Is(err, ipc.ErrGameOver) {
			slog.Info("game over", "reason", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("update frame: %w", err)
		}

		cmds := a.Turn(g)

		more, err := host.EndTurn(ctx, cmds)
		if err != nil {
			return fmt.Errorf("end turn %d: %w", g.Turn, err)
		}
		if !more {
			slog.Info("game over", "turn", g.Turn, "bank", g.Me().Halite)
			return nil
		}
	}
}
