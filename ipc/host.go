package ipc

import (
	"context"
	"errors"

	"github.com/nstehr/prospector/model"
)

// ErrGameOver is returned by hosts asked for a frame after the last turn.
var ErrGameOver = errors.New("game over")

// Host drives a game turn by turn. UpdateFrame returns io.EOF or
// ErrGameOver once the host has nothing more to send; EndTurn reports
// whether another frame follows.
type Host interface {
	UpdateFrame(ctx context.Context) (*model.Game, error)
	EndTurn(ctx context.Context, cmds []model.Command) (bool, error)
}
