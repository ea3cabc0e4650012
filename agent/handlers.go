package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/prospector/ipc"
)

// HandleHello starts a new game from the host's opening message.
func (a *Agent) HandleHello(env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := json.Unmarshal(env.Data, &hello); err != nil {
		return nil, fmt.Errorf("unmarshal hello: %w", err)
	}
	g, err := ipc.NewGame(hello)
	if err != nil {
		return nil, fmt.Errorf("hello: %w", err)
	}
	a.game = g
	a.Ctx = nil
	slog.Info("player identified", "player", hello.MyID, "players", len(hello.Players))

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Name: a.Tuning.BotName})
	if err != nil {
		return nil, err
	}
	return &ack, nil
}

// HandleFrame applies a frame and answers with the turn's commands.
func (a *Agent) HandleFrame(env ipc.Envelope) (*ipc.Envelope, error) {
	if a.game == nil {
		return nil, errors.New("frame before hello")
	}
	var f ipc.FrameMessage
	if err := json.Unmarshal(env.Data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	if err := ipc.ApplyFrame(a.game, f); err != nil {
		return nil, fmt.Errorf("frame %d: %w", f.Turn, err)
	}

	cmds := a.Turn(a.game)

	out, err := ipc.NewEnvelope(ipc.TypeCommands, ipc.CommandsMessage{Turn: f.Turn, Commands: ipc.EncodeCommands(cmds)})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Handlers maps envelope types to this agent's handlers.
func (a *Agent) Handlers() map[string]ipc.Handler {
	return map[string]ipc.Handler{
		ipc.TypeHello: a.HandleHello,
		ipc.TypeFrame: a.HandleFrame,
	}
}
