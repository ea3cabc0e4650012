// Package agent runs the bot for one game: the ordered decision pass each
// turn, the loop against a host, and the handlers socket hosts talk to.
package agent

import (
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/nstehr/prospector/config"
	"github.com/nstehr/prospector/economy"
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
	"github.com/nstehr/prospector/plan"
	"github.com/nstehr/prospector/replay"
	"github.com/nstehr/prospector/rules"
	"github.com/nstehr/prospector/sim"
)

// Agent owns the decision-making for a single game. Ctx is created on the
// first turn and is the only state carried from one turn to the next.
type Agent struct {
	Tuning config.Tuning
	Engine *rules.Engine
	Ctx    *fleet.Context

	// Optional debug sinks.
	Events *replay.EventLog
	Stats  *replay.StatsDB
	GameID string

	rng           *rand.Rand
	initialHalite int
	prev          *snapshot
	game          *model.Game // socket sessions only
	diag          rate.Sometimes
}

func New(t config.Tuning) (*Agent, error) {
	engine, err := rules.NewEngine(rules.CompilePolicy(t.Spawn))
	if err != nil {
		return nil, fmt.Errorf("spawn rules: %w", err)
	}
	return &Agent{Tuning: t, Engine: engine, diag: rate.Sometimes{Every: 25}}, nil
}

// start sets up per-game state from the first frame.
func (a *Agent) start(g *model.Game) {
	a.Ctx = fleet.NewContext(float64(g.Constants.MaxHalite))
	seed := a.Tuning.Seed
	if seed == 0 {
		seed = g.Constants.GameSeed
	}
	a.rng = rand.New(rand.NewSource(seed))
	a.initialHalite = g.Map.TotalHalite()
	a.prev = nil

	if a.Stats != nil {
		id, err := a.Stats.StartGame(replay.Game{
			ID:      a.GameID,
			Bot:     a.Tuning.BotName,
			Width:   g.Map.Width,
			Height:  g.Map.Height,
			Players: len(g.Players),
			Seed:    g.Constants.GameSeed,
		})
		if err != nil {
			slog.Warn("stats disabled", "error", err)
			a.Stats = nil
		} else {
			a.GameID = id
		}
	}
	slog.Info("game started",
		"player", g.MyID,
		"players", len(g.Players),
		"map", fmt.Sprintf("%dx%d", g.Map.Width, g.Map.Height),
		"halite", a.initialHalite,
		"seed", seed,
	)
}

// Turn runs the decision pass over g and returns the turn's orders. g is
// annotated and marked up in place.
func (a *Agent) Turn(g *model.Game) []model.Command {
	if a.Ctx == nil {
		a.start(g)
	}
	begin := time.Now()
	t := a.Tuning
	ctx := a.Ctx

	live := make(map[model.ShipID]bool, len(g.Me().Ships))
	for id := range g.Me().Ships {
		live[id] = true
	}
	ctx.Prune(live)

	g.Annotate()
	dropoffs := &economy.Planner{Game: g, Ctx: ctx, Params: t.PlannerParams()}
	cmds, built := dropoffs.Convert()
	if len(built) > 0 {
		g.Annotate()
	}

	aggressive := len(ctx.Aggressive) > 0
	threats := g.MarkThreats()
	fp := t.FleetParams()
	cls := fleet.Classify(g, ctx, fp)
	cmds = append(cmds, cls.Commands...)

	planner := &plan.Planner{
		Game: g,
		Ctx:  ctx,
		Sim: &sim.Simulator{
			Game:            g,
			Ctx:             ctx,
			ReturnThreshold: fp.ReturnThreshold(g.Constants),
			Horizon:         t.Rollouts.Horizon,
		},
		Rand:   a.rng,
		Params: t.PlanParams(),
	}
	exclude := [][]model.Position{cls.Stuck}
	if len(g.Players) == 4 && aggressive {
		exclude = append(exclude, threats)
	}
	targets := planner.Targets(cls.Explorers, plan.Candidates(g, exclude...))

	active := append(slices.Clone(cls.Explorers), cls.Returners...)
	cmds = append(cmds, planner.Moves(active)...)
	wanted := dropoffs.Reserve(active)

	est := t.Estimator()
	est.Observe(g.Turn, ctx, cls.Explorers)
	env := rules.RuleEnv{
		Game:          g,
		Fleet:         ctx,
		Wanted:        wanted,
		Worthwhile:    est.SpawnWorthwhile(g.Turn, g.Constants, ctx.Rate),
		InitialHalite: a.initialHalite,
	}
	orders, err := a.Engine.Evaluate(env)
	if err != nil {
		slog.Error("rule engine error", "turn", g.Turn, "error", err)
	}
	cmds = append(cmds, orders...)

	elapsed := time.Since(begin)
	if budget := t.TurnBudget(); budget > 0 && elapsed > budget {
		slog.Warn("turn over budget", "turn", g.Turn, "elapsed", elapsed, "budget", budget)
	}

	a.mark(g.Turn, targets, replay.ColorTarget)
	a.mark(g.Turn, threats, replay.ColorThreat)
	for _, b := range built {
		a.mark(g.Turn, []model.Position{b.Pos}, replay.ColorDropoff)
	}
	a.record(replay.TurnStats{
		Turn:       g.Turn,
		Bank:       g.Me().Halite,
		Ships:      len(g.Me().Ships),
		Dropoffs:   len(g.Me().Dropoffs),
		Explorers:  len(cls.Explorers),
		Returners:  len(cls.Returners),
		Rate:       ctx.Rate,
		Reserved:   wanted,
		Spawned:    len(orders) > 0,
		HardReturn: ctx.HardReturn,
		ElapsedMs:  float64(elapsed.Microseconds()) / 1000,
	})

	cur := takeSnapshot(g, ctx, env.RemainingFraction())
	for _, e := range detectEvents(a.prev, cur) {
		slog.Info("game event", "kind", e.Kind, "turn", e.Turn, "detail", e.Detail)
	}
	a.prev = &cur

	a.diag.Do(func() {
		slog.Info("fleet",
			"turn", g.Turn,
			"bank", g.Me().Halite,
			"ships", len(g.Me().Ships),
			"explorers", len(cls.Explorers),
			"returners", len(cls.Returners),
			"rate", fmt.Sprintf("%.1f", ctx.Rate),
			"reserved", wanted,
			"elapsed", elapsed,
		)
	})
	slog.Debug("turn complete", "turn", g.Turn, "commands", len(cmds), "elapsed", elapsed)
	return cmds
}

func (a *Agent) mark(turn int, cells []model.Position, color string) {
	if a.Events == nil {
		return
	}
	for _, p := range cells {
		if err := a.Events.Mark(turn, p, color); err != nil {
			slog.Warn("event log disabled", "error", err)
			a.Events = nil
			return
		}
	}
}

func (a *Agent) record(s replay.TurnStats) {
	if a.Stats == nil {
		return
	}
	s.Game = a.GameID
	if err := a.Stats.RecordTurn(s); err != nil {
		slog.Warn("stats disabled", "error", err)
		a.Stats = nil
	}
}

// Close flushes the debug sinks and logs the game summary.
func (a *Agent) Close() error {
	var firstErr error
	if a.Stats != nil {
		if s, err := a.Stats.Summarize(a.GameID); err == nil {
			slog.Info("game summary",
				"game", a.GameID,
				"turns", s.Turns,
				"spawned", s.Spawned,
				"peakShips", s.PeakShips,
				"finalBank", s.FinalBank,
				"slowestMs", s.SlowestMs,
				"meanRate", s.MeanRate,
			)
		}
		firstErr = a.Stats.Close()
	}
	if a.Events != nil {
		if err := a.Events.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
