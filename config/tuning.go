// Package config loads the bot's tuning file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/prospector/economy"
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/plan"
	"github.com/nstehr/prospector/rules"
)

type Tuning struct {
	BotName      string `yaml:"bot_name"`
	LogLevel     string `yaml:"log_level"`
	TurnBudgetMs int    `yaml:"turn_budget_ms"`
	Seed         int64  `yaml:"seed"` // 0 uses the game seed

	Fleet    Fleet        `yaml:"fleet"`
	Rollouts Rollouts     `yaml:"rollouts"`
	Targets  Targets      `yaml:"targets"`
	Economy  Economy      `yaml:"economy"`
	Dropoff  Dropoff      `yaml:"dropoff"`
	Spawn    rules.Policy `yaml:"spawn"`
	Replay   Replay       `yaml:"replay"`
}

type Fleet struct {
	ReturnRatio      float64 `yaml:"return_ratio"`
	CongestionFactor float64 `yaml:"congestion_factor"`
}

type Rollouts struct {
	MoveWalks   int `yaml:"move_walks"`
	RefineWalks int `yaml:"refine_walks"`
	Horizon     int `yaml:"horizon"`
}

type Targets struct {
	CostOffset float64 `yaml:"cost_offset"`
	Slack      int     `yaml:"slack"`
	StaleTurns int     `yaml:"stale_turns"`
}

type Economy struct {
	Alpha    float64 `yaml:"alpha"`
	Interval int     `yaml:"interval"`
	EndGame  int     `yaml:"end_game"`
}

type Dropoff struct {
	MineRadius   int     `yaml:"mine_radius"`
	MinSpacing   int     `yaml:"min_spacing"`
	ShipsPerBase float64 `yaml:"ships_per_base"`
}

// Replay names the optional debug sinks. Empty paths disable them.
type Replay struct {
	EventLog string `yaml:"event_log"`
	StatsDB  string `yaml:"stats_db"`
}

// Default returns the tuning the bot plays with when no file is given.
func Default() Tuning {
	return Tuning{
		BotName:      "Prospector",
		LogLevel:     "info",
		TurnBudgetMs: 2000,
		Fleet:        Fleet{ReturnRatio: 0.95, CongestionFactor: 0.3},
		Rollouts:     Rollouts{MoveWalks: 500, RefineWalks: 10, Horizon: 64},
		Targets:      Targets{CostOffset: 5000, Slack: 5, StaleTurns: 5},
		Economy:      Economy{Alpha: 0.35, Interval: 5, EndGame: 75},
		Dropoff:      Dropoff{MineRadius: 5, MinSpacing: 15, ShipsPerBase: 10},
		Spawn:        rules.DefaultPolicy(),
	}
}

// Load reads a YAML tuning file over the defaults, so a file only needs the
// keys it changes.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values the planner cannot run with.
func (t Tuning) Validate() error {
	var errs []error
	if t.Fleet.ReturnRatio <= 0 || t.Fleet.ReturnRatio > 1 {
		errs = append(errs, fmt.Errorf("fleet.return_ratio %v not in (0, 1]", t.Fleet.ReturnRatio))
	}
	if t.Economy.Alpha <= 0 || t.Economy.Alpha > 1 {
		errs = append(errs, fmt.Errorf("economy.alpha %v not in (0, 1]", t.Economy.Alpha))
	}
	if t.Economy.Interval <= 0 {
		errs = append(errs, fmt.Errorf("economy.interval must be positive"))
	}
	if t.Rollouts.MoveWalks <= 0 || t.Rollouts.RefineWalks <= 0 || t.Rollouts.Horizon <= 0 {
		errs = append(errs, fmt.Errorf("rollouts must be positive"))
	}
	if t.Targets.Slack < 0 {
		errs = append(errs, fmt.Errorf("targets.slack must not be negative"))
	}
	if _, err := t.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (t Tuning) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(t.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

func (t Tuning) TurnBudget() time.Duration {
	return time.Duration(t.TurnBudgetMs) * time.Millisecond
}

func (t Tuning) FleetParams() fleet.Params {
	return fleet.Params{ReturnRatio: t.Fleet.ReturnRatio, CongestionFactor: t.Fleet.CongestionFactor}
}

func (t Tuning) PlanParams() plan.Params {
	return plan.Params{
		CostOffset:  t.Targets.CostOffset,
		TargetSlack: t.Targets.Slack,
		RefineWalks: t.Rollouts.RefineWalks,
		MoveWalks:   t.Rollouts.MoveWalks,
		StaleTurns:  t.Targets.StaleTurns,
	}
}

func (t Tuning) Estimator() economy.Estimator {
	return economy.Estimator{Alpha: t.Economy.Alpha, Interval: t.Economy.Interval, EndGame: t.Economy.EndGame}
}

func (t Tuning) PlannerParams() economy.PlannerParams {
	return economy.PlannerParams{
		MineRadius:   t.Dropoff.MineRadius,
		MinSpacing:   t.Dropoff.MinSpacing,
		EndGame:      t.Economy.EndGame,
		ShipsPerBase: t.Dropoff.ShipsPerBase,
	}
}
