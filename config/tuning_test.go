package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	src := `
log_level: debug
turn_budget_ms: 1500
rollouts:
  move_walks: 250
spawn:
  min_remaining: 0.4
replay:
  event_log: markers.jsonl.zst
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	tu, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tu.Rollouts.MoveWalks != 250 {
		t.Errorf("move_walks = %d, want 250", tu.Rollouts.MoveWalks)
	}
	if tu.Rollouts.RefineWalks != 10 {
		t.Errorf("refine_walks lost its default: %d", tu.Rollouts.RefineWalks)
	}
	if tu.Spawn.MinRemaining != 0.4 {
		t.Errorf("spawn.min_remaining = %v", tu.Spawn.MinRemaining)
	}
	if tu.Replay.EventLog != "markers.jsonl.zst" || tu.Replay.StatsDB != "" {
		t.Errorf("replay = %+v", tu.Replay)
	}
	if l, _ := tu.Level(); l != slog.LevelDebug {
		t.Errorf("level = %v, want debug", l)
	}
	if tu.TurnBudget() != 1500*time.Millisecond {
		t.Errorf("budget = %v", tu.TurnBudget())
	}
	if p := tu.PlanParams(); p.MoveWalks != 250 || p.CostOffset != 5000 {
		t.Errorf("plan params = %+v", p)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"ratio", "fleet:\n  return_ratio: 1.5\n", "return_ratio"},
		{"alpha", "economy:\n  alpha: 0\n", "alpha"},
		{"level", "log_level: loud\n", "log_level"},
		{"syntax", "rollouts: [\n", "tuning.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !os.IsNotExist(err) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestLevelRejectsUnknown(t *testing.T) {
	tu := Default()
	tu.LogLevel = "loud"
	if _, err := tu.Level(); err == nil {
		t.Error("unknown log level accepted")
	}
}
