package rules

import "fmt"

// Policy is the spend posture of the shipyard. The compiler maps it to
// concrete rule conditions.
type Policy struct {
	// MinRemaining is the share of the starting halite that must still be on
	// the map for a new ship to be worth building.
	MinRemaining float64 `yaml:"min_remaining"`

	// SpawnCondition, when set, replaces the generated spawn conditions with
	// a single expr condition evaluated against RuleEnv.
	SpawnCondition string `yaml:"spawn_condition"`
}

// DefaultPolicy returns the stock posture.
func DefaultPolicy() Policy {
	return Policy{MinRemaining: 0.3}
}

// Validate clamps all weights to their valid ranges.
func (p *Policy) Validate() {
	p.MinRemaining = clamp(p.MinRemaining, 0, 1)
}

// CompilePolicy generates the spawn rule set. Conditions are built with
// fmt.Sprintf from validated values, so the generated expr always compiles.
//
// Both generated rules share the exclusive "shipyard" category: a ship is
// bought when the economy says it pays off, or, failing that, when we have
// fewer ships than the smallest opponent fleet.
func CompilePolicy(p Policy) []*Rule {
	p.Validate()
	if p.SpawnCondition != "" {
		return []*Rule{{
			Name:         "spawn-custom",
			Priority:     300,
			Category:     "shipyard",
			Exclusive:    true,
			ConditionSrc: p.SpawnCondition,
			Action:       ActionSpawn,
		}}
	}

	affordable := fmt.Sprintf(
		`Bank() >= ShipCost() + Reserved() && !ShipyardOccupied() && !HardReturn() && RemainingFraction() >= %g`,
		p.MinRemaining,
	)
	return []*Rule{
		{
			Name:         "spawn-worthwhile",
			Priority:     200,
			Category:     "shipyard",
			Exclusive:    true,
			ConditionSrc: affordable + ` && SpawnWorthwhile()`,
			Action:       ActionSpawn,
		},
		{
			Name:         "spawn-keep-pace",
			Priority:     100,
			Category:     "shipyard",
			Exclusive:    true,
			ConditionSrc: affordable + ` && ShipCount() < FewestEnemyShips()`,
			Action:       ActionSpawn,
		},
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
