// Package economy tracks how fast the fleet mines and turns that into spend
// decisions: whether new ships still pay off, and when a ship is worth more
// as a dropoff.
package economy

import (
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

// Estimator keeps an exponentially weighted moving average of the halite
// mined per explorer per turn. The average itself lives in fleet.Context.Rate.
type Estimator struct {
	Alpha    float64 // weight of the newest sample
	Interval int     // turns between samples
	EndGame  int     // turns before the limit after which ships stop paying off
}

// Fold mixes one sample into the running rate.
func (e Estimator) Fold(rate, sample float64) float64 {
	return e.Alpha*sample + (1-e.Alpha)*rate
}

// Observe samples the explorers' cargo gains every Interval turns and folds
// them into ctx.Rate. Losses from moving or combat are ignored. Returns
// whether a sample was taken; with no explorers the rate is left alone.
func (e Estimator) Observe(turn int, ctx *fleet.Context, explorers []*model.Ship) bool {
	if e.Interval <= 0 || turn%e.Interval != 0 || len(explorers) == 0 {
		return false
	}
	gained := 0
	for _, s := range explorers {
		if last := ctx.LastCargo[s.ID]; s.Halite >= last {
			gained += s.Halite - last
		}
		ctx.LastCargo[s.ID] = s.Halite
	}
	ctx.Rate = e.Fold(ctx.Rate, float64(gained)/float64(len(explorers)*e.Interval))
	return true
}

// SpawnWorthwhile reports whether a ship bought on turn would mine back
// twice its price before the end game at the given rate.
func (e Estimator) SpawnWorthwhile(turn int, k model.Constants, rate float64) bool {
	if rate <= 0 {
		return false
	}
	return float64(turn)+2*float64(k.ShipCost)/rate < float64(k.MaxTurns-e.EndGame)
}
