// Package sandbox runs solo Halite games in process: a generated map, one
// player and the engine's turn rules, behind the same ipc.Host interface
// the real engine is reached through.
package sandbox

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/nstehr/prospector/model"
)

// TerrainConfig shapes a generated map.
type TerrainConfig struct {
	Width, Height int
	Seed          int64
	MaxHalite     int
	Octaves       int
	Frequency     float64 // features per map width
	Sharpness     float64 // exponent applied to the noise; higher means sparser fields
}

func DefaultTerrain(size int, seed int64) TerrainConfig {
	return TerrainConfig{
		Width: size, Height: size, Seed: seed, MaxHalite: 1000,
		Octaves: 4, Frequency: 1.5, Sharpness: 3,
	}
}

// Generate fills a map with halite from layered simplex noise. The noise is
// sampled on a torus in 4D so fields continue across the wrapped edges.
func Generate(cfg TerrainConfig) *model.GameMap {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	noise := opensimplex.NewNormalized(seed)

	halite := make([]int, cfg.Width*cfg.Height)
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			v := octaveNoise(noise, float64(x)/float64(cfg.Width), float64(y)/float64(cfg.Height), cfg.Octaves, cfg.Frequency)
			h := int(math.Pow(v, cfg.Sharpness) * float64(cfg.MaxHalite) * 2)
			halite[y*cfg.Width+x] = max(0, min(cfg.MaxHalite, h))
		}
	}
	return model.NewGameMap(cfg.Width, cfg.Height, halite)
}

// octaveNoise samples u, v in [0,1) wrapped onto two circles.
func octaveNoise(noise opensimplex.Noise, u, v float64, octaves int, frequency float64) float64 {
	total, amplitude, maxVal := 0.0, 1.0, 0.0
	for i := 0; i < octaves; i++ {
		r := frequency / (2 * math.Pi)
		a, b := 2*math.Pi*u, 2*math.Pi*v
		total += noise.Eval4(r*math.Cos(a), r*math.Sin(a), r*math.Cos(b), r*math.Sin(b)) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / maxVal
}
