package config

import (
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/world"
)

// Scenario generates the demo world the map section describes.
func (c *Config) Scenario(log logrus.FieldLogger) (*world.World, error) {
	gt, err := c.GridType()
	if err != nil {
		return nil, err
	}
	opts := []world.Option{
		world.WithGrid(gt),
		world.WithMapSize(c.Map.Cols, c.Map.Rows),
		world.WithMaxHeight(c.Map.MaxHeight),
		world.WithHeightBrightness(c.Map.MinBrightness, c.Map.MaxBrightness),
		world.WithSeed(c.Map.Seed),
		world.WithLogger(log),
		world.WithRandomTerrain(),
	}
	opts = append(opts, world.DemoForces(gt, c.Map.Cols, c.Map.Rows)...)
	return world.NewScenario(opts...), nil
}
