package diffdrive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func okConfig() Config {
	return Config{
		WheelBase:   0.5,
		TimeSteps:   100,
		Landmarks:   []Landmark{{X: 5, Y: 5}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		MotionNoise: MotionNoise{Left: 0.01, Right: 0.01},
		SensorNoise: SensorNoise{Range: 0.1, Bearing: 0.05},
		MotionSeed:  24,
		SensorSeed:  123,
	}
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(okConfig().Validate())

	for _, test := range []struct {
		name   string
		modify func(*Config)
	}{
		{name: "zero wheel base", modify: func(c *Config) { c.WheelBase = 0 }},
		{name: "negative wheel base", modify: func(c *Config) { c.WheelBase = -1 }},
		{name: "zero time steps", modify: func(c *Config) { c.TimeSteps = 0 }},
		{name: "no landmarks", modify: func(c *Config) { c.Landmarks = nil }},
		{name: "negative motion noise", modify: func(c *Config) { c.MotionNoise.Left = -0.1 }},
		{name: "negative sensor noise", modify: func(c *Config) { c.SensorNoise.Bearing = -0.1 }},
	} {
		c := okConfig()
		test.modify(&c)
		assert.Error(c.Validate(), test.name)
	}
}

func TestConfigValidateZeroNoise(t *testing.T) {
	assert := assert.New(t)

	c := okConfig()
	c.MotionNoise = MotionNoise{}
	c.SensorNoise = SensorNoise{}
	assert.NoError(c.Validate())
}
