package pipeline

import "testing"

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.MaxLines = 0 },
		func(c *Config) { c.MaxGraphVertices = -1 },
		func(c *Config) { c.ModifiedThreshold = 0 },
		func(c *Config) { c.ModifiedThreshold = 1 },
		func(c *Config) { c.FastThreshold = 1.2 },
		func(c *Config) { c.MoveThreshold = -0.1 },
		func(c *Config) { c.LSHBands = 0 },
		func(c *Config) { c.LSHBands = 5 }, // must divide 32
		func(c *Config) { c.MinLinesForMoveDetection = -1 },
		func(c *Config) {
			c.MinLinesForMoveDetection = 10
			c.MaxLinesForMoveDetection = 5
		},
		func(c *Config) { c.CorrectionThreshold = 0 },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: invalid config accepted", i)
		}
	}
}

func TestWeights_LanguageOverrides(t *testing.T) {
	cfg := DefaultConfig()
	py := cfg.Weights("python")
	if py.Brace != 0 {
		t.Errorf("python brace weight = %v, want 0", py.Brace)
	}
	js := cfg.Weights("javascript")
	if js.Brace == 0 {
		t.Error("javascript brace weight should be non-zero")
	}
	def := cfg.Weights("fortran")
	if def != defaultWeights {
		t.Errorf("unknown language weights = %+v, want defaults", def)
	}
}
