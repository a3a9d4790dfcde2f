package pipeline

import (
	"fmt"
)

// SliderWeights weight the contextual signals the slider corrector scores.
type SliderWeights struct {
	Indent    float64 `yaml:"indent" json:"indent"`
	Brace     float64 `yaml:"brace" json:"brace"`
	Delimiter float64 `yaml:"delimiter" json:"delimiter"`
}

// Config carries every tunable of one pipeline invocation. Zero values are
// not meaningful; start from DefaultConfig and override.
type Config struct {
	MaxLines            int     `yaml:"maxLines"`
	MaxGraphVertices    int     `yaml:"maxGraphVertices"`
	EnableFastMode      bool    `yaml:"enableFastMode"`
	ModifiedThreshold   float64 `yaml:"modifiedThreshold"`
	FastThreshold       float64 `yaml:"fastThreshold"`
	NormalizeDelimiters bool    `yaml:"normalizeDelimiters"`
	CorrectSliders      bool    `yaml:"correctSliders"`
	EnableAST           bool    `yaml:"enableAST"`

	LSHBands                 int     `yaml:"lshBands"`
	MoveThreshold            float64 `yaml:"moveThreshold"`
	MinLinesForMoveDetection int     `yaml:"minLinesForMoveDetection"`
	MaxLinesForMoveDetection int     `yaml:"maxLinesForMoveDetection"`

	AmbiguityThreshold  float64 `yaml:"ambiguityThreshold"`
	CorrectionThreshold float64 `yaml:"correctionThreshold"`

	LanguagePreferences map[string]SliderWeights `yaml:"languagePreferences"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxLines:            50000,
		MaxGraphVertices:    100000,
		EnableFastMode:      true,
		ModifiedThreshold:   0.60,
		FastThreshold:       0.30,
		NormalizeDelimiters: false,
		CorrectSliders:      true,
		EnableAST:           true,

		LSHBands:                 4,
		MoveThreshold:            0.70,
		MinLinesForMoveDetection: 10,
		MaxLinesForMoveDetection: 50000,

		AmbiguityThreshold:  0.05,
		CorrectionThreshold: 0.80,

		LanguagePreferences: map[string]SliderWeights{
			"python":     {Indent: 0.5, Brace: 0, Delimiter: 0.3},
			"yaml":       {Indent: 0.6, Brace: 0, Delimiter: 0.2},
			"javascript": {Indent: 0.2, Brace: 0.3, Delimiter: 0.3},
			"typescript": {Indent: 0.2, Brace: 0.3, Delimiter: 0.3},
			"go":         {Indent: 0.2, Brace: 0.4, Delimiter: 0.2},
			"java":       {Indent: 0.2, Brace: 0.3, Delimiter: 0.3},
			"c":          {Indent: 0.2, Brace: 0.3, Delimiter: 0.3},
			"cpp":        {Indent: 0.2, Brace: 0.3, Delimiter: 0.3},
		},
	}
}

// defaultWeights apply to languages without an explicit preference.
var defaultWeights = SliderWeights{Indent: 0.4, Brace: 0.3, Delimiter: 0.3}

// Weights returns the slider weights for a language tag.
func (c *Config) Weights(langTag string) SliderWeights {
	if w, ok := c.LanguagePreferences[langTag]; ok {
		return w
	}
	return defaultWeights
}

// Validate rejects configurations outside the documented ranges.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"maxLines", c.MaxLines > 0},
		{"maxGraphVertices", c.MaxGraphVertices > 0},
		{"modifiedThreshold", c.ModifiedThreshold > 0 && c.ModifiedThreshold < 1},
		{"fastThreshold", c.FastThreshold > 0 && c.FastThreshold < 1},
		{"moveThreshold", c.MoveThreshold > 0 && c.MoveThreshold < 1},
		{"lshBands", c.LSHBands > 0 && c.LSHBands <= 32 && 32%c.LSHBands == 0},
		{"minLinesForMoveDetection", c.MinLinesForMoveDetection >= 0},
		{"maxLinesForMoveDetection", c.MaxLinesForMoveDetection >= c.MinLinesForMoveDetection},
		{"ambiguityThreshold", c.AmbiguityThreshold >= 0 && c.AmbiguityThreshold < 1},
		{"correctionThreshold", c.CorrectionThreshold > 0 && c.CorrectionThreshold <= 1},
	}
	for _, chk := range checks {
		if !chk.ok {
			return &InputInvalidError{Field: chk.name, Reason: "out of range"}
		}
	}
	return nil
}

// InputInvalidError reports a structurally invalid invocation: bad config,
// missing primitive, or non-text input. The invocation fails with no
// partial result.
type InputInvalidError struct {
	Field  string
	Reason string
}

func (e *InputInvalidError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}
