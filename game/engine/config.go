package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePuzzleConfig validates a puzzle configuration for correctness
func ValidatePuzzleConfig(config *PuzzleConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate dimensions
	if config.Rows < MinGridSize || config.Rows > MaxGridSize {
		return fmt.Errorf("config validation: rows must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Rows)
	}
	if config.Cols < MinGridSize || config.Cols > MaxGridSize {
		return fmt.Errorf("config validation: cols must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.Cols)
	}

	// Validate layout
	if len(config.Layout) != config.Rows {
		return fmt.Errorf("config validation: layout must have %d rows to match rows, got %d",
			config.Rows, len(config.Layout))
	}
	for i, row := range config.Layout {
		if len(row) != config.Cols {
			return fmt.Errorf("config validation: row %d must have %d cells to match cols, got %d",
				i+1, config.Cols, len(row))
		}
	}

	grid, err := NewGrid(config.Layout)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if !grid.IsValid() {
		return fmt.Errorf("config validation: layout may only hold each of 1..%d once and 0 elsewhere", grid.Capacity())
	}

	return nil
}

// LoadPuzzleConfig loads a puzzle configuration from a JSON file
func LoadPuzzleConfig(filename string) (*PuzzleConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config PuzzleConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidatePuzzleConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultPuzzleConfig returns the built-in 3x3 puzzle used when nothing else is available
func DefaultPuzzleConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:        "default",
		Description: "Default 3x3 puzzle",
		Rows:        3,
		Cols:        3,
		Layout: [][]int{
			{0, 3, 0},
			{2, 0, 0},
			{0, 0, 1},
		},
	}
}

// Clone returns a deep copy of the config
func (c *PuzzleConfig) Clone() *PuzzleConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.Layout = make([][]int, len(c.Layout))
	for i, row := range c.Layout {
		out.Layout[i] = append([]int(nil), row...)
	}
	return &out
}
