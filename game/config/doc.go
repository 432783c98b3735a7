// Package config provides configuration management for the SlideSort puzzle server.
//
// The config package handles:
//   - Loading puzzle configurations from JSON files
//   - Default configuration selection
//   - Configuration discovery and listing
//   - Server settings from an optional TOML file
//
// Configuration Format:
//
// Puzzle configurations are stored as JSON files in the configs directory:
//
//	{
//	  "name": "Classic",
//	  "description": "Four tiles scattered on a 4x4 board",
//	  "rows": 4,
//	  "cols": 4,
//	  "layout": [[0, 0, 4, 0], [3, 0, 0, 0], [0, 1, 0, 0], [0, 0, 0, 2]]
//	}
//
// 0 marks an empty cell. Every other value must lie in [1, min(rows, cols)] and
// appear at most once.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle, err := manager.LoadConfig("easy")
//	defaultPuzzle := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Server settings default to DefaultSettings and may be overridden key by key
// with LoadSettings:
//
//	port = 9090
//	config_dir = "configs"
//	session_ttl = "24h"
package config
