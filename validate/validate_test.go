package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func hasError(result Result, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestFile(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantError string
	}{
		{
			name: "scattered tiles",
			body: `{"name": "Easy", "description": "d", "rows": 3, "cols": 3,
				"layout": [[0, 3, 0], [2, 0, 0], [0, 0, 1]]}`,
			wantValid: true,
		},
		{
			name: "already sorted",
			body: `{"name": "Done", "description": "d", "rows": 2, "cols": 2,
				"layout": [[1, 2], [0, 0]]}`,
			wantValid: true,
		},
		{
			name:      "invalid json",
			body:      `{"name": "test", invalid json}`,
			wantError: "Invalid JSON",
		},
		{
			name:      "empty layout",
			body:      `{"name": "Empty", "description": "d", "rows": 0, "cols": 0, "layout": []}`,
			wantError: "Layout is empty",
		},
		{
			name:      "missing name",
			body:      `{"description": "d", "rows": 1, "cols": 1, "layout": [[1]]}`,
			wantError: "Missing name",
		},
		{
			name: "rows mismatch",
			body: `{"name": "n", "description": "d", "rows": 3, "cols": 2,
				"layout": [[1, 2], [0, 0]]}`,
			wantError: "rows is 3",
		},
		{
			name: "ragged row",
			body: `{"name": "n", "description": "d", "rows": 2, "cols": 2,
				"layout": [[1, 2], [0]]}`,
			wantError: "Row 1 has 1 cells",
		},
		{
			name: "duplicate tile",
			body: `{"name": "n", "description": "d", "rows": 2, "cols": 2,
				"layout": [[1, 1], [0, 0]]}`,
			wantError: "at most once",
		},
		{
			name: "value above capacity",
			body: `{"name": "n", "description": "d", "rows": 1, "cols": 3,
				"layout": [[0, 2, 0]]}`,
			wantError: "at most once",
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.body)
			result := File(path)

			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (errors: %v)", tt.wantValid, result.Valid, result.Errors)
			}
			if result.File != filepath.Base(path) {
				t.Errorf("Expected file name %s, got %s", filepath.Base(path), result.File)
			}
			if tt.wantError != "" && !hasError(result, tt.wantError) {
				t.Errorf("Expected error containing %q, got %v", tt.wantError, result.Errors)
			}
		})
	}
}

func TestFileStats(t *testing.T) {
	dir := t.TempDir()

	scattered := File(writeConfig(t, dir, "scattered.json", `{"name": "Easy", "description": "d", "rows": 3, "cols": 3,
		"layout": [[0, 3, 0], [2, 0, 0], [0, 0, 1]]}`))
	if scattered.Tiles != 3 || scattered.Misplaced != 3 || scattered.Sorted {
		t.Errorf("Unexpected stats %+v", scattered)
	}
	if scattered.PlanMoves == 0 {
		t.Error("Expected a non-empty plan for a scattered layout")
	}

	sorted := File(writeConfig(t, dir, "sorted.json", `{"name": "Done", "description": "d", "rows": 2, "cols": 2,
		"layout": [[1, 2], [0, 0]]}`))
	if !sorted.Sorted || sorted.Misplaced != 0 || sorted.PlanMoves != 0 {
		t.Errorf("Unexpected stats for sorted layout %+v", sorted)
	}
}

func TestFileMissing(t *testing.T) {
	result := File(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid || !hasError(result, "Failed to read file") {
		t.Errorf("Expected read failure, got %+v", result)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "b.json", `{"name": "B", "description": "d", "rows": 1, "cols": 1, "layout": [[1]]}`)
	writeConfig(t, dir, "a.json", `{"name": "A", "description": "d", "rows": 2, "cols": 2, "layout": [[0, 0], [2, 1]]}`)
	writeConfig(t, dir, "notes.txt", "ignored")

	results, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) != 2 || results[0].File != "a.json" || results[1].File != "b.json" {
		t.Fatalf("Expected a.json and b.json in order, got %+v", results)
	}
	if !AllValid(results) {
		t.Errorf("Expected all configs valid, got %+v", results)
	}

	writeConfig(t, dir, "c.json", `{"name": "C"}`)
	results, _ = Dir(dir)
	if AllValid(results) {
		t.Error("Expected AllValid to be false with a broken config")
	}
}

func TestShippedConfigs(t *testing.T) {
	results, err := Dir("../configs")
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("No configs found")
	}

	for _, result := range results {
		if !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}
