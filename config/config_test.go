package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLanesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lanes.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing lanes file: %v", err)
	}
	return path
}

func TestLoadLanes(t *testing.T) {
	path := writeLanesFile(t, `
lanes:
  - id: 1
    name: North
  - id: 2
    name: East
`)

	lanes, err := LoadLanes(path)
	if err != nil {
		t.Fatalf("LoadLanes: %v", err)
	}
	if len(lanes) != 2 {
		t.Fatalf("got %d lanes, want 2", len(lanes))
	}
	if lanes[0].ID != 1 || lanes[0].Name != "North" {
		t.Errorf("lane 0 = %+v", lanes[0])
	}
}

func TestLoadLanesEmptyPathUsesDefaults(t *testing.T) {
	lanes, err := LoadLanes("")
	if err != nil {
		t.Fatalf("LoadLanes: %v", err)
	}
	if len(lanes) != 4 {
		t.Errorf("got %d default lanes, want 4", len(lanes))
	}
}

func TestLoadLanesRejectsBadRosters(t *testing.T) {
	cases := map[string]string{
		"NoLanes":      "lanes: []\n",
		"ZeroID":       "lanes:\n  - id: 0\n    name: Broken\n",
		"DuplicateIDs": "lanes:\n  - id: 1\n  - id: 1\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadLanes(writeLanesFile(t, content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadLanesMissingFile(t *testing.T) {
	if _, err := LoadLanes("/nonexistent/lanes.yml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
