package inspect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CADit-app/maker-chips/internal/kernel"
	"github.com/CADit-app/maker-chips/internal/threemf"
)

// writePackage writes a small two-part 3MF package and returns its path.
func writePackage(t *testing.T) string {
	t.Helper()

	quad := func(z float64) kernel.Mesh {
		return kernel.Mesh{Triangles: []kernel.Triangle{
			{
				Normal:   kernel.Vec3{Z: 1},
				Vertices: [3]kernel.Vec3{{}, {X: 1}, {X: 1, Y: 1, Z: z}},
			},
			{
				Normal:   kernel.Vec3{Z: 1},
				Vertices: [3]kernel.Vec3{{}, {X: 1, Y: 1, Z: z}, {Y: 1}},
			},
		}}
	}

	path := filepath.Join(t.TempDir(), "chip.3mf")
	parts := []threemf.Part{
		{Name: "Disk", Mesh: quad(0)},
		{Name: "Marking", Mesh: quad(2)},
	}
	if err := threemf.WriteFile(path, parts); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}
	return path
}

func TestInspectGeneratedPackage(t *testing.T) {
	path := writePackage(t)

	if err := NewInspector().Inspect(path, false); err != nil {
		t.Errorf("Inspect() returned error: %v", err)
	}
}

func TestInspectWithXML(t *testing.T) {
	path := writePackage(t)

	if err := NewInspector().Inspect(path, true); err != nil {
		t.Errorf("Inspect() with XML returned error: %v", err)
	}
}

func TestInspectMissingFile(t *testing.T) {
	err := NewInspector().Inspect(filepath.Join(t.TempDir(), "absent.3mf"), false)
	if err == nil || !strings.Contains(err.Error(), "file not found") {
		t.Errorf("Inspect() on missing file = %v, want file not found error", err)
	}
}

func TestInspectInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.3mf")
	if err := os.WriteFile(path, []byte("not a zip archive"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewInspector().Inspect(path, false)
	if err == nil || !strings.Contains(err.Error(), "error reading 3MF file") {
		t.Errorf("Inspect() on invalid file = %v, want read error", err)
	}
}

func TestGetObjectName(t *testing.T) {
	model := &threemf.Model{
		Resources: threemf.Resources{Objects: []threemf.Object{
			{ID: "1", Name: "Disk"},
			{ID: "2"},
		}},
	}
	settings := &threemf.ModelSettings{
		Objects: []threemf.SettingsObject{{
			ID:       "2",
			Metadata: []threemf.SettingsMetadata{{Key: "name", Value: "Maker Chip"}},
		}},
	}

	i := NewInspector()
	if got := i.getObjectName(model, settings, "1"); got != "Disk" {
		t.Errorf("getObjectName(1) = %q, want Disk", got)
	}
	if got := i.getObjectName(model, settings, "2"); got != "Maker Chip" {
		t.Errorf("getObjectName(2) = %q, want Maker Chip", got)
	}
	if got := i.getObjectName(model, nil, "2"); got != "(unnamed)" {
		t.Errorf("getObjectName(2) without settings = %q, want (unnamed)", got)
	}
	if got := i.getObjectName(model, settings, "9"); got != "(not found)" {
		t.Errorf("getObjectName(9) = %q, want (not found)", got)
	}
}
