package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CADit-app/maker-chips/internal/chip"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chip.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// TestLoadDefaults tests that an empty document yields the default parameters
func TestLoadDefaults(t *testing.T) {
	loader := NewLoader()
	params, err := loader.Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := chip.DefaultParams()
	if params.Radius != want.Radius || params.Height != want.Height {
		t.Errorf("Expected default dimensions, got radius %v height %v", params.Radius, params.Height)
	}
	if params.Pattern != want.Pattern {
		t.Errorf("Expected pattern %q, got %q", want.Pattern, params.Pattern)
	}
	if params.Assembly != chip.AssemblyFlat {
		t.Errorf("Expected flat assembly, got %q", params.Assembly)
	}
	if params.QR != nil || params.Image != nil {
		t.Error("Expected no optional parts")
	}
}

// TestLoadFull tests a document that sets every field including both optional parts
func TestLoadFull(t *testing.T) {
	content := `radius: 25
height: 4
rounding_radius: 1.5
center_circle_radius: 16
pattern: honeycomb
assembly: printable
qr:
  content: https://cadit.app
  size: 20
  depth: 1.5
image:
  path: logo.png
  height: 16
  depth: 0.8
  threshold: 96
  invert: true
`
	loader := NewLoader()
	path := writeConfig(t, content)
	params, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if params.Radius != 25 || params.Height != 4 || params.RoundingRadius != 1.5 || params.CenterCircleRadius != 16 {
		t.Errorf("Dimension mismatch: %+v", params)
	}
	if params.Pattern != "honeycomb" {
		t.Errorf("Expected pattern honeycomb, got %q", params.Pattern)
	}
	if params.Assembly != chip.AssemblyPrintable {
		t.Errorf("Expected printable assembly, got %q", params.Assembly)
	}

	if params.QR == nil {
		t.Fatal("Expected QR params")
	}
	if params.QR.Content != "https://cadit.app" || params.QR.Size != 20 || params.QR.Depth != 1.5 {
		t.Errorf("QR mismatch: %+v", params.QR)
	}

	if params.Image == nil {
		t.Fatal("Expected image params")
	}
	if params.Image.Height != 16 || params.Image.Depth != 0.8 || params.Image.Threshold != 96 || !params.Image.Invert {
		t.Errorf("Image mismatch: %+v", params.Image)
	}
	want := filepath.Join(filepath.Dir(path), "logo.png")
	if params.Image.Path != want {
		t.Errorf("Expected image path resolved to %q, got %q", want, params.Image.Path)
	}
}

// TestLoadExplicitZeroRounding tests that an explicit zero is distinguished from an absent field
func TestLoadExplicitZeroRounding(t *testing.T) {
	loader := NewLoader()
	params, err := loader.Load(writeConfig(t, "rounding_radius: 0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if params.RoundingRadius != 0 {
		t.Errorf("Expected explicit zero rounding to stick, got %v", params.RoundingRadius)
	}
}

// TestLoadAbsoluteImagePath tests that absolute image paths are not resolved against the config dir
func TestLoadAbsoluteImagePath(t *testing.T) {
	loader := NewLoader()
	params, err := loader.Load(writeConfig(t, "image:\n  path: /data/logo.png\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if params.Image.Path != "/data/logo.png" {
		t.Errorf("Expected absolute path untouched, got %q", params.Image.Path)
	}
}

// TestLoadRejectsInvalid tests rejection of unknown keys, malformed YAML and invalid parameters
func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "radiu: 20\n", "failed to parse YAML"},
		{"malformed yaml", "radius: [\n", "failed to parse YAML"},
		{"negative radius", "radius: -1\n", "invalid configuration"},
		{"bad assembly", "assembly: sideways\n", "invalid configuration"},
		{"qr without content", "qr:\n  size: 20\n", "content is required"},
		{"image without path", "image:\n  height: 16\n", "path is required"},
	}

	loader := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to contain %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadMissingFile tests the error for a config path that does not exist
func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}
