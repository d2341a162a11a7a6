package preconditions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/generators"
)

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"3mf in temp dir", filepath.Join(dir, "chip.3mf"), ""},
		{"glb in temp dir", filepath.Join(dir, "chip.glb"), ""},
		{"stl in temp dir", filepath.Join(dir, "chip.stl"), ""},
		{"relative path", "chip.3mf", ""},
		{"empty", "", "must be specified"},
		{"unsupported format", filepath.Join(dir, "chip.obj"), "unsupported output format"},
		{"missing directory", filepath.Join(dir, "absent", "chip.3mf"), "does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOutputPath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected success, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to contain %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckMissingImageIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	params := chip.DefaultParams()
	params.Image = &generators.ImageParams{Path: filepath.Join(dir, "absent.png")}

	if err := Check(filepath.Join(dir, "chip.3mf"), params); err != nil {
		t.Fatalf("Expected a missing image to be a warning only, got %v", err)
	}
}

func TestValidateConfigFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "chip.yaml")
	if err := os.WriteFile(path, []byte("radius: 20\n"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := ValidateConfigFile(path); err != nil {
		t.Errorf("Expected readable file to pass, got %v", err)
	}
	if err := ValidateConfigFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if err := ValidateConfigFile(dir); err == nil {
		t.Error("Expected an error for a directory")
	}
}
