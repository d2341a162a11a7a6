package buildplan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/kernel/sdfkernel"
	"github.com/CADit-app/maker-chips/internal/threemf"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"chip.3mf", FileType3MF},
		{"CHIP.3MF", FileType3MF},
		{"chip.glb", FileTypeGLB},
		{"chip.stl", FileTypeSTL},
		{"chip.scad", FileTypeUnknown},
		{"chip", FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectFileType(tt.path); got != tt.want {
				t.Fatalf("Expected %v for %q, got %v", tt.want, tt.path, got)
			}
		})
	}
}

func TestCreatePlanUnsupportedOutput(t *testing.T) {
	planner := NewPlanner()
	_, err := planner.CreatePlan(Request{
		OutputPath: "chip.scad",
		Params:     chip.DefaultParams(),
		Kernel:     sdfkernel.New(),
	})
	if err == nil {
		t.Fatal("Expected an error for unsupported output format")
	}
	if !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("Expected format error, got %v", err)
	}
}

func TestCreatePlanStepOrder(t *testing.T) {
	planner := NewPlanner()
	plan, err := planner.CreatePlan(Request{
		OutputPath: "chip.3mf",
		Params:     chip.DefaultParams(),
		Kernel:     sdfkernel.New(),
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}

	want := []string{"Load parameters", "Check preconditions", "Build shapes", "Mesh shapes", "Export"}
	if len(plan.Steps) != len(want) {
		t.Fatalf("Expected %d steps, got %d", len(want), len(plan.Steps))
	}
	for i, step := range plan.Steps {
		if step.Name() != want[i] {
			t.Errorf("Expected step %d to be %q, got %q", i, want[i], step.Name())
		}
	}
}

func TestExecuteWritesSTL(t *testing.T) {
	output := filepath.Join(t.TempDir(), "chip.stl")

	planner := NewPlanner()
	plan, err := planner.CreatePlan(Request{
		OutputPath: output,
		Params:     chip.DefaultParams(),
		Cells:      16,
		Kernel:     sdfkernel.New(),
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := plan.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if info.Size() <= 84 {
		t.Errorf("Expected a non-empty STL, got %d bytes", info.Size())
	}
}

func TestExecuteWrites3MF(t *testing.T) {
	output := filepath.Join(t.TempDir(), "chip.3mf")

	params := chip.DefaultParams()
	params.Assembly = chip.AssemblyFlat

	planner := NewPlanner()
	plan, err := planner.CreatePlan(Request{
		OutputPath: output,
		Params:     params,
		Cells:      16,
		Kernel:     sdfkernel.New(),
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := plan.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Parts of a 3MF are always stacked, even when flat was requested.
	if buildContext.Params.Assembly != chip.AssemblyPrintable {
		t.Errorf("Expected printable assembly for 3MF output, got %q", buildContext.Params.Assembly)
	}

	model, err := threemf.ReadModel(output)
	if err != nil {
		t.Fatalf("Error reading model: %v", err)
	}
	// Three core parts plus the parent component object.
	if len(model.Resources.Objects) != 4 {
		t.Fatalf("Expected 4 objects, got %d", len(model.Resources.Objects))
	}
	if len(model.Build.Items) != 1 {
		t.Fatalf("Expected 1 build item, got %d", len(model.Build.Items))
	}
}

func TestExecuteLoadsConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "chip.yaml")
	content := "radius: 10\nheight: 2\ncenter_circle_radius: 7\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	output := filepath.Join(dir, "chip.glb")

	planner := NewPlanner()
	plan, err := planner.CreatePlan(Request{
		OutputPath: output,
		ConfigPath: configPath,
		Cells:      16,
		Kernel:     sdfkernel.New(),
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := plan.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if buildContext.Params.Radius != 10 {
		t.Errorf("Expected config radius 10, got %v", buildContext.Params.Radius)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
}

func TestExecuteRejectsInvalidParams(t *testing.T) {
	params := chip.DefaultParams()
	params.Radius = -1

	planner := NewPlanner()
	plan, err := planner.CreatePlan(Request{
		OutputPath: filepath.Join(t.TempDir(), "chip.stl"),
		Params:     params,
		Kernel:     sdfkernel.New(),
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if err := plan.Execute(); err == nil {
		t.Fatal("Expected invalid parameters to fail the plan")
	}
}
