// Package buildplan turns a generation request into an ordered list of
// executable steps: load parameters, check preconditions, build shapes,
// mesh them, write the output file.
package buildplan

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/config"
	"github.com/CADit-app/maker-chips/internal/export"
	"github.com/CADit-app/maker-chips/internal/kernel"
	"github.com/CADit-app/maker-chips/internal/preconditions"
	"github.com/CADit-app/maker-chips/internal/threemf"
	"github.com/CADit-app/maker-chips/internal/ui"
)

var log = zerolog.Nop()

// SetLogger routes step timings to l.
func SetLogger(l zerolog.Logger) {
	log = l
}

// DefaultCells is the octree tessellation resolution used when the request
// does not set one.
const DefaultCells = 200

// FileType represents the type of output file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileType3MF
	FileTypeGLB
	FileTypeSTL
)

// Request describes a single chip generation run.
type Request struct {
	OutputPath string
	ConfigPath string      // optional YAML parameter file, replaces Params
	Params     chip.Params // parameters collected from flags
	Cells      int         // octree tessellation resolution, 0 for default
	ASCIISTL   bool
	Kernel     kernel.Kernel
}

// BuildStep represents a single step in the build plan
type BuildStep interface {
	Name() string
	Execute() error
}

// BuildPlan contains all steps needed to generate the output file
type BuildPlan struct {
	Steps      []BuildStep
	OutputFile string
}

// Planner creates build plans from generation requests
type Planner struct{}

// NewPlanner creates a new build planner
func NewPlanner() *Planner {
	return &Planner{}
}

// CreatePlan validates the request and assembles the step list. The output
// extension is checked here so an unsupported format fails before any
// geometry work.
func (p *Planner) CreatePlan(req Request) (*BuildPlan, error) {
	if detectFileType(req.OutputPath) == FileTypeUnknown {
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)",
			filepath.Ext(req.OutputPath), strings.Join(export.SupportedExtensions(), ", "))
	}
	if req.Kernel == nil {
		return nil, fmt.Errorf("no geometry kernel configured")
	}

	buildContext = &Context{Request: req}

	plan := &BuildPlan{OutputFile: req.OutputPath}
	plan.Steps = append(plan.Steps,
		&LoadParamsStep{},
		&CheckPreconditionsStep{},
		&BuildShapesStep{},
		&MeshShapesStep{},
		&ExportStep{},
	)
	return plan, nil
}

// Execute runs all steps in the plan
func (p *BuildPlan) Execute() error {
	if ui.IsVerbose() {
		ui.PrintTitle("Build Plan Execution")
		ui.PrintInfo(fmt.Sprintf("Total steps: %d", len(p.Steps)))
		ui.PrintSeparator()
	}

	for i, step := range p.Steps {
		if ui.IsVerbose() {
			ui.PrintHeader(fmt.Sprintf("Step %d/%d: %s", i+1, len(p.Steps), step.Name()))
		}
		start := time.Now()
		if err := step.Execute(); err != nil {
			return err
		}
		log.Debug().Str("step", step.Name()).Dur("took", time.Since(start)).Msg("step finished")
	}

	ui.PrintSeparator()
	ui.PrintSuccess("Build completed successfully!")
	if p.OutputFile != "" {
		// Convert to relative path if possible
		relPath, err := filepath.Rel(".", p.OutputFile)
		if err != nil {
			relPath = p.OutputFile
		}
		ui.PrintKeyValue("Output file", relPath)
	}
	return nil
}

// detectFileType determines the output type based on extension
func detectFileType(path string) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".3mf":
		return FileType3MF
	case ".glb":
		return FileTypeGLB
	case ".stl":
		return FileTypeSTL
	default:
		return FileTypeUnknown
	}
}

// pluralize returns "s" if count != 1, empty string otherwise
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// Context holds shared data between build steps
type Context struct {
	Request Request
	Params  chip.Params
	Shapes  chip.ShapeSet
	Skipped []chip.Skipped
	Parts   []threemf.Part
}

var buildContext = &Context{}

// LoadParamsStep resolves the effective parameters from flags or a YAML file
type LoadParamsStep struct{}

func (s *LoadParamsStep) Name() string {
	return "Load parameters"
}

func (s *LoadParamsStep) Execute() error {
	req := buildContext.Request
	if req.ConfigPath != "" {
		if err := preconditions.ValidateConfigFile(req.ConfigPath); err != nil {
			return err
		}
		loader := config.NewLoader()
		params, err := loader.Load(req.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		buildContext.Params = params
		ui.PrintSuccess(fmt.Sprintf("Loaded configuration from %s", filepath.Base(req.ConfigPath)))
	} else {
		if err := req.Params.Validate(); err != nil {
			return err
		}
		buildContext.Params = req.Params
	}

	// A 3MF is a printer package; its parts are always stacked.
	if detectFileType(req.OutputPath) == FileType3MF {
		buildContext.Params.Assembly = chip.AssemblyPrintable
	}

	if ui.IsVerbose() {
		p := buildContext.Params
		ui.PrintKeyValue("Radius", fmt.Sprintf("%g mm", p.Radius))
		ui.PrintKeyValue("Height", fmt.Sprintf("%g mm", p.Height))
		ui.PrintKeyValue("Pattern", p.Pattern)
		ui.PrintKeyValue("Assembly", string(p.Assembly))
		if p.QR != nil {
			ui.PrintKeyValue("QR content", p.QR.Content)
		}
		if p.Image != nil {
			ui.PrintKeyValue("Image", p.Image.Path)
		}
	}
	return nil
}

// CheckPreconditionsStep verifies the output path and referenced files
type CheckPreconditionsStep struct{}

func (s *CheckPreconditionsStep) Name() string {
	return "Check preconditions"
}

func (s *CheckPreconditionsStep) Execute() error {
	if err := preconditions.Check(buildContext.Request.OutputPath, buildContext.Params); err != nil {
		return err
	}
	if ui.IsVerbose() {
		ui.PrintSuccess("✓ Preconditions satisfied")
	}
	return nil
}

// BuildShapesStep assembles the chip geometry
type BuildShapesStep struct{}

func (s *BuildShapesStep) Name() string {
	return "Build shapes"
}

func (s *BuildShapesStep) Execute() error {
	builder := chip.NewBuilder(buildContext.Request.Kernel)
	shapes, skipped, err := builder.Assemble(buildContext.Params)
	if err != nil {
		return err
	}
	buildContext.Shapes = shapes
	buildContext.Skipped = skipped

	for _, skip := range skipped {
		ui.PrintWarning(fmt.Sprintf("Skipping %s: %v", skip.Label, skip.Err))
	}
	ui.PrintSuccess(fmt.Sprintf("Built %d part%s", len(shapes), pluralize(len(shapes))))
	if ui.IsVerbose() {
		for _, shape := range shapes {
			min, max := shape.Solid.Bounds()
			size := kernel.Size(min, max)
			ui.PrintItem(fmt.Sprintf("%s: %.1f × %.1f × %.1f mm", shape.Label, size.X, size.Y, size.Z))
		}
	}
	return nil
}

// MeshShapesStep triangulates every part
type MeshShapesStep struct{}

func (s *MeshShapesStep) Name() string {
	return "Mesh shapes"
}

func (s *MeshShapesStep) Execute() error {
	cells := buildContext.Request.Cells
	if cells <= 0 {
		cells = DefaultCells
	}

	if !ui.IsVerbose() {
		ui.PrintInfo(fmt.Sprintf("Meshing %d part%s...", len(buildContext.Shapes), pluralize(len(buildContext.Shapes))))
	}
	parts, err := export.Meshes(buildContext.Request.Kernel, buildContext.Shapes, cells)
	if err != nil {
		return err
	}
	buildContext.Parts = parts

	total := 0
	for _, part := range parts {
		total += len(part.Mesh.Triangles)
	}
	ui.PrintSuccess(fmt.Sprintf("Meshed %d part%s (%d triangles)", len(parts), pluralize(len(parts)), total))
	return nil
}

// ExportStep writes the output file
type ExportStep struct{}

func (s *ExportStep) Name() string {
	return "Export"
}

func (s *ExportStep) Execute() error {
	req := buildContext.Request
	opts := export.Options{ASCIISTL: req.ASCIISTL}
	if err := export.Write(req.OutputPath, buildContext.Parts, opts); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Wrote %s", filepath.Base(req.OutputPath)))
	return nil
}
