package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/CADit-app/maker-chips/internal/buildplan"
	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/export"
	"github.com/CADit-app/maker-chips/internal/generators"
	"github.com/CADit-app/maker-chips/internal/inspect"
	"github.com/CADit-app/maker-chips/internal/kernel/sdfkernel"
	"github.com/CADit-app/maker-chips/internal/patterns"
	"github.com/CADit-app/maker-chips/internal/ui"
	"github.com/CADit-app/maker-chips/version"
)

type CLI struct {
	Verbose bool `help:"Enable verbose output" short:"v"`

	Generate   *GenerateCmd   `cmd:"" help:"Generate a maker chip (.3mf, .glb or .stl)"`
	Patterns   *PatternsCmd   `cmd:"" help:"List the built-in marking patterns"`
	Inspect    *InspectCmd    `cmd:"" help:"Inspect a 3MF file and show its contents"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion script"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
}

// AfterApply wires the global verbose flag before any command runs.
func (cli *CLI) AfterApply() error {
	ui.SetVerbose(cli.Verbose)
	if cli.Verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		sdfkernel.SetLogger(logger)
		export.SetLogger(logger)
		buildplan.SetLogger(logger)
	}
	return nil
}

type GenerateCmd struct {
	Output string `arg:"" help:"Output file path (.3mf, .glb or .stl)"`

	Radius       float64 `help:"Chip radius in mm" default:"20"`
	Height       float64 `help:"Chip height in mm" default:"3"`
	Rounding     float64 `help:"Edge rounding radius in mm" default:"1"`
	CenterRadius float64 `help:"Center disk radius in mm" name:"center-radius" default:"14"`
	Pattern      string  `help:"Marking pattern id (see 'patterns')" default:"makerChipV1"`
	Assembly     string  `help:"Part layout" enum:"flat,printable" default:"flat"`

	QRContent string  `help:"Embed a QR code part with this content" name:"qr-content"`
	QRSize    float64 `help:"QR code side length in mm" name:"qr-size" default:"18"`
	QRDepth   float64 `help:"QR code extrusion depth in mm" name:"qr-depth" default:"1.2"`

	Image          string  `help:"Embed an engraved image part from this file (PNG or JPEG)"`
	ImageHeight    float64 `help:"Image footprint height in mm" name:"image-height" default:"18"`
	ImageDepth     float64 `help:"Image extrusion depth in mm" name:"image-depth" default:"1.2"`
	ImageThreshold uint8   `help:"Luminance cutoff, darker pixels become solid" name:"image-threshold" default:"128"`
	ImageInvert    bool    `help:"Engrave light pixels instead of dark ones" name:"image-invert"`

	Config     string `help:"Load parameters from a YAML file instead of flags"`
	Resolution int    `help:"Mesh resolution (octree cells along the longest axis)" default:"200"`
	ASCIISTL   bool   `help:"Write .stl output as text instead of binary" name:"ascii-stl"`
	Open       bool   `help:"Open the result file in the default application"`
}

// Help adds additional help text with examples
func (c *GenerateCmd) Help() string {
	return renderGenerateHelp()
}

func (c *GenerateCmd) Run() error {
	req := buildplan.Request{
		OutputPath: c.Output,
		ConfigPath: c.Config,
		Params:     c.params(),
		Cells:      c.Resolution,
		ASCIISTL:   c.ASCIISTL,
		Kernel:     sdfkernel.New(),
	}

	planner := buildplan.NewPlanner()
	plan, err := planner.CreatePlan(req)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
	if err := plan.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	if c.Open {
		if err := openFile(c.Output); err != nil {
			ui.PrintError("Failed to open file: " + err.Error())
		}
	}
	return nil
}

// params collects the flag values into chip parameters. The optional parts
// are enabled by their content and path flags.
func (c *GenerateCmd) params() chip.Params {
	params := chip.Params{
		Radius:             c.Radius,
		Height:             c.Height,
		RoundingRadius:     c.Rounding,
		CenterCircleRadius: c.CenterRadius,
		Pattern:            c.Pattern,
		Assembly:           chip.Assembly(c.Assembly),
	}
	if c.QRContent != "" {
		params.QR = &generators.QRParams{
			Content: c.QRContent,
			Size:    c.QRSize,
			Depth:   c.QRDepth,
		}
	}
	if c.Image != "" {
		params.Image = &generators.ImageParams{
			Path:      c.Image,
			Height:    c.ImageHeight,
			Depth:     c.ImageDepth,
			Threshold: c.ImageThreshold,
			Invert:    c.ImageInvert,
		}
	}
	return params
}

type PatternsCmd struct{}

func (c *PatternsCmd) Run() error {
	names := patterns.Names()
	ui.PrintHeader(fmt.Sprintf("Built-in marking patterns (%d)", len(names)))
	for _, name := range names {
		if !ui.IsVerbose() {
			ui.PrintItem(name)
			continue
		}
		pattern, err := patterns.Resolve(name)
		if err != nil {
			return err
		}
		points := 0
		for _, contour := range pattern.Contours {
			points += len(contour)
		}
		ui.PrintItem(fmt.Sprintf("%s (%d contours, %d points)", name, len(pattern.Contours), points))
	}
	return nil
}

type InspectCmd struct {
	File string `arg:"" help:"3MF file to inspect"`
	XML  bool   `help:"Print the highlighted model XML"`
}

func (c *InspectCmd) Run() error {
	inspector := inspect.NewInspector()
	return inspector.Inspect(c.File, c.XML)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// openFile opens a file in the default application for the current platform
func openFile(filepath string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", filepath)
	case "linux":
		cmd = exec.Command("xdg-open", filepath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", filepath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("maker-chips"),
		kong.Description("Parametric maker chip generator for multi-material 3D printing"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
