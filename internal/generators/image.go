package generators

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	// Register the decoders for the supported image formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// Pixel pitch used when voxelizing an image, chosen to stay printable with
// a 0.4 mm nozzle.
const imagePixelPitch = 0.4

// ImageParams configures the image extrusion part.
type ImageParams struct {
	// Path of the PNG or JPEG file.
	Path string
	// Height is the target height of the extruded image in mm; width
	// follows the aspect ratio.
	Height float64
	// Depth is the extrusion height in mm.
	Depth float64
	// Threshold is the luminance below which a pixel is considered solid.
	Threshold uint8
	// Invert raises light pixels instead of dark ones.
	Invert bool
}

// WithDefaults fills unset fields with the package defaults.
func (p ImageParams) WithDefaults() ImageParams {
	if p.Height <= 0 {
		p.Height = DefaultImageHeight
	}
	if p.Depth <= 0 {
		p.Depth = DefaultDepth
	}
	if p.Threshold == 0 {
		p.Threshold = DefaultThreshold
	}
	return p
}

// ImageExtrude turns a raster image into an extruded relief.
type ImageExtrude struct {
	params ImageParams
}

func NewImageExtrude(params ImageParams) *ImageExtrude {
	return &ImageExtrude{params: params.WithDefaults()}
}

func (g *ImageExtrude) Label() string {
	return "Image"
}

func (g *ImageExtrude) Generate(k kernel.Kernel) (kernel.Solid, error) {
	if g.params.Path == "" {
		return nil, errors.New("image path is empty")
	}

	f, err := os.Open(g.params.Path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	grid, cell := g.voxelize(img)
	section := rasterSection(k, grid, cell)
	if section == nil {
		return nil, errors.New("image produced no solid pixels")
	}

	return k.Extrude(section, g.params.Depth), nil
}

// voxelize downscales the image so one pixel covers roughly imagePixelPitch
// millimeters, then thresholds it into a pixel grid.
func (g *ImageExtrude) voxelize(img image.Image) ([][]bool, float64) {
	rows := int(math.Round(g.params.Height / imagePixelPitch))
	if rows < 8 {
		rows = 8
	}
	if rows > 256 {
		rows = 256
	}

	scaled := resize.Resize(0, uint(rows), img, resize.Lanczos3)
	bounds := scaled.Bounds()
	cell := g.params.Height / float64(bounds.Dy())

	grid := make([][]bool, bounds.Dy())
	for y := range grid {
		row := make([]bool, bounds.Dx())
		for x := range row {
			c := scaled.At(bounds.Min.X+x, bounds.Min.Y+y)
			luma := color.GrayModel.Convert(c).(color.Gray).Y
			solid := luma < g.params.Threshold
			if g.params.Invert {
				solid = !solid
			}
			row[x] = solid
		}
		grid[y] = row
	}
	return grid, cell
}
