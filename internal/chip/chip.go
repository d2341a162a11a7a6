// Package chip builds the maker chip geometry: a rounded disk, an engraved
// marking pattern, a center accent disk and optional QR code or image
// parts, arranged either spread out for inspection or stacked for printing.
package chip

import (
	"fmt"
	"math"

	"github.com/CADit-app/maker-chips/internal/generators"
	"github.com/CADit-app/maker-chips/internal/kernel"
	"github.com/CADit-app/maker-chips/internal/patterns"
)

// Defaults for chip parameters, in millimeters.
const (
	DefaultRadius             = 20.0
	DefaultHeight             = 3.0
	DefaultRoundingRadius     = 1.0
	DefaultCenterCircleRadius = 14.0
	DefaultPattern            = "makerChipV1"
)

// maskMargin oversizes the rounding mask so it clears the disk rim with
// room to spare.
const maskMargin = 10.0

// markingOvershoot lets the marking extend past the disk edge so the
// rounding cut leaves no hairline gap at the rim.
const markingOvershoot = 0.1

// Assembly selects how the parts are laid out.
type Assembly string

const (
	// AssemblyFlat spreads the parts out side by side for inspection.
	AssemblyFlat Assembly = "flat"
	// AssemblyPrintable stacks the parts coaxially for slicing.
	AssemblyPrintable Assembly = "printable"
)

// ParseAssembly converts a string into an Assembly value.
func ParseAssembly(s string) (Assembly, error) {
	switch Assembly(s) {
	case AssemblyFlat, AssemblyPrintable:
		return Assembly(s), nil
	}
	return "", fmt.Errorf("unknown assembly %q (valid: %s, %s)", s, AssemblyFlat, AssemblyPrintable)
}

// Params describes one chip. Optional QR and image parts are enabled by
// setting the corresponding pointer.
type Params struct {
	Radius             float64
	Height             float64
	RoundingRadius     float64
	CenterCircleRadius float64
	Pattern            string
	Assembly           Assembly
	QR                 *generators.QRParams
	Image              *generators.ImageParams
}

// DefaultParams returns a fully populated parameter set for the standard
// 40 mm chip.
func DefaultParams() Params {
	return Params{
		Radius:             DefaultRadius,
		Height:             DefaultHeight,
		RoundingRadius:     DefaultRoundingRadius,
		CenterCircleRadius: DefaultCenterCircleRadius,
		Pattern:            DefaultPattern,
		Assembly:           AssemblyFlat,
	}
}

// ValidationError reports a parameter that cannot produce a chip.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the parameters. An oversized rounding radius is not an
// error, it is clamped during the build instead.
func (p Params) Validate() error {
	if p.Radius <= 0 {
		return &ValidationError{"radius", fmt.Sprintf("must be positive, got %v", p.Radius)}
	}
	if p.Height <= 0 {
		return &ValidationError{"height", fmt.Sprintf("must be positive, got %v", p.Height)}
	}
	if p.RoundingRadius < 0 {
		return &ValidationError{"rounding radius", fmt.Sprintf("must not be negative, got %v", p.RoundingRadius)}
	}
	if p.CenterCircleRadius <= 0 {
		return &ValidationError{"center circle radius", fmt.Sprintf("must be positive, got %v", p.CenterCircleRadius)}
	}
	if p.Pattern == "" {
		return &ValidationError{"pattern", "must not be empty"}
	}
	switch p.Assembly {
	case AssemblyFlat, AssemblyPrintable:
	default:
		return &ValidationError{"assembly", fmt.Sprintf("unknown value %q (valid: %s, %s)", p.Assembly, AssemblyFlat, AssemblyPrintable)}
	}
	return nil
}

// normalized clamps the rounding radius so the top and bottom arcs never
// overlap across the disk's mid plane.
func (p Params) normalized() Params {
	if p.RoundingRadius > p.Height/2 {
		p.RoundingRadius = p.Height / 2
	}
	return p
}

// Labels of the core parts, in assembly order.
const (
	LabelDisk       = "Disk"
	LabelCenterDisk = "Center Disk"
	LabelMarking    = "Marking"
)

// Shape pairs a solid with the part label used in exports.
type Shape struct {
	Label string
	Solid kernel.Solid
}

// ShapeSet is an ordered collection of parts. The order is fixed at
// assembly time and determines part numbering in exports.
type ShapeSet []Shape

// Skipped reports an optional part that failed to generate and was left
// out of the assembly.
type Skipped struct {
	Label string
	Err   error
}

// Builder constructs chip geometry on a solid-modeling kernel.
type Builder struct {
	k kernel.Kernel
}

func NewBuilder(k kernel.Kernel) *Builder {
	return &Builder{k: k}
}

// diskProfile builds the right half of the disk cross-section in the
// profile plane. X maps to radial distance and Y to the chip height, so
// the profile spans x in [0, radius] and y in [0, height].
func (b *Builder) diskProfile(radius, rounding, height float64) kernel.CrossSection {
	if rounding <= 0 {
		core := b.k.Rectangle(radius, height)
		return b.k.Translate2(core, radius/2, height/2)
	}

	// Two corner circles, inset from the rim so their arcs become the
	// rounded edges after revolution.
	cx := radius - rounding
	bottom := b.k.Translate2(b.k.Circle(rounding), cx, rounding)
	top := b.k.Translate2(b.k.Circle(rounding), cx, height-rounding)
	profile := b.k.Union2(bottom, top)

	// Fill from the axis out to the circle centers over the full height.
	if radius-rounding > 0 {
		core := b.k.Translate2(b.k.Rectangle(radius-rounding, height), (radius-rounding)/2, height/2)
		profile = b.k.Union2(profile, core)
	}

	// Fill the rim band between the two circles out to the full radius.
	if height-2*rounding > 0 {
		band := b.k.Translate2(b.k.Rectangle(radius, height-2*rounding), radius/2, height/2)
		profile = b.k.Union2(profile, band)
	}
	return profile
}

// Disk builds the chip body, a cylinder with both rims rounded. It sits on
// the XY plane spanning z in [0, height].
func (b *Builder) Disk(p Params) kernel.Solid {
	p = p.normalized()
	return b.k.Revolve(b.diskProfile(p.Radius, p.RoundingRadius, p.Height))
}

// RoundEdges trims s to the rounded disk silhouette. The mask is an
// oversized sharp cylinder minus the rounded disk, so subtracting it
// shaves off anything outside the rounded rim.
func (b *Builder) RoundEdges(s kernel.Solid, p Params) kernel.Solid {
	p = p.normalized()
	oversized := b.k.Extrude(b.k.Circle(p.Radius+maskMargin), p.Height+maskMargin)
	oversized = b.k.Translate3(oversized, 0, 0, -maskMargin/2)
	mask := b.k.Difference3(oversized, b.Disk(p))
	return b.k.Difference3(s, mask)
}

// Marking builds the engraved pattern solid. The pattern is scaled to
// overhang the disk edge slightly and then trimmed back to the rounded
// rim, so it meets the rim without a hairline gap.
func (b *Builder) Marking(p Params) (kernel.Solid, error) {
	p = p.normalized()
	pattern, err := patterns.Resolve(p.Pattern)
	if err != nil {
		return nil, err
	}

	section := b.k.Polygon(pattern.Contours)
	section = b.scaleToSizeAndCenter(section, 2*p.Radius+markingOvershoot)
	return b.RoundEdges(b.k.Extrude(section, p.Height), p), nil
}

// CenterDisk builds the plain accent cylinder. No rounding, no trimming.
func (b *Builder) CenterDisk(p Params) kernel.Solid {
	return b.k.Extrude(b.k.Circle(p.CenterCircleRadius), p.Height)
}

// scaleToSizeAndCenter fits the section into a square of the given side,
// preserving aspect ratio, and centers it on the origin. Sections with an
// empty bounding box are returned unchanged.
func (b *Builder) scaleToSizeAndCenter(s kernel.CrossSection, size float64) kernel.CrossSection {
	min, max := s.Bounds()
	width := max.X - min.X
	height := max.Y - min.Y
	if width <= 0 || height <= 0 {
		return s
	}

	scale := math.Min(size/width, size/height)
	centered := b.k.Translate2(s, -(min.X+max.X)/2, -(min.Y+max.Y)/2)
	return b.k.Scale2(centered, scale, scale)
}

// Assemble builds the complete shape set under the requested layout. The
// optional QR and image parts are fail-soft: a generator error is reported
// in the skipped list and the remaining parts still assemble.
func (b *Builder) Assemble(p Params) (ShapeSet, []Skipped, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	p = p.normalized()

	marking, err := b.Marking(p)
	if err != nil {
		return nil, nil, err
	}
	disk := b.Disk(p)
	center := b.CenterDisk(p)

	var skipped []Skipped
	generate := func(gen generators.Generator) *Shape {
		solid, err := gen.Generate(b.k)
		if err != nil {
			skipped = append(skipped, Skipped{Label: gen.Label(), Err: err})
			return nil
		}
		return &Shape{Label: gen.Label(), Solid: solid}
	}

	var qr, img *Shape
	if p.QR != nil {
		qr = generate(generators.NewQRCode(*p.QR))
	}
	if p.Image != nil {
		img = generate(generators.NewImageExtrude(*p.Image))
	}

	switch p.Assembly {
	case AssemblyPrintable:
		return b.assemblePrintable(p, disk, center, marking, qr, img), skipped, nil
	default:
		return b.assembleFlat(p, disk, center, marking, qr, img), skipped, nil
	}
}

// assembleFlat spreads the parts out so no two bounding boxes touch: the
// disk stays at the origin, the center disk and marking move off along one
// axis each, and the optional parts move off to the remaining sides.
func (b *Builder) assembleFlat(p Params, disk, center, marking kernel.Solid, qr, img *Shape) ShapeSet {
	offset := 2*p.Radius + 1

	shapes := ShapeSet{
		{Label: LabelDisk, Solid: disk},
		{Label: LabelCenterDisk, Solid: b.k.Translate3(center, 0, offset, 0)},
		{Label: LabelMarking, Solid: b.k.Translate3(marking, offset, 0, 0)},
	}
	if qr != nil {
		size := p.QR.WithDefaults().Size
		shapes = append(shapes, Shape{
			Label: qr.Label,
			Solid: b.k.Translate3(qr.Solid, -(p.Radius + size/2 + 1), 0, 0),
		})
	}
	if img != nil {
		min, max := img.Solid.Bounds()
		height := max.Y - min.Y
		shapes = append(shapes, Shape{
			Label: img.Label,
			Solid: b.k.Translate3(img.Solid, 0, -(p.Radius + height/2 + 1), 0),
		})
	}
	return shapes
}

// assemblePrintable stacks all parts coaxially. The QR code is raised so
// its top face is flush with the chip top; the image is mirrored face-down
// to become the bottom marking.
func (b *Builder) assemblePrintable(p Params, disk, center, marking kernel.Solid, qr, img *Shape) ShapeSet {
	shapes := ShapeSet{
		{Label: LabelDisk, Solid: disk},
		{Label: LabelCenterDisk, Solid: center},
		{Label: LabelMarking, Solid: marking},
	}
	if qr != nil {
		_, max := qr.Solid.Bounds()
		shapes = append(shapes, Shape{
			Label: qr.Label,
			Solid: b.k.Translate3(qr.Solid, 0, 0, p.Height-max.Z),
		})
	}
	if img != nil {
		shapes = append(shapes, Shape{Label: img.Label, Solid: b.k.MirrorY(img.Solid)})
	}
	return shapes
}
