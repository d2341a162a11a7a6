// Package kernel defines the geometry abstraction the chip builder works
// against. A Kernel constructs immutable 2D cross-sections and 3D solids and
// can triangulate a solid into a mesh. All operations return new values;
// arguments are never mutated.
package kernel

// Vec2 is a point or direction in the XY plane, in millimeters.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a point or direction in model space, in millimeters.
type Vec3 struct {
	X, Y, Z float64
}

// CrossSection is an opaque 2D region produced by a Kernel.
type CrossSection interface {
	// Bounds returns the axis-aligned bounding box of the region.
	Bounds() (min, max Vec2)
}

// Solid is an opaque 3D body produced by a Kernel.
type Solid interface {
	// Bounds returns the axis-aligned bounding box of the body.
	Bounds() (min, max Vec3)
}

// Triangle is a single mesh facet with an outward-facing normal.
type Triangle struct {
	Normal   Vec3
	Vertices [3]Vec3
}

// Mesh is a triangulated solid.
type Mesh struct {
	Triangles []Triangle
}

// Kernel builds and combines geometry. Implementations are safe for
// concurrent read-only use; the values they return are immutable.
//
// Conventions: Extrude spans z in [0, height]. Revolve sweeps the
// cross-section a full turn around the Z axis, with cross-section X as the
// radial distance and cross-section Y mapping to Z. Polygon fills its
// contours with the even-odd rule, so nested contours cut holes.
type Kernel interface {
	Circle(radius float64) CrossSection
	Rectangle(width, height float64) CrossSection
	Polygon(contours [][]Vec2) CrossSection

	Union2(a, b CrossSection) CrossSection
	Difference2(a, b CrossSection) CrossSection
	Translate2(s CrossSection, x, y float64) CrossSection
	Scale2(s CrossSection, sx, sy float64) CrossSection

	Extrude(s CrossSection, height float64) Solid
	Revolve(s CrossSection) Solid

	Union3(a, b Solid) Solid
	Difference3(a, b Solid) Solid
	Intersect3(a, b Solid) Solid
	Translate3(s Solid, x, y, z float64) Solid
	// MirrorY reflects the solid across the XZ plane.
	MirrorY(s Solid) Solid

	// Mesh triangulates the solid. cells controls the tessellation
	// resolution along the longest axis of the solid's bounding box.
	Mesh(s Solid, cells int) (Mesh, error)
}

// Size returns the extents of a bounding box.
func Size(min, max Vec3) Vec3 {
	return Vec3{X: max.X - min.X, Y: max.Y - min.Y, Z: max.Z - min.Z}
}

// Center returns the midpoint of a bounding box.
func Center(min, max Vec3) Vec3 {
	return Vec3{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2, Z: (min.Z + max.Z) / 2}
}
