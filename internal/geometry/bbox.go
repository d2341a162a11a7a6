package geometry

import (
	"fmt"
	"math"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// Box is an axis-aligned bounding box
type Box struct {
	Min, Max kernel.Vec3
}

// Size returns the box extents along each axis
func (b Box) Size() kernel.Vec3 {
	return kernel.Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Center returns the box midpoint
func (b Box) Center() kernel.Vec3 {
	return kernel.Vec3{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2, Z: (b.Min.Z + b.Max.Z) / 2}
}

// FromSolid returns the bounding box of a solid
func FromSolid(s kernel.Solid) Box {
	min, max := s.Bounds()
	return Box{Min: min, Max: max}
}

// FromMesh calculates the bounding box over all triangle vertices.
// Returns an error for an empty mesh.
func FromMesh(m kernel.Mesh) (Box, error) {
	if len(m.Triangles) == 0 {
		return Box{}, fmt.Errorf("mesh has no triangles")
	}

	first := m.Triangles[0].Vertices[0]
	box := Box{Min: first, Max: first}
	for _, t := range m.Triangles {
		for _, v := range t.Vertices {
			box.Min.X = math.Min(box.Min.X, v.X)
			box.Min.Y = math.Min(box.Min.Y, v.Y)
			box.Min.Z = math.Min(box.Min.Z, v.Z)
			box.Max.X = math.Max(box.Max.X, v.X)
			box.Max.Y = math.Max(box.Max.Y, v.Y)
			box.Max.Z = math.Max(box.Max.Z, v.Z)
		}
	}
	return box, nil
}

// FromPoints calculates the bounding box over the given points.
// Returns an error when no points are given.
func FromPoints(points []kernel.Vec3) (Box, error) {
	if len(points) == 0 {
		return Box{}, fmt.Errorf("no points given")
	}

	box := Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = math.Min(box.Min.X, p.X)
		box.Min.Y = math.Min(box.Min.Y, p.Y)
		box.Min.Z = math.Min(box.Min.Z, p.Z)
		box.Max.X = math.Max(box.Max.X, p.X)
		box.Max.Y = math.Max(box.Max.Y, p.Y)
		box.Max.Z = math.Max(box.Max.Z, p.Z)
	}
	return box, nil
}

// Merge returns the smallest box containing both a and b
func Merge(a, b Box) Box {
	return Box{
		Min: kernel.Vec3{
			X: math.Min(a.Min.X, b.Min.X),
			Y: math.Min(a.Min.Y, b.Min.Y),
			Z: math.Min(a.Min.Z, b.Min.Z),
		},
		Max: kernel.Vec3{
			X: math.Max(a.Max.X, b.Max.X),
			Y: math.Max(a.Max.Y, b.Max.Y),
			Z: math.Max(a.Max.Z, b.Max.Z),
		},
	}
}

// ParseTranslation extracts the translation (dx, dy, dz) from a transform
// matrix string in the row-major 3MF format
// "m11 m12 m13 m21 m22 m23 m31 m32 m33 dx dy dz".
func ParseTranslation(transform string) (dx, dy, dz float64) {
	var parts [12]float64
	_, err := fmt.Sscanf(transform, "%f %f %f %f %f %f %f %f %f %f %f %f",
		&parts[0], &parts[1], &parts[2],
		&parts[3], &parts[4], &parts[5],
		&parts[6], &parts[7], &parts[8],
		&parts[9], &parts[10], &parts[11])

	if err != nil {
		return 0, 0, 0
	}

	return parts[9], parts[10], parts[11]
}
