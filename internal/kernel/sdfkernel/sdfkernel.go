// Package sdfkernel implements the geometry kernel on signed distance
// fields, using github.com/soypat/sdf for booleans, extrusion, revolution
// and transforms, and its octree renderer for triangulation.
package sdfkernel

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

var log = zerolog.Nop()

// SetLogger routes backend diagnostics (mesh timings, triangle counts) to l.
func SetLogger(l zerolog.Logger) {
	log = l
}

// Kernel builds geometry as signed distance fields. The zero value is ready
// to use. Cross-sections and solids returned by one Kernel may be combined
// freely with those of another; they share the same representation.
type Kernel struct{}

var _ kernel.Kernel = Kernel{}

func New() Kernel {
	return Kernel{}
}

type section struct {
	s sdf.SDF2
}

func (c section) Bounds() (min, max kernel.Vec2) {
	b := c.s.Bounds()
	return kernel.Vec2{X: b.Min.X, Y: b.Min.Y}, kernel.Vec2{X: b.Max.X, Y: b.Max.Y}
}

type solid struct {
	s sdf.SDF3
}

func (s solid) Bounds() (min, max kernel.Vec3) {
	b := s.s.Bounds()
	return vec3(b.Min), vec3(b.Max)
}

func vec3(v r3.Vec) kernel.Vec3 {
	return kernel.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// cs and sd unwrap kernel values back to their field representation. Values
// from a foreign kernel implementation are a programming error.
func cs(c kernel.CrossSection) sdf.SDF2 {
	return c.(section).s
}

func sd(s kernel.Solid) sdf.SDF3 {
	return s.(solid).s
}

func (Kernel) Circle(radius float64) kernel.CrossSection {
	return section{circle2{radius: radius}}
}

func (Kernel) Rectangle(width, height float64) kernel.CrossSection {
	return section{box2{half: r2.Vec{X: width / 2, Y: height / 2}}}
}

func (Kernel) Polygon(contours [][]kernel.Vec2) kernel.CrossSection {
	converted := make([][]r2.Vec, 0, len(contours))
	for _, contour := range contours {
		pts := make([]r2.Vec, len(contour))
		for i, v := range contour {
			pts[i] = r2.Vec{X: v.X, Y: v.Y}
		}
		converted = append(converted, pts)
	}
	return section{newPoly2(converted)}
}

func (Kernel) Union2(a, b kernel.CrossSection) kernel.CrossSection {
	return section{sdf.Union2D(cs(a), cs(b))}
}

func (Kernel) Difference2(a, b kernel.CrossSection) kernel.CrossSection {
	return section{sdf.Difference2D(cs(a), cs(b))}
}

func (Kernel) Translate2(s kernel.CrossSection, x, y float64) kernel.CrossSection {
	return section{sdf.Transform2D(cs(s), sdf.Translate2D(r2.Vec{X: x, Y: y}))}
}

func (Kernel) Scale2(s kernel.CrossSection, sx, sy float64) kernel.CrossSection {
	return section{sdf.Transform2D(cs(s), sdf.Scale2D(r2.Vec{X: sx, Y: sy}))}
}

func (Kernel) Extrude(s kernel.CrossSection, height float64) kernel.Solid {
	ex := sdf.Extrude3D(cs(s), height)
	// Extrude3D spans z in [-height/2, height/2]; shift to [0, height].
	return solid{sdf.Transform3D(ex, sdf.Translate3D(r3.Vec{Z: height / 2}))}
}

func (Kernel) Revolve(s kernel.CrossSection) kernel.Solid {
	return solid{sdf.Revolve3D(cs(s), 2*math.Pi)}
}

func (Kernel) Union3(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Union3D(sd(a), sd(b))}
}

func (Kernel) Difference3(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Difference3D(sd(a), sd(b))}
}

func (Kernel) Intersect3(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Intersect3D(sd(a), sd(b))}
}

func (Kernel) Translate3(s kernel.Solid, x, y, z float64) kernel.Solid {
	return solid{sdf.Transform3D(sd(s), sdf.Translate3D(r3.Vec{X: x, Y: y, Z: z}))}
}

func (Kernel) MirrorY(s kernel.Solid) kernel.Solid {
	return solid{sdf.Transform3D(sd(s), sdf.Scale3d(r3.Vec{X: 1, Y: -1, Z: 1}))}
}

func (Kernel) Mesh(s kernel.Solid, cells int) (kernel.Mesh, error) {
	if cells < 2 {
		return kernel.Mesh{}, fmt.Errorf("mesh resolution must be at least 2 cells, got %d", cells)
	}

	start := time.Now()
	var renderer render.Renderer = render.NewOctreeRenderer(sd(s), cells)
	buf := make([]r3.Triangle, 4096)
	var raw []r3.Triangle
	for {
		n, err := renderer.ReadTriangles(buf)
		raw = append(raw, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return kernel.Mesh{}, fmt.Errorf("triangulating solid: %w", err)
		}
	}

	mesh := kernel.Mesh{Triangles: make([]kernel.Triangle, 0, len(raw))}
	for _, t := range raw {
		a, b, c := vec3(t[0]), vec3(t[1]), vec3(t[2])
		normal, ok := facetNormal(a, b, c)
		if !ok {
			// Degenerate sliver from the marching cubes pass.
			continue
		}
		mesh.Triangles = append(mesh.Triangles, kernel.Triangle{
			Normal:   normal,
			Vertices: [3]kernel.Vec3{a, b, c},
		})
	}

	log.Debug().
		Int("cells", cells).
		Int("triangles", len(mesh.Triangles)).
		Dur("took", time.Since(start)).
		Msg("meshed solid")

	return mesh, nil
}

// facetNormal computes the unit normal of the triangle abc. The second
// return value is false for zero-area triangles.
func facetNormal(a, b, c kernel.Vec3) (kernel.Vec3, bool) {
	ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length == 0 {
		return kernel.Vec3{}, false
	}
	return kernel.Vec3{X: nx / length, Y: ny / length, Z: nz / length}, true
}
