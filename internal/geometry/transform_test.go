package geometry

import (
	"testing"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

func TestBuildTranslationTransform(t *testing.T) {
	result := BuildTranslationTransform(10.5, 20.75, 5.25)
	expected := "1 0 0 0 1 0 0 0 1 10.50 20.75 5.25"

	if result != expected {
		t.Errorf("BuildTranslationTransform() = %v, want %v", result, expected)
	}
}

func TestParseTranslation(t *testing.T) {
	dx, dy, dz := ParseTranslation("1 0 0 0 1 0 0 0 1 128.00 128.00 0.00")
	if dx != 128 || dy != 128 || dz != 0 {
		t.Errorf("ParseTranslation() = (%v, %v, %v), want (128, 128, 0)", dx, dy, dz)
	}

	dx, dy, dz = ParseTranslation("not a transform")
	if dx != 0 || dy != 0 || dz != 0 {
		t.Errorf("ParseTranslation() on invalid input = (%v, %v, %v), want zeros", dx, dy, dz)
	}
}

func TestFromMesh(t *testing.T) {
	mesh := kernel.Mesh{Triangles: []kernel.Triangle{
		{Vertices: [3]kernel.Vec3{{X: -1, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}, {X: 0, Y: 5, Z: 3}}},
		{Vertices: [3]kernel.Vec3{{X: 0, Y: -2, Z: 1}, {X: 1, Y: 0, Z: 4}, {X: 0, Y: 0, Z: 0}}},
	}}

	box, err := FromMesh(mesh)
	if err != nil {
		t.Fatalf("FromMesh() returned error: %v", err)
	}

	want := Box{Min: kernel.Vec3{X: -1, Y: -2, Z: 0}, Max: kernel.Vec3{X: 2, Y: 5, Z: 4}}
	if box != want {
		t.Errorf("FromMesh() = %+v, want %+v", box, want)
	}
}

func TestFromMeshEmpty(t *testing.T) {
	if _, err := FromMesh(kernel.Mesh{}); err == nil {
		t.Error("FromMesh() on empty mesh should return an error")
	}
}

func TestFromPoints(t *testing.T) {
	points := []kernel.Vec3{
		{X: -1, Y: 0, Z: 0},
		{X: 2, Y: 1, Z: 0},
		{X: 0, Y: -2, Z: 4},
	}

	box, err := FromPoints(points)
	if err != nil {
		t.Fatalf("FromPoints() returned error: %v", err)
	}

	want := Box{Min: kernel.Vec3{X: -1, Y: -2, Z: 0}, Max: kernel.Vec3{X: 2, Y: 1, Z: 4}}
	if box != want {
		t.Errorf("FromPoints() = %+v, want %+v", box, want)
	}

	if _, err := FromPoints(nil); err == nil {
		t.Error("FromPoints() on no points should return an error")
	}
}

func TestMerge(t *testing.T) {
	a := Box{Min: kernel.Vec3{X: -1, Y: -1, Z: 0}, Max: kernel.Vec3{X: 1, Y: 1, Z: 3}}
	b := Box{Min: kernel.Vec3{X: 0, Y: -4, Z: 1}, Max: kernel.Vec3{X: 5, Y: 0, Z: 2}}

	got := Merge(a, b)
	want := Box{Min: kernel.Vec3{X: -1, Y: -4, Z: 0}, Max: kernel.Vec3{X: 5, Y: 1, Z: 3}}
	if got != want {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestBoxSizeAndCenter(t *testing.T) {
	box := Box{Min: kernel.Vec3{X: -20, Y: -20, Z: 0}, Max: kernel.Vec3{X: 20, Y: 20, Z: 3}}

	size := box.Size()
	if size.X != 40 || size.Y != 40 || size.Z != 3 {
		t.Errorf("Size() = %+v, want (40, 40, 3)", size)
	}

	center := box.Center()
	if center.X != 0 || center.Y != 0 || center.Z != 1.5 {
		t.Errorf("Center() = %+v, want (0, 0, 1.5)", center)
	}
}
