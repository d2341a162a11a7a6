package threemf

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// squareMesh builds a 2x2 quad at the given center, split into two
// triangles that share an edge.
func squareMesh(cx, cy, z float64) kernel.Mesh {
	a := kernel.Vec3{X: cx - 1, Y: cy - 1, Z: z}
	b := kernel.Vec3{X: cx + 1, Y: cy - 1, Z: z}
	c := kernel.Vec3{X: cx + 1, Y: cy + 1, Z: z}
	d := kernel.Vec3{X: cx - 1, Y: cy + 1, Z: z}
	n := kernel.Vec3{Z: 1}
	return kernel.Mesh{Triangles: []kernel.Triangle{
		{Normal: n, Vertices: [3]kernel.Vec3{a, b, c}},
		{Normal: n, Vertices: [3]kernel.Vec3{a, c, d}},
	}}
}

func fiveParts() []Part {
	names := []string{"Disk", "Center Disk", "Marking", "QR Code", "Image"}
	parts := make([]Part, len(names))
	for i, name := range names {
		parts[i] = Part{Name: name, Mesh: squareMesh(0, 0, float64(i))}
	}
	return parts
}

func TestWritePackageEntries(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, fiveParts()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Reading archive failed: %v", err)
	}

	wantEntries := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"3D/3dmodel.model",
		"Metadata/model_settings.config",
	}
	if len(zr.File) != len(wantEntries) {
		t.Fatalf("Expected %d entries, got %d", len(wantEntries), len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != wantEntries[i] {
			t.Fatalf("Expected entry %d to be %s, got %s", i, wantEntries[i], f.Name)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err == nil {
		t.Fatal("Expected error for empty part list, got nil")
	}
}

func TestWriteModelDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.3mf")
	parts := fiveParts()
	if err := WriteFile(path, parts); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	model, err := ReadModel(path)
	if err != nil {
		t.Fatalf("ReadModel failed: %v", err)
	}

	if model.Unit != "millimeter" {
		t.Fatalf("Expected unit millimeter, got %q", model.Unit)
	}

	metadata := map[string]string{}
	for _, m := range model.Metadata {
		metadata[m.Name] = m.Value
	}
	if metadata["Application"] != "maker-chips" {
		t.Fatalf("Expected Application maker-chips, got %q", metadata["Application"])
	}
	if metadata["Title"] != "Maker Chip" {
		t.Fatalf("Expected Title Maker Chip, got %q", metadata["Title"])
	}

	// Five mesh objects plus the parent component object.
	if len(model.Resources.Objects) != 6 {
		t.Fatalf("Expected 6 objects, got %d", len(model.Resources.Objects))
	}
	for i, part := range parts {
		obj := model.Resources.Objects[i]
		if obj.ID != strconv.Itoa(i+1) {
			t.Fatalf("Expected object %d to have id %d, got %q", i, i+1, obj.ID)
		}
		if obj.Name != part.Name {
			t.Fatalf("Expected object %d to be named %q, got %q", i, part.Name, obj.Name)
		}
		if obj.Mesh == nil {
			t.Fatalf("Expected object %d to carry a mesh", i)
		}
	}

	parent := model.Resources.Objects[5]
	if parent.ID != "6" {
		t.Fatalf("Expected parent object id 6, got %q", parent.ID)
	}
	if parent.Components == nil || len(parent.Components.Component) != 5 {
		t.Fatalf("Expected parent to reference 5 components, got %+v", parent.Components)
	}
	for i, c := range parent.Components.Component {
		wantID := strconv.Itoa(i + 1)
		if c.ObjectID != wantID {
			t.Fatalf("Expected component %d to reference object %s, got %q", i, wantID, c.ObjectID)
		}
	}

	if len(model.Build.Items) != 1 {
		t.Fatalf("Expected one build item, got %d", len(model.Build.Items))
	}
	item := model.Build.Items[0]
	if item.ObjectID != "6" {
		t.Fatalf("Expected build item to reference the parent object, got %q", item.ObjectID)
	}
	// The test meshes are centered on the origin, so the item lands on
	// the plate center.
	if item.Transform != "1 0 0 0 1 0 0 0 1 128.00 128.00 0.00" {
		t.Fatalf("Unexpected build transform %q", item.Transform)
	}
}

func TestWriteProductionUUIDs(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, fiveParts()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("Reading archive failed: %v", err)
	}
	rc, err := zr.File[2].Open()
	if err != nil {
		t.Fatalf("Opening model entry failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Reading model entry failed: %v", err)
	}
	doc := string(data)

	if !strings.Contains(doc, `requiredextensions="p"`) {
		t.Fatal("Expected the production extension to be required")
	}
	if !strings.Contains(doc, `p:UUID="00010000-0000-0000-0000-000000000001"`) {
		t.Fatal("Expected the first object UUID from the fixed sequence")
	}
	if strings.Count(doc, "p:UUID=") != 13 {
		t.Fatalf("Expected 13 UUIDs (6 objects, 5 components, build, item), got %d",
			strings.Count(doc, "p:UUID="))
	}
}

func TestVertexDeduplication(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dedup.3mf")
	part := Part{Name: "Disk", Mesh: squareMesh(0, 0, 0.123456789)}
	if err := WriteFile(path, []Part{part}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	model, err := ReadModel(path)
	if err != nil {
		t.Fatalf("ReadModel failed: %v", err)
	}

	points, indices, err := model.Resources.Objects[0].Mesh.ParseMesh()
	if err != nil {
		t.Fatalf("ParseMesh failed: %v", err)
	}

	// Two triangles share an edge: six references, four unique vertices.
	if len(points) != 4 {
		t.Fatalf("Expected 4 deduplicated vertices, got %d", len(points))
	}
	if len(indices) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(indices))
	}
	for _, tri := range indices {
		for _, v := range tri {
			if v < 0 || v >= len(points) {
				t.Fatalf("Triangle references vertex %d out of %d", v, len(points))
			}
		}
	}

	// Coordinates come back rounded to 7 decimals.
	if points[0].Z != 0.1234568 {
		t.Fatalf("Expected z rounded to 0.1234568, got %v", points[0].Z)
	}
}

func TestExtruderAssignment(t *testing.T) {
	wantByIndex := []int{1, 2, 3, 4, 4, 4}
	for i, want := range wantByIndex {
		if got := ExtruderFor(i); got != want {
			t.Fatalf("Expected extruder %d for part %d, got %d", want, i, got)
		}
	}

	path := filepath.Join(t.TempDir(), "extruders.3mf")
	if err := WriteFile(path, fiveParts()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	settings, err := ReadSettings(path)
	if err != nil {
		t.Fatalf("ReadSettings failed: %v", err)
	}
	if len(settings.Objects) != 1 {
		t.Fatalf("Expected one settings object, got %d", len(settings.Objects))
	}

	object := settings.Objects[0]
	if object.ID != "6" {
		t.Fatalf("Expected settings object id 6, got %q", object.ID)
	}
	if len(object.Parts) != 5 {
		t.Fatalf("Expected 5 settings parts, got %d", len(object.Parts))
	}

	wantNames := []string{"Disk", "Center Disk", "Marking", "QR Code", "Image"}
	for i, part := range object.Parts {
		var name, extruder string
		for _, m := range part.Metadata {
			switch m.Key {
			case "name":
				name = m.Value
			case "extruder":
				extruder = m.Value
			}
		}
		if name != wantNames[i] {
			t.Fatalf("Expected part %d to be named %q, got %q", i, wantNames[i], name)
		}
		if want := strconv.Itoa(wantByIndex[i]); extruder != want {
			t.Fatalf("Expected part %d on extruder %s, got %q", i, want, extruder)
		}
		if part.MeshStat.FaceCount != 2 {
			t.Fatalf("Expected part %d to report 2 faces, got %d", i, part.MeshStat.FaceCount)
		}
	}

	if len(settings.Assemble.Items) != 1 {
		t.Fatalf("Expected one assemble item, got %d", len(settings.Assemble.Items))
	}
	if settings.Assemble.Items[0].ObjectID != "6" {
		t.Fatalf("Expected assemble item for object 6, got %q", settings.Assemble.Items[0].ObjectID)
	}
}

func TestDeterministicOutput(t *testing.T) {
	var first, second bytes.Buffer
	if err := Write(&first, fiveParts()); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := Write(&second, fiveParts()); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("Expected identical bytes for identical parts")
	}
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{1.23456789, "1.2345679"},
		{2.0, "2"},
		{0.30000000000000004, "0.3"},
		{-0.00000001, "0"},
		{-1.5, "-1.5"},
		{128, "128"},
	}

	for _, test := range tests {
		if got := formatCoord(test.value); got != test.want {
			t.Fatalf("Expected formatCoord(%v) = %q, got %q", test.value, test.want, got)
		}
	}
}
