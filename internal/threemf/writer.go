package threemf

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/CADit-app/maker-chips/internal/geometry"
	"github.com/CADit-app/maker-chips/internal/kernel"
)

// Part is one meshed shape to embed in the package, in part order.
type Part struct {
	Name string
	Mesh kernel.Mesh
}

// plateCenter is where slicers expect the model on the build plate, in mm.
const plateCenter = 128.0

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
	<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
	<Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>
`

const relationshipsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
	<Relationship Target="/3D/3dmodel.model" Id="rel0" Type="http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"/>
</Relationships>
`

// Write serializes the parts as a 3MF package. The output depends only on
// the input meshes: metadata carries no timestamps and UUIDs are assigned
// from a fixed sequence, so the same parts always produce the same bytes.
func Write(w io.Writer, parts []Part) error {
	if len(parts) == 0 {
		return errors.New("no parts to write")
	}

	zw := zip.NewWriter(w)

	if err := writeZipEntry(zw, "[Content_Types].xml", []byte(contentTypesXML)); err != nil {
		return err
	}
	if err := writeZipEntry(zw, "_rels/.rels", []byte(relationshipsXML)); err != nil {
		return err
	}

	model, buildTransform := buildModel(parts)
	modelXML, err := xml.MarshalIndent(model, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling XML: %w", err)
	}

	mw, err := zw.Create("3D/3dmodel.model")
	if err != nil {
		return fmt.Errorf("error creating model entry: %w", err)
	}
	if _, err := mw.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("error writing XML header: %w", err)
	}
	if _, err := mw.Write(modelXML); err != nil {
		return fmt.Errorf("error writing model XML: %w", err)
	}

	parentID := strconv.Itoa(len(parts) + 1)
	if err := writeModelSettings(zw, parts, parentID, buildTransform); err != nil {
		return err
	}

	return zw.Close()
}

// WriteFile writes the parts as a 3MF package at the given path.
func WriteFile(path string, parts []Part) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := Write(f, parts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("error creating ZIP entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing ZIP entry %s: %w", name, err)
	}
	return nil
}

// buildModel assembles the model document: one mesh object per part, a
// parent component object referencing them all, and a single build item
// placing the parent at the plate center.
func buildModel(parts []Part) (*Model, string) {
	n := len(parts)
	objects := make([]Object, 0, n+1)
	components := make([]Component, 0, n)

	for i, part := range parts {
		id := strconv.Itoa(i + 1)
		objects = append(objects, Object{
			ID:   id,
			UUID: uuidFor(i + 1),
			Name: part.Name,
			Type: "model",
			Mesh: encodeMesh(part.Mesh),
		})
		components = append(components, Component{
			ObjectID: id,
			UUID:     uuidFor(n + 1 + i + 1),
		})
	}

	parentID := strconv.Itoa(n + 1)
	objects = append(objects, Object{
		ID:         parentID,
		UUID:       uuidFor(n + 1),
		Type:       "model",
		Components: &Components{Component: components},
	})

	buildTransform := buildItemTransform(parts)
	model := &Model{
		Xmlns:              xmlnsCore,
		XmlnsP:             xmlnsProduction,
		XmlnsBambu:         xmlnsBambu,
		RequiredExtensions: "p",
		Unit:               "millimeter",
		Lang:               "en-US",
		Metadata: []Metadata{
			{Name: "Application", Value: "maker-chips"},
			{Name: "BambuStudio:3mfVersion", Value: "1"},
			{Name: "Title", Value: "Maker Chip"},
		},
		Resources: Resources{Objects: objects},
		Build: Build{
			UUID: uuidFor(2*n + 2),
			Items: []Item{{
				ObjectID:  parentID,
				UUID:      uuidFor(2*n + 3),
				Transform: buildTransform,
				Printable: "1",
			}},
		},
	}
	return model, buildTransform
}

// buildItemTransform translates the merged part bounds onto the plate
// center. Parts without triangles are ignored.
func buildItemTransform(parts []Part) string {
	var merged geometry.Box
	found := false
	for _, part := range parts {
		box, err := geometry.FromMesh(part.Mesh)
		if err != nil {
			continue
		}
		if !found {
			merged = box
			found = true
			continue
		}
		merged = geometry.Merge(merged, box)
	}
	if !found {
		return geometry.BuildTranslationTransform(plateCenter, plateCenter, 0)
	}

	center := merged.Center()
	return geometry.BuildTranslationTransform(plateCenter-center.X, plateCenter-center.Y, 0)
}

// uuidFor returns the nth UUID of the fixed document sequence. Slicers
// require the production-extension UUIDs to be present, not to be random.
func uuidFor(n int) string {
	return fmt.Sprintf("00010000-0000-0000-0000-%012d", n)
}

// encodeMesh formats the triangle mesh as vertex and triangle elements.
// Vertices are deduplicated after coordinate rounding, so triangles sharing
// a corner reference one vertex entry.
func encodeMesh(m kernel.Mesh) *Mesh {
	var vertices strings.Builder
	var triangles strings.Builder
	index := make(map[string]int)

	indexOf := func(v kernel.Vec3) int {
		x, y, z := formatCoord(v.X), formatCoord(v.Y), formatCoord(v.Z)
		key := x + " " + y + " " + z
		if i, ok := index[key]; ok {
			return i
		}
		i := len(index)
		index[key] = i
		vertices.WriteString("\n\t\t\t\t\t<vertex x=\"" + x + "\" y=\"" + y + "\" z=\"" + z + "\"/>")
		return i
	}

	for _, t := range m.Triangles {
		v1 := indexOf(t.Vertices[0])
		v2 := indexOf(t.Vertices[1])
		v3 := indexOf(t.Vertices[2])
		triangles.WriteString("\n\t\t\t\t\t<triangle v1=\"" + strconv.Itoa(v1) +
			"\" v2=\"" + strconv.Itoa(v2) + "\" v3=\"" + strconv.Itoa(v3) + "\"/>")
	}

	mesh := &Mesh{}
	if vertices.Len() > 0 {
		mesh.Vertices.RawContent = vertices.String() + "\n\t\t\t\t"
		mesh.Triangles.RawContent = triangles.String() + "\n\t\t\t\t"
	}
	return mesh
}

// formatCoord renders a coordinate at 7-decimal precision with trailing
// zeros trimmed. Negative zero collapses to "0".
func formatCoord(v float64) string {
	r := math.Round(v*1e7) / 1e7
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
