// Package threemf writes maker chip part sets as 3MF packages with
// Bambu Studio multi-extruder metadata, and reads them back for
// inspection.
package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// MimeType is the content type of the whole package.
const MimeType = "model/3mf"

// FileExtension is the canonical file extension.
const FileExtension = ".3mf"

// XML namespaces of the model document.
const (
	xmlnsCore       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	xmlnsProduction = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	xmlnsBambu      = "http://schemas.bambulab.com/package/2021"
)

// Model represents the 3D/3dmodel.model document
type Model struct {
	XMLName            xml.Name   `xml:"model"`
	Xmlns              string     `xml:"xmlns,attr,omitempty"`
	XmlnsP             string     `xml:"xmlns:p,attr,omitempty"`
	XmlnsBambu         string     `xml:"xmlns:BambuStudio,attr,omitempty"`
	RequiredExtensions string     `xml:"requiredextensions,attr,omitempty"`
	Unit               string     `xml:"unit,attr"`
	Lang               string     `xml:"xml:lang,attr,omitempty"`
	Metadata           []Metadata `xml:"metadata"`
	Resources          Resources  `xml:"resources"`
	Build              Build      `xml:"build"`
}

type Metadata struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type Resources struct {
	Objects []Object `xml:"object"`
}

type Object struct {
	ID         string      `xml:"id,attr"`
	UUID       string      `xml:"p:UUID,attr,omitempty"`
	Name       string      `xml:"name,attr,omitempty"`
	Type       string      `xml:"type,attr,omitempty"`
	Mesh       *Mesh       `xml:"mesh"`
	Components *Components `xml:"components"`
}

type Mesh struct {
	Vertices  Vertices  `xml:"vertices"`
	Triangles Triangles `xml:"triangles"`
}

// Vertices and Triangles carry their child elements as raw XML. The writer
// formats the content itself so coordinate precision and vertex
// deduplication stay under its control.
type Vertices struct {
	RawContent string `xml:",innerxml"`
}

type Triangles struct {
	RawContent string `xml:",innerxml"`
}

type Components struct {
	Component []Component `xml:"component"`
}

type Component struct {
	ObjectID  string `xml:"objectid,attr"`
	UUID      string `xml:"p:UUID,attr,omitempty"`
	Transform string `xml:"transform,attr,omitempty"`
}

type Build struct {
	UUID  string `xml:"p:UUID,attr,omitempty"`
	Items []Item `xml:"item"`
}

type Item struct {
	ObjectID  string `xml:"objectid,attr"`
	UUID      string `xml:"p:UUID,attr,omitempty"`
	Transform string `xml:"transform,attr,omitempty"`
	Printable string `xml:"printable,attr,omitempty"`
}

// vertexXML and triangleXML parse the raw mesh content back into values.
type vertexXML struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

type vertexListXML struct {
	Vertex []vertexXML `xml:"vertex"`
}

type triangleXML struct {
	V1 int `xml:"v1,attr"`
	V2 int `xml:"v2,attr"`
	V3 int `xml:"v3,attr"`
}

type triangleListXML struct {
	Triangle []triangleXML `xml:"triangle"`
}

// ParseMesh decodes the raw vertex and triangle content into coordinate and
// index lists.
func (m *Mesh) ParseMesh() ([]kernel.Vec3, [][3]int, error) {
	var vertices vertexListXML
	wrapped := fmt.Sprintf("<vertices>%s</vertices>", m.Vertices.RawContent)
	if err := xml.Unmarshal([]byte(wrapped), &vertices); err != nil {
		return nil, nil, fmt.Errorf("error parsing mesh vertices: %w", err)
	}

	var triangles triangleListXML
	wrapped = fmt.Sprintf("<triangles>%s</triangles>", m.Triangles.RawContent)
	if err := xml.Unmarshal([]byte(wrapped), &triangles); err != nil {
		return nil, nil, fmt.Errorf("error parsing mesh triangles: %w", err)
	}

	points := make([]kernel.Vec3, len(vertices.Vertex))
	for i, v := range vertices.Vertex {
		points[i] = kernel.Vec3{X: v.X, Y: v.Y, Z: v.Z}
	}
	indices := make([][3]int, len(triangles.Triangle))
	for i, t := range triangles.Triangle {
		indices[i] = [3]int{t.V1, t.V2, t.V3}
	}
	return points, indices, nil
}

// ReadModel extracts and parses the model document from a 3MF package.
func ReadModel(filename string) (*Model, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	var modelFile *zip.File
	for _, f := range zr.File {
		if f.Name == "3D/3dmodel.model" {
			modelFile = f
			break
		}
	}
	if modelFile == nil {
		return nil, fmt.Errorf("3D/3dmodel.model not found in archive")
	}

	rc, err := modelFile.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening model file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}

	var model Model
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}
	return &model, nil
}

// ReadSettings extracts and parses Metadata/model_settings.config from a
// 3MF package.
func ReadSettings(filename string) (*ModelSettings, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	var settingsFile *zip.File
	for _, f := range zr.File {
		if f.Name == "Metadata/model_settings.config" {
			settingsFile = f
			break
		}
	}
	if settingsFile == nil {
		return nil, fmt.Errorf("Metadata/model_settings.config not found in archive")
	}

	rc, err := settingsFile.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening settings file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading settings file: %w", err)
	}

	var settings ModelSettings
	if err := xml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("error parsing settings XML: %w", err)
	}
	return &settings, nil
}
