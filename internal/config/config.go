// Package config loads chip parameters from YAML documents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/generators"
)

// Document is the on-disk YAML schema for chip parameters. Fields the
// document does not set keep their defaults, so the dimension fields are
// pointers to tell "not set" apart from an explicit zero.
type Document struct {
	Radius             *float64       `yaml:"radius"`
	Height             *float64       `yaml:"height"`
	RoundingRadius     *float64       `yaml:"rounding_radius"`
	CenterCircleRadius *float64       `yaml:"center_circle_radius"`
	Pattern            string         `yaml:"pattern"`
	Assembly           string         `yaml:"assembly"`
	QR                 *QRDocument    `yaml:"qr"`
	Image              *ImageDocument `yaml:"image"`
}

// QRDocument enables the QR code part. Size and depth fall back to the
// generator defaults when zero.
type QRDocument struct {
	Content string  `yaml:"content"`
	Size    float64 `yaml:"size"`
	Depth   float64 `yaml:"depth"`
}

// ImageDocument enables the image part. A relative path is resolved
// against the directory of the config file.
type ImageDocument struct {
	Path      string  `yaml:"path"`
	Height    float64 `yaml:"height"`
	Depth     float64 `yaml:"depth"`
	Threshold uint8   `yaml:"threshold"`
	Invert    bool    `yaml:"invert"`
}

// Loader handles loading and validating YAML parameter files.
type Loader struct{}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a YAML parameter file and returns the chip parameters it
// describes.
func (l *Loader) Load(configPath string) (chip.Params, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return chip.Params{}, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := parse(data)
	if err != nil {
		return chip.Params{}, err
	}

	params := doc.Params()
	if err := params.Validate(); err != nil {
		return chip.Params{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// Resolve the image path relative to the config file so configs work
	// regardless of the working directory.
	if params.Image != nil && !filepath.IsAbs(params.Image.Path) {
		absDir, err := filepath.Abs(filepath.Dir(configPath))
		if err != nil {
			return chip.Params{}, fmt.Errorf("failed to get absolute path of config directory: %w", err)
		}
		params.Image.Path = filepath.Join(absDir, params.Image.Path)
	}

	return params, nil
}

// parse decodes a YAML document. Unknown keys are rejected so typos fail
// loudly instead of silently keeping a default.
func parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.QR != nil && strings.TrimSpace(d.QR.Content) == "" {
		return fmt.Errorf("qr: content is required")
	}
	if d.Image != nil && d.Image.Path == "" {
		return fmt.Errorf("image: path is required")
	}
	return nil
}

// Params converts the document into chip parameters, filling defaults for
// absent fields.
func (d *Document) Params() chip.Params {
	params := chip.DefaultParams()
	if d.Radius != nil {
		params.Radius = *d.Radius
	}
	if d.Height != nil {
		params.Height = *d.Height
	}
	if d.RoundingRadius != nil {
		params.RoundingRadius = *d.RoundingRadius
	}
	if d.CenterCircleRadius != nil {
		params.CenterCircleRadius = *d.CenterCircleRadius
	}
	if d.Pattern != "" {
		params.Pattern = d.Pattern
	}
	if d.Assembly != "" {
		params.Assembly = chip.Assembly(d.Assembly)
	}
	if d.QR != nil {
		params.QR = &generators.QRParams{
			Content: d.QR.Content,
			Size:    d.QR.Size,
			Depth:   d.QR.Depth,
		}
	}
	if d.Image != nil {
		params.Image = &generators.ImageParams{
			Path:      d.Image.Path,
			Height:    d.Image.Height,
			Depth:     d.Image.Depth,
			Threshold: d.Image.Threshold,
			Invert:    d.Image.Invert,
		}
	}
	return params
}
