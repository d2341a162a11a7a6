// Package export turns assembled chip shapes into meshes and writes them to
// disk. The output format is chosen by file extension: .3mf for multi-part
// printer packages, .glb for viewers, .stl for plain mesh consumers.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CADit-app/maker-chips/internal/chip"
	"github.com/CADit-app/maker-chips/internal/kernel"
	"github.com/CADit-app/maker-chips/internal/threemf"
)

var log = zerolog.Nop()

// SetLogger routes export diagnostics (per-part triangle counts, timings) to l.
func SetLogger(l zerolog.Logger) {
	log = l
}

// Supported output file extensions.
const (
	Ext3MF = ".3mf"
	ExtGLB = ".glb"
	ExtSTL = ".stl"
)

// SupportedExtensions returns the output extensions Write understands.
func SupportedExtensions() []string {
	return []string{Ext3MF, ExtGLB, ExtSTL}
}

// IsSupported reports whether path ends in a supported output extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case Ext3MF, ExtGLB, ExtSTL:
		return true
	}
	return false
}

// Options adjusts how files are written.
type Options struct {
	// ASCIISTL writes .stl output in the text format instead of binary.
	ASCIISTL bool
}

// Meshes triangulates every shape in the set, in order. cells controls the
// tessellation resolution along the longest axis of each part.
func Meshes(k kernel.Kernel, shapes chip.ShapeSet, cells int) ([]threemf.Part, error) {
	parts := make([]threemf.Part, 0, len(shapes))
	for _, shape := range shapes {
		start := time.Now()
		mesh, err := k.Mesh(shape.Solid, cells)
		if err != nil {
			return nil, fmt.Errorf("error meshing %s: %w", shape.Label, err)
		}
		if len(mesh.Triangles) == 0 {
			return nil, fmt.Errorf("error meshing %s: no triangles produced", shape.Label)
		}
		log.Debug().
			Str("part", shape.Label).
			Int("triangles", len(mesh.Triangles)).
			Dur("took", time.Since(start)).
			Msg("meshed part")
		parts = append(parts, threemf.Part{Name: shape.Label, Mesh: mesh})
	}
	return parts, nil
}

// Write writes parts to path in the format implied by its extension.
func Write(path string, parts []threemf.Part, opts Options) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case Ext3MF:
		return threemf.WriteFile(path, parts)
	case ExtGLB:
		return writeGLBFile(path, parts)
	case ExtSTL:
		if opts.ASCIISTL {
			return writeASCIISTLFile(path, parts)
		}
		return writeBinarySTLFile(path, parts)
	default:
		return fmt.Errorf("unsupported output format %q (supported: %s)",
			filepath.Ext(path), strings.Join(SupportedExtensions(), ", "))
	}
}
