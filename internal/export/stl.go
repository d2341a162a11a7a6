package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/CADit-app/maker-chips/internal/kernel"
	"github.com/CADit-app/maker-chips/internal/threemf"
)

// stlSolidName names the single body both STL variants produce. STL has no
// notion of separate parts, so all meshes are concatenated.
const stlSolidName = "maker-chip"

// stlTriangle is one 50-byte record of a binary STL file: facet normal,
// three vertices and the unused attribute byte count, all little-endian.
type stlTriangle struct {
	Normal     [3]float32
	V1, V2, V3 [3]float32
	Attributes uint16
}

func writeBinarySTLFile(path string, parts []threemf.Part) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := WriteBinarySTL(f, parts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteBinarySTL writes all parts as one binary STL body: an 80-byte header,
// a uint32 triangle count, then one 50-byte record per triangle.
func WriteBinarySTL(w io.Writer, parts []threemf.Part) error {
	var header [80]byte
	copy(header[:], stlSolidName)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	total := 0
	for _, part := range parts {
		total += len(part.Mesh.Triangles)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(total)); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}

	bw := bufio.NewWriter(w)
	for _, part := range parts {
		for _, t := range part.Mesh.Triangles {
			record := stlTriangle{
				Normal: vector32(t.Normal),
				V1:     vector32(t.Vertices[0]),
				V2:     vector32(t.Vertices[1]),
				V3:     vector32(t.Vertices[2]),
			}
			if err := binary.Write(bw, binary.LittleEndian, record); err != nil {
				return fmt.Errorf("error writing triangle: %w", err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error writing triangles: %w", err)
	}
	return nil
}

func writeASCIISTLFile(path string, parts []threemf.Part) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := WriteASCIISTL(f, parts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteASCIISTL writes all parts as one text STL body.
func WriteASCIISTL(w io.Writer, parts []threemf.Part) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", stlSolidName)
	for _, part := range parts {
		for _, t := range part.Mesh.Triangles {
			fmt.Fprintf(bw, "  facet normal %g %g %g\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
			fmt.Fprintf(bw, "    outer loop\n")
			for _, v := range t.Vertices {
				fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
			}
			fmt.Fprintf(bw, "    endloop\n")
			fmt.Fprintf(bw, "  endfacet\n")
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", stlSolidName)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error writing facets: %w", err)
	}
	return nil
}

func vector32(v kernel.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
