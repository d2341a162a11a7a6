package export

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/CADit-app/maker-chips/internal/threemf"
)

// writeGLBFile writes each part as its own named glTF mesh and node.
// Vertices are not shared between facets so every triangle keeps its flat
// normal; chips are faceted solids, not smooth surfaces.
func writeGLBFile(path string, parts []threemf.Part) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "maker-chips"

	for _, part := range parts {
		n := len(part.Mesh.Triangles)
		positions := make([][3]float32, 0, n*3)
		normals := make([][3]float32, 0, n*3)
		indices := make([]uint32, 0, n*3)

		for _, t := range part.Mesh.Triangles {
			normal := vector32(t.Normal)
			for _, v := range t.Vertices {
				indices = append(indices, uint32(len(positions)))
				positions = append(positions, vector32(v))
				normals = append(normals, normal)
			}
		}

		primitive := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       part.Name,
			Primitives: []*gltf.Primitive{primitive},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: part.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("error writing GLB: %w", err)
	}
	return nil
}
