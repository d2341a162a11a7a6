// Package inspect reads generated 3MF packages back and reports what a
// slicer would see: metadata, build plate placement, and the part
// hierarchy with extruder assignments.
package inspect

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"

	"github.com/CADit-app/maker-chips/internal/geometry"
	"github.com/CADit-app/maker-chips/internal/threemf"
	"github.com/CADit-app/maker-chips/internal/ui"
)

// Inspector provides functionality to inspect 3MF files
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect reads and displays the contents of a 3MF file. With showXML the
// raw model document is printed with syntax highlighting after the summary.
func (i *Inspector) Inspect(filename string, showXML bool) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	model, err := threemf.ReadModel(filename)
	if err != nil {
		return fmt.Errorf("error reading 3MF file: %w", err)
	}

	// Settings are Bambu Studio specific; a package without them is
	// still inspectable.
	settings, err := threemf.ReadSettings(filename)
	if err != nil {
		settings = nil
	}

	ui.PrintStep(fmt.Sprintf("Unit: %s", model.Unit))
	if model.Lang != "" {
		ui.PrintStep(fmt.Sprintf("Language: %s", model.Lang))
	}

	if len(model.Metadata) > 0 {
		ui.PrintStep("Metadata:")
		for _, meta := range model.Metadata {
			ui.PrintStep(fmt.Sprintf("  - %s: %s", meta.Name, meta.Value))
		}
	}

	ui.PrintHeader("Build Plate Items:")
	if len(model.Build.Items) == 0 {
		ui.PrintStep("No items on build plate")
	} else {
		for idx, item := range model.Build.Items {
			objectName := i.getObjectName(model, settings, item.ObjectID)
			printable := "yes"
			if item.Printable == "0" {
				printable = "no"
			}
			position := ""
			if item.Transform != "" {
				dx, dy, dz := geometry.ParseTranslation(item.Transform)
				position = fmt.Sprintf(" at (%.1f, %.1f, %.1f)", dx, dy, dz)
			}
			ui.PrintStep(fmt.Sprintf("%d. Object ID %s: %s (printable: %s)%s",
				idx+1, item.ObjectID, objectName, printable, position))
		}
	}

	ui.PrintHeader("Objects in Model:")
	i.printObjectHierarchy(model, settings)

	if showXML {
		ui.PrintHeader("Model XML:")
		if err := i.printModelXML(filename); err != nil {
			return err
		}
	}

	return nil
}

// getObjectName returns the display name of an object by ID. Objects that
// carry no name of their own may still be named in the settings document.
func (i *Inspector) getObjectName(model *threemf.Model, settings *threemf.ModelSettings, objectID string) string {
	for _, obj := range model.Resources.Objects {
		if obj.ID != objectID {
			continue
		}
		if obj.Name != "" {
			return obj.Name
		}
		if settings != nil {
			for _, sobj := range settings.Objects {
				if sobj.ID == objectID {
					if name := metadataValue(sobj.Metadata, "name"); name != "" {
						return name
					}
				}
			}
		}
		return "(unnamed)"
	}
	return "(not found)"
}

// printObjectHierarchy prints the top-level objects with their components,
// extruder assignments and mesh dimensions.
func (i *Inspector) printObjectHierarchy(model *threemf.Model, settings *threemf.ModelSettings) {
	settingsMap := make(map[string]*threemf.SettingsObject)
	partsMap := make(map[string]*threemf.SettingsPart)
	if settings != nil {
		for idx := range settings.Objects {
			obj := &settings.Objects[idx]
			settingsMap[obj.ID] = obj
			for pidx := range obj.Parts {
				part := &obj.Parts[pidx]
				partsMap[part.ID] = part
			}
		}
	}

	// Objects referenced as components are printed under their parent,
	// not as top-level entries.
	componentIDs := make(map[string]bool)
	for _, obj := range model.Resources.Objects {
		if obj.Components == nil {
			continue
		}
		for _, comp := range obj.Components.Component {
			componentIDs[comp.ObjectID] = true
		}
	}

	objectCount := 0
	for idx := range model.Resources.Objects {
		obj := &model.Resources.Objects[idx]
		if obj.Components == nil && componentIDs[obj.ID] {
			continue
		}
		objectCount++
		i.printObject(model, obj, settingsMap, partsMap, 0)
	}

	if objectCount == 0 {
		ui.PrintStep("No objects found")
	}
}

// printObject prints an object and, for component objects, each component
// beneath it.
func (i *Inspector) printObject(model *threemf.Model, obj *threemf.Object, settingsMap map[string]*threemf.SettingsObject, partsMap map[string]*threemf.SettingsPart, depth int) {
	indent := strings.Repeat("  ", depth)

	name := obj.Name
	extruderInfo := ""
	if sobj, ok := settingsMap[obj.ID]; ok {
		if name == "" {
			name = metadataValue(sobj.Metadata, "name")
		}
		if v := metadataValue(sobj.Metadata, "extruder"); v != "" {
			extruderInfo = fmt.Sprintf(" (extruder: %s)", v)
		}
	}
	if name == "" {
		name = "(unnamed)"
	}

	if obj.Components != nil && len(obj.Components.Component) > 0 {
		ui.PrintStep(fmt.Sprintf("%s• %s (ID: %s) - %d part(s)%s%s",
			indent, name, obj.ID, len(obj.Components.Component), extruderInfo, meshDescription(obj)))

		for _, comp := range obj.Components.Component {
			for cidx := range model.Resources.Objects {
				compObj := &model.Resources.Objects[cidx]
				if compObj.ID == comp.ObjectID {
					i.printComponent(compObj, partsMap, depth+1)
					break
				}
			}
		}
	} else {
		ui.PrintStep(fmt.Sprintf("%s• %s (ID: %s)%s%s",
			indent, name, obj.ID, extruderInfo, meshDescription(obj)))
	}
}

// printComponent prints one component with its extruder and dimensions.
// The settings document may override the component's display name.
func (i *Inspector) printComponent(obj *threemf.Object, partsMap map[string]*threemf.SettingsPart, depth int) {
	indent := strings.Repeat("  ", depth)

	name := obj.Name
	extruderInfo := ""
	if part, ok := partsMap[obj.ID]; ok {
		if v := metadataValue(part.Metadata, "name"); v != "" {
			name = v
		}
		if v := metadataValue(part.Metadata, "extruder"); v != "" {
			extruderInfo = fmt.Sprintf(" (extruder: %s)", v)
		}
	}
	if name == "" {
		name = "(unnamed)"
	}

	ui.PrintStep(fmt.Sprintf("%s- %s (ID: %s)%s%s",
		indent, name, obj.ID, extruderInfo, meshDescription(obj)))
}

// metadataValue returns the value of the first metadata entry with the
// given key, or "".
func metadataValue(metadata []threemf.SettingsMetadata, key string) string {
	for _, meta := range metadata {
		if meta.Key == key {
			return meta.Value
		}
	}
	return ""
}

// meshDescription summarizes an object's own geometry as triangle count
// and bounding box size. Objects without a mesh yield "".
func meshDescription(obj *threemf.Object) string {
	if obj.Mesh == nil {
		return ""
	}
	points, triangles, err := obj.Mesh.ParseMesh()
	if err != nil || len(points) == 0 {
		return " [has mesh]"
	}
	box, err := geometry.FromPoints(points)
	if err != nil {
		return " [has mesh]"
	}
	size := box.Size()
	return fmt.Sprintf(" [%d triangles, %.1f × %.1f × %.1f mm]", len(triangles), size.X, size.Y, size.Z)
}

// printModelXML extracts the raw model document from the package and
// prints it with terminal highlighting.
func (i *Inspector) printModelXML(filename string) error {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "3D/3dmodel.model" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("error opening model file: %w", err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("error reading model file: %w", err)
		}
		if err := quick.Highlight(os.Stdout, string(data), "xml", "terminal256", "monokai"); err != nil {
			// Plain output when no terminal formatter is available.
			fmt.Println(string(data))
		}
		return nil
	}
	return fmt.Errorf("3D/3dmodel.model not found in archive")
}
