package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strconv"
)

// identityMatrix is the 4x4 part matrix Bambu Studio expects when a part
// is not repositioned inside its object.
const identityMatrix = "1 0 0 0 0 1 0 0 0 0 1 0 0 0 0 1"

// ModelSettings represents the Metadata/model_settings.config document
type ModelSettings struct {
	XMLName  xml.Name         `xml:"config"`
	Objects  []SettingsObject `xml:"object"`
	Plate    Plate            `xml:"plate"`
	Assemble Assemble         `xml:"assemble"`
}

type SettingsObject struct {
	ID       string             `xml:"id,attr"`
	Metadata []SettingsMetadata `xml:"metadata"`
	Parts    []SettingsPart     `xml:"part"`
}

type SettingsMetadata struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type SettingsPart struct {
	ID       string             `xml:"id,attr"`
	Subtype  string             `xml:"subtype,attr"`
	Metadata []SettingsMetadata `xml:"metadata"`
	MeshStat MeshStat           `xml:"mesh_stat"`
}

type MeshStat struct {
	FaceCount int `xml:"face_count,attr"`
}

type Plate struct {
	Metadata       []SettingsMetadata `xml:"metadata"`
	ModelInstances []ModelInstance    `xml:"model_instance"`
}

type ModelInstance struct {
	Metadata []SettingsMetadata `xml:"metadata"`
}

type Assemble struct {
	Items []AssembleItem `xml:"assemble_item"`
}

type AssembleItem struct {
	ObjectID   string `xml:"object_id,attr"`
	InstanceID string `xml:"instance_id,attr"`
	Transform  string `xml:"transform,attr"`
	Offset     string `xml:"offset,attr"`
}

// ExtruderFor returns the extruder for a 0-based part index. The first
// four parts get their own extruder, every further part shares the fourth.
func ExtruderFor(index int) int {
	if index < 4 {
		return index + 1
	}
	return 4
}

// writeModelSettings writes the Bambu Studio model_settings.config entry,
// assigning each part a name and an extruder.
func writeModelSettings(zw *zip.Writer, parts []Part, parentID, buildTransform string) error {
	settingsParts := make([]SettingsPart, 0, len(parts))
	for i, part := range parts {
		settingsParts = append(settingsParts, SettingsPart{
			ID:      strconv.Itoa(i + 1),
			Subtype: "normal_part",
			Metadata: []SettingsMetadata{
				{Key: "name", Value: part.Name},
				{Key: "matrix", Value: identityMatrix},
				{Key: "extruder", Value: strconv.Itoa(ExtruderFor(i))},
			},
			MeshStat: MeshStat{FaceCount: len(part.Mesh.Triangles)},
		})
	}

	settings := ModelSettings{
		Objects: []SettingsObject{{
			ID: parentID,
			Metadata: []SettingsMetadata{
				{Key: "name", Value: "Maker Chip"},
				{Key: "extruder", Value: "1"},
			},
			Parts: settingsParts,
		}},
		Plate: Plate{
			Metadata: []SettingsMetadata{
				{Key: "plater_id", Value: "1"},
				{Key: "plater_name", Value: ""},
				{Key: "locked", Value: "false"},
				{Key: "filament_map_mode", Value: "Auto For Flush"},
			},
			ModelInstances: []ModelInstance{{
				Metadata: []SettingsMetadata{
					{Key: "object_id", Value: parentID},
					{Key: "instance_id", Value: "0"},
					{Key: "identify_id", Value: parentID},
				},
			}},
		},
		Assemble: Assemble{
			Items: []AssembleItem{{
				ObjectID:   parentID,
				InstanceID: "0",
				Transform:  buildTransform,
				Offset:     "0 0 0",
			}},
		},
	}

	settingsXML, err := xml.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling settings XML: %w", err)
	}

	writer, err := zw.Create("Metadata/model_settings.config")
	if err != nil {
		return fmt.Errorf("error creating settings entry: %w", err)
	}
	if _, err := writer.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("error writing XML header: %w", err)
	}
	if _, err := writer.Write(settingsXML); err != nil {
		return fmt.Errorf("error writing settings XML: %w", err)
	}
	return nil
}
