// Package patterns holds the built-in marking patterns. Each pattern is an
// SVG asset compiled into the binary; resolving one yields flattened closed
// contours ready for even-odd polygon filling.
package patterns

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/rustyoz/svg"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

//go:embed assets/*.svg
var assetFS embed.FS

// Curve flattening and simplification tolerance, in millimeters.
const tolerance = 0.01

// registry maps pattern ids to their embedded assets. The set is fixed;
// user-supplied SVG input is deliberately unsupported.
var registry = map[string]string{
	"makerChipV1": "assets/makerChipV1.svg",
	"makerChipV2": "assets/makerChipV2.svg",
	"bolts":       "assets/bolts.svg",
	"checker":     "assets/checker.svg",
	"circuit":     "assets/circuit.svg",
	"crosshatch":  "assets/crosshatch.svg",
	"diamonds":    "assets/diamonds.svg",
	"gear":        "assets/gear.svg",
	"grid":        "assets/grid.svg",
	"honeycomb":   "assets/honeycomb.svg",
	"orbit":       "assets/orbit.svg",
	"petals":      "assets/petals.svg",
	"rings":       "assets/rings.svg",
	"spiral":      "assets/spiral.svg",
	"spokes":      "assets/spokes.svg",
	"starburst":   "assets/starburst.svg",
	"sunrays":     "assets/sunrays.svg",
	"target":      "assets/target.svg",
	"triangles":   "assets/triangles.svg",
	"waves":       "assets/waves.svg",
}

// Pattern is a resolved marking pattern. Contours are closed implicitly
// (last point connects back to the first) and use a y-up coordinate system.
type Pattern struct {
	Name     string
	Contours [][]kernel.Vec2
}

// UnknownPatternError reports a pattern id that is not in the registry.
type UnknownPatternError struct {
	Name  string
	Known []string
}

func (e *UnknownPatternError) Error() string {
	return fmt.Sprintf("unknown marking pattern %q, valid patterns are: %s",
		e.Name, strings.Join(e.Known, ", "))
}

// Names returns the sorted pattern ids.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve parses and flattens the named pattern. Unknown names return an
// *UnknownPatternError listing every valid id.
func Resolve(name string) (*Pattern, error) {
	asset, ok := registry[name]
	if !ok {
		return nil, &UnknownPatternError{Name: name, Known: Names()}
	}

	data, err := assetFS.ReadFile(asset)
	if err != nil {
		return nil, fmt.Errorf("reading pattern %q: %w", name, err)
	}

	doc, err := svg.ParseSvgFromReader(bytes.NewReader(data), name, 1.0)
	if err != nil {
		return nil, fmt.Errorf("parsing pattern %q: %w", name, err)
	}

	contours, err := flattenDocument(doc, tolerance)
	if err != nil {
		return nil, fmt.Errorf("flattening pattern %q: %w", name, err)
	}
	if len(contours) == 0 {
		return nil, fmt.Errorf("pattern %q contains no closed contours", name)
	}

	// SVG is y-down, model space is y-up.
	for _, contour := range contours {
		for i := range contour {
			contour[i].Y = -contour[i].Y
		}
	}

	return &Pattern{Name: name, Contours: contours}, nil
}
