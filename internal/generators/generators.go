// Package generators builds the optional chip sub-shapes. Generators are
// fail-soft by contract: an error from Generate means the part is skipped,
// never that chip assembly aborts.
package generators

import (
	"github.com/CADit-app/maker-chips/internal/kernel"
)

// Generator produces one optional solid for a chip.
type Generator interface {
	// Label names the part in exports and diagnostics.
	Label() string
	// Generate builds the solid. The solid sits centered on the XY origin
	// with z starting at 0.
	Generate(k kernel.Kernel) (kernel.Solid, error)
}

// Defaults for optional part parameters, in millimeters.
const (
	DefaultQRSize      = 18.0
	DefaultImageHeight = 18.0
	DefaultDepth       = 1.2
	DefaultThreshold   = 128
)

// rasterSection converts a pixel grid into a cross-section centered on the
// origin. Row 0 is the top of the image; cell is the pixel size in mm.
// Horizontal runs of set pixels merge into single rectangles. Returns nil
// when no pixel is set.
func rasterSection(k kernel.Kernel, grid [][]bool, cell float64) kernel.CrossSection {
	rows := len(grid)
	if rows == 0 {
		return nil
	}
	cols := 0
	for _, row := range grid {
		if len(row) > cols {
			cols = len(row)
		}
	}

	width := float64(cols) * cell
	height := float64(rows) * cell

	var rects []kernel.CrossSection
	for y := 0; y < rows; y++ {
		row := grid[y]
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			run := x - start

			rect := k.Rectangle(float64(run)*cell, cell)
			cx := (float64(start)+float64(run)/2)*cell - width/2
			cy := height/2 - (float64(y)+0.5)*cell
			rects = append(rects, k.Translate2(rect, cx, cy))
		}
	}

	return unionAll(k, rects)
}

// unionAll folds the sections into a balanced union tree.
func unionAll(k kernel.Kernel, sections []kernel.CrossSection) kernel.CrossSection {
	switch len(sections) {
	case 0:
		return nil
	case 1:
		return sections[0]
	}
	mid := len(sections) / 2
	return k.Union2(unionAll(k, sections[:mid]), unionAll(k, sections[mid:]))
}
