package patterns

import (
	"math"

	"github.com/rustyoz/svg"

	"github.com/CADit-app/maker-chips/internal/kernel"
)

// flattenDocument walks the drawing instructions of a parsed SVG and turns
// every subpath into a flat contour. Both instruction channels are drained
// so the parser goroutine never blocks.
func flattenDocument(doc *svg.Svg, tol float64) ([][]kernel.Vec2, error) {
	instructions, errs := doc.ParseDrawingInstructions()

	var (
		contours [][]kernel.Vec2
		current  []kernel.Vec2
		pen      kernel.Vec2
		start    kernel.Vec2
	)

	flush := func() {
		if c := simplify(current, tol); len(c) >= 3 {
			contours = append(contours, c)
		}
		current = nil
	}

	for instructions != nil || errs != nil {
		select {
		case ins, ok := <-instructions:
			if !ok {
				instructions = nil
				continue
			}
			switch ins.Kind {
			case svg.MoveInstruction:
				flush()
				pen = kernel.Vec2{X: ins.M[0], Y: ins.M[1]}
				start = pen
				current = append(current, pen)
			case svg.LineInstruction:
				pen = kernel.Vec2{X: ins.M[0], Y: ins.M[1]}
				current = append(current, pen)
			case svg.CurveInstruction:
				cp := ins.CurvePoints
				c1 := kernel.Vec2{X: cp.C1[0], Y: cp.C1[1]}
				c2 := kernel.Vec2{X: cp.C2[0], Y: cp.C2[1]}
				end := kernel.Vec2{X: cp.T[0], Y: cp.T[1]}
				current = flattenCubic(current, pen, c1, c2, end, tol, 0)
				pen = end
			case svg.CloseInstruction:
				flush()
				pen = start
			case svg.PaintInstruction:
				// End of a path element.
				flush()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return nil, err
			}
		}
	}
	flush()

	return contours, nil
}

// maxSplitDepth bounds the recursive subdivision; 2^18 segments per curve is
// far beyond any tolerance we use.
const maxSplitDepth = 18

// flattenCubic appends points approximating the cubic Bezier (p0,c1,c2,p3)
// to out, excluding p0 and including p3. Subdivision stops once the control
// points are within tol of the chord.
func flattenCubic(out []kernel.Vec2, p0, c1, c2, p3 kernel.Vec2, tol float64, depth int) []kernel.Vec2 {
	if depth >= maxSplitDepth || cubicFlat(p0, c1, c2, p3, tol) {
		return append(out, p3)
	}

	// de Casteljau split at t = 1/2.
	ab := mid(p0, c1)
	bc := mid(c1, c2)
	cd := mid(c2, p3)
	abc := mid(ab, bc)
	bcd := mid(bc, cd)
	m := mid(abc, bcd)

	out = flattenCubic(out, p0, ab, abc, m, tol, depth+1)
	return flattenCubic(out, m, bcd, cd, p3, tol, depth+1)
}

// cubicFlat reports whether both control points lie within tol of the
// chord p0-p3.
func cubicFlat(p0, c1, c2, p3 kernel.Vec2, tol float64) bool {
	return pointSegmentDistance(c1, p0, p3) <= tol &&
		pointSegmentDistance(c2, p0, p3) <= tol
}

func mid(a, b kernel.Vec2) kernel.Vec2 {
	return kernel.Vec2{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func pointSegmentDistance(p, a, b kernel.Vec2) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	denom := abx*abx + aby*aby
	if denom == 0 {
		return math.Hypot(apx, apy)
	}
	t := (apx*abx + apy*aby) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(apx-t*abx, apy-t*aby)
}

// simplify removes consecutive near-duplicate points and collinear points
// within tol. The contour is treated as closed.
func simplify(contour []kernel.Vec2, tol float64) []kernel.Vec2 {
	if len(contour) < 3 {
		return contour
	}

	// Drop near-duplicates, including a duplicated closing point.
	dedup := contour[:0:0]
	for _, p := range contour {
		if len(dedup) == 0 || distance(dedup[len(dedup)-1], p) > tol {
			dedup = append(dedup, p)
		}
	}
	for len(dedup) >= 2 && distance(dedup[0], dedup[len(dedup)-1]) <= tol {
		dedup = dedup[:len(dedup)-1]
	}
	if len(dedup) < 3 {
		return dedup
	}

	// Drop points that sit on the segment between their neighbors.
	simplified := make([]kernel.Vec2, 0, len(dedup))
	n := len(dedup)
	for i := 0; i < n; i++ {
		prev := dedup[(i+n-1)%n]
		next := dedup[(i+1)%n]
		if pointSegmentDistance(dedup[i], prev, next) > tol {
			simplified = append(simplified, dedup[i])
		}
	}
	if len(simplified) < 3 {
		return dedup
	}
	return simplified
}

func distance(a, b kernel.Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
