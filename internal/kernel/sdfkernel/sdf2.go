package sdfkernel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// circle2 is the signed distance field of a disk centered on the origin.
type circle2 struct {
	radius float64
}

func (c circle2) Evaluate(p r2.Vec) float64 {
	return r2.Norm(p) - c.radius
}

func (c circle2) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: -c.radius, Y: -c.radius},
		Max: r2.Vec{X: c.radius, Y: c.radius},
	}
}

// box2 is the signed distance field of an origin-centered rectangle.
type box2 struct {
	half r2.Vec
}

func (b box2) Evaluate(p r2.Vec) float64 {
	d := r2.Vec{
		X: math.Abs(p.X) - b.half.X,
		Y: math.Abs(p.Y) - b.half.Y,
	}
	outside := r2.Vec{
		X: math.Max(d.X, 0),
		Y: math.Max(d.Y, 0),
	}
	return r2.Norm(outside) + math.Min(math.Max(d.X, d.Y), 0)
}

func (b box2) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Scale(-1, b.half),
		Max: b.half,
	}
}

// poly2 is the signed distance field of a set of closed contours filled with
// the even-odd rule: a point is inside when a ray from it crosses an odd
// number of edges, so nested contours cut holes.
type poly2 struct {
	contours [][]r2.Vec
	min, max r2.Vec
}

func newPoly2(contours [][]r2.Vec) poly2 {
	p := poly2{
		contours: contours,
		min:      r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		max:      r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, c := range contours {
		for _, v := range c {
			p.min.X = math.Min(p.min.X, v.X)
			p.min.Y = math.Min(p.min.Y, v.Y)
			p.max.X = math.Max(p.max.X, v.X)
			p.max.Y = math.Max(p.max.Y, v.Y)
		}
	}
	return p
}

func (p poly2) Evaluate(q r2.Vec) float64 {
	dist := math.Inf(1)
	crossings := 0
	for _, c := range p.contours {
		n := len(c)
		if n < 3 {
			continue
		}
		for i := 0; i < n; i++ {
			a := c[i]
			b := c[(i+1)%n]
			dist = math.Min(dist, segmentDistance(q, a, b))
			if (a.Y > q.Y) != (b.Y > q.Y) {
				x := a.X + (q.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				if q.X < x {
					crossings++
				}
			}
		}
	}
	if crossings%2 == 1 {
		return -dist
	}
	return dist
}

func (p poly2) Bounds() r2.Box {
	return r2.Box{Min: p.min, Max: p.max}
}

// segmentDistance returns the distance from q to the segment ab.
func segmentDistance(q, a, b r2.Vec) float64 {
	qa := r2.Sub(q, a)
	ba := r2.Sub(b, a)
	denom := r2.Dot(ba, ba)
	if denom == 0 {
		return r2.Norm(qa)
	}
	t := r2.Dot(qa, ba) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r2.Norm(r2.Sub(qa, r2.Scale(t, ba)))
}
