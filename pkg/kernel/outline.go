package kernel

import (
	"math"

	"github.com/chazu/contour/pkg/types"
)

// Outline is a closed polyline of sampled boundary points.
// The last point connects back to the first.
type Outline struct {
	Name   string         `json:"name"`
	Center types.Point2   `json:"center"`
	Points []types.Point2 `json:"points"`
}

// VertexCount returns the number of vertices.
func (o *Outline) VertexCount() int {
	return len(o.Points)
}

// IsEmpty returns true if the outline has no points.
func (o *Outline) IsEmpty() bool {
	return len(o.Points) == 0
}

// Perimeter returns the length of the closed polyline.
func (o *Outline) Perimeter() float64 {
	n := len(o.Points)
	if n < 2 {
		return 0
	}
	var sum float64
	for i, p := range o.Points {
		sum += o.Points[(i+1)%n].Sub(p).Length()
	}
	return sum
}

// Bounds returns the bounding box of the outline's points. The result is
// Empty for an empty outline.
func (o *Outline) Bounds() Bounds {
	b := Bounds{
		Min: types.Point2{X: math.Inf(1), Y: math.Inf(1)},
		Max: types.Point2{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range o.Points {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}
