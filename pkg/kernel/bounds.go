package kernel

import (
	"math"

	"github.com/chazu/contour/pkg/types"
)

// Compile-time interface check.
var _ Shape = Bounds{}

// Bounds is an axis-aligned bounding box. It satisfies Shape directly.
type Bounds struct {
	Min types.Point2
	Max types.Point2
}

// NewBounds returns the box with the given center and size.
func NewBounds(center types.Point2, size types.Vector2) Bounds {
	half := size.MulScalar(0.5)
	return Bounds{Min: center.Sub(half), Max: center.Add(half)}
}

// Empty reports whether the box exposes no geometry: an inverted axis or
// a NaN coordinate.
func (b Bounds) Empty() bool {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y} {
		if math.IsNaN(v) {
			return true
		}
	}
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Size returns the width and height of the box.
func (b Bounds) Size() types.Vector2 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() (types.Point2, error) {
	if b.Empty() {
		return types.Point2{}, ErrNoGeometry
	}
	return b.Min.Add(b.Max).MulScalar(0.5), nil
}

// Corner returns the extreme point of the box in dir. Each axis takes the
// max when the direction component is positive, the min when negative and
// the center otherwise, so only fully diagonal directions land on a true
// corner.
func (b Bounds) Corner(dir types.Direction2) (types.Point2, error) {
	c, err := b.Center()
	if err != nil {
		return types.Point2{}, err
	}
	return types.Point2{
		X: pick(dir.X, b.Min.X, c.X, b.Max.X),
		Y: pick(dir.Y, b.Min.Y, c.Y, b.Max.Y),
	}, nil
}

func pick(component, lo, mid, hi float64) float64 {
	switch {
	case component > 0:
		return hi
	case component < 0:
		return lo
	}
	return mid
}

// Union returns the smallest box containing both b and o. An empty box is
// the identity.
func (b Bounds) Union(o Bounds) Bounds {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Bounds{
		Min: types.Point2{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y)},
		Max: types.Point2{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y)},
	}
}
