// Package boundary finds points on the edge of a shape's visual extent.
//
// Bounding-box lookups jump as the query direction crosses an axis.
// SmoothPoint instead fits an ellipse to the bounding box and returns
// points on that ellipse, which vary continuously with direction.
package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/contour/pkg/kernel"
	"github.com/chazu/contour/pkg/types"
)

var (
	// ErrUnsupported3D is returned for directions that leave the XY plane.
	ErrUnsupported3D = errors.New("smooth boundary points are only defined for 2D directions")
	// ErrTooFewSamples is returned by Sample for fewer than 3 directions.
	ErrTooFewSamples = errors.New("outline needs at least 3 samples")
	// ErrTooManySamples is returned by Sample for more than MaxSamples directions.
	ErrTooManySamples = fmt.Errorf("outline allows at most %d samples", MaxSamples)
)

// MaxSamples bounds the number of directions Sample will trace.
const MaxSamples = 1 << 16

// diagonals are the bounding box diagonals, each of unit length and
// orthogonal to the other.
var diagonals = [2]types.Direction2{
	types.Up.Add(types.Right).Normalize(),
	types.Up.Add(types.Left).Normalize(),
}

// SmoothPoint returns the point on the ellipse fitted to s's bounding box
// in direction dir. dir must be a unit vector to land on the ellipse;
// other lengths scale the result radially about the center, and the zero
// vector yields the center itself.
//
// The result relies on corner(d)-center == -(corner(-d)-center). Shapes
// whose bounding box is not symmetric about their center get an
// approximation.
//
// Errors from s are returned unchanged.
func SmoothPoint(s kernel.Shape, dir types.Direction2) (types.Point2, error) {
	center, err := s.Center()
	if err != nil {
		return types.Point2{}, err
	}

	p := center
	for _, b := range diagonals {
		corner, err := s.Corner(b)
		if err != nil {
			return types.Point2{}, err
		}
		p = p.Add(corner.Sub(center).MulScalar(dir.Dot(b)))
	}
	return p, nil
}

// SmoothPoint3 is SmoothPoint in host coordinates. Directions with a
// non-zero Z component fail with ErrUnsupported3D.
func SmoothPoint3(s kernel.Shape, dir types.Direction3) (types.Point3, error) {
	d, err := types.Flatten(dir)
	if err != nil {
		return types.Point3{}, fmt.Errorf("%w: direction %v", ErrUnsupported3D, dir)
	}
	p, err := SmoothPoint(s, d)
	if err != nil {
		return types.Point3{}, err
	}
	return types.Lift(p), nil
}

// CriticalPoint returns the bounding box point in dir. Unlike SmoothPoint
// it is discontinuous wherever a component of dir changes sign.
func CriticalPoint(s kernel.Shape, dir types.Direction2) (types.Point2, error) {
	return s.Corner(dir)
}

// Sample traces the smooth boundary of s with n unit directions, evenly
// spaced counter-clockwise starting at Right. n must lie in
// [3, MaxSamples].
func Sample(s kernel.Shape, n int) (*kernel.Outline, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, n)
	}
	if n > MaxSamples {
		return nil, fmt.Errorf("%w: got %d", ErrTooManySamples, n)
	}
	center, err := s.Center()
	if err != nil {
		return nil, err
	}

	o := &kernel.Outline{
		Center: center,
		Points: make([]types.Point2, 0, n),
	}
	step := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		sin, cos := math.Sincos(float64(i) * step)
		p, err := SmoothPoint(s, types.Direction2{X: cos, Y: sin})
		if err != nil {
			return nil, err
		}
		o.Points = append(o.Points, p)
	}
	return o, nil
}
