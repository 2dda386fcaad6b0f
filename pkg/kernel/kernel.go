// Package kernel defines the shape capability consumed by boundary
// queries and the abstract 2D profile kernel that builds shapes.
// Implementations (sdfx) provide profile construction and boolean
// operations behind this interface.
package kernel

import (
	"errors"

	"github.com/chazu/contour/pkg/types"
)

var (
	// ErrNoGeometry is returned by shape accessors when the shape has no
	// extent to query.
	ErrNoGeometry = errors.New("shape has no geometry")
	// ErrInvalidDimension is returned for non-positive or non-finite sizes.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidPolygon is returned for polygons with fewer than 3 vertices.
	ErrInvalidPolygon = errors.New("polygon needs at least 3 vertices")
)

// Shape is the capability boundary queries need: a center and the
// bounding box corner in a given direction. Implementations are expected
// to have a bounding box symmetric about Center, so that
// Corner(d)-Center() == -(Corner(-d)-Center()).
type Shape interface {
	// Center returns the center of the shape's bounding box.
	Center() (types.Point2, error)
	// Corner returns the extreme point of the bounding box in dir.
	Corner(dir types.Direction2) (types.Point2, error)
}

// Profile is an opaque handle to a kernel-built 2D shape.
// Implementations wrap their internal representation.
type Profile interface {
	Shape

	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() Bounds
	// Contains reports whether p lies inside or on the profile.
	Contains(p types.Point2) bool
}

// Kernel is the abstract profile kernel interface.
type Kernel interface {
	// Primitives, centered on the origin.
	Rect(width, height float64) (Profile, error)
	Circle(radius float64) (Profile, error)
	Polygon(vertices []types.Point2) (Profile, error)

	// Boolean operations
	Union(a, b Profile) Profile
	Difference(a, b Profile) Profile

	// Transforms
	Translate(p Profile, x, y float64) Profile
	Rotate(p Profile, degrees float64) Profile
	Scale(p Profile, x, y float64) Profile
}
