// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/contour/pkg/kernel"
	"github.com/chazu/contour/pkg/types"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*SdfxKernel)(nil)
var _ kernel.Profile = (*sdfxProfile)(nil)

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box. A profile with no
// underlying SDF reports an empty box.
func (p *sdfxProfile) BoundingBox() kernel.Bounds {
	if p == nil || p.s == nil {
		return kernel.Bounds{
			Min: types.Point2{X: math.Inf(1), Y: math.Inf(1)},
			Max: types.Point2{X: math.Inf(-1), Y: math.Inf(-1)},
		}
	}
	bb := p.s.BoundingBox()
	return kernel.Bounds{Min: bb.Min, Max: bb.Max}
}

// Center returns the center of the bounding box.
func (p *sdfxProfile) Center() (types.Point2, error) {
	return p.BoundingBox().Center()
}

// Corner returns the bounding box corner in dir.
func (p *sdfxProfile) Corner(dir types.Direction2) (types.Point2, error) {
	return p.BoundingBox().Corner(dir)
}

// Contains reports whether pt is inside or on the profile.
func (p *sdfxProfile) Contains(pt types.Point2) bool {
	if p == nil || p.s == nil {
		return false
	}
	return p.s.Evaluate(pt) <= 0
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF2 from a kernel.Profile.
func unwrap(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

// wrap creates a kernel.Profile from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Profile {
	return &sdfxProfile{s: s}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Rect creates a rectangle of the given size centered on the origin.
func (k *SdfxKernel) Rect(width, height float64) (kernel.Profile, error) {
	if !positive(width) || !positive(height) {
		return nil, fmt.Errorf("rect %gx%g: %w", width, height, kernel.ErrInvalidDimension)
	}
	return wrap(sdf.Box2D(v2.Vec{X: width, Y: height}, 0)), nil
}

// Circle creates a circle of the given radius centered on the origin.
func (k *SdfxKernel) Circle(radius float64) (kernel.Profile, error) {
	if !positive(radius) {
		return nil, fmt.Errorf("circle r=%g: %w", radius, kernel.ErrInvalidDimension)
	}
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Circle2D: %w", err)
	}
	return wrap(s), nil
}

// Polygon creates a closed polygon from its vertices.
func (k *SdfxKernel) Polygon(vertices []types.Point2) (kernel.Profile, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("polygon with %d vertices: %w", len(vertices), kernel.ErrInvalidPolygon)
	}
	pts := make([]v2.Vec, len(vertices))
	copy(pts, vertices)
	s, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return wrap(s), nil
}

// Union returns the union of two profiles.
func (k *SdfxKernel) Union(a, b kernel.Profile) kernel.Profile {
	return wrap(sdf.Union2D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b. The bounding box is that of a.
func (k *SdfxKernel) Difference(a, b kernel.Profile) kernel.Profile {
	return wrap(sdf.Difference2D(unwrap(a), unwrap(b)))
}

// Translate moves a profile by (x, y).
func (k *SdfxKernel) Translate(p kernel.Profile, x, y float64) kernel.Profile {
	m := sdf.Translate2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(p), m))
}

// Rotate rotates a profile counter-clockwise about the origin by degrees.
func (k *SdfxKernel) Rotate(p kernel.Profile, degrees float64) kernel.Profile {
	m := sdf.Rotate2d(degrees * math.Pi / 180.0)
	return wrap(sdf.Transform2D(unwrap(p), m))
}

// Scale scales a profile about the origin.
func (k *SdfxKernel) Scale(p kernel.Profile, x, y float64) kernel.Profile {
	m := sdf.Scale2d(v2.Vec{X: x, Y: y})
	return wrap(sdf.Transform2D(unwrap(p), m))
}
