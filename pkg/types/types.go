// Package types holds the semantic names used for vectors, points and
// directions across contour. The names carry no behavior of their own;
// they exist so signatures say what a value means.
//
// The host coordinate system is 3D. A 2D value lifted into it has a
// Z component of zero.
package types

import (
	"errors"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrNotPlanar is returned when a 3D value with a non-zero Z component is
// used where only planar values are supported.
var ErrNotPlanar = errors.New("vector has non-zero z component")

// 2D forms.
type (
	Vector2    = v2.Vec
	Point2     = v2.Vec
	Direction2 = v2.Vec
)

// 3D forms.
type (
	Vector3    = v3.Vec
	Point3     = v3.Vec
	Direction3 = v3.Vec
)

// Vector and Point are the host-native forms.
type (
	Vector = Vector3
	Point  = Point3
)

// Unit directions. Up is +Y, Right is +X.
var (
	Origin = Direction2{}
	Up     = Direction2{X: 0, Y: 1}
	Down   = Direction2{X: 0, Y: -1}
	Left   = Direction2{X: -1, Y: 0}
	Right  = Direction2{X: 1, Y: 0}

	Out = Direction3{X: 0, Y: 0, Z: 1}
	In  = Direction3{X: 0, Y: 0, Z: -1}
)

// Lift places a 2D point in the host coordinate system.
func Lift(p Point2) Point3 {
	return Point3{X: p.X, Y: p.Y, Z: 0}
}

// Flatten drops the Z component of v. It fails with ErrNotPlanar rather
// than silently discarding a non-zero Z.
func Flatten(v Vector3) (Vector2, error) {
	if v.Z != 0 {
		return Vector2{}, ErrNotPlanar
	}
	return Vector2{X: v.X, Y: v.Y}, nil
}
