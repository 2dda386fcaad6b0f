package kernel

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/contour/pkg/types"
)

// --- Outline helper method tests ---

func TestOutlineVertexCount(t *testing.T) {
	tests := []struct {
		name   string
		points []types.Point2
		want   int
	}{
		{"empty", nil, 0},
		{"one point", []types.Point2{{X: 1, Y: 2}}, 1},
		{"square", []types.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Points: tt.points}
			if got := o.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutlinePerimeter(t *testing.T) {
	tests := []struct {
		name   string
		points []types.Point2
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", []types.Point2{{X: 3, Y: 3}}, 0},
		{"unit square", []types.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, 4},
		{"3-4-5 triangle", []types.Point2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 4}}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Outline{Points: tt.points}
			if got := o.Perimeter(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Perimeter() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestOutlineIsEmpty(t *testing.T) {
	t.Run("empty outline", func(t *testing.T) {
		o := &Outline{}
		if !o.IsEmpty() {
			t.Error("IsEmpty() = false for empty outline, want true")
		}
		if !o.Bounds().Empty() {
			t.Error("Bounds() of empty outline should be empty")
		}
	})
	t.Run("non-empty outline", func(t *testing.T) {
		o := &Outline{Points: []types.Point2{{X: 1, Y: 2}}}
		if o.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty outline, want false")
		}
	})
}

func TestOutlineBounds(t *testing.T) {
	o := &Outline{Points: []types.Point2{{X: -1, Y: 2}, {X: 3, Y: -4}, {X: 0, Y: 0}}}
	b := o.Bounds()
	if b.Min != (types.Point2{X: -1, Y: -4}) || b.Max != (types.Point2{X: 3, Y: 2}) {
		t.Errorf("Bounds() = %+v", b)
	}
}

// --- Bounds as a Shape ---

func TestBoundsCenter(t *testing.T) {
	b := Bounds{Min: types.Point2{X: -2, Y: 1}, Max: types.Point2{X: 4, Y: 5}}
	c, err := b.Center()
	if err != nil {
		t.Fatalf("Center() error = %v", err)
	}
	if c != (types.Point2{X: 1, Y: 3}) {
		t.Errorf("Center() = %v, want (1, 3)", c)
	}
}

func TestBoundsCorner(t *testing.T) {
	b := NewBounds(types.Point2{X: 10, Y: 20}, types.Vector2{X: 4, Y: 2})
	tests := []struct {
		name string
		dir  types.Direction2
		want types.Point2
	}{
		{"up-right", types.Up.Add(types.Right), types.Point2{X: 12, Y: 21}},
		{"up-left", types.Up.Add(types.Left), types.Point2{X: 8, Y: 21}},
		{"down-left", types.Down.Add(types.Left), types.Point2{X: 8, Y: 19}},
		{"down-right", types.Down.Add(types.Right), types.Point2{X: 12, Y: 19}},
		{"up", types.Up, types.Point2{X: 10, Y: 21}},
		{"left", types.Left, types.Point2{X: 8, Y: 20}},
		{"origin", types.Origin, types.Point2{X: 10, Y: 20}},
		{"scaled diagonal", types.Vector2{X: 0.01, Y: -300}, types.Point2{X: 12, Y: 19}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Corner(tt.dir)
			if err != nil {
				t.Fatalf("Corner() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Corner(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestBoundsCornerSymmetry(t *testing.T) {
	b := NewBounds(types.Point2{X: -3, Y: 7}, types.Vector2{X: 5, Y: 9})
	c, _ := b.Center()
	for _, d := range []types.Direction2{{X: 1, Y: 1}, {X: -1, Y: 1}, {X: 1, Y: 0}, {X: 0.2, Y: -0.9}} {
		p, _ := b.Corner(d)
		q, _ := b.Corner(d.Neg())
		if !p.Sub(c).Equals(q.Sub(c).Neg(), 1e-12) {
			t.Errorf("corner(%v) and corner(%v) not symmetric about center", d, d.Neg())
		}
	}
}

func TestBoundsNoGeometry(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
	}{
		{"inverted x", Bounds{Min: types.Point2{X: 1}, Max: types.Point2{X: -1}}},
		{"inverted y", Bounds{Min: types.Point2{Y: 1}, Max: types.Point2{Y: 0}}},
		{"nan", Bounds{Min: types.Point2{X: math.NaN()}, Max: types.Point2{X: 1, Y: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Center(); !errors.Is(err, ErrNoGeometry) {
				t.Errorf("Center() error = %v, want ErrNoGeometry", err)
			}
			if _, err := tt.b.Corner(types.Up); !errors.Is(err, ErrNoGeometry) {
				t.Errorf("Corner() error = %v, want ErrNoGeometry", err)
			}
		})
	}
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: types.Point2{X: 0, Y: 0}, Max: types.Point2{X: 1, Y: 1}}
	b := Bounds{Min: types.Point2{X: -2, Y: 0.5}, Max: types.Point2{X: 0.5, Y: 3}}
	u := a.Union(b)
	if u.Min != (types.Point2{X: -2, Y: 0}) || u.Max != (types.Point2{X: 1, Y: 3}) {
		t.Errorf("Union() = %+v", u)
	}
	empty := Bounds{Min: types.Point2{X: 1}, Max: types.Point2{X: -1}}
	if got := empty.Union(a); got != a {
		t.Errorf("empty.Union(a) = %+v, want %+v", got, a)
	}
	if got := a.Union(empty); got != a {
		t.Errorf("a.Union(empty) = %+v, want %+v", got, a)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubProfile is a minimal Profile implementation for testing.
type stubProfile struct {
	Bounds
}

func (s *stubProfile) BoundingBox() Bounds { return s.Bounds }

func (s *stubProfile) Contains(p types.Point2) bool {
	return p.X >= s.Min.X && p.X <= s.Max.X && p.Y >= s.Min.Y && p.Y <= s.Max.Y
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Rect(w, h float64) (Profile, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimension
	}
	return &stubProfile{NewBounds(types.Origin, types.Vector2{X: w, Y: h})}, nil
}

func (k *stubKernel) Circle(r float64) (Profile, error) {
	return k.Rect(2*r, 2*r)
}

func (k *stubKernel) Polygon(v []types.Point2) (Profile, error) {
	if len(v) < 3 {
		return nil, ErrInvalidPolygon
	}
	o := &Outline{Points: v}
	return &stubProfile{o.Bounds()}, nil
}

func (k *stubKernel) Union(a, _ Profile) Profile      { return a }
func (k *stubKernel) Difference(a, _ Profile) Profile { return a }

func (k *stubKernel) Translate(p Profile, _, _ float64) Profile { return p }
func (k *stubKernel) Rotate(p Profile, _ float64) Profile       { return p }
func (k *stubKernel) Scale(p Profile, _, _ float64) Profile     { return p }

// Compile-time checks that the stubs implement the interfaces.
var _ Profile = (*stubProfile)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelRectBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	p, err := k.Rect(10, 20)
	if err != nil {
		t.Fatalf("Rect() error = %v", err)
	}
	bb := p.BoundingBox()
	if bb.Min != (types.Point2{X: -5, Y: -10}) {
		t.Errorf("Rect min = %v, want (-5, -10)", bb.Min)
	}
	if bb.Max != (types.Point2{X: 5, Y: 10}) {
		t.Errorf("Rect max = %v, want (5, 10)", bb.Max)
	}
}

func TestStubKernelInvalid(t *testing.T) {
	var k Kernel = &stubKernel{}
	if _, err := k.Rect(0, 1); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("Rect(0, 1) error = %v, want ErrInvalidDimension", err)
	}
	if _, err := k.Polygon([]types.Point2{{}, {X: 1}}); !errors.Is(err, ErrInvalidPolygon) {
		t.Errorf("Polygon(2 points) error = %v, want ErrInvalidPolygon", err)
	}
}
