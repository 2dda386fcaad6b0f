package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/contour/pkg/boundary"
	"github.com/chazu/contour/pkg/kernel"
	"github.com/chazu/contour/pkg/types"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites contour Lisp into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//  2. kebab-case identifiers become snake_case (boundary-point ->
//     boundary_point); zygomys reads a bare hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	out := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		switch c := b[i]; {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j
		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}
		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opened at b[start].
func skipQuoted(b []byte, start int, quote byte, escapes bool) int {
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Sexp wrappers for Go values
// ---------------------------------------------------------------------------

type sexpVec2 struct {
	vec types.Vector2
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %.4f %.4f)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

type sexpVec3 struct {
	vec types.Vector3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.4f %.4f %.4f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpProfile wraps a kernel.Profile so shapes can flow between builtins.
type sexpProfile struct {
	p    kernel.Profile
	kind string
}

func (p *sexpProfile) SexpString(ps *zygo.PrintState) string {
	bb := p.p.BoundingBox()
	return fmt.Sprintf("(%s [%.2f %.2f]-[%.2f %.2f])", p.kind, bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y)
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

type sexpOutline struct {
	o *kernel.Outline
}

func (o *sexpOutline) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(outline %q %d)", o.o.Name, o.o.VertexCount())
}
func (o *sexpOutline) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// lookup returns the keyword argument kw, falling back to positional
// argument pos.
func (a kwArgs) lookup(kw string, pos int) (zygo.Sexp, bool) {
	if v, ok := a.kw[kw]; ok {
		return v, true
	}
	if pos >= 0 && pos < len(a.positional) {
		return a.positional[pos], true
	}
	return nil, false
}

func (a kwArgs) number(fn, kw string, pos int) (float64, error) {
	v, ok := a.lookup(kw, pos)
	if !ok {
		return 0, fmt.Errorf("%s: missing %s", fn, kw)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, kw, err)
	}
	return f, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec2(s zygo.Sexp) (types.Vector2, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return types.Vector2{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

func toProfile(s zygo.Sexp) (kernel.Profile, error) {
	if p, ok := s.(*sexpProfile); ok {
		return p.p, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// shapeAndDir parses the (fn shape dir) argument form.
func shapeAndDir(fn string, args []zygo.Sexp) (kernel.Profile, zygo.Sexp, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s requires a shape and a direction, got %d arguments", fn, len(args))
	}
	p, err := toProfile(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: shape: %w", fn, err)
	}
	return p, args[1], nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the contour builtins into a zygomys environment.
// Profiles are built with k; outlines are appended to res.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, k kernel.Kernel, res *Result, samples int) {
	for name, fn := range map[string]builtin{
		"vec2":           vec2Builtin,
		"vec3":           vec3Builtin,
		"rect":           rectBuiltin(k),
		"circle":         circleBuiltin(k),
		"polygon":        polygonBuiltin(k),
		"translate":      translateBuiltin(k),
		"rotate":         rotateBuiltin(k),
		"scale":          scaleBuiltin(k),
		"union":          unionBuiltin(k),
		"difference":     differenceBuiltin(k),
		"center":         centerBuiltin,
		"corner":         cornerBuiltin,
		"boundary_point": boundaryPointBuiltin,
		"critical_point": criticalPointBuiltin,
		"outline":        outlineBuiltin(res, samples),
	} {
		env.AddFunction(name, fn)
	}
}

// (vec2 1 2)
func vec2Builtin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
	}
	x, err := toFloat64(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
	}
	y, err := toFloat64(args[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
	}
	return &sexpVec2{vec: types.Vector2{X: x, Y: y}}, nil
}

// (vec3 1 2 3)
func vec3Builtin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	var c [3]float64
	for i, axis := range []string{"x", "y", "z"} {
		f, err := toFloat64(args[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %s: %w", axis, err)
		}
		c[i] = f
	}
	return &sexpVec3{vec: types.Vector3{X: c[0], Y: c[1], Z: c[2]}}, nil
}

// (rect :width 4 :height 2) or (rect 4 2)
func rectBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		w, err := pa.number("rect", "width", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		h, err := pa.number("rect", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		p, err := k.Rect(w, h)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		return &sexpProfile{p: p, kind: "rect"}, nil
	}
}

// (circle :radius 3) or (circle 3)
func circleBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := parseArgs(args).number("circle", "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		p, err := k.Circle(r)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}
		return &sexpProfile{p: p, kind: "circle"}, nil
	}
}

// (polygon (list (vec2 0 0) (vec2 1 0) (vec2 0 1))) or (polygon v0 v1 v2 ...)
func polygonBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := args
		if len(args) == 1 {
			list, err := sexpListToSlice(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
			}
			items = list
		}
		vertices := make([]types.Point2, 0, len(items))
		for i, item := range items {
			v, err := toVec2(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: vertex %d: %w", i, err)
			}
			vertices = append(vertices, v)
		}
		p, err := k.Polygon(vertices)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		return &sexpProfile{p: p, kind: "polygon"}, nil
	}
}

// (translate shape :by (vec2 1 2))
func translateBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("translate requires a shape as first argument")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		by, ok := pa.lookup("by", 1)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("translate: missing by")
		}
		v, err := toVec2(by)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: by: %w", err)
		}
		return &sexpProfile{p: k.Translate(p, v.X, v.Y), kind: "translate"}, nil
	}
}

// (rotate shape :degrees 45)
func rotateBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a shape as first argument")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		deg, err := pa.number("rotate", "degrees", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpProfile{p: k.Rotate(p, deg), kind: "rotate"}, nil
	}
}

// (scale shape :by (vec2 2 1)) or (scale shape :by 2)
func scaleBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("scale requires a shape as first argument")
		}
		p, err := toProfile(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		by, ok := pa.lookup("by", 1)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("scale: missing by")
		}
		var v types.Vector2
		if f, err := toFloat64(by); err == nil {
			v = types.Vector2{X: f, Y: f}
		} else if v, err = toVec2(by); err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: by: expected number or vec2: %w", err)
		}
		if v.X == 0 || v.Y == 0 {
			return zygo.SexpNull, fmt.Errorf("scale: by: %w", kernel.ErrInvalidDimension)
		}
		return &sexpProfile{p: k.Scale(p, v.X, v.Y), kind: "scale"}, nil
	}
}

// (union a b c ...)
func unionBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 shapes, got %d", len(args))
		}
		acc, err := toProfile(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: shape 0: %w", err)
		}
		for i := 1; i < len(args); i++ {
			p, err := toProfile(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: shape %d: %w", i, err)
			}
			acc = k.Union(acc, p)
		}
		return &sexpProfile{p: acc, kind: "union"}, nil
	}
}

// (difference a b)
func differenceBuiltin(k kernel.Kernel) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("difference requires exactly 2 shapes, got %d", len(args))
		}
		a, err := toProfile(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("difference: a: %w", err)
		}
		b, err := toProfile(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("difference: b: %w", err)
		}
		return &sexpProfile{p: k.Difference(a, b), kind: "difference"}, nil
	}
}

// (center shape)
func centerBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 1 {
		return zygo.SexpNull, fmt.Errorf("center requires exactly 1 argument, got %d", len(args))
	}
	p, err := toProfile(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("center: %w", err)
	}
	c, err := p.Center()
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("center: %w", err)
	}
	return &sexpVec2{vec: c}, nil
}

// (corner shape (vec2 1 1))
func cornerBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	p, d, err := shapeAndDir("corner", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	dir, err := toVec2(d)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("corner: direction: %w", err)
	}
	c, err := p.Corner(dir)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("corner: %w", err)
	}
	return &sexpVec2{vec: c}, nil
}

// (boundary-point shape (vec2 0 1)) or (boundary-point shape (vec3 0 1 0))
func boundaryPointBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	p, d, err := shapeAndDir("boundary-point", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	switch dir := d.(type) {
	case *sexpVec2:
		pt, err := boundary.SmoothPoint(p, dir.vec)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("boundary-point: %w", err)
		}
		return &sexpVec2{vec: pt}, nil
	case *sexpVec3:
		pt, err := boundary.SmoothPoint3(p, dir.vec)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("boundary-point: %w", err)
		}
		return &sexpVec3{vec: pt}, nil
	}
	return zygo.SexpNull, fmt.Errorf("boundary-point: direction: expected vec2 or vec3, got %T (%s)", d, d.SexpString(nil))
}

// (critical-point shape (vec2 0 1))
func criticalPointBuiltin(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	p, d, err := shapeAndDir("critical-point", args)
	if err != nil {
		return zygo.SexpNull, err
	}
	dir, err := toVec2(d)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("critical-point: direction: %w", err)
	}
	pt, err := boundary.CriticalPoint(p, dir)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("critical-point: %w", err)
	}
	return &sexpVec2{vec: pt}, nil
}

// (outline "name" shape :samples 32)
func outlineBuiltin(res *Result, samples int) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("outline requires a name and a shape")
		}
		outlineName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outline: name: %w", err)
		}
		p, err := toProfile(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outline: shape: %w", err)
		}
		n := samples
		if v, ok := pa.kw["samples"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("outline: samples: %w", err)
			}
			if math.IsNaN(f) || f < 3 || f > boundary.MaxSamples || f != math.Trunc(f) {
				return zygo.SexpNull, fmt.Errorf("outline: samples: expected an integer in [3, %d], got %g", boundary.MaxSamples, f)
			}
			n = int(f)
		}
		o, err := boundary.Sample(p, n)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("outline %q: %w", outlineName, err)
		}
		o.Name = outlineName
		res.Outlines = append(res.Outlines, o)
		return &sexpOutline{o: o}, nil
	}
}
