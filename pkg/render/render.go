// Package render draws sampled outlines to PNG for quick inspection.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/chazu/contour/pkg/kernel"
	"github.com/chazu/contour/pkg/types"
)

// ErrNothingToRender is returned when no outline has any points.
var ErrNothingToRender = errors.New("nothing to render")

// Palette assigns distinct colors to outlines, cycling when exhausted.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Options controls the canvas.
type Options struct {
	Width     int
	Height    int
	Margin    float64
	LineWidth float64
}

// viewport maps model coordinates onto the canvas, Y up.
type viewport struct {
	scale  float64
	offset types.Vector2
	height float64
}

func newViewport(b kernel.Bounds, opts Options) viewport {
	size := b.Size()
	availW := float64(opts.Width) - 2*opts.Margin
	availH := float64(opts.Height) - 2*opts.Margin
	scale := math.Min(availW/math.Max(size.X, 1e-9), availH/math.Max(size.Y, 1e-9))

	// Center the drawing on the canvas.
	padX := (availW - size.X*scale) / 2
	padY := (availH - size.Y*scale) / 2
	return viewport{
		scale:  scale,
		offset: types.Vector2{X: opts.Margin + padX - b.Min.X*scale, Y: opts.Margin + padY - b.Min.Y*scale},
		height: float64(opts.Height),
	}
}

func (v viewport) project(p types.Point2) (x, y float64) {
	return p.X*v.scale + v.offset.X, v.height - (p.Y*v.scale + v.offset.Y)
}

// Draw returns a context with every non-empty outline stroked as a closed
// path and its center marked with a small cross.
func Draw(outlines []*kernel.Outline, opts Options) (*gg.Context, error) {
	var bounds kernel.Bounds
	first := true
	for _, o := range outlines {
		if o == nil || o.IsEmpty() {
			continue
		}
		if first {
			bounds = o.Bounds()
			first = false
			continue
		}
		bounds = bounds.Union(o.Bounds())
	}
	if first {
		return nil, ErrNothingToRender
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	vp := newViewport(bounds, opts)
	dc.SetLineWidth(opts.LineWidth)
	i := 0
	for _, o := range outlines {
		if o == nil || o.IsEmpty() {
			continue
		}
		dc.SetHexColor(Palette[i%len(Palette)])
		i++

		for j, p := range o.Points {
			x, y := vp.project(p)
			if j == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.Stroke()

		cx, cy := vp.project(o.Center)
		arm := 2 * opts.LineWidth
		dc.DrawLine(cx-arm, cy, cx+arm, cy)
		dc.DrawLine(cx, cy-arm, cx, cy+arm)
		dc.Stroke()
	}
	return dc, nil
}

// PNG writes the outlines to w as a PNG image.
func PNG(w io.Writer, outlines []*kernel.Outline, opts Options) error {
	dc, err := Draw(outlines, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
