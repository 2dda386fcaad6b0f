package main

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/contour/pkg/config"
	"github.com/chazu/contour/pkg/engine"
	"github.com/chazu/contour/pkg/kernel/sdfx"
	"github.com/chazu/contour/pkg/render"
)

// App ties the engine and renderer together for the CLI.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	engine *engine.Engine
}

// OutlineData summarizes one sampled outline.
type OutlineData struct {
	Name      string  `json:"name"`
	Vertices  int     `json:"vertices"`
	Perimeter float64 `json:"perimeter"`
	Color     string  `json:"color"`
}

// EvalErrorData is a located evaluation error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Value    string          `json:"value"`
	Outlines []OutlineData   `json:"outlines"`
	Errors   []EvalErrorData `json:"errors"`

	raw *engine.Result
}

// NewApp creates an App with the sdfx kernel configured from cfg.
func NewApp(cfg *config.Config, log *zap.Logger) *App {
	return &App{
		cfg: cfg,
		log: log,
		engine: engine.NewEngine(sdfx.New(),
			engine.WithTimeout(cfg.Engine.Timeout),
			engine.WithSamples(cfg.Engine.Samples),
			engine.WithLogger(log.Named("engine")),
		),
	}
}

// Evaluate runs a script and reports its value, outlines and errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Outlines: []OutlineData{},
		Errors:   []EvalErrorData{},
	}

	start := time.Now()
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			a.log.Warn("script error", zap.Int("line", e.Line), zap.String("message", e.Message))
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Message: e.Message,
			})
		}
		return result
	}

	result.raw = res
	result.Value = res.Value
	for i, o := range res.Outlines {
		result.Outlines = append(result.Outlines, OutlineData{
			Name:      o.Name,
			Vertices:  o.VertexCount(),
			Perimeter: o.Perimeter(),
			Color:     render.Palette[i%len(render.Palette)],
		})
	}
	a.log.Info("evaluated script",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("outlines", len(result.Outlines)),
	)
	return result
}

// RenderPNG draws the outlines of a successful evaluation to w.
func (a *App) RenderPNG(w io.Writer, result EvalResult) error {
	if result.raw == nil {
		return fmt.Errorf("render: %w", render.ErrNothingToRender)
	}
	return render.PNG(w, result.raw.Outlines, render.Options{
		Width:     a.cfg.Render.Width,
		Height:    a.cfg.Render.Height,
		Margin:    a.cfg.Render.Margin,
		LineWidth: a.cfg.Render.LineWidth,
	})
}
