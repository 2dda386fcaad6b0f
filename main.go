// Command contour evaluates a contour script and prints its result.
//
// Usage:
//
//	contour [-config contour.yaml] [-png out.png] script.ctr
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/chazu/contour/pkg/config"
	"github.com/chazu/contour/pkg/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("contour", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file")
	pngPath := fs.String("png", "", "write sampled outlines to this PNG file")
	logLevel := fs.String("log-level", "", "override log.level from the config")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: contour [-config file] [-png out.png] script")
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg = c
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer log.Sync()

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		log.Error("read script", zap.Error(err))
		return 1
	}

	app := NewApp(cfg, log)
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "%s:%d: %s\n", fs.Arg(0), e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "%s: %s\n", fs.Arg(0), e.Message)
			}
		}
		return 1
	}

	fmt.Fprintln(stdout, result.Value)
	for _, o := range result.Outlines {
		fmt.Fprintf(stdout, "outline %s: %d points, perimeter %.4f\n", o.Name, o.Vertices, o.Perimeter)
	}

	if *pngPath != "" {
		if err := writePNG(app, *pngPath, result); err != nil {
			log.Error("write png", zap.String("path", *pngPath), zap.Error(err))
			return 1
		}
		log.Info("wrote png", zap.String("path", *pngPath))
	}
	return 0
}

// writePNG renders result to path. A partially written file is removed.
func writePNG(app *App, path string, result EvalResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := app.RenderPNG(f, result); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
