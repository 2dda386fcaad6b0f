// Package engine provides the Lisp scripting front end for contour.
// It wraps zygomys in a sandboxed environment, exposes the profile kernel
// and boundary queries as builtins, and collects the sampled outlines a
// script asks for.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/contour/pkg/kernel"
	"github.com/chazu/contour/pkg/types"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

// DefaultTimeout is the hard limit for a single evaluation unless
// overridden with WithTimeout.
const DefaultTimeout = 5 * time.Second

// DefaultSamples is the outline resolution used when a script does not
// pass :samples.
const DefaultSamples = 64

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the output of a successful evaluation.
type Result struct {
	// Value is the printed form of the last expression.
	Value string
	// Point is set when the last expression evaluated to a 2D point.
	Point *types.Point2
	// Outlines holds every outline requested with (outline ...), in order.
	Outlines []*kernel.Outline
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation time limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithSamples sets the default outline resolution.
func WithSamples(n int) Option {
	return func(e *Engine) { e.samples = n }
}

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	kernel  kernel.Kernel
	timeout time.Duration
	samples int
	log     *zap.Logger
}

// NewEngine creates a new Engine that builds profiles with k.
func NewEngine(k kernel.Kernel, opts ...Option) *Engine {
	e := &Engine{
		kernel:  k,
		timeout: DefaultTimeout,
		samples: DefaultSamples,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs Lisp source code and returns its result.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// A timeout only abandons the evaluation: the sandbox goroutine keeps
// running until the script finishes on its own, and its result is
// discarded. Builtins bound their own work (see boundary.MaxSamples), so
// no single call from an abandoned run can exhaust memory.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	res, evalErrs, err := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	e.log.Debug("evaluated",
		zap.Uint64("generation", gen),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("evalErrors", len(evalErrs)),
		zap.Error(err),
	)
	return res, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program with no value.
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	res := &Result{}
	registerBuiltins(env, e.kernel, res, e.samples)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	value, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	if value != nil {
		res.Value = value.SexpString(nil)
		if v, ok := value.(*sexpVec2); ok {
			p := v.vec
			res.Point = &p
		}
	}
	return res, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
