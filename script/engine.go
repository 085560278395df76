package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/gogpu/rasterdoc"
)

// ErrNoPixels is returned when a pixel operation targets a layer that has
// no pixel data.
var ErrNoPixels = errors.New("script: layer has no pixel data")

// Engine is a JavaScript runtime bound to one document. An Engine is not
// safe for concurrent use; run one script at a time.
type Engine struct {
	vm  *goja.Runtime
	doc *rasterdoc.Document

	// lastErr is the Go error behind the most recent exception thrown by a
	// binding, and lastErrVal the JS value that carried it.
	lastErr    error
	lastErrVal goja.Value
}

// NewEngine creates a runtime with document and console globals bound
// to doc.
func NewEngine(doc *rasterdoc.Document) (*Engine, error) {
	e := &Engine{vm: goja.New(), doc: doc}
	if err := e.vm.Set("document", e.documentObject()); err != nil {
		return nil, fmt.Errorf("script: bind document: %w", err)
	}
	if err := e.vm.Set("console", e.consoleObject()); err != nil {
		return nil, fmt.Errorf("script: bind console: %w", err)
	}
	return e, nil
}

// Execute runs source and returns its completion value exported to Go.
// Cancelling ctx interrupts a running script.
func (e *Engine) Execute(ctx context.Context, source string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.lastErr, e.lastErrVal = nil, nil

	done := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	// The watcher must have exited before the interrupt flag is cleared,
	// or a late cancellation would leak into the next Execute.
	defer func() {
		close(done)
		<-watcherDone
		e.vm.ClearInterrupt()
	}()

	val, err := e.vm.RunString(source)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := interrupted.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		var exception *goja.Exception
		if errors.As(err, &exception) && e.lastErr != nil && exception.Value() == e.lastErrVal {
			return nil, fmt.Errorf("script: %w", e.lastErr)
		}
		return nil, fmt.Errorf("script: %w", err)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	return val.Export(), nil
}

// throw raises err as a JavaScript exception from inside a binding.
func (e *Engine) throw(err error) {
	v := e.vm.NewGoError(err)
	e.lastErr, e.lastErrVal = err, v
	panic(v)
}

func (e *Engine) consoleObject() *goja.Object {
	console := e.vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		rasterdoc.Logger().Info("script: console", "document", e.doc.Name(), "msg", strings.Join(parts, " "))
		return goja.Undefined()
	})
	return console
}

func (e *Engine) rectObject(r rasterdoc.Rect) *goja.Object {
	o := e.vm.NewObject()
	_ = o.Set("x", r.X)
	_ = o.Set("y", r.Y)
	_ = o.Set("width", r.Width)
	_ = o.Set("height", r.Height)
	return o
}

func intArg(call goja.FunctionCall, i int) int {
	return int(call.Argument(i).ToInteger())
}
