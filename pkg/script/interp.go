// Package script exposes the Lamina engine to a sandboxed zygomys Lisp
// environment, the library-side equivalent of the original engine's
// script-host binding. Each evaluation runs in a fresh sandbox with the
// engine builtins installed, so scripts can slice batches and drive the
// stress protocols without any Go code.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/lamina/pkg/engine"
	zygo "github.com/glycerine/zygomys/zygo"
)

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

// Interpreter evaluates Lamina scripts against one engine instance. It is
// safe for concurrent use; each Evaluate call creates a fresh sandboxed
// environment for determinism.
type Interpreter struct {
	eng        *engine.Engine
	mu         sync.Mutex
	generation uint64
}

// New creates an interpreter bound to the given engine.
func New(eng *engine.Engine) *Interpreter {
	return &Interpreter{eng: eng}
}

// Evaluate runs source in a fresh sandbox and returns the value of its
// last expression converted to a Go value (int64, float64, string,
// []int64, or nil).
//
// Return semantics:
//   - On success: value + nil errors + nil error
//   - On parse/eval failure: nil + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (in *Interpreter) Evaluate(source string) (any, []EvalError, error) {
	in.mu.Lock()
	in.generation++
	gen := in.generation
	in.mu.Unlock()

	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		value, evalErrs, err := in.evaluate(source)
		ch <- evalOutcome{value: value, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &in.mu, &in.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (in *Interpreter) evaluate(source string) (any, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, in.eng)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygoError(err), nil
	}

	result, err := env.Run()
	if err != nil {
		return nil, parseZygoError(err), nil
	}

	return sexpToGo(result), nil, nil
}

// sexpToGo converts an evaluation result into a plain Go value. Unhandled
// Sexp kinds fall back to their printed form.
func sexpToGo(s zygo.Sexp) any {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val
	case *zygo.SexpFloat:
		return v.Val
	case *zygo.SexpStr:
		return v.S
	case *zygo.SexpArray:
		out := make([]int64, 0, len(v.Val))
		for _, el := range v.Val {
			n, ok := el.(*zygo.SexpInt)
			if !ok {
				return s.SexpString(nil)
			}
			out = append(out, n.Val)
		}
		return out
	}
	if s == zygo.SexpNull || s == nil {
		return nil
	}
	return s.SexpString(nil)
}

// linePattern matches zygomys error messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygoError converts a zygomys error into EvalError values, pulling
// a line number out of the message when one is present.
func parseZygoError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
