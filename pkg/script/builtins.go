package script

import (
	"fmt"
	"strings"

	"github.com/chazu/lamina/pkg/engine"
	"github.com/chazu/lamina/pkg/slice"
	zygo "github.com/glycerine/zygomys/zygo"
)

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source before it reaches zygomys:
// :keyword tokens become marker string literals (so builtins can parse
// keyword arguments without registering global symbols), kebab-case
// identifiers become underscore form (zygomys reads a bare hyphen as
// subtraction), and ; comments become // comments. String literals pass
// through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	i := 0
	for i < len(source) {
		c := source[i]

		// String literals are copied verbatim, including escapes.
		if c == '"' || c == '`' {
			quote := c
			out.WriteByte(c)
			i++
			for i < len(source) && source[i] != quote {
				if quote == '"' && source[i] == '\\' && i+1 < len(source) {
					out.WriteByte(source[i])
					i++
				}
				out.WriteByte(source[i])
				i++
			}
			if i < len(source) {
				out.WriteByte(quote)
				i++
			}
			continue
		}

		// Lisp ; comments -> zygomys // comments.
		if c == ';' {
			for i < len(source) && source[i] == ';' {
				i++
			}
			out.WriteString("//")
			for i < len(source) && source[i] != '\n' {
				out.WriteByte(source[i])
				i++
			}
			continue
		}

		// :keyword -> "__kw_keyword" (but leave := alone).
		if c == ':' && i+1 < len(source) && isAlpha(source[i+1]) {
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(source[i+1 : j])
			out.WriteByte('"')
			i = j
			continue
		}

		// kebab-case -> underscore, only between identifier characters.
		if c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isAlpha(source[i+1]) {
			out.WriteByte('_')
			i++
			continue
		}

		out.WriteByte(c)
		i++
	}
	return out.String()
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isAlpha(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keyword names keep their kebab form, e.g. pa.kw["z-min"].
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := keywordName(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// keywordName reports whether s is a preprocessed keyword marker and
// returns its name.
func keywordName(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
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

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toFloats converts a Lisp list or array of numbers to float32 extents.
// A missing argument reads as an empty extent list.
func toFloats(s zygo.Sexp) ([]float32, error) {
	if s == nil || s == zygo.SexpNull {
		return nil, nil
	}
	var elems []zygo.Sexp
	switch v := s.(type) {
	case *zygo.SexpPair:
		arr, err := zygo.ListToArray(v)
		if err != nil {
			return nil, err
		}
		elems = arr
	case *zygo.SexpArray:
		elems = v.Val
	default:
		return nil, fmt.Errorf("expected list of numbers, got %T (%s)", s, s.SexpString(nil))
	}

	out := make([]float32, len(elems))
	for i, el := range elems {
		f, err := toFloat64(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the engine builtins into a zygomys
// environment. All of them run synchronously on the evaluation
// goroutine; the Evaluate timeout is the only bound on their runtime.
func registerBuiltins(env *zygo.Zlisp, eng *engine.Engine) {

	// -----------------------------------------------------------------------
	// (slice-count :z-min [0.0 1.0] :z-max [2.0 3.0] :plane 1.5 :mode :simd)
	// -----------------------------------------------------------------------
	env.AddFunction("slice_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		zmin, err := toFloats(pa.kw["z-min"])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-count: z-min: %w", err)
		}
		zmax, err := toFloats(pa.kw["z-max"])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-count: z-max: %w", err)
		}

		var plane float64
		if v, ok := pa.kw["plane"]; ok {
			plane, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("slice-count: plane: %w", err)
			}
		}

		mode := "simd"
		if v, ok := pa.kw["mode"]; ok {
			if m, isKW := keywordName(v); isKW {
				mode = m
			} else if str, isStr := v.(*zygo.SexpStr); isStr {
				mode = str.S
			}
		}

		var count int
		switch mode {
		case "simd":
			count, err = eng.ProcessSTLSIMD(zmin, zmax, float32(plane))
		case "scalar":
			count, err = eng.ProcessSTLScalar(zmin, zmax, float32(plane))
		default:
			return zygo.SexpNull, fmt.Errorf("slice-count: unknown mode %q, expected simd or scalar", mode)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("slice-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(count)}, nil
	})

	// -----------------------------------------------------------------------
	// (sweep :z-min [...] :z-max [...] :from 0.0 :step 0.1 :layers 10)
	// -----------------------------------------------------------------------
	env.AddFunction("sweep", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		zmin, err := toFloats(pa.kw["z-min"])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep: z-min: %w", err)
		}
		zmax, err := toFloats(pa.kw["z-max"])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep: z-max: %w", err)
		}
		b, err := slice.NewBatch(zmin, zmax)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep: %w", err)
		}

		var from, step float64
		if v, ok := pa.kw["from"]; ok {
			if from, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sweep: from: %w", err)
			}
		}
		if v, ok := pa.kw["step"]; ok {
			if step, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sweep: step: %w", err)
			}
		}
		layers := 0
		if v, ok := pa.kw["layers"]; ok {
			if layers, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sweep: layers: %w", err)
			}
		}

		counts, err := slice.Sweep(b, float32(from), float32(step), layers)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sweep: %w", err)
		}
		vals := make([]zygo.Sexp, len(counts))
		for i, c := range counts {
			vals[i] = &zygo.SexpInt{Val: int64(c)}
		}
		return &zygo.SexpArray{Val: vals}, nil
	})

	// -----------------------------------------------------------------------
	// (stress :iterations 1000) -> total cycle count after the run
	// -----------------------------------------------------------------------
	env.AddFunction("stress", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		iterations := 0
		if v, ok := pa.kw["iterations"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("stress: iterations: %w", err)
			}
			iterations = n
		}

		if err := eng.RunStressTest(iterations); err != nil {
			return zygo.SexpNull, fmt.Errorf("stress: %w", err)
		}
		return &zygo.SexpInt{Val: int64(eng.CycleCount())}, nil
	})

	// -----------------------------------------------------------------------
	// (unsafe-stress :iterations 1000 :reverse true)
	// A single script evaluation runs on one goroutine, so this cannot
	// self-deadlock; opposed directions need concurrent engine callers.
	// -----------------------------------------------------------------------
	env.AddFunction("unsafe_stress", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		iterations := 0
		if v, ok := pa.kw["iterations"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("unsafe-stress: iterations: %w", err)
			}
			iterations = n
		}
		reverse := false
		if v, ok := pa.kw["reverse"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("unsafe-stress: reverse: %w", err)
			}
			reverse = b
		}

		if err := eng.RunUnsafeStressTest(iterations, reverse); err != nil {
			return zygo.SexpNull, fmt.Errorf("unsafe-stress: %w", err)
		}
		return &zygo.SexpInt{Val: int64(eng.CycleCount())}, nil
	})
}
