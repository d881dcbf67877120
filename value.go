package arbor

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Descriptor wraps a property value whose payload lives one level down, the
// typed form of a {value: v} record.
type Descriptor struct {
	Value any
}

// Default transition parameters.
const (
	DefaultTransitionDuration = 300 // milliseconds
	DefaultTransitionEasing   = "ease"
)

// Transition asks for a property change to be animated rather than applied
// at once. Duration and Delay are in milliseconds. A zero Duration uses the
// element's default unless it was given explicitly, through WithDuration or a
// record's duration field. An empty Function uses the default easing.
type Transition struct {
	Value    any
	Duration float64
	Function string
	Delay    float64

	durationSet bool
}

// WithDuration returns t with an explicit duration, so that 0 means an
// immediate animation instead of the default.
func (t Transition) WithDuration(ms float64) Transition {
	t.Duration = ms
	t.durationSet = true
	return t
}

// hasDuration reports whether t carries a duration of its own.
func (t Transition) hasDuration() bool {
	return t.durationSet || t.Duration != 0
}

// Unwrap resolves the payload of a property value.
//
// Descriptor and Transition yield their Value. A Props record yields its
// "value" entry when present and otherwise unwraps its last key's value; an
// empty record yields nil. A map[string]any behaves the same except that,
// having no key order, it only recurses when it holds exactly one key. Any
// other value is returned unchanged.
func Unwrap(v any) any {
	switch x := v.(type) {
	case Descriptor:
		return x.Value
	case *Descriptor:
		return x.Value
	case Transition:
		return x.Value
	case *Transition:
		return x.Value
	case Props:
		if inner, ok := x.Get("value"); ok {
			return inner
		}
		_, last, ok := x.Last()
		if !ok {
			return nil
		}
		return Unwrap(last)
	case map[string]any:
		if inner, ok := x["value"]; ok {
			return inner
		}
		if len(x) == 1 {
			for _, inner := range x {
				return Unwrap(inner)
			}
		}
		return v
	default:
		return v
	}
}

// transitionOf reports whether v is transition-shaped: a Transition, or a
// record holding a "transition" key.
func transitionOf(v any) (Transition, bool) {
	switch x := v.(type) {
	case Transition:
		return x, true
	case *Transition:
		return *x, true
	case Props:
		if inner, ok := x.Get("transition"); ok {
			return toTransition(inner), true
		}
	case map[string]any:
		if inner, ok := x["transition"]; ok {
			return toTransition(inner), true
		}
	}
	return Transition{}, false
}

// toTransition reads a transition descriptor. Records contribute their
// duration, function and delay fields; the target is the record unwrapped.
// Anything else is a bare target value.
func toTransition(v any) Transition {
	var fields func(string) (any, bool)
	switch x := v.(type) {
	case Transition:
		return x
	case *Transition:
		return *x
	case Props:
		fields = x.Get
	case map[string]any:
		fields = func(k string) (any, bool) { val, ok := x[k]; return val, ok }
	default:
		return Transition{Value: v}
	}

	t := Transition{Value: Unwrap(v)}
	if d, ok := fields("duration"); ok {
		ms, _ := toFloat(d)
		t = t.WithDuration(ms)
	}
	if fn, ok := fields("function"); ok {
		t.Function = fmt.Sprint(fn)
	}
	if d, ok := fields("delay"); ok {
		t.Delay, _ = toFloat(d)
	}
	return t
}

// toFloat converts numeric kinds and numeric strings to float64. Booleans
// and nil are not numbers here.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil, bool:
		return 0, fmt.Errorf("%w: %T is not a number", ErrInvalidValue, v)
	case string:
		v = strings.TrimSpace(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return f, nil
}

// isNumber reports whether v has a Go numeric type.
func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// valuesEqual compares property values. Numbers compare by value across
// numeric types, nodes by identity, everything else by deep equality.
func valuesEqual(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	}
	if na, ok := a.(RenderNode); ok {
		nb, ok := b.(RenderNode)
		return ok && na == nb
	}
	return reflect.DeepEqual(a, b)
}

// toBool interprets v as a truth value. Numbers are true when non-zero,
// strings when they parse as true, and nil is false.
func toBool(v any) bool {
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// falsy reports whether v is an absent or zero-like identifier: nil, false,
// the empty string, or a numeric zero.
func falsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	}
	if isNumber(v) {
		f, _ := toFloat(v)
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// toText renders v as text. Whole floats print without a fraction.
func toText(v any) string {
	if x, ok := v.(fmt.Stringer); ok {
		return x.String()
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
