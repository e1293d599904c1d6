// Package typ builds composable runtime type assertions for untrusted JSON.
//
// An Assert narrows a dynamically typed value, as produced by decoding JSON
// into an any, to a statically known Go type. Assertions compose: Array and
// Object apply inner assertions to elements and fields, and when one of those
// fails the enclosing combinator prefixes the failing index or field name, so
// the final error names the exact leaf that did not match.
package typ

import (
	"fmt"
	"math"
	"slices"

	json "github.com/goccy/go-json"
)

// Assert checks v and returns it narrowed to T, or a *Error describing the
// mismatch. Asserts are stateless and safe to share between goroutines.
type Assert[T any] func(v any) (T, error)

type absent struct{}

func (absent) String() string { return "undefined" }

// Absent is the value Object hands to a field's assertion when the key is not
// present in the input. It is distinct from nil, which is what JSON null
// decodes to.
var Absent any = absent{}

// String accepts string values.
func String() Assert[string] {
	return func(v any) (string, error) {
		s, ok := v.(string)
		if !ok {
			return "", mismatch("string", v)
		}
		return s, nil
	}
}

// Number accepts any numeric value. There is no finiteness check, so NaN and
// the infinities pass.
func Number() Assert[float64] {
	return func(v any) (float64, error) {
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int8:
			return float64(n), nil
		case int16:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint:
			return float64(n), nil
		case uint8:
			return float64(n), nil
		case uint16:
			return float64(n), nil
		case uint32:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case uintptr:
			return float64(n), nil
		}
		return 0, mismatch("number", v)
	}
}

// Integer accepts numbers with no fractional part that lie in [lo, hi].
func Integer(lo, hi int64) Assert[int64] {
	number := Number()
	return func(v any) (int64, error) {
		n, err := number(v)
		if err != nil {
			return 0, mismatch("integer", v)
		}
		if math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, mismatch("integer", v)
		}
		if n < float64(lo) || n > float64(hi) {
			return 0, newError(fmt.Sprintf("Expected integer in [%d, %d], got %s", lo, hi, render(v)))
		}
		return int64(n), nil
	}
}

// Boolean accepts true and false.
func Boolean() Assert[bool] {
	return func(v any) (bool, error) {
		b, ok := v.(bool)
		if !ok {
			return false, mismatch("boolean", v)
		}
		return b, nil
	}
}

// AnyOf accepts exactly the given literal values. Matching is by dynamic type
// and value, so the string "1" never matches the number 1.
func AnyOf[T comparable](values ...T) Assert[T] {
	return func(v any) (T, error) {
		t, ok := v.(T)
		if ok && slices.Contains(values, t) {
			return t, nil
		}
		var zero T
		return zero, newError(fmt.Sprintf("Expected oneof %s, got %s", render(values), render(v)))
	}
}

// Array accepts a JSON array and applies inner to every element in order.
// The first failing element aborts the check and is reported as [i].
func Array[T any](inner Assert[T]) Assert[[]T] {
	return func(v any) ([]T, error) {
		elems, ok := v.([]any)
		if !ok {
			return nil, mismatch("array", v)
		}
		out := make([]T, 0, len(elems))
		for i, el := range elems {
			t, err := inner(el)
			if err != nil {
				return nil, chain(err, fmt.Sprintf("[%d]", i))
			}
			out = append(out, t)
		}
		return out, nil
	}
}

// Optional accepts Absent, returning nil, and hands every other value,
// including nil, to inner. The pointer result is what marks a field as
// optional in the narrowed type.
func Optional[T any](inner Assert[T]) Assert[*T] {
	return func(v any) (*T, error) {
		if v == Absent {
			return nil, nil
		}
		t, err := inner(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

// Trust performs no check at all. It is only meant for values this process
// built itself, where the Go type system already guarantees the shape.
func Trust[T any]() Assert[T] {
	return func(v any) (T, error) {
		t, _ := v.(T)
		return t, nil
	}
}

func mismatch(expected string, got any) *Error {
	return newError(fmt.Sprintf("Expected %s, got %s", expected, render(got)))
}

// render JSON-encodes v for use inside an error message.
func render(v any) string {
	if v == Absent {
		return "undefined"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
