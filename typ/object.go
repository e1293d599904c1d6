package typ

// Field binds one key of an object to an assertion and to the place in S the
// narrowed value is stored. Build them with Key.
type Field[S any] struct {
	name   string
	assign func(dst *S, v any) error
}

// Name returns the key this field reads.
func (f Field[S]) Name() string { return f.name }

// Key declares a field of S. The value under name is checked with a and, on
// success, handed to set. Wrap a in Optional to allow the key to be missing.
func Key[S, T any](name string, a Assert[T], set func(dst *S, v T)) Field[S] {
	return Field[S]{
		name: name,
		assign: func(dst *S, v any) error {
			t, err := a(v)
			if err != nil {
				return err
			}
			set(dst, t)
			return nil
		},
	}
}

// Object accepts a non-null JSON object and checks fields in the order given.
// Missing keys are passed to their assertion as Absent. Keys not declared are
// ignored. The first failing field aborts the check and is reported as
// .name.
func Object[S any](fields ...Field[S]) Assert[S] {
	return func(v any) (S, error) {
		var out S
		m, ok := v.(map[string]any)
		if !ok {
			return out, mismatch("object", v)
		}
		for _, f := range fields {
			raw, present := m[f.name]
			if !present {
				raw = Absent
			}
			if err := f.assign(&out, raw); err != nil {
				var zero S
				return zero, chain(err, "."+f.name)
			}
		}
		return out, nil
	}
}
