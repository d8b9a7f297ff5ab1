package registry

// Args is a validated, coerced argument mapping. Accessors assume
// validation has already established the declared types; absent optional
// fields yield zero values.
type Args map[string]any

// String returns a string field.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Int returns an integer field.
func (a Args) Int(name string) int64 {
	n, _ := toInt64(a[name])
	return n
}

// Bool returns a boolean field.
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Strings returns a string-array field.
func (a Args) Strings(name string) []string {
	switch v := a[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Map returns an object field.
func (a Args) Map(name string) map[string]any {
	m, _ := a[name].(map[string]any)
	return m
}

// Has reports whether the field was supplied (or defaulted).
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
