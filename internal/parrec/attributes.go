package parrec

// Attributes maps semantic keys to values extracted from a parameter file.
// Value types are string, float64, int, []float64, or []int. A key absent
// from the map means the source file did not carry the field.
type Attributes map[string]any

// String returns the string value for key, if present and string-typed.
func (a Attributes) String(key string) (string, bool) {
	value, ok := a[key].(string)
	return value, ok
}

// Float returns the float value for key, accepting int-typed values too.
func (a Attributes) Float(key string) (float64, bool) {
	switch value := a[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	default:
		return 0, false
	}
}

// Int returns the int value for key, if present and int-typed.
func (a Attributes) Int(key string) (int, bool) {
	value, ok := a[key].(int)
	return value, ok
}

// Floats returns the float-sequence value for key.
func (a Attributes) Floats(key string) ([]float64, bool) {
	value, ok := a[key].([]float64)
	return value, ok
}

// Ints returns the int-sequence value for key.
func (a Attributes) Ints(key string) ([]int, bool) {
	value, ok := a[key].([]int)
	return value, ok
}

// Has reports whether key is present.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}
