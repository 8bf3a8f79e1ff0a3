package batch

import "strings"

// Environment resolves %NAME% references during substitution.
type Environment interface {
	// Lookup returns the value of the named variable. Names are compared
	// case-insensitively by convention.
	Lookup(name string) (string, bool)
}

// EmptyEnvironment has no variables.
type EmptyEnvironment struct{}

var _ Environment = EmptyEnvironment{}

// Lookup implements Environment.Lookup.
func (EmptyEnvironment) Lookup(string) (string, bool) {
	return "", false
}

// MapEnvironment is a fixed environment, mostly useful for tests.
type MapEnvironment map[string]string

var _ Environment = MapEnvironment(nil)

// Lookup implements Environment.Lookup.
func (m MapEnvironment) Lookup(name string) (string, bool) {
	if val, ok := m[name]; ok {
		return val, true
	}
	for k, v := range m {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
