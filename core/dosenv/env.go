// Package dosenv holds the DOS environment block.
package dosenv

import (
	"fmt"
	"strings"
	"sync"
)

// VEnv represents a DOS environment.
type VEnv interface {
	// Unsetenv unsets a single environment variable.
	Unsetenv(key string) error

	// Setenv sets the value of the environment variable named by the key. An
	// empty value removes the variable, as SET NAME= does in DOS.
	Setenv(key, value string) error

	// LookupEnv retrieves the value of the environment variable named by the key.
	// If the variable is present in the environment the value is returned and
	// the boolean is true. Otherwise the returned value will be empty and the
	// boolean will be false.
	LookupEnv(key string) (string, bool)

	// Getenv retrieves the value of the environment variable named by the key.
	// It returns the value, which will be empty if the variable is not present.
	Getenv(key string) string

	// Environ returns a copy of strings representing the environment, in the
	// form "KEY=value", in the order the variables were first set.
	Environ() []string

	// Clearenv deletes all environment variables.
	Clearenv()
}

type EnvironFetcher interface {
	// Environ returns a copy of strings representing the environment, in the
	// form "key=value".
	Environ() []string
}

func splitEntry(e string) (key, value string) {
	key, value, _ = strings.Cut(e, "=")
	return key, value
}

// CopyEnv copies all the environment variables from src to dst.
func CopyEnv(dst VEnv, src EnvironFetcher) error {
	for _, e := range src.Environ() {
		key, value := splitEntry(e)
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}

// NewEnv creates a new, empty environment.
func NewEnv() *Env {
	return &Env{}
}

// NewEnvFromList creates an environment from "KEY=value" entries. Entries
// without a value are skipped because DOS can't hold empty variables.
func NewEnvFromList(environ []string) *Env {
	out := &Env{}

	for _, e := range environ {
		key, value := splitEntry(e)
		// Ignore error, it will never be set for Env.
		_ = out.Setenv(key, value)
	}

	return out
}

// Env is an in-memory, ordered DOS environment. Keys are stored upper-cased.
type Env struct {
	rw    sync.RWMutex
	keys  []string
	value map[string]string
}

var _ VEnv = (*Env)(nil)

func normalize(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Unsetenv implements VEnv.Unsetenv.
func (e *Env) Unsetenv(key string) error {
	key = normalize(key)

	e.rw.Lock()
	defer e.rw.Unlock()

	if _, ok := e.value[key]; !ok {
		return nil
	}
	delete(e.value, key)
	for i, k := range e.keys {
		if k == key {
			e.keys = append(e.keys[:i], e.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Setenv implements VEnv.Setenv.
func (e *Env) Setenv(key, value string) error {
	key = normalize(key)
	if key == "" {
		return fmt.Errorf("invalid environment variable name %q", key)
	}
	if value == "" {
		return e.Unsetenv(key)
	}

	e.rw.Lock()
	defer e.rw.Unlock()

	if e.value == nil {
		e.value = make(map[string]string)
	}
	if _, ok := e.value[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.value[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (e *Env) LookupEnv(key string) (string, bool) {
	e.rw.RLock()
	defer e.rw.RUnlock()

	val, ok := e.value[normalize(key)]
	return val, ok
}

// Lookup resolves %NAME% references for the batch processor.
func (e *Env) Lookup(name string) (string, bool) {
	return e.LookupEnv(name)
}

// Getenv implements VEnv.Getenv.
func (e *Env) Getenv(key string) string {
	val, _ := e.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ.
func (e *Env) Environ() []string {
	e.rw.RLock()
	defer e.rw.RUnlock()

	env := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		env = append(env, fmt.Sprintf("%s=%s", k, e.value[k]))
	}

	return env
}

// Clearenv implements VEnv.Clearenv.
func (e *Env) Clearenv() {
	e.rw.Lock()
	defer e.rw.Unlock()
	e.keys = nil
	e.value = make(map[string]string)
}
