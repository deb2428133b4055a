package registry

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// TypeKey identifies a runtime type by its fully qualified name. Two keys are
// equal iff they were derived from the same type. Types declared inside
// functions can share a qualified name with another type of the same
// package; the second and later such types seen by the process get a "#N"
// suffix so their keys stay distinct. The zero TypeKey is invalid.
type TypeKey struct {
	name string
}

// String returns the fully qualified type name, e.g. "*example.com/pkg.Foo".
func (k TypeKey) String() string { return k.name }

// IsZero reports whether the key was never derived.
func (k TypeKey) IsZero() bool { return k.name == "" }

// KeyOf derives the key of the dynamic type of v.
func KeyOf(v any) (TypeKey, error) {
	if v == nil {
		return TypeKey{}, invalidArgument("instance", "nil has no type")
	}
	return KeyForType(reflect.TypeOf(v))
}

// KeyFor derives the key of the static type T. Interface types are allowed
// but no instance is ever registered under them, since instances are keyed by
// their dynamic type.
func KeyFor[T any]() (TypeKey, error) {
	return KeyForType(reflect.TypeOf((*T)(nil)).Elem())
}

// KeyForType derives the key for t. Unnamed composite types (struct literals,
// func signatures, slices of named types...) have no stable name and fail
// with ErrInvalidArgument.
func KeyForType(t reflect.Type) (TypeKey, error) {
	name, ok := typeName(t)
	if !ok {
		what := "<nil>"
		if t != nil {
			what = t.String()
		}
		return TypeKey{}, invalidArgument("type", "no fully qualified name for "+what)
	}
	return TypeKey{name: name}, nil
}

// ParseTypeKey rebuilds a key from its String form. Only emptiness is
// checked; a key that names no registered type simply matches nothing.
func ParseTypeKey(name string) (TypeKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TypeKey{}, invalidArgument("type", "empty type name")
	}
	return TypeKey{name: name}, nil
}

// typeNames maps each reflect.Type to its key text. taken counts how many
// distinct named types claimed each qualified name.
var typeNames struct {
	byType sync.Map // reflect.Type -> string
	mu     sync.Mutex
	taken  map[string]int
}

func typeName(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	if v, ok := typeNames.byType.Load(t); ok {
		return v.(string), true
	}
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		elem, ok := typeName(t.Elem())
		if !ok {
			return "", false
		}
		name := "*" + elem
		typeNames.byType.Store(t, name)
		return name, true
	}
	base, ok := qualifiedName(t)
	if !ok {
		return "", false
	}

	typeNames.mu.Lock()
	defer typeNames.mu.Unlock()
	if v, ok := typeNames.byType.Load(t); ok {
		return v.(string), true
	}
	if typeNames.taken == nil {
		typeNames.taken = make(map[string]int)
	}
	n := typeNames.taken[base] + 1
	typeNames.taken[base] = n
	name := base
	if n > 1 {
		name = base + "#" + strconv.Itoa(n)
	}
	typeNames.byType.Store(t, name)
	return name, true
}

func qualifiedName(t reflect.Type) (string, bool) {
	if t.Name() == "" {
		return "", false
	}
	if t.PkgPath() == "" {
		// predeclared: int, string, error...
		return t.Name(), true
	}
	return t.PkgPath() + "." + t.Name(), true
}
