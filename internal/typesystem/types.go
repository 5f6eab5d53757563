package typesystem

import (
	"fmt"
	"strings"

	"github.com/mavelang/optbridge/internal/config"
)

// Type is the interface for all types in our system. Descriptors are
// immutable value types produced upstream by inference; the bridge checker
// only compares and prints them.
type Type interface {
	String() string
	Equal(other Type) bool
}

// TCon represents a type constant (e.g. Int, String, User).
type TCon struct {
	Name   string
	Module string // Optional module path for imported types
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Equal(other Type) bool {
	o, ok := other.(TCon)
	return ok && o.Name == t.Name && o.Module == t.Module
}

// TApp represents a generic instantiation (e.g. List<Int>, Map<String, Int>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Equal(other Type) bool {
	o, ok := other.(TApp)
	if !ok || len(o.Args) != len(t.Args) || !t.Constructor.Equal(o.Constructor) {
		return false
	}
	for i, arg := range t.Args {
		if !arg.Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// TNullable represents the native nullable type T?.
// Elem is never itself a TNullable: use Nullable to construct.
type TNullable struct {
	Elem Type
}

func (t TNullable) String() string {
	// Function elements need parentheses: ((Int) -> Int)? vs (Int) -> Int?
	if _, ok := t.Elem.(TFunc); ok {
		return fmt.Sprintf("(%s)?", t.Elem.String())
	}
	return t.Elem.String() + "?"
}

func (t TNullable) Equal(other Type) bool {
	o, ok := other.(TNullable)
	return ok && t.Elem.Equal(o.Elem)
}

// Nullable wraps t into the native nullable type, flattening T?? into T?.
func Nullable(t Type) TNullable {
	for {
		inner, ok := t.(TNullable)
		if !ok {
			return TNullable{Elem: t}
		}
		t = inner.Elem
	}
}

// TOptional represents the foreign optional-wrapper type Opt<T>.
// It is nominally distinct from TNullable and never related to it in the
// subtype lattice; the bridge between the two is a position-gated rewrite,
// not a subtyping rule.
type TOptional struct {
	Elem Type
}

func (t TOptional) String() string {
	return fmt.Sprintf("%s<%s>", config.OptionalTypeName, t.Elem.String())
}

func (t TOptional) Equal(other Type) bool {
	o, ok := other.(TOptional)
	return ok && t.Elem.Equal(o.Elem)
}

// TFunc represents a callable signature (e.g. (Int, String?) -> Nil).
// Overload sets are lists of TFunc under one name.
type TFunc struct {
	Params     []Type
	ReturnType Type
	IsVariadic bool
}

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	if t.IsVariadic && len(params) > 0 {
		params[len(params)-1] = "..." + params[len(params)-1]
	}
	ret := "Nil"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), ret)
}

func (t TFunc) Equal(other Type) bool {
	o, ok := other.(TFunc)
	if !ok || len(o.Params) != len(t.Params) || o.IsVariadic != t.IsVariadic {
		return false
	}
	for i, p := range t.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}
	if t.ReturnType == nil || o.ReturnType == nil {
		return t.ReturnType == nil && o.ReturnType == nil
	}
	return t.ReturnType.Equal(o.ReturnType)
}
