// Package symbols holds the per-unit symbol information the bridge checker
// consumes: variable types, function overload sets and the declared nominal
// subtype hierarchy. All of it is produced upstream; the checker only reads.
package symbols

import (
	"github.com/mavelang/optbridge/internal/typesystem"
)

// SymbolTable is the per-compilation-unit symbol environment. Not shared
// across units: independent units may be analyzed in parallel by the
// surrounding driver without locking.
type SymbolTable struct {
	vars      map[string]typesystem.Type
	overloads map[string][]FuncSig
	// supertypes maps a nominal type name to its declared direct supertype.
	// Single inheritance; chains are walked transitively.
	supertypes map[string]string
}

// FuncSig is one declared overload: its type plus parameter names for
// named-argument binding. ParamNames may be empty, which disables named
// binding for that overload.
type FuncSig struct {
	Type       typesystem.TFunc
	ParamNames []string
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:       make(map[string]typesystem.Type),
		overloads:  make(map[string][]FuncSig),
		supertypes: make(map[string]string),
	}
}

// Define records a variable with its declared type.
func (s *SymbolTable) Define(name string, t typesystem.Type) {
	s.vars[name] = t
}

// Resolve returns the declared type of a variable.
func (s *SymbolTable) Resolve(name string) (typesystem.Type, bool) {
	t, ok := s.vars[name]
	return t, ok
}

// DefineFunction appends a signature to the overload set of name.
// Declaration order is preserved but never influences resolution.
func (s *SymbolTable) DefineFunction(name string, sig FuncSig) {
	s.overloads[name] = append(s.overloads[name], sig)
}

// Overloads returns the overload set declared under name.
func (s *SymbolTable) Overloads(name string) []FuncSig {
	return s.overloads[name]
}

// DeclareSupertype records that child is a direct nominal subtype of parent.
func (s *SymbolTable) DeclareSupertype(child, parent string) {
	s.supertypes[child] = parent
}

// IsSubtype reports whether sub is a strict nominal subtype of super,
// walking the declared chain transitively. The optional/nullable bridge
// never consults this: it exists only to phrase rejection notes.
func (s *SymbolTable) IsSubtype(sub, super typesystem.Type) bool {
	subCon, ok := sub.(typesystem.TCon)
	if !ok {
		return false
	}
	superCon, ok := super.(typesystem.TCon)
	if !ok {
		return false
	}
	seen := make(map[string]bool)
	name := subCon.Name
	for {
		parent, ok := s.supertypes[name]
		if !ok || seen[name] {
			return false
		}
		if parent == superCon.Name {
			return true
		}
		seen[name] = true
		name = parent
	}
}

// RelatedBySubtyping reports whether a and b are related in either
// direction of the declared hierarchy.
func (s *SymbolTable) RelatedBySubtyping(a, b typesystem.Type) bool {
	return s.IsSubtype(a, b) || s.IsSubtype(b, a)
}
