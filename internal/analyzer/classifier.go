package analyzer

import (
	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/token"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// SiteContext names the syntactic position of a coercion-eligible site.
type SiteContext int

const (
	ContextDeclaration SiteContext = iota
	ContextAssignment
	ContextArgument
)

func (c SiteContext) String() string {
	switch c {
	case ContextDeclaration:
		return "declaration"
	case ContextAssignment:
		return "assignment"
	case ContextArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// Site is one (expression, expected-type slot) pair the rule engine will
// look at. Classification performs no mutation.
type Site struct {
	Expr    ast.Expression
	Slot    typesystem.Type
	Context SiteContext
	Tok     token.Token
}

// classifySites returns the coercion-eligible sites of one statement.
// Exactly two statement shapes qualify:
//
//   - a declaration with an explicit type annotation and an initializer;
//   - a simple assignment whose left-hand side is a typed slot.
//
// Call arguments, the third eligible shape, are classified inside overload
// resolution after arity/name matching, because their slots depend on the
// selected candidate. Compound assignments and destructurings pass through
// with no sites and no diagnostic.
//
// A slot qualifies when its declared type is nullable, or when it is an
// optional wrapper; the latter only so the engine can report the
// wrong-direction rejection.
func classifySites(stmt ast.Statement) []Site {
	switch s := stmt.(type) {
	case *ast.VarDeclaration:
		if s.Init == nil || !eligibleSlot(s.DeclaredType) {
			return nil
		}
		return []Site{{Expr: s.Init, Slot: s.DeclaredType, Context: ContextDeclaration, Tok: s.GetToken()}}

	case *ast.AssignStatement:
		if s.Target == nil || s.Value == nil || !eligibleSlot(s.Target.StaticType()) {
			return nil
		}
		return []Site{{Expr: s.Value, Slot: s.Target.StaticType(), Context: ContextAssignment, Tok: s.GetToken()}}

	default:
		// CompoundAssignStatement, DestructuringDeclaration, ExprStatement:
		// not eligible shapes.
		return nil
	}
}

func eligibleSlot(t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.TNullable, typesystem.TOptional:
		return true
	default:
		return false
	}
}
