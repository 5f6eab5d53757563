package analyzer

import (
	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// DecisionKind tags the outcome of the coercion rule engine for one
// (expression, slot) pair.
type DecisionKind int

const (
	// DecisionNotApplicable: ordinary assignment, nothing to rewrite. Also
	// the answer for already-rewritten synthetic nodes, so re-running the
	// pass never coerces twice.
	DecisionNotApplicable DecisionKind = iota
	// DecisionApplied: the expression is rewritten to an extraction call
	// whose static type matches the slot exactly.
	DecisionApplied
	// DecisionRejected: the bridge was considered and refused. The site
	// still fails its ordinary type check independently.
	DecisionRejected
)

// Decision is the coercion verdict, a closed tagged variant. The declared
// type of the slot is never touched; only the populating expression moves.
type Decision struct {
	Kind      DecisionKind
	Rewritten ast.Expression            // set when Applied
	Reason    typesystem.MismatchReason // set when Rejected
}

// decide runs the coercion rule for one expression against one expected
// type slot. Pure and total: no symbol table, no state, no suspension.
//
// Applied iff the slot is exactly T? and the expression's static type is
// exactly Opt<T> for the same T. Element types that differ in any way,
// including sub/supertype pairs, are Rejected: subtype-driven coercion is
// out of scope. Nullable-into-wrapper is Rejected as wrong direction.
// Everything else, including already-equal types, is NotApplicable.
func decide(expr ast.Expression, slot typesystem.Type) Decision {
	if expr == nil || slot == nil {
		return Decision{Kind: DecisionNotApplicable}
	}
	if mc, ok := expr.(*ast.MethodCall); ok && mc.Synthetic {
		return Decision{Kind: DecisionNotApplicable}
	}

	res := typesystem.Bridge(expr.StaticType(), slot)
	switch res.Kind {
	case typesystem.BridgeIdentical:
		return Decision{Kind: DecisionNotApplicable}
	case typesystem.BridgeApplicable:
		return Decision{Kind: DecisionApplied, Rewritten: ast.ExtractOrNull(expr)}
	default:
		switch res.Reason {
		case typesystem.ReasonElemMismatch, typesystem.ReasonWrongDirection:
			return Decision{Kind: DecisionRejected, Reason: res.Reason}
		default:
			// Unrelated types: the plain type error says it all, the
			// bridge was never in play.
			return Decision{Kind: DecisionNotApplicable}
		}
	}
}

// redundantExtract reports whether expr is a manual getOrNull() call whose
// receiver the bridge would have coerced into the slot anyway. Synthetic
// nodes never count.
func redundantExtract(expr ast.Expression, slot typesystem.Type) bool {
	mc, ok := expr.(*ast.MethodCall)
	if !ok || mc.Synthetic || !mc.IsExtractOrNull() {
		return false
	}
	return typesystem.Bridge(mc.Receiver.StaticType(), slot).Kind == typesystem.BridgeApplicable
}
