package typesystem

// The bridge rule decides whether a value of a foreign Opt<T> type may
// populate a native T? slot. It is the pure, type-level half of the
// coercion: no nodes, no symbol tables, no state. The syntactic half
// (synthesizing the extraction call) lives in the analyzer.
//
// Opt<T> and T? stay unrelated in the subtype lattice. Making the wrapper
// a subtype of the nullable would force per-instantiation specialization
// of generic code and break binary compatibility, so the relation is never
// consulted here; the bridge requires the element types to unify exactly.

// BridgeKind classifies the outcome of the type-level bridge check.
type BridgeKind int

const (
	// BridgeIdentical: source and slot types already match; ordinary
	// assignment, nothing to rewrite.
	BridgeIdentical BridgeKind = iota
	// BridgeApplicable: source is Opt<T> and slot is T? for the same T;
	// an extraction call makes the types match exactly.
	BridgeApplicable
	// BridgeMismatch: the types do not align even with the bridge.
	BridgeMismatch
)

// MismatchReason explains a BridgeMismatch. Diagnostics use it to tell the
// user why the implicit conversion did not fire.
type MismatchReason int

const (
	ReasonNone MismatchReason = iota
	// ReasonElemMismatch: Opt<U> offered to a T? slot with U != T.
	// Sub/supertype relations between U and T deliberately do not help.
	ReasonElemMismatch
	// ReasonWrongDirection: a T? value offered to an Opt<T> slot. Wrapping
	// a nullable into the foreign container is not supported.
	ReasonWrongDirection
	// ReasonSlotNotNullable: the slot is not a nullable type, so no bridge
	// position exists.
	ReasonSlotNotNullable
	// ReasonSourceNotOptional: the source is not an Opt<...> value.
	ReasonSourceNotOptional
)

func (r MismatchReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonElemMismatch:
		return "type parameter mismatch"
	case ReasonWrongDirection:
		return "wrong direction"
	case ReasonSlotNotNullable:
		return "slot is not nullable"
	case ReasonSourceNotOptional:
		return "source is not an optional wrapper"
	default:
		return "unknown"
	}
}

// BridgeResult is the outcome of Bridge. Represented as a tagged value, not
// an interface hierarchy: the decision space is closed and exhaustive
// switches keep the rule table auditable in one place.
type BridgeResult struct {
	Kind   BridgeKind
	Reason MismatchReason
}

// Bridge checks whether src may populate a slot of the given type, either
// directly (BridgeIdentical) or through the optional-to-nullable extraction
// (BridgeApplicable). The element types must be equal: generic parameters
// unify exactly, with no widening and no variance. Pure and total.
func Bridge(src, slot Type) BridgeResult {
	if src == nil || slot == nil {
		return BridgeResult{Kind: BridgeMismatch, Reason: ReasonNone}
	}

	if src.Equal(slot) {
		return BridgeResult{Kind: BridgeIdentical}
	}

	if slotNullable, ok := slot.(TNullable); ok {
		if srcOptional, ok := src.(TOptional); ok {
			if srcOptional.Elem.Equal(slotNullable.Elem) {
				return BridgeResult{Kind: BridgeApplicable}
			}
			return BridgeResult{Kind: BridgeMismatch, Reason: ReasonElemMismatch}
		}
		return BridgeResult{Kind: BridgeMismatch, Reason: ReasonSourceNotOptional}
	}

	if _, ok := slot.(TOptional); ok {
		// T? into an Opt<T> slot: the bridge is one-way. Opt<U> into Opt<T>
		// is a plain mismatch, no bridge involvement.
		if _, ok := src.(TNullable); ok {
			return BridgeResult{Kind: BridgeMismatch, Reason: ReasonWrongDirection}
		}
		return BridgeResult{Kind: BridgeMismatch, Reason: ReasonNone}
	}

	return BridgeResult{Kind: BridgeMismatch, Reason: ReasonSlotNotNullable}
}
