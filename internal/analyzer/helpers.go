package analyzer

import (
	"fmt"
	"strings"

	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// assignable implements the host language's ordinary assignment
// compatibility, the baseline the bridge never overrides: exact equality,
// nil into any nullable slot, T into T?, and declared nominal subtyping
// (Dog into Animal, Dog into Animal?). The optional wrapper participates
// in none of these beyond exact equality.
func (w *walker) assignable(src, slot typesystem.Type) bool {
	if src == nil || slot == nil {
		return false
	}
	if src.Equal(slot) {
		return true
	}
	if w.table.IsSubtype(src, slot) {
		return true
	}
	if slotN, ok := slot.(typesystem.TNullable); ok {
		if isNilType(src) {
			return true
		}
		if src.Equal(slotN.Elem) || w.table.IsSubtype(src, slotN.Elem) {
			return true
		}
		if srcN, ok := src.(typesystem.TNullable); ok {
			return srcN.Elem.Equal(slotN.Elem)
		}
	}
	return false
}

func isNilType(t typesystem.Type) bool {
	con, ok := t.(typesystem.TCon)
	return ok && con.Name == config.NilTypeName
}

// mismatchDetail phrases a rejection reason, pointing out a declared
// subtype relation between the element types when one exists: that is the
// case users most expect to work.
func (w *walker) mismatchDetail(src, slot typesystem.Type, reason typesystem.MismatchReason) string {
	if reason == typesystem.ReasonElemMismatch {
		srcOpt, okSrc := src.(typesystem.TOptional)
		slotN, okSlot := slot.(typesystem.TNullable)
		if okSrc && okSlot && w.table.RelatedBySubtyping(srcOpt.Elem, slotN.Elem) {
			return fmt.Sprintf("%s (%s and %s are related by subtyping, but bridging requires the exact same type argument)",
				reason, srcOpt.Elem, slotN.Elem)
		}
	}
	return reason.String()
}

func typeList(types []typesystem.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		if t == nil {
			parts[i] = "<unknown>"
		} else {
			parts[i] = t.String()
		}
	}
	return strings.Join(parts, ", ")
}

func signatureList(sigs []typesystem.TFunc) string {
	parts := make([]string, len(sigs))
	for i, s := range sigs {
		parts[i] = s.String()
	}
	return strings.Join(parts, "; ")
}
