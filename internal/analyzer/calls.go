package analyzer

import (
	"fmt"
	"sort"

	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/diagnostics"
	"github.com/mavelang/optbridge/internal/symbols"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// Candidate is one overload considered for a call site, with the
// per-argument verdicts that made it viable.
type Candidate struct {
	// Index is the declaration position of the overload. Kept for
	// deterministic output only; it never influences ranking.
	Index int
	Sig   symbols.FuncSig
	// Slots holds the expected type of each actual argument after
	// arity/name matching.
	Slots []typesystem.Type
	// Direct flags the arguments compatible without any conversion.
	Direct []bool
	// ViaCoercion flags the arguments reachable only through the bridge.
	ViaCoercion []bool
	// Decisions holds the rule engine verdict for each non-direct argument.
	Decisions []Decision
	// Coerced is the number of bridged arguments.
	Coerced int
}

// TieBreaker is the host language's existing disambiguation between
// several directly-viable overloads. It returns the index of the winner in
// cands, or -1 when the tie stands. The bridge layer never supplies one
// itself; it is injected by the surrounding compiler.
type TieBreaker func(cands []Candidate) int

// resolveCall extends ordinary overload resolution with the bridge tier.
//
// Tier 1 collects candidates viable without any coercion. A unique one
// wins; several go to the host tie-breaker and then fail as ambiguous. The
// bridge is never consulted to break a tier-1 tie, so introducing it
// cannot change the outcome of previously-valid calls.
//
// Tier 2 runs only when tier 1 is empty. Coercion-viable candidates are
// ordered by fewest bridged arguments, then by the per-position coercion
// flags (a non-bridged earlier position wins). A unique minimum is
// selected and its coercions applied; full ties fail naming every
// candidate; an empty tier fails as no-viable-overload.
func (w *walker) resolveCall(call *ast.CallExpression) bool {
	overloads := w.table.Overloads(call.Function)
	if len(overloads) == 0 {
		w.addError(diagnostics.NewError(diagnostics.ErrB004, call.GetToken(),
			fmt.Sprintf("unresolved call: no function named '%s'", call.Function)))
		return false
	}
	for _, arg := range call.Args {
		if arg.Value.StaticType() == nil {
			// A nested call already failed to resolve and reported itself.
			return false
		}
	}

	var direct, bridged []Candidate
	var rejected []Candidate
	for i, sig := range overloads {
		cand, ok := w.evaluateCandidate(call, i, sig)
		if !ok {
			continue
		}
		switch {
		case cand.Coerced == 0 && cand.viable():
			direct = append(direct, cand)
		case cand.viable():
			bridged = append(bridged, cand)
		default:
			rejected = append(rejected, cand)
		}
	}

	if len(direct) == 1 {
		w.selectCandidate(call, direct[0], false)
		return true
	}
	if len(direct) > 1 {
		if w.tieBreak != nil {
			if idx := w.tieBreak(direct); idx >= 0 && idx < len(direct) {
				w.selectCandidate(call, direct[idx], false)
				return true
			}
		}
		w.addError(diagnostics.NewError(diagnostics.ErrB002, call.GetToken(),
			fmt.Sprintf("ambiguous call to '%s': multiple overloads match without conversion: %s",
				call.Function, signatureList(candidateSigs(direct)))).
			WithTypes(candidateSigStrings(direct)...))
		return false
	}

	if len(bridged) > 0 {
		sort.SliceStable(bridged, func(i, j int) bool {
			return lessCoerced(bridged[i], bridged[j])
		})
		if len(bridged) == 1 || lessCoerced(bridged[0], bridged[1]) {
			w.selectCandidate(call, bridged[0], true)
			return true
		}
		w.addError(diagnostics.NewError(diagnostics.ErrB003, call.GetToken(),
			fmt.Sprintf("ambiguous call to '%s': overloads tie even through optional bridging: %s",
				call.Function, signatureList(candidateSigs(bridged)))).
			WithTypes(candidateSigStrings(bridged)...))
		return false
	}

	argTypes := make([]typesystem.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = arg.Value.StaticType()
	}
	w.addError(diagnostics.NewError(diagnostics.ErrB004, call.GetToken(),
		fmt.Sprintf("no viable overload for '%s(%s)'; declared: %s",
			call.Function, typeList(argTypes), signatureList(sigTypes(overloads)))).
		WithTypes(typeList(argTypes)))
	w.noteRejections(call, rejected)
	return false
}

// evaluateCandidate binds the call's arguments to one overload and runs
// the per-argument compatibility checks. ok is false when arity or named
// binding already fails.
func (w *walker) evaluateCandidate(call *ast.CallExpression, index int, sig symbols.FuncSig) (Candidate, bool) {
	slots, ok := bindArguments(call.Args, sig)
	if !ok {
		return Candidate{}, false
	}

	cand := Candidate{
		Index:       index,
		Sig:         sig,
		Slots:       slots,
		Direct:      make([]bool, len(call.Args)),
		ViaCoercion: make([]bool, len(call.Args)),
		Decisions:   make([]Decision, len(call.Args)),
	}
	for i, arg := range call.Args {
		if arg.Spread {
			// Spread slots are never bridge-eligible; the collection's own
			// compatibility is checked upstream. Passed through unchanged.
			cand.Direct[i] = true
			continue
		}
		if w.assignable(arg.Value.StaticType(), slots[i]) {
			cand.Direct[i] = true
			continue
		}
		d := decide(arg.Value, slots[i])
		cand.Decisions[i] = d
		if d.Kind == DecisionApplied {
			cand.ViaCoercion[i] = true
			cand.Coerced++
		}
	}
	return cand, true
}

// viable reports whether every argument is either directly compatible or
// reached through the bridge.
func (c Candidate) viable() bool {
	for i := range c.Direct {
		if !c.Direct[i] && !c.ViaCoercion[i] {
			return false
		}
	}
	return true
}

// bindArguments maps actuals to formals by position and name, honoring
// variadic trailing parameters. Returns the expected slot type per actual.
func bindArguments(args []ast.Argument, sig symbols.FuncSig) ([]typesystem.Type, bool) {
	params := sig.Type.Params
	fixed := len(params)
	if sig.Type.IsVariadic {
		fixed--
		if fixed < 0 {
			return nil, false
		}
	}

	slots := make([]typesystem.Type, len(args))
	filled := make([]bool, len(params))
	next := 0
	for i, arg := range args {
		if arg.Name != "" {
			idx := paramIndex(sig.ParamNames, arg.Name)
			if idx < 0 || idx >= len(params) || filled[idx] {
				return nil, false
			}
			slots[i] = params[idx]
			filled[idx] = true
			continue
		}
		// Positional: skip already name-filled formals.
		for next < fixed && filled[next] {
			next++
		}
		if next < fixed {
			slots[i] = params[next]
			filled[next] = true
			next++
			continue
		}
		if sig.Type.IsVariadic {
			if arg.Spread {
				// A spread expands into the variadic slot as a whole; its
				// static type must match the collection, checked upstream.
				// The bridge only needs the element slot for rejection.
				slots[i] = params[len(params)-1]
				continue
			}
			slots[i] = params[len(params)-1]
			continue
		}
		return nil, false // too many arguments
	}

	for i := 0; i < fixed; i++ {
		if !filled[i] {
			return nil, false // missing argument
		}
	}
	return slots, true
}

func paramIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// lessCoerced is the deterministic total order over coercion-viable
// candidates: fewest bridged arguments first, then lexicographically by
// the per-position flags, a non-bridged position winning over a bridged
// one. Declaration order is deliberately not part of the key.
func lessCoerced(a, b Candidate) bool {
	if a.Coerced != b.Coerced {
		return a.Coerced < b.Coerced
	}
	for i := range a.ViaCoercion {
		if i >= len(b.ViaCoercion) {
			break
		}
		if a.ViaCoercion[i] != b.ViaCoercion[i] {
			return !a.ViaCoercion[i]
		}
	}
	return false
}

// selectCandidate commits the resolution: records the result type, applies
// bridge rewrites for tier-2 winners and emits redundancy advisories for
// manual extraction calls the bridge would have inserted itself.
func (w *walker) selectCandidate(call *ast.CallExpression, cand Candidate, applyCoercions bool) {
	call.ResultType = cand.Sig.Type.ReturnType
	for i := range call.Args {
		if applyCoercions && cand.ViaCoercion[i] {
			call.Args[i].Value = cand.Decisions[i].Rewritten
			continue
		}
		if w.cfg.AdvisoriesEnabled() && redundantExtract(call.Args[i].Value, cand.Slots[i]) {
			w.addError(diagnostics.NewHint(diagnostics.HintB006, call.Args[i].Value.GetToken(),
				fmt.Sprintf("redundant conversion: '%s()' is implied when passing to parameter of type %s",
					callMethodName(call.Args[i].Value), cand.Slots[i])))
		}
	}
}

// noteRejections explains, once per failed call, why the bridge did not
// rescue the near-miss candidates.
func (w *walker) noteRejections(call *ast.CallExpression, rejected []Candidate) {
	if !w.cfg.RejectionNotesEnabled() {
		return
	}
	for _, cand := range rejected {
		for i, d := range cand.Decisions {
			if d.Kind != DecisionRejected || i >= len(call.Args) || call.Args[i].Spread {
				continue
			}
			if d.Reason == typesystem.ReasonNone {
				continue
			}
			src := call.Args[i].Value.StaticType()
			w.addError(diagnostics.NewNote(diagnostics.NoteB005, call.Args[i].Value.GetToken(),
				fmt.Sprintf("optional bridging does not apply to argument %d of %s: %s vs %s (%s)",
					i+1, cand.Sig.Type, src, cand.Slots[i], w.mismatchDetail(src, cand.Slots[i], d.Reason))).
				WithTypes(src.String(), cand.Slots[i].String()))
		}
	}
}

func candidateSigs(cands []Candidate) []typesystem.TFunc {
	sigs := make([]typesystem.TFunc, len(cands))
	for i, c := range cands {
		sigs[i] = c.Sig.Type
	}
	return sigs
}

func candidateSigStrings(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Sig.Type.String()
	}
	return out
}

func sigTypes(sigs []symbols.FuncSig) []typesystem.TFunc {
	out := make([]typesystem.TFunc, len(sigs))
	for i, s := range sigs {
		out[i] = s.Type
	}
	return out
}

func callMethodName(expr ast.Expression) string {
	if mc, ok := expr.(*ast.MethodCall); ok {
		return mc.Method
	}
	return ""
}
