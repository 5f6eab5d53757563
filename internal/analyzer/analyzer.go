// Package analyzer implements the optional-interop bridge pass: a
// sequential walk over one elaborated compilation unit that classifies
// coercion-eligible positions, runs the bridge rule, rewrites accepted
// sites to explicit extraction calls and reports diagnostics. The pass
// holds no state across units; independent units may be analyzed in
// parallel by the surrounding driver.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/diagnostics"
	"github.com/mavelang/optbridge/internal/symbols"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// Analyzer runs the bridge pass over compilation units.
type Analyzer struct {
	table *symbols.SymbolTable
	cfg   *config.Config
	// TieBreak is the host language's disambiguation between several
	// directly-viable overloads. Nil means no extra rules: such ties fail.
	TieBreak TieBreaker
}

// New creates an Analyzer over the given symbol table.
func New(table *symbols.SymbolTable, cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Analyzer{table: table, cfg: cfg}
}

// Analyze checks one unit, rewriting eligible sites in place. It returns
// every diagnostic of the unit, ordered by position: fatal kinds are
// reported per site with no early exit, so a single pass surfaces every
// independent error.
func (a *Analyzer) Analyze(unit *ast.Unit) []*diagnostics.DiagnosticError {
	w := &walker{
		table:    a.table,
		cfg:      a.cfg,
		tieBreak: a.TieBreak,
		file:     unit.File,
		errorSet: make(map[string]bool),
	}
	for _, stmt := range unit.Statements {
		w.walkStatement(stmt)
	}
	sort.SliceStable(w.errors, func(i, j int) bool {
		ei, ej := w.errors[i], w.errors[j]
		if ei.Token.Line != ej.Token.Line {
			return ei.Token.Line < ej.Token.Line
		}
		if ei.Token.Column != ej.Token.Column {
			return ei.Token.Column < ej.Token.Column
		}
		return ei.Code < ej.Code
	})
	return w.errors
}

type walker struct {
	table    *symbols.SymbolTable
	cfg      *config.Config
	tieBreak TieBreaker
	file     string
	errorSet map[string]bool // "line:col:code" for deduplication
	errors   []*diagnostics.DiagnosticError
}

// addError records a diagnostic, deduplicating by position and code.
func (w *walker) addError(err *diagnostics.DiagnosticError) {
	if err.File == "" && w.file != "" {
		err.File = w.file
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if w.errorSet[key] {
		return
	}
	w.errorSet[key] = true
	w.errors = append(w.errors, err)
}

func (w *walker) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDeclaration:
		w.resolveExpr(s.Init)
		for _, site := range classifySites(s) {
			w.applySite(site, func(e ast.Expression) { s.Init = e })
		}
		w.checkAssign(s.Init, s.DeclaredType)

	case *ast.AssignStatement:
		w.resolveExpr(s.Value)
		for _, site := range classifySites(s) {
			w.applySite(site, func(e ast.Expression) { s.Value = e })
		}
		if s.Target != nil {
			w.checkAssign(s.Value, s.Target.StaticType())
		}

	case *ast.CompoundAssignStatement:
		// Not a bridge-eligible shape: passed through unchanged.
		w.resolveExpr(s.Value)

	case *ast.DestructuringDeclaration:
		// Not a bridge-eligible shape: passed through unchanged.
		w.resolveExpr(s.Value)

	case *ast.ExprStatement:
		w.resolveExpr(s.Expr)
	}
}

// resolveExpr resolves nested calls bottom-up so argument static types are
// known before their enclosing call is resolved.
func (w *walker) resolveExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.CallExpression:
		for i := range e.Args {
			w.resolveExpr(e.Args[i].Value)
		}
		w.resolveCall(e)
	case *ast.MethodCall:
		w.resolveExpr(e.Receiver)
		for _, arg := range e.Args {
			w.resolveExpr(arg)
		}
	}
}

// applySite runs the rule engine on one declaration or assignment site and
// commits the outcome: rewrite, rejection note or redundancy hint. The
// declared type of the slot never changes.
func (w *walker) applySite(site Site, set func(ast.Expression)) {
	d := decide(site.Expr, site.Slot)
	switch d.Kind {
	case DecisionApplied:
		set(d.Rewritten)
	case DecisionRejected:
		if w.cfg.RejectionNotesEnabled() {
			src := site.Expr.StaticType()
			w.addError(diagnostics.NewNote(diagnostics.NoteB005, site.Expr.GetToken(),
				fmt.Sprintf("optional bridging does not apply at this %s: %s vs %s (%s)",
					site.Context, src, site.Slot, w.mismatchDetail(src, site.Slot, d.Reason))).
				WithTypes(src.String(), site.Slot.String()))
		}
	case DecisionNotApplicable:
		if w.cfg.AdvisoriesEnabled() && redundantExtract(site.Expr, site.Slot) {
			w.addError(diagnostics.NewHint(diagnostics.HintB006, site.Expr.GetToken(),
				fmt.Sprintf("redundant conversion: '%s()' is implied at this %s",
					config.ExtractOrNullName, site.Context)))
		}
	}
}

// checkAssign is the ordinary assignment type check at declaration and
// assignment sites, run after any rewrite. The bridge never weakens it.
func (w *walker) checkAssign(value ast.Expression, slot typesystem.Type) {
	if value == nil || slot == nil {
		return
	}
	src := value.StaticType()
	if src == nil {
		// Unresolved call: its own diagnostic was already reported.
		return
	}
	if w.assignable(src, slot) {
		return
	}
	w.addError(diagnostics.NewError(diagnostics.ErrB001, value.GetToken(),
		fmt.Sprintf("type mismatch: cannot use %s as %s", src, slot)).
		WithTypes(src.String(), slot.String()))
}
