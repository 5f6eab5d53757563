package analyzer

import (
	"strings"
	"testing"

	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/diagnostics"
	"github.com/mavelang/optbridge/internal/unit"
)

// analyzeFixture parses a YAML unit fixture, runs the bridge pass and
// returns the rewritten unit together with all diagnostics.
func analyzeFixture(t *testing.T, input string) (*ast.Unit, []*diagnostics.DiagnosticError) {
	t.Helper()
	return analyzeFixtureWith(t, input, config.Default())
}

func analyzeFixtureWith(t *testing.T, input string, cfg *config.Config) (*ast.Unit, []*diagnostics.DiagnosticError) {
	t.Helper()
	u, table, err := unit.Parse([]byte(input), "test.mv")
	if err != nil {
		t.Fatalf("fixture error: %v\ninput: %s", err, input)
	}
	return u, New(table, cfg).Analyze(u)
}

// expectCodes asserts the exact diagnostic codes produced, in order.
func expectCodes(t *testing.T, diags []*diagnostics.DiagnosticError, want ...diagnostics.ErrorCode) {
	t.Helper()
	var got []diagnostics.ErrorCode
	for _, d := range diags {
		got = append(got, d.Code)
	}
	if len(got) != len(want) {
		t.Fatalf("diagnostics = %v, want %v\n%s", got, want, renderDiags(diags))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostics = %v, want %v\n%s", got, want, renderDiags(diags))
		}
	}
}

func expectClean(t *testing.T, diags []*diagnostics.DiagnosticError) {
	t.Helper()
	if len(diags) > 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", renderDiags(diags))
	}
}

func findCode(diags []*diagnostics.DiagnosticError, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	for _, d := range diags {
		if d.Code == code {
			return d
		}
	}
	return nil
}

func renderDiags(diags []*diagnostics.DiagnosticError) string {
	var lines []string
	for _, d := range diags {
		lines = append(lines, d.Error())
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Declaration sites
// ---------------------------------------------------------------------------

func TestDeclarationCoercionApplied(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: x, type: "Opt<User>"}
statements:
  - declare: {name: user, type: "User?", init: {ident: x}}
`)
	expectClean(t, diags)

	decl := u.Statements[0].(*ast.VarDeclaration)
	mc, ok := decl.Init.(*ast.MethodCall)
	if !ok || !mc.Synthetic {
		t.Fatalf("initializer not rewritten to synthetic extraction: %T", decl.Init)
	}
	if mc.Method != config.ExtractOrNullName {
		t.Errorf("rewritten method = %s, want %s", mc.Method, config.ExtractOrNullName)
	}
	if got := mc.StaticType().String(); got != "User?" {
		t.Errorf("rewritten static type = %s, want User?", got)
	}
	if got := decl.DeclaredType.String(); got != "User?" {
		t.Errorf("declared slot type changed to %s", got)
	}
}

func TestDeclarationSameTypeNotRewritten(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: x, type: "Opt<User>"}
statements:
  - declare: {name: y, type: "Opt<User>", init: {ident: x}}
`)
	expectClean(t, diags)
	decl := u.Statements[0].(*ast.VarDeclaration)
	if _, ok := decl.Init.(*ast.Identifier); !ok {
		t.Fatalf("identical types must not be rewritten, got %T", decl.Init)
	}
}

func TestDeclarationSubtypeRejected(t *testing.T) {
	_, diags := analyzeFixture(t, `
types:
  - {name: Animal}
  - {name: Dog, super: Animal}
vars:
  - {name: d, type: "Opt<Dog>"}
statements:
  - declare: {name: a, type: "Animal?", init: {ident: d}}
`)
	expectCodes(t, diags, diagnostics.ErrB001, diagnostics.NoteB005)

	note := findCode(diags, diagnostics.NoteB005)
	if !strings.Contains(note.Message, "related by subtyping") {
		t.Errorf("rejection note should mention the subtype relation, got: %s", note.Message)
	}
	if note.IsFatal() {
		t.Error("rejection note must not be fatal")
	}
}

func TestDeclarationWrongDirectionRejected(t *testing.T) {
	_, diags := analyzeFixture(t, `
vars:
  - {name: s, type: "String?"}
statements:
  - declare: {name: o, type: "Opt<String>", init: {ident: s}}
`)
	expectCodes(t, diags, diagnostics.ErrB001, diagnostics.NoteB005)
	note := findCode(diags, diagnostics.NoteB005)
	if !strings.Contains(note.Message, "wrong direction") {
		t.Errorf("expected wrong-direction note, got: %s", note.Message)
	}
}

func TestDeclarationUnrelatedTypesNoNote(t *testing.T) {
	// Int into String?: a plain type error with no bridge involvement, so
	// no rejection note.
	_, diags := analyzeFixture(t, `
vars:
  - {name: n, type: "Int"}
statements:
  - declare: {name: s, type: "String?", init: {ident: n}}
`)
	expectCodes(t, diags, diagnostics.ErrB001)
}

// ---------------------------------------------------------------------------
// Assignment sites
// ---------------------------------------------------------------------------

func TestAssignmentCoercionApplied(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: s, type: "String?"}
  - {name: o, type: "Opt<String>"}
statements:
  - assign: {target: {ident: s}, value: {ident: o}}
`)
	expectClean(t, diags)
	as := u.Statements[0].(*ast.AssignStatement)
	mc, ok := as.Value.(*ast.MethodCall)
	if !ok || !mc.Synthetic {
		t.Fatalf("assignment value not rewritten, got %T", as.Value)
	}
}

func TestCompoundAssignmentPassesThrough(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: s, type: "String?"}
  - {name: o, type: "Opt<String>"}
statements:
  - compound: {target: {ident: s}, op: "?:=", value: {ident: o}}
`)
	expectClean(t, diags)
	ca := u.Statements[0].(*ast.CompoundAssignStatement)
	if _, ok := ca.Value.(*ast.Identifier); !ok {
		t.Fatalf("compound assignment must pass through unchanged, got %T", ca.Value)
	}
}

func TestDestructuringPassesThrough(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: pair, type: "Pair<Opt<String>, Int>"}
statements:
  - destructure: {names: [a, b], value: {ident: pair}}
`)
	expectClean(t, diags)
	dd := u.Statements[0].(*ast.DestructuringDeclaration)
	if _, ok := dd.Value.(*ast.Identifier); !ok {
		t.Fatalf("destructuring must pass through unchanged, got %T", dd.Value)
	}
}

// ---------------------------------------------------------------------------
// Idempotence: re-running the pass over a rewritten tree changes nothing
// ---------------------------------------------------------------------------

func TestRewriteIdempotent(t *testing.T) {
	u, diags := analyzeFixture(t, `
vars:
  - {name: x, type: "Opt<User>"}
statements:
  - declare: {name: user, type: "User?", init: {ident: x}}
`)
	expectClean(t, diags)

	_, table, err := unit.Parse([]byte(`vars: [{name: x, type: "Opt<User>"}]`), "test.mv")
	if err != nil {
		t.Fatal(err)
	}
	again := New(table, config.Default()).Analyze(u)
	expectClean(t, again)

	decl := u.Statements[0].(*ast.VarDeclaration)
	mc := decl.Init.(*ast.MethodCall)
	if _, nested := mc.Receiver.(*ast.MethodCall); nested {
		t.Fatal("second pass double-coerced the initializer")
	}
}

// ---------------------------------------------------------------------------
// Redundant conversion advisories
// ---------------------------------------------------------------------------

func TestRedundantManualExtractAtDeclaration(t *testing.T) {
	_, diags := analyzeFixture(t, `
vars:
  - {name: x, type: "Opt<User>"}
statements:
  - declare: {name: u, type: "User?", init: {method: {on: {ident: x}, name: getOrNull}}}
`)
	expectCodes(t, diags, diagnostics.HintB006)
	hint := findCode(diags, diagnostics.HintB006)
	if hint.IsFatal() {
		t.Error("redundant-conversion advisory must never fail compilation")
	}
}

func TestRedundantAdvisoryDisabled(t *testing.T) {
	off := false
	cfg := config.Default()
	cfg.Advisories = &off
	_, diags := analyzeFixtureWith(t, `
vars:
  - {name: x, type: "Opt<User>"}
statements:
  - declare: {name: u, type: "User?", init: {method: {on: {ident: x}, name: getOrNull}}}
`, cfg)
	expectClean(t, diags)
}

func TestRejectionNotesDisabled(t *testing.T) {
	off := false
	cfg := config.Default()
	cfg.RejectionNotes = &off
	_, diags := analyzeFixtureWith(t, `
vars:
  - {name: s, type: "String?"}
statements:
  - declare: {name: o, type: "Opt<String>", init: {ident: s}}
`, cfg)
	// The independent type error stays; only the note disappears.
	expectCodes(t, diags, diagnostics.ErrB001)
}

// ---------------------------------------------------------------------------
// Error accumulation
// ---------------------------------------------------------------------------

func TestErrorsAccumulatePerSite(t *testing.T) {
	_, diags := analyzeFixture(t, `
vars:
  - {name: n, type: "Int"}
  - {name: m, type: "Int"}
statements:
  - declare: {name: a, type: "String?", init: {ident: n}}
  - declare: {name: b, type: "User?", init: {ident: m}}
`)
	expectCodes(t, diags, diagnostics.ErrB001, diagnostics.ErrB001)
}

func TestManualExtractKeepsWorking(t *testing.T) {
	// An explicit getOrNull() into a matching slot is ordinary assignment:
	// no rewrite, and with advisories off, no output at all.
	off := false
	cfg := config.Default()
	cfg.Advisories = &off
	u, diags := analyzeFixtureWith(t, `
vars:
  - {name: x, type: "Opt<String>"}
statements:
  - declare: {name: s, type: "String?", init: {method: {on: {ident: x}, name: getOrNull}}}
`, cfg)
	expectClean(t, diags)
	decl := u.Statements[0].(*ast.VarDeclaration)
	mc := decl.Init.(*ast.MethodCall)
	if mc.Synthetic {
		t.Fatal("manual extraction call was replaced by a synthetic one")
	}
}
