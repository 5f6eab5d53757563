package analyzer

import (
	"testing"

	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/token"
	"github.com/mavelang/optbridge/internal/typesystem"
)

func TestClassifyDeclaration(t *testing.T) {
	user := typesystem.TCon{Name: "User"}
	init := ident("x", typesystem.TOptional{Elem: user})
	decl := &ast.VarDeclaration{
		Token:        token.Token{Lexeme: "u", Line: 3, Column: 1},
		Name:         "u",
		DeclaredType: typesystem.Nullable(user),
		Init:         init,
	}

	sites := classifySites(decl)
	if len(sites) != 1 {
		t.Fatalf("sites = %d, want 1", len(sites))
	}
	s := sites[0]
	if s.Context != ContextDeclaration {
		t.Errorf("Context = %v, want declaration", s.Context)
	}
	if s.Expr != ast.Expression(init) {
		t.Error("site expression is not the initializer")
	}
	if !s.Slot.Equal(typesystem.Nullable(user)) {
		t.Errorf("Slot = %s, want User?", s.Slot)
	}
}

func TestClassifyDeclarationIneligible(t *testing.T) {
	user := typesystem.TCon{Name: "User"}

	tests := []struct {
		name string
		stmt ast.Statement
	}{
		{"plain slot", &ast.VarDeclaration{
			Name: "u", DeclaredType: user, Init: ident("x", typesystem.TOptional{Elem: user}),
		}},
		{"no initializer", &ast.VarDeclaration{
			Name: "u", DeclaredType: typesystem.Nullable(user),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sites := classifySites(tt.stmt); len(sites) != 0 {
				t.Errorf("sites = %d, want 0", len(sites))
			}
		})
	}
}

func TestClassifyOptionalSlotStillEligible(t *testing.T) {
	// An optional-typed slot classifies so the engine can report the
	// wrong-direction rejection; the engine itself never rewrites it.
	str := typesystem.TCon{Name: "String"}
	decl := &ast.VarDeclaration{
		Name:         "o",
		DeclaredType: typesystem.TOptional{Elem: str},
		Init:         ident("s", typesystem.Nullable(str)),
	}
	if sites := classifySites(decl); len(sites) != 1 {
		t.Fatalf("sites = %d, want 1", len(sites))
	}
}

func TestClassifyAssignment(t *testing.T) {
	str := typesystem.TCon{Name: "String"}
	target := ident("s", typesystem.Nullable(str))
	value := ident("o", typesystem.TOptional{Elem: str})
	as := &ast.AssignStatement{Token: target.GetToken(), Target: target, Value: value}

	sites := classifySites(as)
	if len(sites) != 1 {
		t.Fatalf("sites = %d, want 1", len(sites))
	}
	if sites[0].Context != ContextAssignment {
		t.Errorf("Context = %v, want assignment", sites[0].Context)
	}
	if sites[0].Expr != ast.Expression(value) {
		t.Error("site expression is not the assigned value")
	}
}

func TestClassifyAssignmentToPlainSlot(t *testing.T) {
	str := typesystem.TCon{Name: "String"}
	as := &ast.AssignStatement{
		Target: ident("s", str),
		Value:  ident("o", typesystem.TOptional{Elem: str}),
	}
	if sites := classifySites(as); len(sites) != 0 {
		t.Errorf("sites = %d, want 0", len(sites))
	}
}

func TestClassifyPassThroughShapes(t *testing.T) {
	str := typesystem.TCon{Name: "String"}
	value := ident("o", typesystem.TOptional{Elem: str})

	tests := []struct {
		name string
		stmt ast.Statement
	}{
		{"compound assignment", &ast.CompoundAssignStatement{
			Target: ident("s", typesystem.Nullable(str)), Operator: "?:=", Value: value,
		}},
		{"destructuring", &ast.DestructuringDeclaration{Names: []string{"a", "b"}, Value: value}},
		{"expression statement", &ast.ExprStatement{Expr: value}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sites := classifySites(tt.stmt); len(sites) != 0 {
				t.Errorf("sites = %d, want 0", len(sites))
			}
		})
	}
}

func TestSiteContextNames(t *testing.T) {
	tests := []struct {
		ctx  SiteContext
		want string
	}{
		{ContextDeclaration, "declaration"},
		{ContextAssignment, "assignment"},
		{ContextArgument, "argument"},
	}
	for _, tt := range tests {
		if got := tt.ctx.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
