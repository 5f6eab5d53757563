package symbols

import (
	"testing"

	"github.com/mavelang/optbridge/internal/typesystem"
)

func TestVariables(t *testing.T) {
	table := NewSymbolTable()
	str := typesystem.TCon{Name: "String"}

	if _, ok := table.Resolve("x"); ok {
		t.Fatal("resolved an undefined variable")
	}
	table.Define("x", typesystem.TOptional{Elem: str})
	got, ok := table.Resolve("x")
	if !ok || got.String() != "Opt<String>" {
		t.Fatalf("Resolve(x) = %v, %v", got, ok)
	}
}

func TestOverloadsPreserveOrder(t *testing.T) {
	table := NewSymbolTable()
	str := typesystem.TCon{Name: "String"}
	intT := typesystem.TCon{Name: "Int"}

	table.DefineFunction("f", FuncSig{Type: typesystem.TFunc{Params: []typesystem.Type{str}, ReturnType: str}})
	table.DefineFunction("f", FuncSig{Type: typesystem.TFunc{Params: []typesystem.Type{intT}, ReturnType: intT}})

	sigs := table.Overloads("f")
	if len(sigs) != 2 {
		t.Fatalf("overloads = %d, want 2", len(sigs))
	}
	if sigs[0].Type.Params[0].String() != "String" || sigs[1].Type.Params[0].String() != "Int" {
		t.Error("declaration order not preserved")
	}
	if got := table.Overloads("g"); got != nil {
		t.Errorf("Overloads(g) = %v, want nil", got)
	}
}

func TestSubtypeChain(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareSupertype("Dog", "Animal")
	table.DeclareSupertype("Animal", "Entity")

	con := func(name string) typesystem.Type { return typesystem.TCon{Name: name} }

	tests := []struct {
		name       string
		sub, super typesystem.Type
		want       bool
	}{
		{"direct", con("Dog"), con("Animal"), true},
		{"transitive", con("Dog"), con("Entity"), true},
		{"reversed", con("Animal"), con("Dog"), false},
		{"self is not strict subtype", con("Dog"), con("Dog"), false},
		{"unrelated", con("Dog"), con("String"), false},
		{"non-nominal sub", typesystem.TOptional{Elem: con("Dog")}, con("Animal"), false},
		{"non-nominal super", con("Dog"), typesystem.Nullable(con("Animal")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.IsSubtype(tt.sub, tt.super); got != tt.want {
				t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.sub, tt.super, got, tt.want)
			}
		})
	}
}

func TestSubtypeCycleTerminates(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareSupertype("A", "B")
	table.DeclareSupertype("B", "A")

	a := typesystem.TCon{Name: "A"}
	c := typesystem.TCon{Name: "C"}
	if table.IsSubtype(a, c) {
		t.Error("cyclic hierarchy reported an unrelated supertype")
	}
}

func TestRelatedBySubtyping(t *testing.T) {
	table := NewSymbolTable()
	table.DeclareSupertype("Dog", "Animal")

	dog := typesystem.TCon{Name: "Dog"}
	animal := typesystem.TCon{Name: "Animal"}
	if !table.RelatedBySubtyping(dog, animal) || !table.RelatedBySubtyping(animal, dog) {
		t.Error("related pair not detected in both directions")
	}
	if table.RelatedBySubtyping(dog, typesystem.TCon{Name: "String"}) {
		t.Error("unrelated pair reported as related")
	}
}
