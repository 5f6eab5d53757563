// Package unit loads compilation-unit fixtures: a YAML description of an
// already-elaborated unit (nominal types, overload sets, variables and
// typed statements) decoded into the checker's AST and symbol table. The
// host language's lexer, parser and inference are external collaborators;
// this format is how tooling and tests hand the checker their output.
package unit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mavelang/optbridge/internal/ast"
	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/symbols"
	"github.com/mavelang/optbridge/internal/token"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// File is the top-level YAML schema of a unit fixture.
type File struct {
	File       string     `yaml:"file,omitempty"`
	Types      []TypeDecl `yaml:"types,omitempty"`
	Functions  []FuncDecl `yaml:"functions,omitempty"`
	Vars       []VarDecl  `yaml:"vars,omitempty"`
	Statements []StmtNode `yaml:"statements,omitempty"`
}

// TypeDecl declares a nominal type, optionally with its direct supertype.
type TypeDecl struct {
	Name  string `yaml:"name"`
	Super string `yaml:"super,omitempty"`
}

// FuncDecl declares one overload of a free function.
type FuncDecl struct {
	Name     string      `yaml:"name"`
	Params   []ParamDecl `yaml:"params,omitempty"`
	Returns  string      `yaml:"returns,omitempty"`
	Variadic bool        `yaml:"variadic,omitempty"`
}

// ParamDecl is one formal parameter: a name (for named-argument binding)
// and a type in unit notation.
type ParamDecl struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`
}

// VarDecl pre-declares a variable with its inferred static type.
type VarDecl struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// StmtNode is one statement; exactly one field must be set.
type StmtNode struct {
	Declare     *DeclareStmt     `yaml:"declare,omitempty"`
	Assign      *AssignStmt      `yaml:"assign,omitempty"`
	Compound    *CompoundStmt    `yaml:"compound,omitempty"`
	Destructure *DestructureStmt `yaml:"destructure,omitempty"`
	Call        *CallNode        `yaml:"call,omitempty"`
}

// DeclareStmt is a typed declaration with an initializer.
type DeclareStmt struct {
	Name string    `yaml:"name"`
	Type string    `yaml:"type"`
	Init *ExprNode `yaml:"init"`
}

// AssignStmt is a simple assignment.
type AssignStmt struct {
	Target *ExprNode `yaml:"target"`
	Value  *ExprNode `yaml:"value"`
}

// CompoundStmt is an operator assignment; never bridge-eligible.
type CompoundStmt struct {
	Target *ExprNode `yaml:"target"`
	Op     string    `yaml:"op"`
	Value  *ExprNode `yaml:"value"`
}

// DestructureStmt is a pattern binding; never bridge-eligible.
type DestructureStmt struct {
	Names []string  `yaml:"names"`
	Value *ExprNode `yaml:"value"`
}

// ExprNode is one expression; exactly one field must be set.
type ExprNode struct {
	Ident  string      `yaml:"ident,omitempty"`
	Lit    *LitNode    `yaml:"lit,omitempty"`
	Call   *CallNode   `yaml:"call,omitempty"`
	Method *MethodNode `yaml:"method,omitempty"`
}

// LitNode is a literal with an explicit type.
type LitNode struct {
	Value string `yaml:"value"`
	Type  string `yaml:"type"`
}

// CallNode is a call to a declared function.
type CallNode struct {
	Name string    `yaml:"name"`
	Args []ArgNode `yaml:"args,omitempty"`
}

// ArgNode is one actual argument, positional or named.
type ArgNode struct {
	Name   string    `yaml:"name,omitempty"`
	Spread bool      `yaml:"spread,omitempty"`
	Expr   *ExprNode `yaml:"expr"`
}

// MethodNode is a method call on a receiver. The accessor methods of the
// optional wrapper are typed automatically; anything else needs Type.
type MethodNode struct {
	On   *ExprNode   `yaml:"on"`
	Name string      `yaml:"name"`
	Args []*ExprNode `yaml:"args,omitempty"`
	Type string      `yaml:"type,omitempty"`
}

// Load reads a unit fixture file.
func Load(path string) (*ast.Unit, *symbols.SymbolTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a unit fixture into an elaborated AST and its symbol table.
func Parse(data []byte, path string) (*ast.Unit, *symbols.SymbolTable, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.File == "" {
		f.File = path
	}
	return f.Build()
}

// Build assembles the symbol table and statements of a decoded fixture.
func (f *File) Build() (*ast.Unit, *symbols.SymbolTable, error) {
	table := symbols.NewSymbolTable()

	for _, td := range f.Types {
		if td.Super != "" {
			table.DeclareSupertype(td.Name, td.Super)
		}
	}

	for _, fd := range f.Functions {
		params := make([]typesystem.Type, len(fd.Params))
		names := make([]string, len(fd.Params))
		for i, pd := range fd.Params {
			t, err := ParseType(pd.Type)
			if err != nil {
				return nil, nil, fmt.Errorf("function %s: %w", fd.Name, err)
			}
			params[i] = t
			names[i] = pd.Name
		}
		ret := typesystem.Type(typesystem.TCon{Name: config.NilTypeName})
		if fd.Returns != "" {
			t, err := ParseType(fd.Returns)
			if err != nil {
				return nil, nil, fmt.Errorf("function %s: %w", fd.Name, err)
			}
			ret = t
		}
		table.DefineFunction(fd.Name, symbols.FuncSig{
			Type:       typesystem.TFunc{Params: params, ReturnType: ret, IsVariadic: fd.Variadic},
			ParamNames: names,
		})
	}

	for _, vd := range f.Vars {
		t, err := ParseType(vd.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("var %s: %w", vd.Name, err)
		}
		table.Define(vd.Name, t)
	}

	b := &builder{file: f.File, table: table}
	u := &ast.Unit{File: f.File}
	for i, sn := range f.Statements {
		stmt, err := b.buildStatement(sn, i+1)
		if err != nil {
			return nil, nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
		u.Statements = append(u.Statements, stmt)
	}
	return u, table, nil
}

// builder assembles AST nodes with synthetic positions: one line per
// statement, columns allocated left to right within it.
type builder struct {
	file  string
	table *symbols.SymbolTable
	line  int
	col   int
}

func (b *builder) tok(lexeme string) token.Token {
	b.col++
	return token.Token{Lexeme: lexeme, File: b.file, Line: b.line, Column: b.col}
}

func (b *builder) buildStatement(sn StmtNode, line int) (ast.Statement, error) {
	b.line = line
	b.col = 0
	switch {
	case sn.Declare != nil:
		d := sn.Declare
		tok := b.tok(d.Name)
		declared, err := ParseType(d.Type)
		if err != nil {
			return nil, err
		}
		init, err := b.buildExpr(d.Init)
		if err != nil {
			return nil, err
		}
		// The fixture declares the slot; later statements may assign to it.
		b.table.Define(d.Name, declared)
		return &ast.VarDeclaration{Token: tok, Name: d.Name, DeclaredType: declared, Init: init}, nil

	case sn.Assign != nil:
		target, err := b.buildExpr(sn.Assign.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(sn.Assign.Value)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStatement{Token: target.GetToken(), Target: target, Value: value}, nil

	case sn.Compound != nil:
		target, err := b.buildExpr(sn.Compound.Target)
		if err != nil {
			return nil, err
		}
		value, err := b.buildExpr(sn.Compound.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CompoundAssignStatement{
			Token: target.GetToken(), Target: target, Operator: sn.Compound.Op, Value: value,
		}, nil

	case sn.Destructure != nil:
		value, err := b.buildExpr(sn.Destructure.Value)
		if err != nil {
			return nil, err
		}
		return &ast.DestructuringDeclaration{
			Token: value.GetToken(), Names: sn.Destructure.Names, Value: value,
		}, nil

	case sn.Call != nil:
		call, err := b.buildCall(sn.Call)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStatement{Token: call.GetToken(), Expr: call}, nil
	}
	return nil, fmt.Errorf("empty statement node")
}

func (b *builder) buildExpr(en *ExprNode) (ast.Expression, error) {
	if en == nil {
		return nil, fmt.Errorf("missing expression")
	}
	switch {
	case en.Ident != "":
		t, ok := b.table.Resolve(en.Ident)
		if !ok {
			return nil, fmt.Errorf("unknown variable '%s'", en.Ident)
		}
		return &ast.Identifier{Token: b.tok(en.Ident), Value: en.Ident, Type: t}, nil

	case en.Lit != nil:
		t, err := ParseType(en.Lit.Type)
		if err != nil {
			return nil, err
		}
		return &ast.Literal{Token: b.tok(en.Lit.Value), Value: en.Lit.Value, Type: t}, nil

	case en.Call != nil:
		return b.buildCall(en.Call)

	case en.Method != nil:
		return b.buildMethod(en.Method)
	}
	return nil, fmt.Errorf("empty expression node")
}

func (b *builder) buildCall(cn *CallNode) (*ast.CallExpression, error) {
	tok := b.tok(cn.Name)
	call := &ast.CallExpression{Token: tok, Function: cn.Name}
	for _, an := range cn.Args {
		expr, err := b.buildExpr(an.Expr)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, ast.Argument{Name: an.Name, Spread: an.Spread, Value: expr})
	}
	return call, nil
}

func (b *builder) buildMethod(mn *MethodNode) (ast.Expression, error) {
	recv, err := b.buildExpr(mn.On)
	if err != nil {
		return nil, err
	}
	tok := b.tok(mn.Name)

	var args []ast.Expression
	for _, an := range mn.Args {
		arg, err := b.buildExpr(an)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	var t typesystem.Type
	switch {
	case mn.Type != "":
		t, err = ParseType(mn.Type)
		if err != nil {
			return nil, err
		}
	default:
		opt, ok := recv.StaticType().(typesystem.TOptional)
		if !ok {
			return nil, fmt.Errorf("method '%s' needs an explicit type on receiver %s", mn.Name, recv.StaticType())
		}
		switch mn.Name {
		case config.ExtractOrNullName:
			t = typesystem.Nullable(opt.Elem)
		case config.ExtractOrThrowName:
			t = opt.Elem
		default:
			return nil, fmt.Errorf("method '%s' needs an explicit type", mn.Name)
		}
	}
	return &ast.MethodCall{Token: tok, Receiver: recv, Method: mn.Name, Args: args, Type: t}, nil
}
