// Package ast models the elaborated syntax tree the bridge checker runs
// over: parsing and type inference happen upstream, so every expression
// already carries its resolved static type and every declaration its
// declared type. The checker rewrites eligible positions in place; the
// shape of the tree is otherwise preserved for the backend.
package ast

import (
	"github.com/mavelang/optbridge/internal/token"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// TokenProvider is an interface for any node that can provide its primary
// token. This is used for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression. Static types are
// resolved by upstream inference before the bridge checker runs.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
	StaticType() typesystem.Type
}

// Unit is the root node of one compilation unit.
type Unit struct {
	File       string
	Statements []Statement
}

func (u *Unit) TokenLiteral() string {
	if len(u.Statements) > 0 {
		return u.Statements[0].TokenLiteral()
	}
	return ""
}

// VarDeclaration represents a variable or property declaration with an
// explicit type annotation and an initializer.
// val user: User? = findUser()
type VarDeclaration struct {
	Token        token.Token // The identifier token
	Name         string
	DeclaredType typesystem.Type
	Init         Expression
}

func (vd *VarDeclaration) statementNode()       {}
func (vd *VarDeclaration) TokenLiteral() string { return vd.Token.Lexeme }
func (vd *VarDeclaration) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

// AssignStatement represents a simple assignment. The target's static type
// is the declared type of the slot being written.
// user = findUser()
type AssignStatement struct {
	Token  token.Token // The '=' token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}

// CompoundAssignStatement represents an operator assignment (+=, ?:= ...).
// Not a bridge-eligible position: passed through unchanged.
type CompoundAssignStatement struct {
	Token    token.Token // The operator token
	Target   Expression
	Operator string
	Value    Expression
}

func (ca *CompoundAssignStatement) statementNode()       {}
func (ca *CompoundAssignStatement) TokenLiteral() string { return ca.Token.Lexeme }
func (ca *CompoundAssignStatement) GetToken() token.Token {
	if ca == nil {
		return token.Token{}
	}
	return ca.Token
}

// DestructuringDeclaration represents a pattern binding.
// val (a, b) = pair
// Not a bridge-eligible position: passed through unchanged.
type DestructuringDeclaration struct {
	Token token.Token
	Names []string
	Value Expression
}

func (dd *DestructuringDeclaration) statementNode()       {}
func (dd *DestructuringDeclaration) TokenLiteral() string { return dd.Token.Lexeme }
func (dd *DestructuringDeclaration) GetToken() token.Token {
	if dd == nil {
		return token.Token{}
	}
	return dd.Token
}

// ExprStatement wraps an expression used in statement position, typically
// a call.
type ExprStatement struct {
	Token token.Token
	Expr  Expression
}

func (es *ExprStatement) statementNode()       {}
func (es *ExprStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExprStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
