package ast

import (
	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/token"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// Identifier represents a reference to a variable or parameter.
type Identifier struct {
	Token token.Token
	Value string
	Type  typesystem.Type
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}
func (i *Identifier) StaticType() typesystem.Type { return i.Type }

// Literal represents a constant expression (nil, string, number). The
// checker never inspects the value, only the type.
type Literal struct {
	Token token.Token
	Value string
	Type  typesystem.Type
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) GetToken() token.Token {
	if l == nil {
		return token.Token{}
	}
	return l.Token
}
func (l *Literal) StaticType() typesystem.Type { return l.Type }

// MethodCall represents a method invocation on a receiver, including the
// synthetic extraction call inserted by the bridge. The backend treats
// synthetic calls as ordinary method calls.
type MethodCall struct {
	Token    token.Token
	Receiver Expression
	Method   string
	Args     []Expression
	Type     typesystem.Type
	// Synthetic marks calls inserted by the bridge rewrite. Re-running the
	// classifier over a rewritten tree must not coerce twice.
	Synthetic bool
}

func (mc *MethodCall) expressionNode()      {}
func (mc *MethodCall) TokenLiteral() string { return mc.Token.Lexeme }
func (mc *MethodCall) GetToken() token.Token {
	if mc == nil {
		return token.Token{}
	}
	return mc.Token
}
func (mc *MethodCall) StaticType() typesystem.Type { return mc.Type }

// IsExtractOrNull reports whether this is a getOrNull() call on an
// optional-wrapper receiver, manual or synthetic.
func (mc *MethodCall) IsExtractOrNull() bool {
	if mc == nil || mc.Method != config.ExtractOrNullName || len(mc.Args) != 0 {
		return false
	}
	_, ok := mc.Receiver.StaticType().(typesystem.TOptional)
	return ok
}

// ExtractOrNull builds the synthetic extraction call the bridge inserts:
// recv.getOrNull(), typed T? for a receiver of type Opt<T>. The node keeps
// the receiver's token so diagnostics and the backend stay anchored to the
// original site.
func ExtractOrNull(recv Expression) *MethodCall {
	var elem typesystem.Type
	if opt, ok := recv.StaticType().(typesystem.TOptional); ok {
		elem = opt.Elem
	}
	return &MethodCall{
		Token:     recv.GetToken(),
		Receiver:  recv,
		Method:    config.ExtractOrNullName,
		Type:      typesystem.Nullable(elem),
		Synthetic: true,
	}
}

// Argument is one actual argument of a call, positional or named. Spread
// arguments expand a collection into a variadic slot and are never
// bridge-eligible.
type Argument struct {
	Name   string // empty for positional
	Value  Expression
	Spread bool
}

// CallExpression represents a call to a free function with an overload
// set. ResultType is filled in by overload resolution.
type CallExpression struct {
	Token      token.Token
	Function   string
	Args       []Argument
	ResultType typesystem.Type
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) StaticType() typesystem.Type { return ce.ResultType }
