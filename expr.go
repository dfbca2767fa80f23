package main

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Kind identifies what a Token holds.
type Kind uint8

// Token kinds.
const (
	Number Kind = iota
	Add
	Subtract
	Multiply
	Divide
)

// operators lists the binary operators in slot order.
var operators = [...]Kind{Add, Subtract, Multiply, Divide}

// Token is a single postfix element: an operand or a binary operator.
// Value is only meaningful when Kind is Number.
type Token struct {
	Kind  Kind
	Value uint64
}

// Num returns an operand token.
func Num(v uint64) Token { return Token{Kind: Number, Value: v} }

// Op returns an operator token.
func Op(k Kind) Token { return Token{Kind: k} }

// Symbol returns the single-character form of an operator kind.
func (k Kind) Symbol() string {
	switch k {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	}
	return ""
}

func (t Token) String() string {
	if t.Kind == Number {
		return strconv.FormatUint(t.Value, 10)
	}
	return t.Kind.Symbol()
}

// Expression is a postfix token sequence referencing an immutable pool.
type Expression []*Token

func (e Expression) String() string {
	var sb strings.Builder
	for i, t := range e {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

// errEmptyExpression is returned by ParseExpression for blank input.
var errEmptyExpression = errors.New("empty expression")

// ParseToken parses a rendered token.
func ParseToken(s string) (Token, error) {
	switch s {
	case "+":
		return Op(Add), nil
	case "-":
		return Op(Subtract), nil
	case "*":
		return Op(Multiply), nil
	case "/":
		return Op(Divide), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid token %q: %w", s, err)
	}
	return Num(v), nil
}

// ParseExpression parses space-separated postfix tokens as printed by
// Expression.String.
func ParseExpression(s string) (Expression, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errEmptyExpression
	}
	toks := make([]Token, len(fields))
	out := make(Expression, len(fields))
	for i, f := range fields {
		t, err := ParseToken(f)
		if err != nil {
			return nil, err
		}
		toks[i] = t
		out[i] = &toks[i]
	}
	return out, nil
}

// apply reduces b (pushed first) and a (pushed last) with operator k.
// ok is false when the result is negative, fractional, undefined or
// overflows.
func apply(k Kind, b, a uint64) (uint64, bool) {
	switch k {
	case Add:
		sum, carry := bits.Add64(b, a, 0)
		return sum, carry == 0
	case Subtract:
		if a > b {
			return 0, false
		}
		return b - a, true
	case Multiply:
		hi, lo := bits.Mul64(b, a)
		return lo, hi == 0
	case Divide:
		if a == 0 || b%a != 0 {
			return 0, false
		}
		return b / a, true
	}
	return 0, false
}

// maxTokens bounds the evaluation stack; candidates never exceed it.
const maxTokens = poolSize

// Compute evaluates a postfix expression and returns the value left on top
// of the stack. Values below the top are ignored. It panics on an empty
// expression.
func Compute(expr []*Token) (uint64, bool) {
	if len(expr) == 0 {
		panic("compute: empty expression")
	}
	var fixed [maxTokens]uint64
	stack := fixed[:0]
	for _, t := range expr {
		if t.Kind == Number {
			stack = append(stack, t.Value)
			continue
		}
		n := len(stack)
		if n < 2 {
			return 0, false
		}
		v, ok := apply(t.Kind, stack[n-2], stack[n-1])
		if !ok {
			return 0, false
		}
		stack[n-2] = v
		stack = stack[:n-1]
	}
	if len(stack) == 0 {
		return 0, false
	}
	return stack[len(stack)-1], true
}
