package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refs turns token values into an Expression.
func refs(toks ...Token) Expression {
	out := make(Expression, len(toks))
	for i := range toks {
		out[i] = &toks[i]
	}
	return out
}

func n(v uint64) Token { return Num(v) }

var (
	plus  = Op(Add)
	minus = Op(Subtract)
	times = Op(Multiply)
	over  = Op(Divide)
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		expr   Expression
		want   uint64
		wantOK bool
	}{
		{name: "add", expr: refs(n(1), n(2), plus), want: 3, wantOK: true},
		{name: "divide equal", expr: refs(n(2), n(2), over), want: 1, wantOK: true},
		{name: "multiply", expr: refs(n(2), n(4), times), want: 8, wantOK: true},
		{name: "nested subtract", expr: refs(n(7), n(2), n(3), times, minus), want: 1, wantOK: true},
		{
			name: "eleven tokens",
			expr: refs(n(7), n(100), n(25), minus, times, n(3), n(10), n(2), plus, times, plus),
			want: 561, wantOK: true,
		},
		{name: "subtract order", expr: refs(n(5), n(2), minus), want: 3, wantOK: true},
		{name: "negative intermediate", expr: refs(n(2), n(5), minus)},
		{name: "subtract to zero", expr: refs(n(5), n(5), minus), want: 0, wantOK: true},
		{name: "divide by zero", expr: refs(n(5), n(0), over)},
		{name: "inexact division", expr: refs(n(5), n(2), over)},
		{name: "exact division", expr: refs(n(6), n(2), over), want: 3, wantOK: true},
		{name: "zero divided", expr: refs(n(0), n(4), over), want: 0, wantOK: true},
		{name: "underflow", expr: refs(n(1), plus)},
		{name: "operator first", expr: refs(plus, n(1), n(2))},
		{name: "single operand", expr: refs(n(42)), want: 42, wantOK: true},
		{name: "leftover operands return top", expr: refs(n(9), n(1), n(2), plus), want: 3, wantOK: true},
		{name: "three operands no operator", expr: refs(n(5), n(1), n(6)), want: 6, wantOK: true},
		{name: "add overflow", expr: refs(n(math.MaxUint64), n(1), plus)},
		{name: "add at limit", expr: refs(n(math.MaxUint64-1), n(1), plus), want: math.MaxUint64, wantOK: true},
		{name: "multiply overflow", expr: refs(n(1<<32), n(1<<32), times)},
		{name: "multiply at limit", expr: refs(n(1<<32), n(1<<31), times), want: 1 << 63, wantOK: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Compute(tc.expr)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestComputeEmptyPanics(t *testing.T) {
	assert.Panics(t, func() { Compute(nil) })
}

func TestComputeIsPure(t *testing.T) {
	expr := refs(n(7), n(2), n(3), times, minus)
	before := expr.String()
	for range 3 {
		v, ok := Compute(expr)
		require.True(t, ok)
		assert.Equal(t, uint64(1), v)
	}
	assert.Equal(t, before, expr.String())
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{plus, "+"},
		{minus, "-"},
		{times, "*"},
		{over, "/"},
		{n(0), "0"},
		{n(561), "561"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.tok.String())
	}
}

func TestExpressionString(t *testing.T) {
	assert.Equal(t, "3 4 +", refs(n(3), n(4), plus).String())
	assert.Equal(t, "7 2 3 * -", refs(n(7), n(2), n(3), times, minus).String())
	assert.Equal(t, "", Expression(nil).String())
}

func TestParseExpression(t *testing.T) {
	expr, err := ParseExpression("  7 100 25 - * 3 10 2 + * +\n")
	require.NoError(t, err)
	assert.Equal(t, "7 100 25 - * 3 10 2 + * +", expr.String())

	v, ok := Compute(expr)
	require.True(t, ok)
	assert.Equal(t, uint64(561), v)
}

func TestParseExpressionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "blank", input: "   "},
		{name: "unknown operator", input: "1 2 ^"},
		{name: "negative number", input: "-3 4 +"},
		{name: "fraction", input: "1.5 2 *"},
		{name: "too large", input: "18446744073709551616 1 +"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseExpression(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestParseTokenRoundTrip(t *testing.T) {
	for _, tok := range []Token{plus, minus, times, over, n(0), n(75), n(math.MaxUint64)} {
		got, err := ParseToken(tok.String())
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	}
}
