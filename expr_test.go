package main

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// Tokenize an expression by prefixing a throwaway line number, and
// hand back a cursor over its tokens
//

func exprCursor(t *testing.T, expr string) *tokenCursor {
	t.Helper()

	cl, err := tokenizeLine("10 " + expr)
	require.NoError(t, err, "tokenize %q", expr)
	require.NotNil(t, cl)

	return &tokenCursor{tokens: cl.tokens}
}

func renderPostfix(queue []*tokenNode) string {

	parts := make([]string, 0, len(queue))
	for _, tok := range queue {
		switch tok.token {
		default:
			parts = append(parts, getTokenName(tok.token))
		case NUMBER:
			parts = append(parts, strconv.FormatFloat(tok.num, 'f', -1, 64))
		case VARIABLE, BSTRING:
			parts = append(parts, tok.text)
		}
	}

	return strings.Join(parts, " ")
}

func evalExprString(t *testing.T, ctx *execContext, expr string) (value, error) {
	t.Helper()

	queue, err := parseExpression(exprCursor(t, expr))
	require.NoError(t, err, "parse %q", expr)

	return evalPostfix(ctx, queue)
}

func Test_parseExpression(t *testing.T) {
	for _, tc := range []struct {
		expr string
		rpn  string
	}{
		{"2 + 3 * 4", "2 3 4 * +"},
		{"2 * 3 + 4", "2 3 * 4 +"},
		{"(2 + 3) * 4", "2 3 + 4 *"},
		{"2 - 3 - 4", "2 3 - 4 -"},
		{"-2 + 3", "2 - 3 +"},
		{"1 - -2", "1 2 - -"},
		{"- -2", "2 - -"},
		{"!(1 = 2)", "1 2 = !"},
		{"A * (B + 1)", "A B 1 + *"},
		{"1 < 2", "1 2 <"},
		{"2 <= 3", "2 3 <="},
		{"1 + 2 < 2 * 2", "1 2 + 2 2 * <"},
		{"\"x\" + \"y\"", "x y +"},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			queue, err := parseExpression(exprCursor(t, tc.expr))
			require.NoError(t, err)
			assert.Equal(t, tc.rpn, renderPostfix(queue), "postfix queue")
		})
	}
}

//
// The parser must stop at a statement boundary keyword and leave the
// cursor pointing at it
//

func Test_parseStopsAtBoundaries(t *testing.T) {
	for _, tc := range []struct {
		name   string
		line   string
		skip   int
		rpn    string
		stopAt string
	}{
		{"THEN", "10 IF X THEN 20", 1, "X", "THEN"},
		{"TO", "10 FOR I = 1 + 1 TO 3", 3, "1 1 +", "TO"},
		{"STEP", "10 FOR I = 1 TO N * 2 STEP 5", 5, "N 2 *", "STEP"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cl, err := tokenizeLine(tc.line)
			require.NoError(t, err)

			c := &tokenCursor{tokens: cl.tokens}
			for i := 0; i < tc.skip; i++ {
				require.NotNil(t, c.next())
			}

			queue, err := parseExpression(c)
			require.NoError(t, err)
			assert.Equal(t, tc.rpn, renderPostfix(queue), "postfix queue")

			stop := c.peek()
			require.NotNil(t, stop, "expected the cursor to stop on a token")
			assert.Equal(t, tc.stopAt, getTokenName(stop.token), "boundary token")
		})
	}
}

func Test_parseErrors(t *testing.T) {
	for _, tc := range []struct {
		expr   string
		errStr string
	}{
		{"(1 + 2", "Mismatched parenthesis in expression"},
		{"1 + 2)", "Mismatched parenthesis in expression"},
		{"((1)", "Mismatched parenthesis in expression"},
		{"1 + PRINT", "Unexpected token PRINT in expression"},
		{"GOTO", "Unexpected token GOTO in expression"},
	} {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := parseExpression(exprCursor(t, tc.expr))
			assert.EqualError(t, err, tc.errStr)
		})
	}
}

func Test_evalPostfix(t *testing.T) {
	ctx := newExecContext()
	ctx.variables["A"] = numberVal(2)
	ctx.variables["T"] = textVal("x")

	t.Run("arithmetic", func(t *testing.T) {
		val, err := evalExprString(t, ctx, "2 + 3 * 4")
		require.NoError(t, err)
		wantNumber(t, val, 14)
	})

	t.Run("variable lookup", func(t *testing.T) {
		val, err := evalExprString(t, ctx, "A * 3")
		require.NoError(t, err)
		wantNumber(t, val, 6)
	})

	t.Run("double negation", func(t *testing.T) {
		val, err := evalExprString(t, ctx, "- -2")
		require.NoError(t, err)
		wantNumber(t, val, 2)
	})

	t.Run("comparison chain", func(t *testing.T) {
		val, err := evalExprString(t, ctx, "1 + 2 < 2 * 2")
		require.NoError(t, err)
		wantBool(t, val, true)
	})

	for _, tc := range []struct {
		name   string
		expr   string
		errStr string
	}{
		{
			name:   "undefined variable",
			expr:   "Q + 1",
			errStr: "Invalid variable reference Q in expression",
		},
		{
			name:   "two values and no operator",
			expr:   "1 2",
			errStr: "Malformed expression",
		},
		{
			name:   "negating text",
			expr:   "-T",
			errStr: "Cannot negate non-numeric value",
		},
		{
			name:   "bang on a number",
			expr:   "!5",
			errStr: "Cannot apply ! to non-Boolean value",
		},
		{
			name:   "comparing boolean against number",
			expr:   "(1 = 1) < 2",
			errStr: "Cannot compare values of different types Boolean and Number",
		},
		{
			name:   "arithmetic on a boolean",
			expr:   "(1 = 1) + 2",
			errStr: "Cannot add Boolean and Number",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := evalExprString(t, ctx, tc.expr)
			assert.EqualError(t, err, tc.errStr)
		})
	}
}

//
// Operand underflow messages differ by operator class, and the
// comparison check must win over the general binary one
//

func Test_evalPostfixOperands(t *testing.T) {
	ctx := newExecContext()

	for _, tc := range []struct {
		name   string
		queue  []*tokenNode
		errStr string
	}{
		{
			name:   "unary without an operand",
			queue:  []*tokenNode{{token: UMINUS}},
			errStr: "Operator - requires an operand",
		},
		{
			name:   "comparison without operands",
			queue:  []*tokenNode{{token: EQUALS}},
			errStr: "Comparison operator = requires two operands",
		},
		{
			name:   "binary without operands",
			queue:  []*tokenNode{{token: PLUS}},
			errStr: "Operator + requires two operands",
		},
		{
			name:   "binary with one operand",
			queue:  []*tokenNode{{token: NUMBER, num: 1}, {token: PLUS}},
			errStr: "Operator + requires two operands",
		},
		{
			name:   "empty queue",
			queue:  nil,
			errStr: "Malformed expression",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := evalPostfix(ctx, tc.queue)
			assert.EqualError(t, err, tc.errStr)
		})
	}
}

//
// Subtraction pops its operands in the right order
//

func Test_evalOperandOrder(t *testing.T) {
	ctx := newExecContext()

	val, err := evalExprString(t, ctx, "10 - 4")
	require.NoError(t, err)
	wantNumber(t, val, 6)

	val, err = evalExprString(t, ctx, "10 / 4")
	require.NoError(t, err)
	wantNumber(t, val, 2.5)

	val, err = evalExprString(t, ctx, "\"ab\" + \"cd\"")
	require.NoError(t, err)
	wantText(t, val, "abcd")
}
