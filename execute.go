package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goforj/godump"
)

func newInterp(input lineReader, output io.Writer) *interp {

	return &interp{input: input, output: output}
}

//
// The line index gives the executor ordinal addressing: the lines in
// ascending line-number order, plus a map from line number to ordinal
//

func buildLineIndex(prog *program) ([]*codeLine, map[uint32]int) {

	lines := programLines(prog)

	lineMap := make(map[uint32]int, len(lines))
	for i, cl := range lines {
		lineMap[cl.lineNo] = i
	}

	return lines, lineMap
}

//
// Execute runs the program from its lowest line. It returns the
// completion message, or a *runError carrying the line, column and
// message of the first runtime error. All run state lives in the
// run structure built here
//
// Statement handlers report errors by panicking a *runError through
// runtimeError; the deferred recover below is the only place that
// catches them. Anything else that panics is an interpreter bug and
// is left to crash
//

func (ip *interp) Execute(prog *program) (msg string, err error) {

	r := &run{ip: ip, ctx: newExecContext()}

	defer func() {
		s.numStatements = r.statements
		if e := recover(); e != nil {
			re, ok := e.(*runError)
			if !ok {
				panic(e)
			}
			msg = ""
			err = re
		}
	}()

	r.lines, r.lineMap = buildLineIndex(prog)
	if len(r.lines) == 0 {
		return completedMsg, nil
	}

	for {
		r.cur = r.lines[r.pc]

		//
		// The jumped flag is reset every iteration, so a line with
		// no tokens is an ordinary fall-through no-op even when it
		// was reached by a jump
		//

		r.jumped = false

		if ip.traceExec {
			fmt.Println(r.cur.line)
		}

		if len(r.cur.tokens) != 0 {
			r.executeStmt(r.cur)
			r.statements++
		}

		//
		// Only GOTO and a taken IF set the jumped flag. A NEXT/WEND
		// rewind does not, so the increment below is what moves
		// execution onto the line after the loop head
		//

		if !r.jumped {
			r.pc++
			if r.pc == len(r.lines) {
				break
			}
		}
	}

	return completedMsg, nil
}

//
// Runtime error raisers. Statement errors report at the statement
// keyword's column unless the caller picks a more precise token
//

func (r *run) runtimeErrorAt(column int, format string, args ...any) {

	panic(&runError{
		lineNo: r.cur.lineNo,
		column: column,
		msg:    fmt.Sprintf(format, args...),
	})
}

func (r *run) runtimeError(t *tokenNode, format string, args ...any) {

	r.runtimeErrorAt(t.column, format, args...)
}

func (r *run) runtimeCheck(chk bool, t *tokenNode, format string, args ...any) {

	if !chk {
		r.runtimeError(t, format, args...)
	}
}

func columnAfter(t *tokenNode) int {

	return t.column + len(getTokenName(t.token))
}

//
// Jump targets arrive as float64 literals. The conversion saturates:
// NaN and negatives become 0, anything above the uint32 range becomes
// the highest line number, the rest truncates toward zero
//

func targetLineNo(num float64) uint32 {

	if math.IsNaN(num) || num <= 0 {
		return 0
	}
	if num >= math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(num)
}

func (r *run) jumpTo(target uint32, errTok *tokenNode, stmtName string) {

	idx, ok := r.lineMap[target]
	r.runtimeCheck(ok, errTok, EBADTARGET, stmtName)

	r.pc = idx
	r.jumped = true
}

//
// rewindTo deliberately leaves the jumped flag alone: the counter
// still advances after the current statement, so execution resumes
// on the line AFTER the loop head instead of re-running the head
//

func (r *run) rewindTo(homeLine uint32) {

	idx, ok := r.lineMap[homeLine]
	basicAssert(ok, "loop home line %d missing from index", homeLine)

	r.pc = idx
}

func (r *run) homeLineTokens(homeLine uint32) []*tokenNode {

	idx, ok := r.lineMap[homeLine]
	basicAssert(ok, "loop home line %d missing from index", homeLine)

	return r.lines[idx].tokens
}

func (r *run) executeStmt(cl *codeLine) {

	c := &tokenCursor{tokens: cl.tokens}
	kw := c.next()

	switch kw.token {
	default:
		r.runtimeError(kw, EINVALIDSYNTAX)

	case REM:
		// nothing to do

	case GOTO:
		r.executeGoto(c, kw)

	case LET:
		r.executeLet(c, kw)

	case PRINT:
		r.executePrint(c, kw)

	case INPUT:
		r.executeInput(c, kw)

	case IF:
		r.executeIf(c, kw)

	case FOR:
		r.executeFor(c, kw)

	case NEXT:
		r.executeNext(c, kw)

	case WHILE:
		r.executeWhile(c, kw)

	case WEND:
		r.executeWend(c, kw)
	}
}

func (r *run) executeGoto(c *tokenCursor, kw *tokenNode) {

	targ := c.next()
	if targ == nil {
		r.runtimeErrorAt(columnAfter(kw), EGOTONOARG)
	}
	if targ.token != NUMBER {
		r.runtimeError(targ, EGOTOBADARG)
	}

	r.jumpTo(targetLineNo(targ.num), targ, "GOTO")
}

//
// The expression is evaluated before the statement shape is checked,
// so when both are broken the expression error wins
//

func (r *run) executeLet(c *tokenCursor, kw *tokenNode) {

	vtok := c.next()
	eqTok := c.next()
	val, err := r.evalExpression(c)

	switch {
	case vtok != nil && vtok.token == VARIABLE &&
		eqTok != nil && eqTok.token == EQUALS && err == nil:
		r.bindVariable(vtok.text, val)

	case err != nil:
		r.runtimeError(kw, ELETEXPR, err)

	default:
		r.runtimeError(kw, ELETSYNTAX)
	}
}

//
// PRINT discards the underlying evaluation error and reports its own
// one-size message. No trailing newline is written
//

func (r *run) executePrint(c *tokenCursor, kw *tokenNode) {

	val, err := r.evalExpression(c)
	if err != nil {
		r.runtimeError(kw, EPRINTEXPR)
	}

	if _, err := fmt.Fprint(r.ip.output, formatValue(val)); err != nil {
		r.runtimeError(kw, EWRITEFAILED, err)
	}
}

//
// INPUT always consumes one line from the run's input, but only an
// unbound variable takes the value (as Text). EOF reads as empty
// text, any number of times
//

func (r *run) executeInput(c *tokenCursor, kw *tokenNode) {

	vtok := c.next()
	if vtok == nil || vtok.token != VARIABLE {
		r.runtimeErrorAt(columnAfter(kw), EINPUTVAR)
	}

	line, err := r.ip.input.readLine()
	if err == errInterrupted {
		r.runtimeError(kw, EINTERRUPTED)
	}
	if err != nil {
		r.runtimeError(kw, EREADFAILED, err)
	}

	if _, ok := lookupVariable(r.ctx, vtok.text); !ok {
		r.bindVariable(vtok.text, textVal(strings.TrimSpace(line)))
	}
}

//
// A false condition falls through with no state change; only a true
// one jumps. Every malformed variation is the same syntax error
//

func (r *run) executeIf(c *tokenCursor, kw *tokenNode) {

	val, err := r.evalExpression(c)
	thenTok := c.next()
	targTok := c.next()

	if err != nil || val.kind != booleanValue ||
		thenTok == nil || thenTok.token != THEN ||
		targTok == nil || targTok.token != NUMBER {
		r.runtimeError(kw, EIFSYNTAX)
	}

	if val.flag {
		r.jumpTo(targetLineNo(targTok.num), kw, "IF")
	}
}

//
// FOR evaluates the start and end bounds at entry, binds the loop
// variable to the start and records where the bound expression
// begins so NEXT can re-evaluate it live. The direction is fixed
// here: ascending only when start < end, strictly. A STEP clause is
// noted but its expression is NOT evaluated or saved; NEXT reads the
// step from its own line. The body always runs at least once
//

func (r *run) executeFor(c *tokenCursor, kw *tokenNode) {

	vtok := c.next()
	eqTok := c.next()
	if vtok == nil || vtok.token != VARIABLE || eqTok == nil || eqTok.token != EQUALS {
		r.runtimeError(kw, EFORSYNTAX)
	}

	start, err := r.evalExpression(c)
	if err != nil || start.kind != numberValue {
		r.runtimeError(kw, EFORSYNTAX)
	}

	toTok := c.next()
	if toTok == nil || toTok.token != TO {
		r.runtimeError(kw, EFORSYNTAX)
	}

	boundPos := c.idx
	end, err := r.evalExpression(c)
	if err != nil || end.kind != numberValue {
		r.runtimeError(kw, EFORSYNTAX)
	}

	hasStep := false
	if st := c.peek(); st != nil && st.token == STEP {
		hasStep = true
	}

	r.bindVariable(vtok.text, start)

	bindForRecord(r.ctx, vtok.text, &forRecord{
		homeLine:  r.cur.lineNo,
		boundPos:  boundPos,
		ascending: start.num < end.num,
		hasStep:   hasStep,
	})
}

//
// NEXT re-evaluates the loop bound from the FOR line on every pass.
// When the FOR carried a STEP clause, the step expression is read
// from the tokens following the variable on the NEXT line itself;
// otherwise the step is +/-1 by the recorded direction. The loop
// continues strictly below (or above, descending) the bound, and on
// exit the variable keeps its last in-loop value
//

func (r *run) executeNext(c *tokenCursor, kw *tokenNode) {

	vtok := c.next()
	if vtok == nil || vtok.token != VARIABLE {
		r.runtimeError(kw, ENEXTSYNTAX)
	}
	name := vtok.text

	rec := lookupForRecord(r.ctx, name)
	r.runtimeCheck(rec != nil, kw, ENOFORLOOP)

	cur, ok := lookupVariable(r.ctx, name)
	r.runtimeCheck(ok, kw, ENEXTUNBOUND, name)
	r.runtimeCheck(cur.kind == numberValue, kw, ENEXTNOTNUM, name)

	hc := &tokenCursor{tokens: r.homeLineTokens(rec.homeLine), idx: rec.boundPos}
	end, err := r.evalExpression(hc)
	if err != nil {
		r.runtimeError(kw, EFORBOUNDEXPR, err)
	}
	r.runtimeCheck(end.kind == numberValue, kw, EFORBOUNDNUM)

	step := 1.0
	if !rec.ascending {
		step = -1.0
	}
	if rec.hasStep {
		sval, err := r.evalExpression(c)
		if err != nil {
			r.runtimeError(kw, ESTEPEXPR, err)
		}
		r.runtimeCheck(sval.kind == numberValue, kw, ESTEPNUM)
		step = sval.num
	}

	next := cur.num + step

	var continuing bool
	if rec.ascending {
		continuing = next < end.num
	} else {
		continuing = next > end.num
	}

	if continuing {
		r.bindVariable(name, numberVal(next))
		r.rewindTo(rec.homeLine)
	} else {
		dropForRecord(r.ctx, name)
	}
}

//
// WHILE type-checks its condition but ignores the result: the body
// always runs once, and WEND decides whether to loop. The record is
// pushed unconditionally
//

func (r *run) executeWhile(c *tokenCursor, kw *tokenNode) {

	condPos := c.idx

	val, err := r.evalExpression(c)
	if err != nil {
		r.runtimeError(kw, EWHILEEXPR, err)
	}
	r.runtimeCheck(val.kind == booleanValue, kw, EWHILEBOOL)

	pushWhileRecord(r.ctx, whileRecord{homeLine: r.cur.lineNo, condPos: condPos})
}

func (r *run) executeWend(c *tokenCursor, kw *tokenNode) {

	top, ok := topWhileRecord(r.ctx)
	r.runtimeCheck(ok, kw, EWENDNOWHILE)

	hc := &tokenCursor{tokens: r.homeLineTokens(top.homeLine), idx: top.condPos}
	val, err := r.evalExpression(hc)
	if err != nil {
		r.runtimeError(kw, EWHILEEXPR, err)
	}
	r.runtimeCheck(val.kind == booleanValue, kw, EWHILEBOOL)

	if val.flag {
		r.rewindTo(top.homeLine)
	} else {
		popWhileRecord(r.ctx)
	}
}

//
// Token cursor over one line's tokens. next returns nil past the end
//

func (c *tokenCursor) next() *tokenNode {

	if c.idx >= len(c.tokens) {
		return nil
	}

	t := c.tokens[c.idx]
	c.idx++

	return t
}

func (c *tokenCursor) peek() *tokenNode {

	if c.idx >= len(c.tokens) {
		return nil
	}

	return c.tokens[c.idx]
}

//
// Shunting-yard conversion from infix tokens to a postfix queue.
// Parsing stops, without consuming, at end of line or at a THEN, TO
// or STEP boundary, so statement handlers can pick up where the
// expression ended
//

func parseExpression(c *tokenCursor) ([]*tokenNode, error) {

	var outputQueue []*tokenNode
	var operatorStack []*tokenNode

	for {
		t := c.peek()
		if t == nil || t.token == THEN || t.token == TO || t.token == STEP {
			break
		}
		c.next()

		switch {
		default:
			return nil, fmt.Errorf(EBADEXPRTOKEN, getTokenName(t.token))

		case isValueToken(t.token):
			outputQueue = append(outputQueue, t)

		case isOperatorToken(t.token):

			//
			// Pop every stacked operator that binds ahead of this
			// one. A left parenthesis is not an operator, so it
			// stops the popping
			//

			for len(operatorStack) > 0 {
				top := operatorStack[len(operatorStack)-1]
				if !isOperatorToken(top.token) {
					break
				}
				if operatorRightAssoc(t.token) {
					if operatorPrecedence(t.token) >= operatorPrecedence(top.token) {
						break
					}
				} else {
					if operatorPrecedence(t.token) > operatorPrecedence(top.token) {
						break
					}
				}
				operatorStack = operatorStack[:len(operatorStack)-1]
				outputQueue = append(outputQueue, top)
			}
			operatorStack = append(operatorStack, t)

		case t.token == LPAREN:
			operatorStack = append(operatorStack, t)

		case t.token == RPAREN:
			for {
				if len(operatorStack) == 0 {
					return nil, errors.New(EMISMATCHEDPARENS)
				}
				top := operatorStack[len(operatorStack)-1]
				operatorStack = operatorStack[:len(operatorStack)-1]
				if top.token == LPAREN {
					break
				}
				outputQueue = append(outputQueue, top)
			}
		}
	}

	for len(operatorStack) > 0 {
		top := operatorStack[len(operatorStack)-1]
		operatorStack = operatorStack[:len(operatorStack)-1]
		if top.token == LPAREN || top.token == RPAREN {
			return nil, errors.New(EMISMATCHEDPARENS)
		}
		outputQueue = append(outputQueue, top)
	}

	return outputQueue, nil
}

//
// Postfix evaluation over a value stack. The comparison test comes
// before the general binary test because isBinaryOperator covers the
// comparisons too. Exactly one value must remain at the end
//

func evalPostfix(ctx *execContext, queue []*tokenNode) (value, error) {

	stack := &rpnStack{}

	for _, t := range queue {
		switch {
		default:
			return value{}, fmt.Errorf(EBADEXPRTOKEN, getTokenName(t.token))

		case t.token == NUMBER:
			rpnPush(stack, numberVal(t.num))

		case t.token == BSTRING:
			rpnPush(stack, textVal(t.text))

		case t.token == VARIABLE:
			val, ok := lookupVariable(ctx, t.text)
			if !ok {
				return value{}, fmt.Errorf(EUNDEFINEDVAR, t.text)
			}
			rpnPush(stack, val)

		case isUnaryOperator(t.token):
			if rpnDepth(stack) < 1 {
				return value{}, fmt.Errorf(EUNARYOPERAND, getTokenName(t.token))
			}
			operand := rpnPop(stack)

			var result value
			var err error
			if t.token == UMINUS {
				result, err = negateValue(operand)
			} else {
				result, err = notValue(operand)
			}
			if err != nil {
				return value{}, err
			}
			rpnPush(stack, result)

		case isComparisonOperator(t.token):
			if rpnDepth(stack) < 2 {
				return value{}, fmt.Errorf(ECOMPAREOPERANDS, getTokenName(t.token))
			}
			operand2 := rpnPop(stack)
			operand1 := rpnPop(stack)

			flag, err := compareValues(t.token, operand1, operand2)
			if err != nil {
				return value{}, err
			}
			rpnPush(stack, boolVal(flag))

		case isBinaryOperator(t.token):
			if rpnDepth(stack) < 2 {
				return value{}, fmt.Errorf(EBINARYOPERANDS, getTokenName(t.token))
			}
			operand2 := rpnPop(stack)
			operand1 := rpnPop(stack)

			result, err := arithValue(t.token, operand1, operand2)
			if err != nil {
				return value{}, err
			}
			rpnPush(stack, result)
		}
	}

	if rpnDepth(stack) != 1 {
		return value{}, errors.New(EMALFORMEDEXPR)
	}

	return rpnPop(stack), nil
}

//
// evalExpression is what the statement handlers call: parse, then
// evaluate against the run's bindings. Parser failures all surface
// as the one invalid-expression message
//

func (r *run) evalExpression(c *tokenCursor) (value, error) {

	queue, err := parseExpression(c)
	if err != nil {
		return value{}, errors.New(EINVALIDEXPR)
	}

	if r.ip.traceDump {
		godump.Dump(queue)
	}

	return evalPostfix(r.ctx, queue)
}

//
// RPN value stack. Callers check the depth before popping; an
// underflow here is an interpreter bug
//

func rpnPush(stack *rpnStack, val value) {

	stack.entries = append(stack.entries, val)
}

func rpnPop(stack *rpnStack) value {

	depth := rpnDepth(stack)
	basicAssert(depth > 0, "RPN stack underflow")

	val := stack.entries[depth-1]
	stack.entries = stack.entries[:depth-1]

	return val
}

func rpnDepth(stack *rpnStack) int {

	return len(stack.entries)
}
