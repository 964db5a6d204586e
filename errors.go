package main

import (
	"fmt"
	"runtime"
)

//
// Manifest constants for the runtime error messages. Statement-level
// messages carry the offending line and column when raised; the
// expression and value messages are plain errors that the statement
// handlers wrap or replace
//

const (
	EINVALIDSYNTAX = "Invalid syntax"
	ELETSYNTAX     = "Invalid syntax for LET"
	EIFSYNTAX      = "Invalid syntax for IF"
	EFORSYNTAX     = "Invalid syntax for FOR"
	ENEXTSYNTAX    = "Invalid syntax for NEXT"
	EGOTONOARG     = "GOTO must be followed by a line number"
	EGOTOBADARG    = "GOTO must be followed by a valid line number"
	EBADTARGET     = "Invalid target line for %s"
	EPRINTEXPR     = "PRINT must be followed by valid expression"
	EINPUTVAR      = "INPUT must be followed by a variable name"
	ELETEXPR       = "Error in LET expression: %s"
	ENOFORLOOP     = "FOR loop is out of context"
	ENEXTUNBOUND   = "Invalid variable expression %s"
	ENEXTNOTNUM    = "Variable %s called by NEXT is not a number"
	EFORBOUNDEXPR  = "Error in FOR bound expression: %s"
	EFORBOUNDNUM   = "FOR loop bound is not a number"
	ESTEPEXPR      = "Error in STEP expression: %s"
	ESTEPNUM       = "STEP value is not a number"
	EWHILEEXPR     = "Error in WHILE condition: %s"
	EWHILEBOOL     = "WHILE condition must be a Boolean"
	EWENDNOWHILE   = "WEND without WHILE"
	EINTERRUPTED   = "Interrupted"
	EREADFAILED    = "INPUT failed (%s)"
	EWRITEFAILED   = "Write error (%s)"
)

//
// Expression errors. EINVALIDEXPR stands in for any parser failure;
// the parser's own messages never surface past evalExpression
//

const (
	EINVALIDEXPR      = "Invalid expression!"
	EMISMATCHEDPARENS = "Mismatched parenthesis in expression"
	EMALFORMEDEXPR    = "Malformed expression"
	EBADEXPRTOKEN     = "Unexpected token %s in expression"
	EUNDEFINEDVAR     = "Invalid variable reference %s in expression"
	EUNARYOPERAND     = "Operator %s requires an operand"
	ECOMPAREOPERANDS  = "Comparison operator %s requires two operands"
	EBINARYOPERANDS   = "Operator %s requires two operands"
)

//
// Value errors
//

const (
	ENEGATETYPE   = "Cannot negate non-numeric value"
	ENOTTYPE      = "Cannot apply ! to non-Boolean value"
	ECOERCETEXT   = "Cannot convert text %q to a number"
	EARITHTYPES   = "Cannot %s %s and %s"
	ECOMPARETYPES = "Cannot compare values of different types %s and %s"
)

//
// Lex errors
//

const (
	ENOLINENO      = "Missing line number"
	EILLEGALLINENO = "Illegal line number"
	EILLEGALNUMBER = "Illegal number"
	EUNTERMINATED  = "Unterminated string literal"
	EBADCHAR       = "Unexpected character %q"
)

func (re *runError) Error() string {

	return fmt.Sprintf("%d:%d: %s", re.lineNo, re.column, re.msg)
}

func (be *basicErrorInfo) Error() string {

	return fmt.Sprintf("%q at %s line %d", be.msg, be.file, be.line)
}

//
// fatalError reports an interpreter bug, never a user error. The
// panic payload is not recovered anywhere, so it takes the process
// down with a stack trace
//

func fatalError(format string, args ...any) {

	file := "unknown"
	line := 0

	_, callerFile, callerLine, ok := runtime.Caller(1)
	if ok {
		file = callerFile
		line = callerLine
	}

	panic(&basicErrorInfo{msg: fmt.Sprintf(format, args...), file: file, line: line})
}

func basicAssert(chk bool, format string, args ...any) {

	if !chk {
		fatalError(format, args...)
	}
}
