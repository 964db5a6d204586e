package main

import (
	"bufio"
	"io"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
)

//
// Constants
//

const VERSION = "0.4.0"

const completedMsg = "\nCompleted Successfully"

const colorRedSeq = "\033[31m"
const colorResetSeq = "\033[0m"

//
// Token kinds. The lexer produces these; the expression parser and
// evaluator only ever see them through the classification helpers in
// lexer.go
//

const (
	COMMENT = iota + 1
	VARIABLE
	NUMBER
	BSTRING
	EQUALS
	LESSTHAN
	GREATERTHAN
	LESSTHANEQUAL
	GREATERTHANEQUAL
	NOTEQUAL
	MULTIPLY
	DIVIDE
	MINUS
	PLUS
	LPAREN
	RPAREN
	BANG
	UMINUS
	GOTO
	FOR
	IF
	INPUT
	LET
	NEXT
	PRINT
	REM
	STEP
	THEN
	TO
	WHILE
	WEND
)

//
// Value kinds
//

const (
	textValue = iota
	numberValue
	booleanValue
)

//
// Type definitions
//

type tokenNode struct {
	text   string
	num    float64
	token  int
	column int
}

type codeLine struct {
	avl    avl.AvlNode
	tokens []*tokenNode
	line   string
	lineNo uint32
}

type program struct {
	root *avl.AvlNode
	size int
}

type value struct {
	str  string
	num  float64
	kind int
	flag bool
}

type forRecord struct {
	homeLine  uint32
	boundPos  int
	ascending bool
	hasStep   bool
}

type whileRecord struct {
	homeLine uint32
	condPos  int
}

type execContext struct {
	variables  map[string]value
	forLoops   map[string]*forRecord
	whileStack []whileRecord
}

type rpnStack struct {
	entries []value
}

type tokenCursor struct {
	tokens []*tokenNode
	idx    int
}

type lineLexer struct {
	line   string
	tokens []*tokenNode
	idx    int
}

type lineReader interface {
	readLine() (string, error)
}

type bufLineReader struct {
	reader *bufio.Reader
}

type linerLineReader struct {
	state *liner.State
}

type interp struct {
	input     lineReader
	output    io.Writer
	traceExec bool
	traceVars bool
	traceDump bool
}

//
// This structure contains the non-persistent state of one run. A
// fresh one is built for every Execute call, so a loaded program can
// be run any number of times
//

type run struct {
	ip         *interp
	ctx        *execContext
	lines      []*codeLine
	lineMap    map[uint32]int
	cur        *codeLine
	pc         int
	statements int64
	jumped     bool
}

type runError struct {
	msg    string
	lineNo uint32
	column int
}

type basicErrorInfo struct {
	msg  string
	file string
	line int
}

//
// Global variables
//

//
// Command line state
//

var g struct {
	inputLiner      *liner.State
	programFilename string
	printStats      bool
	traceExec       bool
	traceVars       bool
	traceDump       bool
}

//
// Runtime statistics for the most recent run
//

var s struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}
