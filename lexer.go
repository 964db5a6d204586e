package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var keywordMap map[string]int

//
// Display names for every token kind. Keywords are looked up through
// keywordMap case-insensitively; operator names are used in error
// messages
//

var tokenNames = map[int]string{
	COMMENT:          "COMMENT",
	VARIABLE:         "VARIABLE",
	NUMBER:           "NUMBER",
	BSTRING:          "STRING",
	EQUALS:           "=",
	LESSTHAN:         "<",
	GREATERTHAN:      ">",
	LESSTHANEQUAL:    "<=",
	GREATERTHANEQUAL: ">=",
	NOTEQUAL:         "<>",
	MULTIPLY:         "*",
	DIVIDE:           "/",
	MINUS:            "-",
	PLUS:             "+",
	LPAREN:           "(",
	RPAREN:           ")",
	BANG:             "!",
	UMINUS:           "-",
	GOTO:             "GOTO",
	FOR:              "FOR",
	IF:               "IF",
	INPUT:            "INPUT",
	LET:              "LET",
	NEXT:             "NEXT",
	PRINT:            "PRINT",
	REM:              "REM",
	STEP:             "STEP",
	THEN:             "THEN",
	TO:               "TO",
	WHILE:            "WHILE",
	WEND:             "WEND",
}

func getTokenName(token int) string {

	name, ok := tokenNames[token]
	basicAssert(ok, "invalid token %d", token)

	return name
}

//
// Byte-at-a-time scanner over one source line. peekch returns 0 at
// end of line
//

func peekch(lx *lineLexer) byte {

	if lx.idx >= len(lx.line) {
		return 0
	}

	return lx.line[lx.idx]
}

func getch(lx *lineLexer) byte {

	ch := peekch(lx)
	if ch != 0 {
		lx.idx++
	}

	return ch
}

func skipBlanks(lx *lineLexer) {

	for {
		ch := peekch(lx)
		if ch != ' ' && ch != '\t' {
			break
		}
		getch(lx)
	}
}

func saveToken(lx *lineLexer, t *tokenNode) {

	lx.tokens = append(lx.tokens, t)
}

func lastToken(lx *lineLexer) *tokenNode {

	if len(lx.tokens) == 0 {
		return nil
	}

	return lx.tokens[len(lx.tokens)-1]
}

func scanNumber(lx *lineLexer) (*tokenNode, error) {

	start := lx.idx

	for unicode.IsDigit(rune(peekch(lx))) {
		getch(lx)
	}
	if peekch(lx) == '.' {
		getch(lx)
		for unicode.IsDigit(rune(peekch(lx))) {
			getch(lx)
		}
	}

	num, err := strconv.ParseFloat(lx.line[start:lx.idx], 64)
	if err != nil {
		return nil, errors.New(EILLEGALNUMBER)
	}

	return &tokenNode{token: NUMBER, num: num}, nil
}

func scanIdentifier(lx *lineLexer) string {

	start := lx.idx

	for {
		ch := peekch(lx)
		if !unicode.IsLetter(rune(ch)) && !unicode.IsDigit(rune(ch)) {
			break
		}
		getch(lx)
	}

	return lx.line[start:lx.idx]
}

func scanString(lx *lineLexer) (*tokenNode, error) {

	getch(lx)
	start := lx.idx

	for {
		ch := peekch(lx)
		if ch == 0 {
			return nil, errors.New(EUNTERMINATED)
		}
		if ch == '"' {
			break
		}
		getch(lx)
	}

	txt := lx.line[start:lx.idx]
	getch(lx)

	return &tokenNode{token: BSTRING, text: txt}, nil
}

//
// tokenizeLine turns one raw source line into a numbered, tokenized
// codeLine. A blank line yields a nil codeLine. Every token records
// its 1-based start column in the raw line, which is what the error
// triples report
//

func tokenizeLine(text string) (*codeLine, error) {

	lx := &lineLexer{line: text}

	skipBlanks(lx)
	if peekch(lx) == 0 {
		return nil, nil
	}

	if !unicode.IsDigit(rune(peekch(lx))) {
		return nil, errors.New(ENOLINENO)
	}

	start := lx.idx
	for unicode.IsDigit(rune(peekch(lx))) {
		getch(lx)
	}

	lineNo, err := strconv.ParseUint(lx.line[start:lx.idx], 10, 32)
	if err != nil {
		return nil, errors.New(EILLEGALLINENO)
	}

	for {
		skipBlanks(lx)
		ch := peekch(lx)
		if ch == 0 {
			break
		}
		column := lx.idx + 1

		switch {
		default:
			return nil, fmt.Errorf(EBADCHAR, ch)

		case unicode.IsDigit(rune(ch)) || ch == '.':
			t, err := scanNumber(lx)
			if err != nil {
				return nil, err
			}
			t.column = column
			saveToken(lx, t)

		case unicode.IsLetter(rune(ch)):
			txt := scanIdentifier(lx)
			keyword, ok := keywordMap[strings.ToUpper(txt)]
			if !ok {
				saveToken(lx, &tokenNode{token: VARIABLE, text: txt, column: column})
				break
			}
			saveToken(lx, &tokenNode{token: keyword, column: column})

			//
			// REM swallows the rest of the line as one comment token
			//

			if keyword == REM {
				skipBlanks(lx)
				if peekch(lx) != 0 {
					saveToken(lx, &tokenNode{token: COMMENT, text: lx.line[lx.idx:], column: lx.idx + 1})
					lx.idx = len(lx.line)
				}
			}

		case ch == '"':
			t, err := scanString(lx)
			if err != nil {
				return nil, err
			}
			t.column = column
			saveToken(lx, t)

		case ch == '<':
			getch(lx)
			switch peekch(lx) {
			default:
				saveToken(lx, &tokenNode{token: LESSTHAN, column: column})
			case '=':
				getch(lx)
				saveToken(lx, &tokenNode{token: LESSTHANEQUAL, column: column})
			case '>':
				getch(lx)
				saveToken(lx, &tokenNode{token: NOTEQUAL, column: column})
			}

		case ch == '>':
			getch(lx)
			if peekch(lx) == '=' {
				getch(lx)
				saveToken(lx, &tokenNode{token: GREATERTHANEQUAL, column: column})
			} else {
				saveToken(lx, &tokenNode{token: GREATERTHAN, column: column})
			}

		case ch == '=':
			getch(lx)
			saveToken(lx, &tokenNode{token: EQUALS, column: column})

		case ch == '+':
			getch(lx)
			saveToken(lx, &tokenNode{token: PLUS, column: column})

		case ch == '-':
			getch(lx)

			//
			// '-' is unary unless it follows a value or a right paren
			//

			prev := lastToken(lx)
			if prev == nil || (!isValueToken(prev.token) && prev.token != RPAREN) {
				saveToken(lx, &tokenNode{token: UMINUS, column: column})
			} else {
				saveToken(lx, &tokenNode{token: MINUS, column: column})
			}

		case ch == '*':
			getch(lx)
			saveToken(lx, &tokenNode{token: MULTIPLY, column: column})

		case ch == '/':
			getch(lx)
			saveToken(lx, &tokenNode{token: DIVIDE, column: column})

		case ch == '(':
			getch(lx)
			saveToken(lx, &tokenNode{token: LPAREN, column: column})

		case ch == ')':
			getch(lx)
			saveToken(lx, &tokenNode{token: RPAREN, column: column})

		case ch == '!':
			getch(lx)
			saveToken(lx, &tokenNode{token: BANG, column: column})
		}
	}

	return &codeLine{lineNo: uint32(lineNo), tokens: lx.tokens, line: text}, nil
}

//
// Token classification. The expression parser and evaluator never
// test token kinds directly; they go through these
//

func isValueToken(token int) bool {

	switch token {
	default:
		return false
	case VARIABLE, NUMBER, BSTRING:
		return true
	}
}

func isOperatorToken(token int) bool {

	switch token {
	default:
		return false
	case EQUALS, LESSTHAN, GREATERTHAN, LESSTHANEQUAL, GREATERTHANEQUAL,
		NOTEQUAL, MULTIPLY, DIVIDE, MINUS, PLUS, BANG, UMINUS:
		return true
	}
}

func isUnaryOperator(token int) bool {

	return token == UMINUS || token == BANG
}

func isComparisonOperator(token int) bool {

	switch token {
	default:
		return false
	case EQUALS, LESSTHAN, GREATERTHAN, LESSTHANEQUAL, GREATERTHANEQUAL, NOTEQUAL:
		return true
	}
}

//
// Binary here means "takes two operands", which includes the
// comparisons. The evaluator tests for comparisons first
//

func isBinaryOperator(token int) bool {

	return isOperatorToken(token) && !isUnaryOperator(token)
}

func operatorPrecedence(token int) int {

	switch token {
	default:
		return 4
	case UMINUS, BANG:
		return 12
	case MULTIPLY, DIVIDE:
		return 10
	case MINUS, PLUS:
		return 8
	}
}

func operatorRightAssoc(token int) bool {

	return isUnaryOperator(token)
}
