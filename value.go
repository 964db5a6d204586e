package main

import (
	"errors"
	"fmt"
	"strconv"
)

//
// Values are Text, Number or Boolean. Arithmetic and comparisons
// coerce Text to Number when the other side is numeric; nothing
// converts to or from Boolean
//

func textVal(txt string) value {

	return value{kind: textValue, str: txt}
}

func numberVal(num float64) value {

	return value{kind: numberValue, num: num}
}

func boolVal(flag bool) value {

	return value{kind: booleanValue, flag: flag}
}

func valueKindName(kind int) string {

	switch kind {
	default:
		fatalError("invalid value kind %d", kind)
	case textValue:
		return "Text"
	case numberValue:
		return "Number"
	case booleanValue:
		return "Boolean"
	}

	panic(nil) // avoid compiler complaint
}

//
// formatValue renders a value the way PRINT shows it: numbers in
// plain decimal with no exponent, text verbatim, booleans as
// true/false
//

func formatValue(val value) string {

	switch val.kind {
	default:
		fatalError("invalid value kind %d", val.kind)
	case textValue:
		return val.str
	case numberValue:
		return strconv.FormatFloat(val.num, 'f', -1, 64)
	case booleanValue:
		return strconv.FormatBool(val.flag)
	}

	panic(nil) // avoid compiler complaint
}

func coerceNumber(val value) (float64, error) {

	if val.kind == numberValue {
		return val.num, nil
	}

	basicAssert(val.kind == textValue, "coercion from kind %d", val.kind)

	num, err := strconv.ParseFloat(val.str, 64)
	if err != nil {
		return 0, fmt.Errorf(ECOERCETEXT, val.str)
	}

	return num, nil
}

func negateValue(val value) (value, error) {

	if val.kind != numberValue {
		return value{}, errors.New(ENEGATETYPE)
	}

	return numberVal(-val.num), nil
}

func notValue(val value) (value, error) {

	if val.kind != booleanValue {
		return value{}, errors.New(ENOTTYPE)
	}

	return boolVal(!val.flag), nil
}

func arithVerb(op int) string {

	switch op {
	default:
		fatalError("invalid arithmetic operator %d", op)
	case PLUS:
		return "add"
	case MINUS:
		return "subtract"
	case MULTIPLY:
		return "multiply"
	case DIVIDE:
		return "divide"
	}

	panic(nil) // avoid compiler complaint
}

//
// No division-by-zero check: x/0 follows IEEE-754 and yields Inf or
// NaN, which PRINT renders as +Inf/-Inf/NaN
//

func applyArith(op int, num1, num2 float64) float64 {

	switch op {
	default:
		fatalError("invalid arithmetic operator %d", op)
	case PLUS:
		return num1 + num2
	case MINUS:
		return num1 - num2
	case MULTIPLY:
		return num1 * num2
	case DIVIDE:
		return num1 / num2
	}

	panic(nil) // avoid compiler complaint
}

func arithValue(op int, v1, v2 value) (value, error) {

	switch {
	case v1.kind == numberValue && v2.kind == numberValue:
		return numberVal(applyArith(op, v1.num, v2.num)), nil

	case op == PLUS && v1.kind == textValue && v2.kind == textValue:
		return textVal(v1.str + v2.str), nil

	case v1.kind == numberValue && v2.kind == textValue:
		num2, err := coerceNumber(v2)
		if err != nil {
			return value{}, err
		}
		return numberVal(applyArith(op, v1.num, num2)), nil

	case v1.kind == textValue && v2.kind == numberValue:
		num1, err := coerceNumber(v1)
		if err != nil {
			return value{}, err
		}
		return numberVal(applyArith(op, num1, v2.num)), nil
	}

	return value{}, fmt.Errorf(EARITHTYPES, arithVerb(op),
		valueKindName(v1.kind), valueKindName(v2.kind))
}

func compareNumbers(op int, num1, num2 float64) bool {

	switch op {
	default:
		fatalError("invalid comparison operator %d", op)
	case EQUALS:
		return num1 == num2
	case LESSTHAN:
		return num1 < num2
	case GREATERTHAN:
		return num1 > num2
	}

	panic(nil) // avoid compiler complaint
}

func compareTexts(op int, txt1, txt2 string) bool {

	switch op {
	default:
		fatalError("invalid comparison operator %d", op)
	case EQUALS:
		return txt1 == txt2
	case LESSTHAN:
		return txt1 < txt2
	case GREATERTHAN:
		return txt1 > txt2
	}

	panic(nil) // avoid compiler complaint
}

//
// Boolean ordering is not a total order: '<' tests the two flags for
// equality, and '>' is true only for true > false. The derived
// operators below inherit this
//

func compareBools(op int, flag1, flag2 bool) bool {

	switch op {
	default:
		fatalError("invalid comparison operator %d", op)
	case EQUALS:
		return flag1 == flag2
	case LESSTHAN:
		return flag1 == flag2
	case GREATERTHAN:
		return flag1 && !flag2
	}

	panic(nil) // avoid compiler complaint
}

func comparePrimitive(op int, v1, v2 value) (bool, error) {

	switch {
	case v1.kind == numberValue && v2.kind == numberValue:
		return compareNumbers(op, v1.num, v2.num), nil

	case v1.kind == textValue && v2.kind == textValue:
		return compareTexts(op, v1.str, v2.str), nil

	case v1.kind == booleanValue && v2.kind == booleanValue:
		return compareBools(op, v1.flag, v2.flag), nil

	case v1.kind == numberValue && v2.kind == textValue:
		num2, err := coerceNumber(v2)
		if err != nil {
			return false, err
		}
		return compareNumbers(op, v1.num, num2), nil

	case v1.kind == textValue && v2.kind == numberValue:
		num1, err := coerceNumber(v1)
		if err != nil {
			return false, err
		}
		return compareNumbers(op, num1, v2.num), nil
	}

	return false, fmt.Errorf(ECOMPARETYPES,
		valueKindName(v1.kind), valueKindName(v2.kind))
}

//
// <> is derived from =, and <= / >= from > / < by negation, so all
// of them inherit the primitive operators' quirks
//

func compareValues(op int, v1, v2 value) (bool, error) {

	switch op {
	default:
		fatalError("invalid comparison operator %d", op)
	case EQUALS, LESSTHAN, GREATERTHAN:
		return comparePrimitive(op, v1, v2)
	case NOTEQUAL:
		eq, err := comparePrimitive(EQUALS, v1, v2)
		if err != nil {
			return false, err
		}
		return !eq, nil
	case LESSTHANEQUAL:
		gt, err := comparePrimitive(GREATERTHAN, v1, v2)
		if err != nil {
			return false, err
		}
		return !gt, nil
	case GREATERTHANEQUAL:
		lt, err := comparePrimitive(LESSTHAN, v1, v2)
		if err != nil {
			return false, err
		}
		return !lt, nil
	}

	panic(nil) // avoid compiler complaint
}
