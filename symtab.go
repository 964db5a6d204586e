package main

import (
	"fmt"
)

//
// The execution context holds everything one run binds: variable
// values, the active FOR records and the WHILE stack. A fresh one is
// created per Execute call, so nothing leaks between runs
//

func newExecContext() *execContext {

	return &execContext{
		variables: make(map[string]value),
		forLoops:  make(map[string]*forRecord),
	}
}

func lookupVariable(ctx *execContext, name string) (value, bool) {

	val, ok := ctx.variables[name]

	return val, ok
}

//
// bindVariable inserts or overwrites; a rebind may change the value
// kind. All stores funnel through here so -vars can trace them
//

func (r *run) bindVariable(name string, val value) {

	if r.ip.traceVars {
		oval, ok := lookupVariable(r.ctx, name)
		if ok {
			fmt.Printf("Variable %s changed from %s to %s\n",
				name, formatValue(oval), formatValue(val))
		} else {
			fmt.Printf("Variable %s = %s\n", name, formatValue(val))
		}
	}

	r.ctx.variables[name] = val
}

//
// FOR records are keyed by loop variable name. A second FOR over the
// same variable replaces the first record, and records abandoned by
// jumping out of a loop stay behind until a NEXT retires them
//

func lookupForRecord(ctx *execContext, name string) *forRecord {

	return ctx.forLoops[name]
}

func bindForRecord(ctx *execContext, name string, rec *forRecord) {

	ctx.forLoops[name] = rec
}

func dropForRecord(ctx *execContext, name string) {

	delete(ctx.forLoops, name)
}

func pushWhileRecord(ctx *execContext, rec whileRecord) {

	ctx.whileStack = append(ctx.whileStack, rec)
}

func topWhileRecord(ctx *execContext) (whileRecord, bool) {

	if len(ctx.whileStack) == 0 {
		return whileRecord{}, false
	}

	return ctx.whileStack[len(ctx.whileStack)-1], true
}

func popWhileRecord(ctx *execContext) {

	basicAssert(len(ctx.whileStack) > 0, "WHILE stack underflow")

	ctx.whileStack = ctx.whileStack[:len(ctx.whileStack)-1]
}
