package main

import (
	"github.com/danswartzendruber/avl"
)

//
// A set of wrapper routines to the AVL package.  We do this to hide
// the AVL interface from the interpreter code.  A program is a tree
// of codeLines keyed by line number; the tree is never modified
// during a run, so any number of runs can share one program
//

func cmpLineNos(no1, no2 uint32) int {

	if no1 < no2 {
		return -1
	} else if no1 > no2 {
		return 1
	} else {
		return 0
	}
}

func cmpLineNoKey(key any, node any) int {

	return cmpLineNos(key.(uint32), node.(*codeLine).lineNo)
}

func cmpLineNoNode(node1 any, node2 any) int {

	return cmpLineNos(node1.(*codeLine).lineNo, node2.(*codeLine).lineNo)
}

//
// The zero value is the empty program: a nil root is an empty AVL
// tree, and the first insert grows it
//

func newProgram() *program {

	return &program{}
}

func lineAvlTreeFirstInOrder(prog *program) *codeLine {

	p := avl.AvlTreeFirstInOrder(prog.root)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

func lineAvlTreeNextInOrder(cl *codeLine) *codeLine {

	p := avl.AvlTreeNextInOrder(&cl.avl)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

func lineAvlTreeLookup(prog *program, lineNo uint32) *codeLine {

	p := avl.AvlTreeLookup(prog.root, lineNo, cmpLineNoKey)
	if p != nil {
		return p.(*codeLine)
	} else {
		return nil
	}
}

//
// Inserting a line number that is already present replaces the old
// line: the last definition wins
//

func lineAvlTreeInsert(prog *program, cl *codeLine) {

	old := lineAvlTreeLookup(prog, cl.lineNo)
	if old != nil {
		avl.AvlTreeRemove(&prog.root, &old.avl)
		prog.size--
	}

	p := avl.AvlTreeInsert(&prog.root, &cl.avl, cl, cmpLineNoNode)
	if p != nil {
		fatalError("Line %d already in tree???", cl.lineNo)
	}
	prog.size++
}

//
// programLines returns the lines in ascending line-number order
//

func programLines(prog *program) []*codeLine {

	lines := make([]*codeLine, 0, prog.size)

	for cl := lineAvlTreeFirstInOrder(prog); cl != nil; cl = lineAvlTreeNextInOrder(cl) {
		lines = append(lines, cl)
	}

	return lines
}
