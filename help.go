package main

import (
	"flag"
	"fmt"
	"os"
)

//
// Called for -h and for any command line botch
//

func usage() {

	fmt.Fprintf(os.Stderr, "yarxbi %s, a line-numbered BASIC interpreter\n\n", VERSION)
	fmt.Fprintf(os.Stderr, "usage: %s [flags] program.bas\n\nflags:\n", os.Args[0])
	flag.PrintDefaults()

	fmt.Fprintln(os.Stderr, "\nstatements:")
	fmt.Fprintln(os.Stderr, "\tREM any text            comment, ignored")
	fmt.Fprintln(os.Stderr, "\tLET v = expr            bind or rebind a variable")
	fmt.Fprintln(os.Stderr, "\tPRINT expr              write the value, no newline")
	fmt.Fprintln(os.Stderr, "\tINPUT v                 read a line of text into an unbound variable")
	fmt.Fprintln(os.Stderr, "\tGOTO n                  jump to line n")
	fmt.Fprintln(os.Stderr, "\tIF expr THEN n          jump to line n when expr is true")
	fmt.Fprintln(os.Stderr, "\tFOR v = a TO b [STEP]   bind v to a, loop toward b")
	fmt.Fprintln(os.Stderr, "\tNEXT v [expr]           advance v, rerun the body while inside the bound")
	fmt.Fprintln(os.Stderr, "\tWHILE expr              run the body at least once")
	fmt.Fprintln(os.Stderr, "\tWEND                    rerun the body while the WHILE condition holds")
}
