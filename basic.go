package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"
)

//
// Tricky: init is called under the hood by the GO runtime when
// we fire up, so there are no visible calls to it!
//

func init() {

	initMaps()
}

//
// Set up the keyword map. The lexer identifies keywords by looking
// up each identifier here upper-cased, so BASIC keywords are case
// insensitive while variable names keep their case
//

func initMaps() {

	keywordMap = make(map[string]int)

	for tok := GOTO; tok <= WEND; tok++ {
		keywordMap[getTokenName(tok)] = tok
	}
}

func main() {

	//
	// Close the Liner instance on the way out, to make sure we end
	// up back in normal (cooked) terminal mode
	//

	defer func() {
		cleanupLiner()
	}()

	flag.Usage = usage
	flag.BoolVar(&g.printStats, "stats", false,
		"print CPU usage and statement count after the run")
	flag.BoolVar(&g.traceExec, "trace", false,
		"print each line before executing it")
	flag.BoolVar(&g.traceVars, "vars", false,
		"report every variable bind and rebind")
	flag.BoolVar(&g.traceDump, "dump", false,
		"dump each parsed postfix queue")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("yarxbi %s\n", VERSION)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	g.programFilename = flag.Arg(0)

	//
	// The wall clock starts before loading, so the elapsed figure
	// covers tokenizing too
	//

	started := time.Now()
	if g.printStats {
		initClock()
	}

	prog := loadProgram(g.programFilename)

	var input lineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		setupLiner()
		input = &linerLineReader{state: g.inputLiner}
	} else {
		input = newBufLineReader(os.Stdin)
	}

	ip := newInterp(input, os.Stdout)
	ip.traceExec = g.traceExec
	ip.traceVars = g.traceVars
	ip.traceDump = g.traceDump

	msg, err := ip.Execute(prog)
	if err != nil {
		reportRunError(prog, err.(*runError))
		printStatistics()
		cleanupLiner()
		os.Exit(1)
	}

	fmt.Printf("%s in %v\n", msg, time.Since(started))

	printStatistics()
}

//
// Load and tokenize the program. A blank source line is skipped; a
// line number with no statement still occupies its slot as a no-op.
// Later lines with the same number replace earlier ones
//

func loadProgram(filename string) *program {

	f, err := os.Open(filename)
	if err != nil {
		crash(fmt.Sprintf("Unable to open %q (%v)", filename, err))
	}
	defer f.Close()

	prog := newProgram()

	scanner := bufio.NewScanner(f)
	fileLine := 0
	for scanner.Scan() {
		fileLine++

		cl, err := tokenizeLine(scanner.Text())
		if err != nil {
			crash(fmt.Sprintf("Error at line %d: %v", fileLine, err))
		}
		if cl == nil {
			continue
		}

		lineAvlTreeInsert(prog, cl)
	}

	if err := scanner.Err(); err != nil {
		crash(fmt.Sprintf("Error reading %q (%v)", filename, err))
	}

	return prog
}
