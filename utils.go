package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// Sentinel for ^C during an INPUT read. The INPUT handler turns it
// into a plain Interrupted runtime error rather than wrapping it
//

var errInterrupted = errors.New(EINTERRUPTED)

func newBufLineReader(r io.Reader) *bufLineReader {

	return &bufLineReader{reader: bufio.NewReader(r)}
}

//
// EOF is not an error to INPUT: the read yields empty text, as many
// times as the program asks
//

func (br *bufLineReader) readLine() (string, error) {

	line, err := br.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	return strings.TrimSuffix(line, "\n"), nil
}

//
// Read a line from the terminal, with editing. No prompt text: the
// program decides what, if anything, to PRINT first
//

func (lr *linerLineReader) readLine() (string, error) {

	line, err := lr.state.Prompt("")
	if err != nil {
		if err == io.EOF {
			return "", nil
		}
		if err == liner.ErrPromptAborted {
			return "", errInterrupted
		}
		return "", err
	}

	return line, nil
}

func setupLiner() {

	g.inputLiner = liner.NewLiner()
	g.inputLiner.SetMultiLineMode(true)
}

//
// Close is documented as restoring the terminal to its previous
// state, so it must run on every exit path, including crash()
//

func cleanupLiner() {

	if g.inputLiner != nil {
		g.inputLiner.Close()
		g.inputLiner = nil
	}
}

//
// Report a failed run: the message with its location, then the
// offending source line with a caret under the error column. The
// caret goes red when stdout is a terminal. A column just past the
// end of the line is legitimate (a missing trailing token)
//

func reportRunError(prog *program, re *runError) {

	fmt.Printf("Execution failed at %d:%d because: %s\n", re.lineNo, re.column, re.msg)

	cl := lineAvlTreeLookup(prog, re.lineNo)
	if cl == nil || re.column < 1 || re.column > len(cl.line)+1 {
		return
	}

	fmt.Println(cl.line)

	caret := "^"
	if term.IsTerminal(int(os.Stdout.Fd())) {
		caret = colorRedSeq + "^" + colorResetSeq
	}

	fmt.Printf("%s%s\n", strings.Repeat(" ", re.column-1), caret)
}

func initClock() {

	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo()
}

func printStatistics() {

	var mem runtime.MemStats

	if !g.printStats {
		return
	}

	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo()

	fmt.Println()
	fmt.Printf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))

	runtime.GC()
	runtime.ReadMemStats(&mem)
	fmt.Printf("%dMB memory used\n", convertToMB(mem.HeapAlloc))

	fmt.Printf("%d %s executed\n", s.numStatements,
		pluralize("statement", s.numStatements))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// CPU times come from /proc/self/stat in clock ticks; SC_CLK_TCK
// converts them to seconds. Linux only
//

func getCPUInfo() (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		panic(err)
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		panic(err)
	}

	fields := strings.Fields(string(contents))

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		panic(err)
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		panic(err)
	}

	return utime / clktck, stime / clktck
}

func convertToMB(num uint64) uint64 {

	const MB = 1024 * 1024

	return (num + MB - 1) / MB
}

func pluralize(str string, num int64) string {

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		str += "s"
	}

	return str
}

//
// Print a fatal message and abort the process. We write to standard
// error, since the user may have redirected standard output. Make
// sure to call cleanupLiner first, so the terminal state is sane
//

func crash(msg string) {

	cleanupLiner()

	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	os.Exit(1)
}
