// Package diag renders leaf's compile and runtime diagnostics to a
// terminal, colorizing the position and the traceback the way an
// interactive tool's error stream typically does.
package diag

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/machine"
	"github.com/emosaker/leaf/lang/parser"
	"github.com/emosaker/leaf/lang/token"
)

var (
	posColor = color.New(color.FgYellow)
	errColor = color.New(color.FgRed, color.Bold)
	traceDim = color.New(color.Faint)
)

// Print writes a human-readable rendering of err to w. It recognizes
// *parser.Error and *compiler.Error (position-tagged compile failures,
// rendered with the offending source line and a caret underline when src
// is available) and *machine.RuntimeError (a message plus a call-frame
// traceback), falling back to a bare error message for anything else. src
// is the full text of the file being compiled; pass nil if unavailable
// (e.g. the file itself failed to open).
func Print(w io.Writer, err error, src []byte) {
	switch e := err.(type) {
	case *parser.Error:
		printPositioned(w, e.Pos, e.Msg, src)
	case *compiler.Error:
		printPositioned(w, e.Pos, e.Msg, src)
	case *machine.RuntimeError:
		fmt.Fprintf(w, "%s\n", errColor.Sprint(e.Msg))
		printTraceback(w, e.Trace)
	default:
		fmt.Fprintf(w, "%s\n", errColor.Sprint(err.Error()))
	}
}

// printPositioned renders "FILE:LINE:COL: message:", followed by the
// offending source line and a caret underline at pos.Col when src holds
// that line.
func printPositioned(w io.Writer, pos token.Position, msg string, src []byte) {
	fmt.Fprintf(w, "%s: %s:\n", posColor.Sprint(pos.String()), errColor.Sprint(msg))
	line, ok := sourceLine(src, pos.Line)
	if !ok {
		return
	}
	fmt.Fprintf(w, "%s\n", line)
	col := pos.Col
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", col-1), errColor.Sprint("^"))
}

// sourceLine returns the 1-indexed line n of src, stripped of its
// terminator.
func sourceLine(src []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := bytes.Split(src, []byte("\n"))
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(string(lines[n-1]), "\r"), true
}

// printTraceback renders frames innermost-first, as RuntimeError.Trace
// stores them, which puts the outermost call last -- the usual order for
// reading a failure bottom-up from where it happened.
func printTraceback(w io.Writer, trace []machine.TraceEntry) {
	for _, fr := range trace {
		if fr.IsHost {
			fmt.Fprintf(w, "%s\n", traceDim.Sprintf("\t-> in %s", fr.Name))
			continue
		}
		fmt.Fprintf(w, "%s\n", traceDim.Sprintf("\t-> line %d, in %s", fr.Line, fr.Name))
	}
}
