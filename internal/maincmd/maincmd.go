// Package maincmd implements the leaf CLI: a single positional argument
// naming a source file, compiled and run to completion. Exit code and
// flag parsing follow the same github.com/mna/mainer convention the
// teacher tool's multi-command driver used, collapsed to spec.md §6's
// one-positional-argument contract.
package maincmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/emosaker/leaf/internal/builtins"
	"github.com/emosaker/leaf/internal/diag"
	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/machine"
)

const binName = "leaf"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <path>
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the %[1]s programming language.

<path> is the source file to compile and run.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd holds the parsed flags and positional argument for one invocation.
// It satisfies the shape github.com/mna/mainer.Parser expects: SetArgs,
// SetFlags and Validate, followed by a call to Main.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)         { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no source file specified")
	}
	if len(c.args) > 1 {
		return errors.New("only one source file may be specified")
	}
	return nil
}

// Main parses args and dispatches: --help/--version short-circuit, else
// the single positional path is loaded, compiled and run.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	if err := c.run(c.args[0], stdio); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// run reads, compiles and executes the source file at path, printing the
// top return value of its implicit main body to stdout. Any open, parse,
// compile or runtime failure is printed via internal/diag (with the
// source line and a caret underline when the failure carries a position)
// and returned for Main to turn into an exit code.
func (c *Cmd) run(path string, stdio mainer.Stdio) error {
	src, err := os.ReadFile(path)
	if err != nil {
		diag.Print(stdio.Stderr, err, nil)
		return err
	}

	st := machine.NewState()
	defer st.Close()
	builtins.Register(st, stdio.Stdout, stdio.Stdin)

	dir := filepath.Dir(path)
	cl, err := st.Load(path, src, compiler.WithLoader(machine.FileLoader(dir)))
	if err != nil {
		diag.Print(stdio.Stderr, err, src)
		return err
	}

	st.PushValue(cl)
	if err := st.Call(0, 1); err != nil {
		diag.Print(stdio.Stderr, err, src)
		return err
	}
	ret := st.Pop()
	if !ret.IsNull() {
		fmt.Fprintln(stdio.Stdout, ret.String())
	}
	return nil
}
