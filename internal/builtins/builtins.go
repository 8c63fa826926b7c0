// Package builtins registers leaf's standard host closures -- print,
// input, array/string helpers and numeric casts -- against a fresh
// machine.State, the same way the reference implementation's
// lf_state_create binds print at state-creation time.
package builtins

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emosaker/leaf/lang/machine"
	"github.com/emosaker/leaf/lang/value"
)

// Register installs the full builtin set as globals on st. Output goes to
// stdout, input is read from stdin.
func Register(st *machine.State, stdout io.Writer, stdin io.Reader) {
	reader := bufio.NewReader(stdin)

	st.RegisterHostClosure("print", func(args []value.Value) ([]value.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = formatValue(a)
		}
		fmt.Fprintln(stdout, strings.Join(parts, ", "))
		return nil, nil
	})

	st.RegisterHostClosure("input", func(args []value.Value) ([]value.Value, error) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return []value.Value{value.Null()}, nil
		}
		return []value.Value{value.NewString(strings.TrimRight(line, "\r\n"))}, nil
	})

	st.RegisterHostClosure("len", func(args []value.Value) ([]value.Value, error) {
		if err := st.CheckArgCount("len", args, 1); err != nil {
			return nil, err
		}
		switch {
		case args[0].IsString():
			return []value.Value{value.NewInt(int64(len(args[0].AsString())))}, nil
		case args[0].IsArray():
			return []value.Value{value.NewInt(int64(len(args[0].AsArray())))}, nil
		}
		return nil, st.Errorf("len: argument must be string or array, got %s", args[0].Kind())
	})

	st.RegisterHostClosure("push", func(args []value.Value) ([]value.Value, error) {
		if len(args) < 1 {
			return nil, st.Errorf("push: expected at least 1 argument, got %d", len(args))
		}
		elems, err := st.CheckArray("push", args, 0)
		if err != nil {
			return nil, err
		}
		args[0].SetArray(append(elems, args[1:]...))
		return nil, nil
	})

	st.RegisterHostClosure("int", func(args []value.Value) ([]value.Value, error) {
		if err := st.CheckArgCount("int", args, 1); err != nil {
			return nil, err
		}
		switch {
		case args[0].IsInt():
			return []value.Value{args[0]}, nil
		case args[0].IsFloat():
			return []value.Value{value.NewInt(int64(args[0].AsFloat()))}, nil
		case args[0].IsString():
			n, err := strconv.ParseInt(strings.TrimSpace(args[0].AsString()), 10, 64)
			if err != nil {
				return nil, st.Errorf("int: cannot convert %q", args[0].AsString())
			}
			return []value.Value{value.NewInt(n)}, nil
		}
		return nil, st.Errorf("int: cannot convert %s", args[0].Kind())
	})

	st.RegisterHostClosure("float", func(args []value.Value) ([]value.Value, error) {
		if err := st.CheckArgCount("float", args, 1); err != nil {
			return nil, err
		}
		switch {
		case args[0].IsFloat():
			return []value.Value{args[0]}, nil
		case args[0].IsInt():
			return []value.Value{value.NewFloat(float64(args[0].AsInt()))}, nil
		case args[0].IsString():
			f, err := strconv.ParseFloat(strings.TrimSpace(args[0].AsString()), 64)
			if err != nil {
				return nil, st.Errorf("float: cannot convert %q", args[0].AsString())
			}
			return []value.Value{value.NewFloat(f)}, nil
		}
		return nil, st.Errorf("float: cannot convert %s", args[0].Kind())
	})

	st.RegisterHostClosure("str", func(args []value.Value) ([]value.Value, error) {
		if err := st.CheckArgCount("str", args, 1); err != nil {
			return nil, err
		}
		return []value.Value{value.NewString(formatValue(args[0]))}, nil
	})
}

func formatValue(v value.Value) string {
	return v.String()
}
