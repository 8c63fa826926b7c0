package machine

import (
	"os"
	"path/filepath"

	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/parser"
	"github.com/emosaker/leaf/lang/value"
)

// FileLoader resolves `include` statements against the filesystem,
// relative to dir. It is the external collaborator lang/compiler's
// WithLoader option expects; the CLI wires one rooted at the entry
// source file's directory.
func FileLoader(dir string) func(path string) (*ast.File, error) {
	return func(path string) (*ast.File, error) {
		full := path
		if !filepath.IsAbs(path) {
			full = filepath.Join(dir, path)
		}
		src, err := os.ReadFile(full)
		if err != nil {
			return nil, err
		}
		return parser.Parse(full, src)
	}
}

// Load parses and compiles src under the given filename, then wraps the
// resulting root prototype as a closure value ready to Call with zero
// arguments. It does not push the closure; callers that want it on the
// stack use PushValue.
func (st *State) Load(filename string, src []byte, opts ...compiler.Option) (value.Value, error) {
	file, err := parser.Parse(filename, src)
	if err != nil {
		return value.Value{}, err
	}
	proto, err := compiler.Compile(file, opts...)
	if err != nil {
		return value.Value{}, err
	}
	return st.allocClosure(proto, nil), nil
}
