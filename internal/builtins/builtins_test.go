package builtins_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emosaker/leaf/internal/builtins"
	"github.com/emosaker/leaf/lang/machine"
	"github.com/emosaker/leaf/lang/value"
)

func run(t *testing.T, src string, stdin string) (value.Value, string) {
	t.Helper()
	var out bytes.Buffer
	st := machine.NewState()
	builtins.Register(st, &out, strings.NewReader(stdin))
	cl, err := st.Load("test.leaf", []byte(src))
	require.NoError(t, err)
	st.PushValue(cl)
	require.NoError(t, st.Call(0, 1))
	return st.Pop(), out.String()
}

func TestPrintJoinsArgsWithCommas(t *testing.T) {
	_, out := run(t, `print(1, "two", 3.0);`, "")
	assert.Equal(t, "1, two, 3\n", out)
}

func TestLenOnStringAndArray(t *testing.T) {
	v, _ := run(t, `return len("hello");`, "")
	assert.Equal(t, int64(5), v.AsInt())

	v, _ = run(t, `return len({1, 2, 3});`, "")
	assert.Equal(t, int64(3), v.AsInt())
}

func TestPushAppendsToArray(t *testing.T) {
	v, _ := run(t, `
		var a = {1, 2};
		push(a, 3, 4);
		return a;
	`, "")
	require.True(t, v.IsArray())
	elems := v.AsArray()
	require.Len(t, elems, 4)
	assert.Equal(t, int64(4), elems[3].AsInt())
}

func TestIntAndFloatCasts(t *testing.T) {
	v, _ := run(t, `return int("42");`, "")
	assert.Equal(t, int64(42), v.AsInt())

	v, _ = run(t, `return float("1.5") + 1;`, "")
	assert.Equal(t, 2.5, v.AsFloat())
}

func TestStrFormatsValue(t *testing.T) {
	v, _ := run(t, `return str(42);`, "")
	require.True(t, v.IsString())
	assert.Equal(t, "42", v.AsString())
}

func TestInputReadsOneLine(t *testing.T) {
	v, _ := run(t, `return input();`, "hello world\n")
	require.True(t, v.IsString())
	assert.Equal(t, "hello world", v.AsString())
}
