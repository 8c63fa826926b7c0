package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/machine"
	"github.com/emosaker/leaf/lang/value"
)

// run compiles and executes src as a zero-argument call, returning
// whatever result the VM's single return value was.
func run(t *testing.T, src string) (value.Value, *machine.State) {
	t.Helper()
	st := machine.NewState()
	cl, err := st.Load("test.leaf", []byte(src))
	require.NoError(t, err)
	st.PushValue(cl)
	err = st.Call(0, 1)
	require.NoError(t, err)
	return st.Pop(), st
}

func TestArithmetic(t *testing.T) {
	v, _ := run(t, `return 2 + 3 * 4;`)
	assert.True(t, v.IsInt())
	assert.Equal(t, int64(14), v.AsInt())
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	v, _ := run(t, `return 1 + 2.5;`)
	assert.True(t, v.IsFloat())
	assert.Equal(t, 3.5, v.AsFloat())
}

func TestDivisionByZero(t *testing.T) {
	st := machine.NewState()
	cl, err := st.Load("test.leaf", []byte(`return 1 / 0;`))
	require.NoError(t, err)
	st.PushValue(cl)
	err = st.Call(0, 1)
	require.Error(t, err)
	assert.True(t, st.Errored)
}

func TestWhileLoopCounting(t *testing.T) {
	v, _ := run(t, `
		var i = 0;
		var sum = 0;
		while i < 5 {
			sum = sum + i;
			i = i + 1;
		}
		return sum;
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(10), v.AsInt())
}

func TestIfElse(t *testing.T) {
	v, _ := run(t, `
		var x = 7;
		if x > 10 {
			return "big";
		} else {
			return "small";
		}
	`)
	require.True(t, v.IsString())
	assert.Equal(t, "small", v.AsString())
}

func TestArrayIndexAssignment(t *testing.T) {
	v, _ := run(t, `
		var xs = {1, 2, 3};
		xs[1] = 99;
		return xs[1];
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(99), v.AsInt())
}

// TestIDXCaptureSurvivesReturn exercises the up-value escape rule: a
// closure capturing a local directly from its enclosing frame must still
// see mutations performed after that frame returns and the capture is
// promoted to the heap.
func TestIDXCaptureSurvivesReturn(t *testing.T) {
	v, _ := run(t, `
		fn counter() {
			var n = 0;
			fn bump() {
				n = n + 1;
				return n;
			}
			return bump;
		}
		var inc = counter();
		inc();
		inc();
		return inc();
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(3), v.AsInt())
}

// TestSharedCaptureAcrossSiblings exercises the invariant that two sibling
// closures capturing the same outer local must observe each other's
// writes once the capture escapes to the heap.
func TestSharedCaptureAcrossSiblings(t *testing.T) {
	v, _ := run(t, `
		fn counter() {
			var n = 0;
			fn bump() {
				n = n + 1;
			}
			fn get() {
				return n;
			}
			bump();
			bump();
			return get;
		}
		var get = counter();
		return get();
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(2), v.AsInt())
}

// TestREFCaptureAtDepthTwo exercises a closure two levels deep capturing a
// local transitively through its immediately enclosing closure's own
// up-value list.
func TestREFCaptureAtDepthTwo(t *testing.T) {
	v, _ := run(t, `
		fn outer() {
			var x = 10;
			fn middle() {
				fn inner() {
					return x;
				}
				return inner;
			}
			return middle;
		}
		var middle = outer();
		var inner = middle();
		return inner();
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(10), v.AsInt())
}

// TestFunctionParametersResolveDistinctSlots exercises a declared function
// with more than one parameter: each parameter must resolve to its own
// stack slot (base+0, base+1, ...), not all collapse onto one.
func TestFunctionParametersResolveDistinctSlots(t *testing.T) {
	v, _ := run(t, `
		fn sub(a, b) {
			return a - b;
		}
		return sub(10, 3);
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(7), v.AsInt())
}

// TestLocalsAfterParametersResolveCorrectly exercises a function whose
// body declares its own locals in addition to taking parameters, checking
// that the locals land above the parameter window rather than aliasing it.
func TestLocalsAfterParametersResolveCorrectly(t *testing.T) {
	v, _ := run(t, `
		fn scale(x, factor) {
			var doubled = x * 2;
			return doubled * factor;
		}
		return scale(5, 3);
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(30), v.AsInt())
}

// TestNaNComparisonsAreUnordered exercises the IEEE 754 rule that every
// ordering comparison against a NaN operand is false, never true.
func TestNaNComparisonsAreUnordered(t *testing.T) {
	v, _ := run(t, `
		var nan = 0.0 / 0.0;
		if nan <= 5 {
			return "ordered";
		}
		if nan >= 5 {
			return "ordered";
		}
		return "unordered";
	`)
	require.True(t, v.IsString())
	assert.Equal(t, "unordered", v.AsString())
}

// TestNegativePowerPromotesToFloat exercises POW with a negative integer
// exponent, which has no exact integer result.
func TestNegativePowerPromotesToFloat(t *testing.T) {
	v, _ := run(t, `return 2 ** -1;`)
	require.True(t, v.IsFloat())
	assert.Equal(t, 0.5, v.AsFloat())
}

// TestClosureEscapesInsideReturnedArray exercises the up-value promotion
// path for a closure that isn't itself the return value but is nested
// inside one: the cell it captured must still be promoted off the
// soon-to-be-reused stack window.
func TestClosureEscapesInsideReturnedArray(t *testing.T) {
	v, _ := run(t, `
		fn make() {
			var x = 0;
			fn inc() {
				x = x + 1;
				return x;
			}
			return {inc};
		}
		var fns = make();
		var inc = fns[0];
		inc();
		inc();
		return inc();
	`)
	require.True(t, v.IsInt())
	assert.Equal(t, int64(3), v.AsInt())
}

func TestGlobalsRoundTrip(t *testing.T) {
	st := machine.NewState()
	st.SetGlobal("answer", value.NewInt(42))
	v, ok := st.GetGlobal("answer")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.AsInt())
}

func TestHostClosureCall(t *testing.T) {
	st := machine.NewState()
	st.RegisterHostClosure("double", func(args []value.Value) ([]value.Value, error) {
		return []value.Value{value.NewInt(args[0].AsInt() * 2)}, nil
	})
	cl, err := st.Load("test.leaf", []byte(`return double(21);`))
	require.NoError(t, err)
	st.PushValue(cl)
	require.NoError(t, st.Call(0, 1))
	v := st.Pop()
	assert.Equal(t, int64(42), v.AsInt())
}

// TestHostClosureReturnValueIsTracked ensures a heap value a host closure
// constructs and returns directly (bypassing PushString/PushArray) is
// linked into the collector's list, not just reachable via the Go heap.
func TestHostClosureReturnValueIsTracked(t *testing.T) {
	st := machine.NewState()
	st.RegisterHostClosure("greet", func(args []value.Value) ([]value.Value, error) {
		return []value.Value{value.NewString("hello")}, nil
	})
	before := st.LiveObjects()
	cl, err := st.Load("test.leaf", []byte(`return greet();`))
	require.NoError(t, err)
	st.PushValue(cl)
	require.NoError(t, st.Call(0, 1))
	v := st.Pop()
	require.True(t, v.IsString())
	assert.Equal(t, "hello", v.AsString())
	assert.True(t, v.IsTracked())
	assert.Greater(t, st.LiveObjects(), before)
}

func TestLoadWithoutLoaderOption(t *testing.T) {
	st := machine.NewState()
	cl, err := st.Load("test.leaf", []byte(`var x = 1; return x;`), compiler.WithLoader(nil))
	require.NoError(t, err)
	st.PushValue(cl)
	require.NoError(t, st.Call(0, 1))
	v := st.Pop()
	assert.Equal(t, int64(1), v.AsInt())
}

func TestCollectReclaimsUnreachableArray(t *testing.T) {
	st := machine.NewState()
	cl, err := st.Load("test.leaf", []byte(`var a = {1, 2, 3}; return 0;`))
	require.NoError(t, err)
	st.PushValue(cl)
	require.NoError(t, st.Call(0, 1))
	st.Pop()
	st.Collect()
	assert.Equal(t, 0, st.LiveObjects())
}
