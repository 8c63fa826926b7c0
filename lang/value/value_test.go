package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarRoundtrip(t *testing.T) {
	require.Equal(t, int64(42), NewInt(42).AsInt())
	require.InDelta(t, 3.5, NewFloat(3.5).AsFloat(), 1e-9)
	require.True(t, NewBool(true).AsBool())
	require.False(t, NewBool(false).AsBool())
	require.True(t, Null().IsNull())
}

func TestTruthy(t *testing.T) {
	require.False(t, Null().Truthy())
	require.False(t, NewBool(false).Truthy())
	require.True(t, NewBool(true).Truthy())
	require.True(t, NewInt(0).Truthy())
	require.True(t, NewString("").Truthy())
}

func TestStringValue(t *testing.T) {
	s := NewString("hi")
	require.True(t, s.IsString())
	require.Equal(t, "hi", s.AsString())
}

func TestArrayValue(t *testing.T) {
	a := NewArray([]Value{NewInt(1), NewInt(2)})
	require.True(t, a.IsArray())
	require.Len(t, a.AsArray(), 2)
	a.SetArray(append(a.AsArray(), NewInt(3)))
	require.Len(t, a.AsArray(), 3)
}

func TestHostClosureIdentity(t *testing.T) {
	fn := func(args []Value) ([]Value, error) { return nil, nil }
	c1 := NewHostClosure("f", fn)
	c2 := NewHostClosure("f", fn)
	require.NotEqual(t, c1.Identity(), c2.Identity())
	require.Equal(t, c1.Identity(), c1.Identity())
}

func TestGCMarkTransitions(t *testing.T) {
	s := NewString("x")
	require.True(t, s.IsWhite())
	s.MarkGray()
	require.True(t, s.IsGray())
	s.MarkBlack()
	require.True(t, s.IsBlack())
	s.ResetWhite()
	require.True(t, s.IsWhite())
}

func TestChildrenOfArray(t *testing.T) {
	a := NewArray([]Value{NewInt(1), NewString("y")})
	kids := a.Children()
	require.Len(t, kids, 2)
	require.Equal(t, int64(1), kids[0].AsInt())
}
