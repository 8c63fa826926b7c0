package valuemap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emosaker/leaf/lang/value"
)

func TestSetGet(t *testing.T) {
	m := New(4)
	m.Set(value.NewString("a"), value.NewInt(1))
	m.Set(value.NewInt(7), value.NewString("seven"))

	v, ok := m.Get(value.NewString("a"))
	require.True(t, ok)
	require.Equal(t, int64(1), v.AsInt())

	v, ok = m.Get(value.NewInt(7))
	require.True(t, ok)
	require.Equal(t, "seven", v.AsString())

	_, ok = m.Get(value.NewString("missing"))
	require.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	m := New(4)
	m.Set(value.NewString("k"), value.NewInt(1))
	m.Set(value.NewString("k"), value.NewInt(2))
	require.Equal(t, 1, m.Len())
	v, _ := m.Get(value.NewString("k"))
	require.Equal(t, int64(2), v.AsInt())
}

func TestDelete(t *testing.T) {
	m := New(4)
	m.Set(value.NewString("k"), value.NewInt(1))
	require.True(t, m.Delete(value.NewString("k")))
	require.False(t, m.Delete(value.NewString("k")))
	_, ok := m.Get(value.NewString("k"))
	require.False(t, ok)
}

func TestGrowthPreservesEntries(t *testing.T) {
	m := New(1)
	for i := 0; i < 100; i++ {
		m.Set(value.NewInt(int64(i)), value.NewInt(int64(i*i)))
	}
	require.Equal(t, 100, m.Len())
	for i := 0; i < 100; i++ {
		v, ok := m.Get(value.NewInt(int64(i)))
		require.True(t, ok)
		require.Equal(t, int64(i*i), v.AsInt())
	}
}

func TestClosureIdentityKeys(t *testing.T) {
	fn := func(args []value.Value) ([]value.Value, error) { return nil, nil }
	c1 := value.NewHostClosure("f", fn)
	c2 := value.NewHostClosure("f", fn)

	m := New(4)
	m.Set(c1, value.NewInt(1))
	_, ok := m.Get(c2)
	require.False(t, ok, "distinct closures must not alias by content")

	v, ok := m.Get(c1)
	require.True(t, ok)
	require.Equal(t, int64(1), v.AsInt())
}

func TestNullKey(t *testing.T) {
	m := New(4)
	m.Set(value.Null(), value.NewString("nil-keyed"))
	v, ok := m.Get(value.Null())
	require.True(t, ok)
	require.Equal(t, "nil-keyed", v.AsString())
}

func TestClone(t *testing.T) {
	m := New(4)
	m.Set(value.NewInt(1), value.NewInt(2))
	c := m.Clone()
	c.Set(value.NewInt(1), value.NewInt(99))
	orig, _ := m.Get(value.NewInt(1))
	require.Equal(t, int64(2), orig.AsInt())
}
