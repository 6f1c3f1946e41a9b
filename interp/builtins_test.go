package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyAccessStringSizeAndSplit(t *testing.T) {
	v, err := propertyAccess("hello", "size", 0)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)

	splitFn, err := propertyAccess("a,b,c", "split", 0)
	require.NoError(t, err)
	fn, ok := splitFn.(HostFunc)
	require.True(t, ok)
	result, err := fn.call(nil, []Value{","})
	require.NoError(t, err)
	list, ok := result.(*List)
	require.True(t, ok)
	require.Equal(t, []Value{"a", "b", "c"}, list.Items)
}

func TestPropertyAccessListSize(t *testing.T) {
	v, err := propertyAccess(&List{Items: []Value{1, 2, 3}}, "length", 0)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}

func TestPropertyAccessMapEntry(t *testing.T) {
	m := &Map{Entries: map[string]Value{"k": int64(7)}}
	v, err := propertyAccess(m, "k", 0)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestPropertyAccessUnknownStringPropertyFails(t *testing.T) {
	_, err := propertyAccess("hello", "bogus", 0)
	require.Error(t, err)
}

func TestInjectBuiltinsTypeAndExists(t *testing.T) {
	it, err := New(`[type(1), type("x"), type(null), type(true), exists("notbound")]`)
	require.NoError(t, err)
	result, err := it.Run()
	require.NoError(t, err)
	list := result.(*List)
	require.Equal(t, []Value{"int", "string", "null", "boolean", false}, list.Items)
}
