package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree(t *testing.T) {
	root, err := ParseTree([]byte(`{"b":1,"a":[true,null,"x"],"c":{"d":2.5}}`), 8)
	require.NoError(t, err)
	require.Equal(t, KindObject, root.Kind)
	require.Len(t, root.Fields, 3)

	assert.Equal(t, "b", root.Fields[0].Key)
	assert.Equal(t, "a", root.Fields[1].Key)
	assert.Equal(t, "c", root.Fields[2].Key)

	assert.Equal(t, KindNumber, root.Fields[0].Value.Kind)
	assert.Equal(t, "1", root.Fields[0].Value.Number.String())

	arr := root.Fields[1].Value
	require.Len(t, arr.Items, 3)
	assert.Equal(t, KindBool, arr.Items[0].Kind)
	assert.True(t, arr.Items[0].Bool)
	assert.Equal(t, KindNull, arr.Items[1].Kind)
	assert.Equal(t, "x", arr.Items[2].Str)
}

func TestParseTreeErrors(t *testing.T) {
	_, err := ParseTree([]byte(`{"a":{"b":{}}}`), 2)
	assert.Error(t, err, "depth limit")

	_, err = ParseTree([]byte(`{"a":1} {"b":2}`), 8)
	assert.Error(t, err, "trailing value")

	_, err = ParseTree([]byte(`{"a":`), 8)
	assert.Error(t, err, "truncated")

	_, err = ParseTree([]byte(`not json`), 8)
	assert.Error(t, err)
}

func TestWalkOrder(t *testing.T) {
	root, err := ParseTree([]byte(`{"a":{"title":"X"},"title":"Y","list":["s1",{"k":"s2"}]}`), 8)
	require.NoError(t, err)

	var seen []string
	complete := Walk(root, 100, func(key string, n *Node) bool {
		if n.Kind == KindString {
			seen = append(seen, key+"="+n.Str)
		}
		return true
	})

	assert.True(t, complete)
	assert.Equal(t, []string{"title=X", "title=Y", "=s1", "k=s2"}, seen)
}

func TestWalkStops(t *testing.T) {
	root, err := ParseTree([]byte(`["a","b","c","d"]`), 8)
	require.NoError(t, err)

	var seen int
	complete := Walk(root, 100, func(_ string, n *Node) bool {
		if n.Kind == KindString {
			seen++
			return seen < 2
		}
		return true
	})
	assert.False(t, complete)
	assert.Equal(t, 2, seen)

	seen = 0
	complete = Walk(root, 3, func(_ string, n *Node) bool {
		seen++
		return true
	})
	assert.False(t, complete)
	assert.Equal(t, 3, seen)

	assert.True(t, Walk(nil, 1, func(string, *Node) bool { return true }))
}
