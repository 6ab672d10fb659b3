package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `
container "x" {
  list "y" {
    key = ["a", "b"]
    leaf "a" {}
    leaf "b" {}
    leaf "c" {}
  }
  leaf_list "z" {}
  leaf "mtu" {
    default = "1500"
  }
}
`

func TestLoadSample(t *testing.T) {
	st, err := Load("sample.hcl", []byte(sampleSchema))
	require.NoError(t, err)

	x := st.ResolveTop("x")
	require.NotNil(t, x)
	assert.Equal(t, Container, x.Kind)

	y := x.ResolveChild("y")
	require.NotNil(t, y)
	assert.Equal(t, List, y.Kind)
	assert.Equal(t, []string{"a", "b"}, y.Keys)
	require.NotNil(t, y.ResolveChild("c"))
	assert.Equal(t, Leaf, y.ResolveChild("c").Kind)

	z := x.ResolveChild("z")
	require.NotNil(t, z)
	assert.Equal(t, LeafList, z.Kind)

	mtu := x.ResolveChild("mtu")
	require.NotNil(t, mtu)
	assert.Equal(t, "1500", mtu.Default)

	assert.Nil(t, st.ResolveTop("nope"))
	assert.Nil(t, x.ResolveChild("nope"))
}

func TestLoadRejectsListWithoutKey(t *testing.T) {
	_, err := Load("bad.hcl", []byte(`
list "y" {
  key = []
  leaf "a" {}
}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no key")
}

func TestLoadRejectsKeyWithoutLeaf(t *testing.T) {
	_, err := Load("bad.hcl", []byte(`
list "y" {
  key = ["a"]
  leaf "b" {}
}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "a"`)
}

func TestLoadRejectsDuplicateSiblings(t *testing.T) {
	_, err := Load("bad.hcl", []byte(`
leaf "a" {}
leaf "a" {}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sibling")
}

func TestChildIndexFollowsDeclarationOrder(t *testing.T) {
	st, err := Load("sample.hcl", []byte(sampleSchema))
	require.NoError(t, err)

	x := st.ResolveTop("x")
	// Within a group, declaration order; groups in block-type order.
	assert.Less(t, x.ChildIndex("y"), x.ChildIndex("z"))
	assert.Less(t, x.ChildIndex("z"), x.ChildIndex("mtu"))
	assert.Equal(t, len(x.Children), x.ChildIndex("nope"))
}
