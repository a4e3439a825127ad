package topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildNodeMapMergesWiredNodes(t *testing.T) {
	// n1 -- wire -- n2, n3 isolated, g is ground.
	n1, n2, n3, g := NodeID(1), NodeID(2), NodeID(3), NodeID(4)
	nm := BuildNodeMap(
		[]NodeID{n1, n2, n3, g},
		[]Wire{{A: n1, B: n2}},
		[]NodeID{g},
	)

	require.Equal(t, nm.Index(n1), nm.Index(n2), "wire-connected nodes must share an index")
	require.NotEqual(t, nm.Index(n1), nm.Index(n3))
	require.Equal(t, 0, nm.Index(g))
	require.Equal(t, 2, nm.NumMatrixNodes)
}

func TestBuildNodeMapGroundIsIndexZero(t *testing.T) {
	a, b, g := NodeID(1), NodeID(2), NodeID(3)
	nm := BuildNodeMap([]NodeID{a, b, g}, []Wire{{A: b, B: g}}, []NodeID{g})

	require.Equal(t, 0, nm.Index(g))
	require.Equal(t, 0, nm.Index(b), "wired to ground must collapse to index 0")
	require.NotEqual(t, 0, nm.Index(a))
}

func TestBuildNodeMapIsolatedNodeStillIndexed(t *testing.T) {
	a := NodeID(1)
	nm := BuildNodeMap([]NodeID{a}, nil, nil)
	require.Equal(t, 1, nm.Index(a))
	require.Equal(t, 1, nm.NumMatrixNodes)
}

func TestBuildNodeMapIsFunction(t *testing.T) {
	// invariant 4: node_map is a function over wire-connected nodes
	a, b, c, g := NodeID(10), NodeID(20), NodeID(30), NodeID(40)
	nm := BuildNodeMap(
		[]NodeID{a, b, c, g},
		[]Wire{{A: a, B: b}, {A: b, B: c}},
		[]NodeID{g},
	)
	idx := nm.Index(a)
	require.Equal(t, idx, nm.Index(b))
	require.Equal(t, idx, nm.Index(c))
}
