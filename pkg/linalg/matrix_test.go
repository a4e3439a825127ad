package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveSimpleSystem(t *testing.T) {
	// 2x + y = 5; x + 3y = 10 -> x=1, y=3
	m := NewMatrix(2)
	m.AddAt(1, 1, 2)
	m.AddAt(1, 2, 1)
	m.AddAt(2, 1, 1)
	m.AddAt(2, 2, 3)
	m.AddRHS(1, 5)
	m.AddRHS(2, 10)

	x, err := Solve(m)
	require.NoError(t, err)
	require.InDelta(t, 1.0, x[1], 1e-9)
	require.InDelta(t, 3.0, x[2], 1e-9)
}

func TestSolveDoesNotMutateInput(t *testing.T) {
	m := NewMatrix(2)
	m.AddAt(1, 1, 2)
	m.AddAt(2, 2, 2)
	m.AddRHS(1, 4)
	m.AddRHS(2, 4)

	before := m.Clone()
	_, err := Solve(m)
	require.NoError(t, err)

	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			require.Equal(t, before.Get(i, j), m.Get(i, j))
		}
	}
}

func TestSolveDegenerateRowReturnsZero(t *testing.T) {
	// Row 2 is entirely zero: a floating, unconnected unknown.
	m := NewMatrix(2)
	m.AddAt(1, 1, 1)
	m.AddRHS(1, 5)

	x, err := Solve(m)
	require.NoError(t, err)
	require.InDelta(t, 5.0, x[1], 1e-9)
	require.Equal(t, 0.0, x[2])
}

func TestGroundWritesAreNoOps(t *testing.T) {
	m := NewMatrix(1)
	m.AddAt(0, 0, 999)
	m.AddAt(0, 1, 999)
	m.AddRHS(0, 999)
	require.Equal(t, 0.0, m.Get(0, 0))
	require.Equal(t, 0.0, m.Get(0, 1))
}

func TestAddDiagonalGmin(t *testing.T) {
	m := NewMatrix(2)
	m.AddDiagonalGmin(1e-12)
	require.InDelta(t, 1e-12, m.Get(1, 1), 1e-20)
	require.InDelta(t, 1e-12, m.Get(2, 2), 1e-20)
}
