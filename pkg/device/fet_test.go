package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
)

func TestFETSquareLawCutoff(t *testing.T) {
	f := NewMOSFET("M1", topology.NodeID(1), topology.NodeID(2), topology.NodeID(0), NMOS, 0.002, 1.0)
	id, gm, gds := f.squareLaw(0.5, 2.0) // Vgs < Vth
	require.Equal(t, 0.0, id)
	require.Equal(t, 0.0, gm)
	require.Equal(t, f.Gmin, gds)
}

func TestFETSquareLawSaturation(t *testing.T) {
	f := NewMOSFET("M1", topology.NodeID(1), topology.NodeID(2), topology.NodeID(0), NMOS, 0.002, 1.0)
	vov := 2.0 - 1.0
	id, gm, _ := f.squareLaw(2.0, 5.0) // Vds(5) >= vov(1): saturation
	require.InDelta(t, 0.5*f.Kp*vov*vov, id, 1e-12)
	require.InDelta(t, f.Kp*vov, gm, 1e-12)
}

func TestFETSquareLawTriode(t *testing.T) {
	f := NewMOSFET("M1", topology.NodeID(1), topology.NodeID(2), topology.NodeID(0), NMOS, 0.002, 1.0)
	id, _, _ := f.squareLaw(2.0, 0.3) // Vds < vov(1): triode
	expect := f.Kp * (1.0*0.3 - 0.3*0.3/2)
	require.InDelta(t, expect, id, 1e-12)
}
