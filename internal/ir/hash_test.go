package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSnapshotStable(t *testing.T) {
	snap := map[string]any{
		"nodes": []any{"(load) %a0, %a1"},
		"edges": []any{},
	}

	first, err := HashSnapshot(DomainDAG, snap)
	require.NoError(t, err)
	require.Len(t, first, 64) // hex-encoded SHA-256

	again, err := HashSnapshot(DomainDAG, snap)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestHashSnapshotDomainSeparation(t *testing.T) {
	snap := map[string]any{"x": 1}

	a, err := HashSnapshot(DomainBlock, snap)
	require.NoError(t, err)
	b, err := HashSnapshot(DomainDAG, snap)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashSnapshotError(t *testing.T) {
	_, err := HashSnapshot(DomainDAG, map[string]any{"f": 1.5})
	require.Error(t, err)
}

func TestBlockFingerprint(t *testing.T) {
	first, err := BlockFingerprint(buildAddBlock())
	require.NoError(t, err)

	again, err := BlockFingerprint(buildAddBlock())
	require.NoError(t, err)
	assert.Equal(t, first, again, "identical blocks must fingerprint identically")

	b := NewBuilder(NewBlock("entry"))
	b.Read("%a0", U64, b.Param("S"), b.Const(0))
	other, err := BlockFingerprint(b.Block())
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}
