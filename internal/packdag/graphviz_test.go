package packdag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGraphviz(t *testing.T) {
	_, packs := buildPipelinePacks(t)

	g := New()
	for _, p := range packs {
		_, err := g.AddNode(p)
		require.NoError(t, err)
	}

	want := strings.Join([]string{
		"digraph G {",
		`node0 [label="(load)  %a0, %a1", color=green, shape=box];`,
		`node1 [label="(load)  %b0, %b1", color=green, shape=box];`,
		`node2 [label="(add)  %s0, %s1", shape=box];`,
		`node0 -> node2 [label="{(0, 0) (1, 1)}"];`,
		`node1 -> node2 [label="{(0, 0) (1, 1)}"];`,
		`node3 [label="(store)  %w0, %w1", color=green, shape=box];`,
		`node2 -> node3 [label="{(0, 0) (1, 1)}"];`,
		"}",
		"",
	}, "\n")

	assert.Equal(t, want, g.ToGraphviz())
}

func TestToGraphvizDeterministic(t *testing.T) {
	render := func() string {
		_, packs := buildPipelinePacks(t)
		g := New()
		for _, p := range packs {
			_, err := g.AddNode(p)
			require.NoError(t, err)
		}
		return g.ToGraphviz()
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}
