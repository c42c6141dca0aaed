package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/corey/aoi/internal/domain/canon"
	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCanon(t *testing.T) *canon.Canonicalizer {
	t.Helper()
	store, err := mapping.Load(strings.NewReader(`
machine learning: [ML, Machine-Learning]
optimization: [optimisation]
deep learning: [DL]
`), "test")
	require.NoError(t, err)
	return canon.New(store)
}

// makeEntities builds n entities cycling through mapped and unmapped spellings.
func makeEntities(n int) []ports.EntityRecord {
	spellings := []string{"ML", "optimisation", "Deep Learning", "Quantum Computing", "dl", "machine learning"}
	out := make([]ports.EntityRecord, n)
	for i := range out {
		out[i] = ports.EntityRecord{
			Name: fmt.Sprintf("person-%03d", i),
			Interests: []string{
				spellings[i%len(spellings)],
				spellings[(i+1)%len(spellings)],
				spellings[(i*7)%len(spellings)],
			},
		}
	}
	return out
}

func TestPipeline_MatchesSequentialResolution(t *testing.T) {
	c := testCanon(t)
	entities := makeEntities(200)

	p, err := NewPipeline(c, 8, 16)
	require.NoError(t, err)
	got, err := p.Run(context.Background(), entities)
	require.NoError(t, err)

	require.Len(t, got, len(entities))
	for i, e := range entities {
		assert.Equal(t, c.ResolveRecord(e), got[i], "entity %s", e.Name)
	}
}

func TestPipeline_WorkerCountDoesNotChangeOutput(t *testing.T) {
	c := testCanon(t)
	entities := makeEntities(97)

	one, err := NewPipeline(c, 1, 0)
	require.NoError(t, err)
	many, err := NewPipeline(c, 16, 4)
	require.NoError(t, err)

	a, err := one.Run(context.Background(), entities)
	require.NoError(t, err)
	b, err := many.Run(context.Background(), entities)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPipeline_ResolveMemoizes(t *testing.T) {
	p, err := NewPipeline(testCanon(t), 1, 8)
	require.NoError(t, err)

	assert.Equal(t, "machine learning", p.Resolve("ML"))
	assert.Equal(t, "machine learning", p.Resolve("ML"))
	assert.Equal(t, 1, p.cache.Len())

	term, ok := p.cache.Get("ML")
	assert.True(t, ok)
	assert.Equal(t, "machine learning", term)
}

func TestPipeline_Empty(t *testing.T) {
	p, err := NewPipeline(testCanon(t), 0, 0)
	require.NoError(t, err)
	got, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPipeline_Cancelled(t *testing.T) {
	p, err := NewPipeline(testCanon(t), 2, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := p.Run(ctx, makeEntities(50))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}
