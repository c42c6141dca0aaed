package canon

import (
	"sort"
	"strings"
	"testing"

	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/domain/normalize"
	"github.com/corey/aoi/internal/ports"
	"github.com/corey/aoi/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustStore parses an inline YAML mapping.
func mustStore(t *testing.T, src string) *mapping.Store {
	t.Helper()
	s, err := mapping.Load(strings.NewReader(src), "test")
	require.NoError(t, err)
	return s
}

// bothResolvers runs fn against the indexed and the direct resolver so the
// two implementations are held to the same behavior.
func bothResolvers(t *testing.T, store *mapping.Store, fn func(t *testing.T, resolve func(string) string)) {
	t.Run("indexed", func(t *testing.T) { fn(t, New(store).Resolve) })
	t.Run("direct", func(t *testing.T) {
		fn(t, func(raw string) string { return Resolve(raw, store) })
	})
}

// =============================================================================
// Resolve
// =============================================================================

func TestResolve_VariantMatch(t *testing.T) {
	store := mustStore(t, "machine learning:\n  - ML\n  - Machine Learning\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "machine learning", resolve("ML"))
		assert.Equal(t, "machine learning", resolve("ml"))
		assert.Equal(t, "machine learning", resolve(" Ml! "))
	})
}

func TestResolve_CaseAndPunctuationInsensitive(t *testing.T) {
	store := mustStore(t, "machine learning:\n  - ML\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, resolve("Machine Learning"), resolve("machine-learning"))
		assert.Equal(t, "machine learning", resolve("MACHINE_LEARNING"))
	})
}

func TestResolve_CanonicalMatchesDirectly(t *testing.T) {
	store := mustStore(t, "optimization:\n  - optimisation\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "optimization", resolve("Optimization"))
		assert.Equal(t, "optimization", resolve("OPTIMISATION"))
	})
}

func TestResolve_UnnormalizedCanonicalKeyIsReturnedAsDeclared(t *testing.T) {
	store := mustStore(t, "Computer Vision:\n  - CV\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "Computer Vision", resolve("computer-vision"))
		assert.Equal(t, "Computer Vision", resolve("cv"))
	})
}

func TestResolve_FallbackToNormalized(t *testing.T) {
	store := mustStore(t, "machine learning:\n  - ML\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		for _, raw := range []string{"Quantum Computing", "  bio-informatics ", "Ethics & Policy", ""} {
			assert.Equal(t, normalize.Normalize(raw), resolve(raw), "raw %q", raw)
		}
	})
}

func TestResolve_EmptyStore(t *testing.T) {
	bothResolvers(t, mapping.Empty(), func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "deep learning", resolve("Deep-Learning"))
	})
}

func TestResolve_NilStore(t *testing.T) {
	assert.Equal(t, "robotics", Resolve("Robotics", nil))
	assert.Equal(t, "robotics", New(nil).Resolve("Robotics"))
}

func TestResolve_FirstDeclaredVariantWins(t *testing.T) {
	store := mustStore(t, `
machine learning:
  - statistical learning
statistics:
  - Statistical-Learning
`)
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "machine learning", resolve("statistical learning"))
	})

	reordered := mustStore(t, `
statistics:
  - Statistical-Learning
machine learning:
  - statistical learning
`)
	bothResolvers(t, reordered, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "statistics", resolve("statistical learning"))
	})
}

func TestResolve_CanonicalMatchBeatsEarlierVariant(t *testing.T) {
	// "ml" is a variant of the first entry but also a canonical term itself;
	// the direct canonical match is checked before any variant.
	store := mustStore(t, `
machine learning:
  - ML
ml:
  - maximum likelihood
`)
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "ml", resolve("ML"))
		assert.Equal(t, "ml", resolve("Maximum Likelihood"))
	})
}

func TestResolve_FirstDeclaredCanonicalWinsOnNormalizedKeyCollision(t *testing.T) {
	store := mustStore(t, "Deep Learning: []\ndeep-learning: []\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "Deep Learning", resolve("deep learning"))
	})
}

func TestResolve_EmptyNormalizedVariantOnlyMatchesEmptyInput(t *testing.T) {
	store := mustStore(t, "misc:\n  - \"--\"\n")
	bothResolvers(t, store, func(t *testing.T, resolve func(string) string) {
		assert.Equal(t, "misc", resolve("?!"))
		assert.Equal(t, "other", resolve("Other"))
	})
}

func TestResolve_IndexedMatchesDirectOnBundledVocabulary(t *testing.T) {
	store, err := mapping.LoadFS(vocab.FS, vocab.Default)
	require.NoError(t, err)
	c := New(store)

	inputs := []string{
		"ML", "Deep Learning", "deep-learning", "physics-​informed machine learning",
		"3d scene understanding", "scene understanding", "optimisation", "LLMs",
		"Quantum Computing", "", "  ", "XAI", "Computer-Vision",
	}
	for _, in := range inputs {
		assert.Equal(t, Resolve(in, store), c.Resolve(in), "input %q", in)
	}
}

func TestCanonicalizer_Mapped(t *testing.T) {
	c := New(mustStore(t, "optimization:\n  - optimisation\n"))
	assert.True(t, c.Mapped("optimization"))
	assert.False(t, c.Mapped("optimisation"))
	assert.False(t, c.Mapped("quantum computing"))
}

// =============================================================================
// ResolveList
// =============================================================================

func TestResolveList_CollapsesVariants(t *testing.T) {
	store := mustStore(t, "optimization:\n  - optimisation\n")
	assert.Equal(t, []string{"optimization"}, ResolveList([]string{"optimization", "Optimisation"}, store))
}

func TestResolveList_EmptyStoreDedupsViaNormalizedFallback(t *testing.T) {
	assert.Equal(t, []string{"deep learning"}, ResolveList([]string{"Deep Learning", "deep learning"}, mapping.Empty()))
}

func TestResolveList_SortedAndDistinct(t *testing.T) {
	store := mustStore(t, `
machine learning: [ML]
robotics: [robot learning]
`)
	in := []string{"Robotics", "ML", "zoology", "robot-learning", "Machine Learning", "Algebra", "ml", "zoology"}
	got := ResolveList(in, store)

	assert.Equal(t, []string{"algebra", "machine learning", "robotics", "zoology"}, got)
	assert.True(t, sort.StringsAreSorted(got))
}

func TestResolveList_ByteOrder(t *testing.T) {
	got := ResolveList([]string{"zeta", "Émile", "alpha", "2d"}, mapping.Empty())
	assert.Equal(t, []string{"2d", "alpha", "zeta", "émile"}, got)
}

func TestResolveList_DropsEmptyTerms(t *testing.T) {
	got := ResolveList([]string{"", "  ", "--", "NLP"}, mapping.Empty())
	assert.Equal(t, []string{"nlp"}, got)
}

func TestResolveList_NeverNil(t *testing.T) {
	got := ResolveList(nil, mapping.Empty())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveList_DeterministicAndOrderIndependent(t *testing.T) {
	store := mustStore(t, "machine learning: [ML]\ndeep learning: [DL]\n")
	a := []string{"DL", "Graph Theory", "ML", "deep learning"}
	b := []string{"deep learning", "ML", "Graph Theory", "DL"}

	first := ResolveList(a, store)
	assert.Equal(t, first, ResolveList(a, store))
	assert.Equal(t, first, ResolveList(b, store))
}

func TestResolveListWith_UsesSuppliedResolver(t *testing.T) {
	c := New(mapping.Empty())
	calls := 0
	got := c.ResolveListWith([]string{"B", "a", "b"}, func(raw string) string {
		calls++
		return c.Resolve(raw)
	})
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 3, calls)

	assert.Equal(t, []string{"x"}, c.ResolveListWith([]string{"X"}, nil))
}

func TestResolveRecord(t *testing.T) {
	c := New(mustStore(t, "machine learning: [ML]\n"))
	rec := c.ResolveRecord(ports.EntityRecord{Name: "Ada", Interests: []string{"ML", "Compilers", "machine-learning"}})
	assert.Equal(t, ports.CanonicalRecord{Name: "Ada", Interests: []string{"compilers", "machine learning"}}, rec)
}
