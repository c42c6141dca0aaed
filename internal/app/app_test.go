package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/aoi/internal/adapters/logger"
	"github.com/corey/aoi/internal/domain/mapping"
	"github.com/corey/aoi/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapping = `
machine learning:
  - ML
  - Machine Learning
optimization:
  - optimisation
statistics:
  - machine learning
`

const testEntities = `
Ada:
  - ML
  - Quantum Computing
  - optimisation
Grace:
  - Machine-Learning
  - quantum computing
Alan: []
`

// setupProject writes a mapping and an entity file into a temp project dir.
func setupProject(t *testing.T) (dir, entities string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mapping.yaml"), []byte(testMapping), 0644))
	entities = filepath.Join(dir, "students.yaml")
	require.NoError(t, os.WriteFile(entities, []byte(testEntities), 0644))
	return dir, entities
}

func newTestApp(t *testing.T, dir string) (*App, *logger.Recorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Mapping = "mapping.yaml"
	cfg.Workers = 2
	rec := logger.NewRecorder()
	a, err := New(NewPaths(dir), cfg, rec)
	require.NoError(t, err)
	return a, rec
}

func TestNew_EmbeddedVocabularyByDefault(t *testing.T) {
	a, err := New(NewPaths(t.TempDir()), DefaultConfig(), logger.Nop())
	require.NoError(t, err)
	assert.Greater(t, a.Mapping.Len(), 0)
	assert.Equal(t, "machine learning", a.Canon.Resolve("ML"))
	assert.Empty(t, a.Mapping.Overlaps(), "bundled vocabulary should have no overlaps")
}

func TestNew_MissingMappingIsLoadError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mapping = "does-not-exist.yaml"
	a, err := New(NewPaths(t.TempDir()), cfg, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, mapping.IsLoadError(err))
}

func TestNew_MalformedMappingIsLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.yaml"), []byte("- not\n- a mapping\n"), 0644))
	cfg := DefaultConfig()
	cfg.Mapping = "m.yaml"
	_, err := New(NewPaths(dir), cfg, logger.Nop())
	assert.True(t, mapping.IsLoadError(err))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	_, err := New(NewPaths(t.TempDir()), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestNew_WarnsOnOverlaps(t *testing.T) {
	dir, _ := setupProject(t)
	_, rec := newTestApp(t, dir)

	warns := rec.Messages("warn")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "first declared wins")
}

func TestCanonicalize(t *testing.T) {
	dir, entities := setupProject(t)
	a, rec := newTestApp(t, dir)

	run, err := a.Canonicalize(context.Background(), entities)
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, filepath.Join(dir, "mapping.yaml"), run.MappingSource)
	assert.Equal(t, entities, run.InputSource)
	assert.Equal(t, []ports.CanonicalRecord{
		{Name: "Ada", Interests: []string{"machine learning", "optimization", "quantum computing"}},
		{Name: "Grace", Interests: []string{"machine learning", "quantum computing"}},
		{Name: "Alan", Interests: []string{}},
	}, run.Records)
	assert.Equal(t, []ports.UnmappedTerm{
		{Term: "quantum computing", Variants: []string{"Quantum Computing", "quantum computing"}, Count: 2},
	}, run.Unmapped)

	assert.Contains(t, rec.Messages("info"), "canonicalized")
}

func TestCanonicalize_BadInput(t *testing.T) {
	dir, _ := setupProject(t)
	a, _ := newTestApp(t, dir)

	_, err := a.Canonicalize(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRunAndReload(t *testing.T) {
	dir, entities := setupProject(t)
	a, _ := newTestApp(t, dir)

	run, err := a.Canonicalize(context.Background(), entities)
	require.NoError(t, err)

	store, err := a.OpenRuns()
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, a.SaveRun(store, run))
	loaded, err := store.LoadRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, loaded)
}

// fakeWatcher lets tests fire change events by hand.
type fakeWatcher struct {
	mu       sync.Mutex
	files    []string
	onChange func(string)
	stopped  bool
}

func (f *fakeWatcher) Watch(files []string, onChange func(string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
	f.onChange = onChange
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) fire(path string) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	cb(path)
}

func TestWatch_RerunsOnMappingChange(t *testing.T) {
	dir, entities := setupProject(t)
	a, _ := newTestApp(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan *ports.Run, 4)
	errs := make(chan error, 4)
	w := &fakeWatcher{}
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, w, entities, func(r *ports.Run, err error) {
			if err != nil {
				errs <- err
				return
			}
			runs <- r
		})
	}()

	first := <-runs
	assert.Equal(t, []string{"machine learning", "optimization", "quantum computing"}, first.Records[0].Interests)

	mappingPath := filepath.Join(dir, "mapping.yaml")
	w.mu.Lock()
	assert.Equal(t, []string{entities, mappingPath}, w.files)
	w.mu.Unlock()

	// Teach the mapping about quantum computing and signal the change.
	require.NoError(t, os.WriteFile(mappingPath, []byte(testMapping+"quantum: [quantum computing]\n"), 0644))
	w.fire(mappingPath)

	select {
	case second := <-runs:
		assert.Equal(t, []string{"machine learning", "optimization", "quantum"}, second.Records[0].Interests)
		assert.Empty(t, second.Unmapped)
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no re-run after mapping change")
	}

	// A broken mapping reports an error but keeps watching.
	require.NoError(t, os.WriteFile(mappingPath, []byte("oops: scalar\n"), 0644))
	w.fire(mappingPath)
	select {
	case err := <-errs:
		assert.True(t, mapping.IsLoadError(err))
	case <-time.After(2 * time.Second):
		t.Fatal("expected load error")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
	w.mu.Lock()
	assert.True(t, w.stopped)
	w.mu.Unlock()
}

func TestWatch_MappingChangeBehindInputChange(t *testing.T) {
	dir, entities := setupProject(t)
	a, _ := newTestApp(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	runs := make(chan *ports.Run, 4)
	w := &fakeWatcher{}
	done := make(chan error, 1)
	first := true
	go func() {
		done <- a.Watch(ctx, w, entities, func(r *ports.Run, err error) {
			if first {
				first = false
				<-release
			}
			if err == nil {
				runs <- r
			}
		})
	}()

	// Wait until the watcher is registered and the first run is in progress.
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.onChange != nil
	}, 2*time.Second, 5*time.Millisecond)

	mappingPath := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(mappingPath, []byte(testMapping+"quantum: [quantum computing]\n"), 0644))
	w.fire(entities)
	w.fire(mappingPath)
	close(release)

	<-runs // initial run, old mapping
	select {
	case r := <-runs:
		assert.Contains(t, r.Records[0].Interests, "quantum")
		assert.Empty(t, r.Unmapped)
	case <-time.After(2 * time.Second):
		t.Fatal("no re-run after changes")
	}

	cancel()
	require.NoError(t, <-done)
}
