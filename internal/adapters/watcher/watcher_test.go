package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shadercache/internal/adapters/watcher"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	dir     string
	main    string
	include string
	ready   chan struct{}
	logger  *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		dir:     dir,
		main:    filepath.Join(dir, "mesh.wgsl"),
		include: filepath.Join(dir, "common.wgsl"),
		ready:   make(chan struct{}),
		logger:  mocks.NewMockLogger(gomock.NewController(t)),
	}
	require.NoError(t, os.WriteFile(f.main, []byte("#include \"common.wgsl\"\n"), 0o644))
	require.NoError(t, os.WriteFile(f.include, []byte("syntax error\n"), 0o644))

	f.logger.EXPECT().Info(gomock.Any()).Do(func(string) {
		select {
		case <-f.ready:
		default:
			close(f.ready)
		}
	}).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return f
}

func (f *fixture) failure() domain.Failure {
	return domain.Failure{
		Request:    domain.CompileRequest{SourcePath: f.main, EntryPoint: "fs_main", Profile: "spirv"},
		Diagnostic: "1:1 unexpected token",
		Attempt:    1,
		Files:      []string{f.main, f.include},
	}
}

type result struct {
	decision domain.Decision
	err      error
}

func (f *fixture) decide(ctx context.Context) <-chan result {
	out := make(chan result, 1)
	d := watcher.NewDecider(f.logger, 20*time.Millisecond)
	go func() {
		decision, err := d.Decide(ctx, f.failure())
		out <- result{decision, err}
	}()
	return out
}

func TestDecider_RetriesOnIncludeSave(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	results := f.decide(context.Background())
	<-f.ready

	require.NoError(t, os.WriteFile(f.include, []byte("const k = 1.0;\n"), 0o644))

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, domain.DecisionRetry, r.decision)
	case <-time.After(5 * time.Second):
		t.Fatal("decider did not react to the file change")
	}
}

func TestDecider_IgnoresUnrelatedFiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	results := f.decide(ctx)
	<-f.ready

	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "notes.txt"), []byte("x"), 0o644))

	r := <-results
	require.ErrorIs(t, r.err, context.DeadlineExceeded)
	assert.Equal(t, domain.DecisionAbort, r.decision)
}

func TestDecider_CancelAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	results := f.decide(ctx)
	<-f.ready
	cancel()

	r := <-results
	require.ErrorIs(t, r.err, context.Canceled)
	assert.Equal(t, domain.DecisionAbort, r.decision)
}

func TestDecider_NoFiles(t *testing.T) {
	t.Parallel()

	d := watcher.NewDecider(mocks.NewMockLogger(gomock.NewController(t)), watcher.DefaultWindow)
	decision, err := d.Decide(context.Background(), domain.Failure{})
	require.Error(t, err)
	assert.Equal(t, domain.DecisionAbort, decision)
}
