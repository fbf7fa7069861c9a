package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shadercache/internal/adapters/cas"
	"go.trai.ch/shadercache/internal/adapters/fs"
	"go.trai.ch/shadercache/internal/adapters/telemetry"
	"go.trai.ch/shadercache/internal/core/domain"
	"go.trai.ch/shadercache/internal/core/ports/mocks"
	"go.trai.ch/shadercache/internal/engine/session"
	"go.uber.org/mock/gomock"
)

const (
	meshPath   = "/proj/shaders/mesh.wgsl"
	commonPath = "/proj/shaders/common.wgsl"
)

var cacheCfg = domain.CacheConfig{Root: "/proj/ShaderCache", Mode: domain.ModeRelease}

func meshRequest() domain.CompileRequest {
	return domain.CompileRequest{
		SourcePath: meshPath,
		EntryPoint: "fs_main",
		Profile:    "spirv",
		Macros:     domain.Macros{{Name: "SHADOWS", Value: "1"}},
	}
}

// fakeCompile is deterministic over its input and rejects any source containing "syntax error".
func fakeCompile(_ context.Context, in domain.CompileInput) (domain.Artifact, error) {
	if strings.Contains(in.Source, "syntax error") {
		return nil, &domain.Diagnostic{SourcePath: in.SourcePath, Message: "1:1 unexpected token"}
	}
	return domain.Artifact(in.Profile + "|" + in.Macros.String() + "|" + in.Source), nil
}

type fixture struct {
	fs       afero.Fs
	store    *cas.Store
	compiler *mocks.MockCompiler
	decider  *mocks.MockRetryDecider
	logger   *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	mem := afero.NewMemMapFs()
	writeFile(t, mem, meshPath, "#include \"common.wgsl\"\n@fragment fn fs_main() {}\n")
	writeFile(t, mem, commonPath, "const k = 1.0;\n")

	return &fixture{
		fs:       mem,
		store:    cas.NewStore(mem, cacheCfg),
		compiler: mocks.NewMockCompiler(ctrl),
		decider:  mocks.NewMockRetryDecider(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
}

func (f *fixture) session(opts ...session.Option) *session.Session {
	return session.New(
		fs.NewExpander(f.fs, fs.NewHasher(0)),
		f.store,
		f.compiler,
		f.decider,
		telemetry.NewNoOpTracer(),
		f.logger,
		opts...,
	)
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), domain.FilePerm))
}

func TestSession_MissThenHit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(1)
	s := f.session()

	first, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, first.Attempts)
	assert.NoError(t, first.CacheErr)
	assert.Contains(t, string(first.Artifact), "const k = 1.0;")

	second, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, 0, second.Attempts)
	assert.Equal(t, first.Artifact, second.Artifact)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Hash, second.Hash)
}

func TestSession_Compile_ReturnsArtifact(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)

	artifact, err := f.session().Compile(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(artifact), "spirv|SHADOWS=1|"))
}

func TestSession_IncludeEditInvalidates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(2)
	s := f.session()

	before, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)

	writeFile(t, f.fs, commonPath, "const k = 2.0;\n")

	after, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.False(t, after.CacheHit)
	assert.NotEqual(t, before.Hash, after.Hash)
	assert.Equal(t, before.Key, after.Key)
	assert.Contains(t, string(after.Artifact), "const k = 2.0;")

	entry, err := f.store.Lookup(after.Key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, after.Hash, entry.StoredHash)
}

func TestSession_DistinctRequestsDoNotShareEntries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(2)
	s := f.session()

	shadowed := meshRequest()
	plain := meshRequest()
	plain.Macros = nil

	a, err := s.CompileResult(context.Background(), shadowed)
	require.NoError(t, err)
	b, err := s.CompileResult(context.Background(), plain)
	require.NoError(t, err)

	assert.False(t, b.CacheHit)
	assert.NotEqual(t, a.Key, b.Key)
	assert.NotEqual(t, a.Artifact, b.Artifact)
}

func TestSession_RetryUnchangedSource(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var inputs []domain.CompileInput
	gomock.InOrder(
		f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in domain.CompileInput) (domain.Artifact, error) {
				inputs = append(inputs, in)
				return nil, &domain.Diagnostic{SourcePath: in.SourcePath, Message: "device lost"}
			}),
		f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, in domain.CompileInput) (domain.Artifact, error) {
				inputs = append(inputs, in)
				return fakeCompile(ctx, in)
			}),
	)
	f.decider.EXPECT().Decide(gomock.Any(), gomock.Any()).Return(domain.DecisionRetry, nil)

	res, err := f.session().CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	require.Len(t, inputs, 2)
	assert.Equal(t, inputs[0], inputs[1])

	clean := newFixture(t)
	clean.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	want, err := clean.session().CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.Equal(t, want.Key, res.Key)
	assert.Equal(t, want.Artifact, res.Artifact)

	entry, err := f.store.Lookup(res.Key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, want.Hash, entry.StoredHash)
	assert.Equal(t, want.Artifact, entry.Artifact)

	records, err := f.store.Entries()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSession_RetryAfterFix(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, commonPath, "syntax error\n")

	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(2)
	f.decider.EXPECT().
		Decide(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, failure domain.Failure) (domain.Decision, error) {
			assert.Equal(t, 1, failure.Attempt)
			assert.Equal(t, "1:1 unexpected token", failure.Diagnostic)
			assert.ElementsMatch(t, []string{meshPath, commonPath}, failure.Files)
			require.ErrorIs(t, failure.Err, domain.ErrCompileFailed)

			writeFile(t, f.fs, commonPath, "const k = 1.0;\n")
			return domain.DecisionRetry, nil
		})

	res, err := f.session().CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.False(t, res.CacheHit)

	// The stored entry is indistinguishable from a first-attempt compile of the fixed source.
	clean := newFixture(t)
	clean.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	want, err := clean.session().CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)

	entry, err := f.store.Lookup(res.Key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, want.Hash, entry.StoredHash)
	assert.Equal(t, want.Artifact, entry.Artifact)

	records, err := f.store.Entries()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSession_Abort(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, commonPath, "syntax error\n")

	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	f.decider.EXPECT().Decide(gomock.Any(), gomock.Any()).Return(domain.DecisionAbort, nil)

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrCompileAborted)
	require.ErrorIs(t, err, domain.ErrCompileFailed)
	assert.Equal(t, "1:1 unexpected token", domain.DiagnosticOf(err))

	records, err := f.store.Entries()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSession_DeciderErrorAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, commonPath, "syntax error\n")
	errNoTTY := errors.New("no terminal")

	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	f.decider.EXPECT().Decide(gomock.Any(), gomock.Any()).Return(domain.DecisionRetry, errNoTTY)

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.ErrorIs(t, err, domain.ErrCompileAborted)
	require.ErrorIs(t, err, errNoTTY)
}

func TestSession_CanceledContextAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, commonPath, "syntax error\n")
	ctx, cancel := context.WithCancel(context.Background())

	f.compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, in domain.CompileInput) (domain.Artifact, error) {
			cancel()
			return fakeCompile(ctx, in)
		})

	_, err := f.session().CompileResult(ctx, meshRequest())
	require.ErrorIs(t, err, domain.ErrCompileAborted)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSession_MissingIncludeSkipsCompiler(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, meshPath, "#include \"missing.wgsl\"\n")

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.ErrorIs(t, err, domain.ErrIncludeNotFound)
	assert.Contains(t, err.Error(), "couldn't find #included file")
}

func TestSession_RetryThenMissingInclude(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	writeFile(t, f.fs, commonPath, "syntax error\n")

	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(1)
	f.decider.EXPECT().
		Decide(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Failure) (domain.Decision, error) {
			require.NoError(t, f.fs.Remove(commonPath))
			return domain.DecisionRetry, nil
		})

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.ErrorIs(t, err, domain.ErrIncludeNotFound)
}

func TestSession_CompilerToolFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	errExec := errors.New("exec: \"glslc\": executable file not found in $PATH")
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil, errExec)

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.ErrorIs(t, err, domain.ErrCompilerFailed)
	require.ErrorIs(t, err, errExec)
	assert.NotErrorIs(t, err, domain.ErrCompileAborted)
}

func TestSession_InvalidRequest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := meshRequest()
	req.EntryPoint = ""

	_, err := f.session().CompileResult(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSession_ForceSkipsLookup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile).Times(2)

	_, err := f.session().CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)

	res, err := f.session(session.WithForce(true)).CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 1, res.Attempts)
}

func TestSession_StoreFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)
	errDisk := errors.New("disk full")

	store.EXPECT().KeyFor(gomock.Any()).Return("mesh-01")
	store.EXPECT().Lookup("mesh-01").Return(nil, nil)
	store.EXPECT().Store("mesh-01", gomock.Any(), gomock.Any()).Return(errDisk)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "could not cache")
	})

	s := session.New(
		fs.NewExpander(f.fs, fs.NewHasher(0)),
		store,
		f.compiler,
		f.decider,
		telemetry.NewNoOpTracer(),
		f.logger,
	)

	res, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Artifact)
	require.ErrorIs(t, res.CacheErr, errDisk)
}

func TestSession_LookupFailureRecompiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)

	store.EXPECT().KeyFor(gomock.Any()).Return("mesh-01")
	store.EXPECT().Lookup("mesh-01").Return(nil, domain.ErrCacheIO)
	store.EXPECT().Store("mesh-01", gomock.Any(), gomock.Any()).Return(nil)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	f.logger.EXPECT().Warn(gomock.Any())

	s := session.New(
		fs.NewExpander(f.fs, fs.NewHasher(0)),
		store,
		f.compiler,
		f.decider,
		telemetry.NewNoOpTracer(),
		f.logger,
	)

	res, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.NoError(t, res.CacheErr)
}

func TestSession_StaleEntryRecompiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	s := f.session()
	key := f.store.KeyFor(meshRequest())
	require.NoError(t, f.store.Store(key, 0xdead, domain.Artifact("stale")))

	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)

	res, err := s.CompileResult(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.NotEqual(t, domain.Artifact("stale"), res.Artifact)
}

func TestSession_ReturnedArtifactIsACopy(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).DoAndReturn(fakeCompile)
	s := f.session()

	first, err := s.Compile(context.Background(), meshRequest())
	require.NoError(t, err)
	want := first.Clone()
	first[0] = 'X'

	second, err := s.Compile(context.Background(), meshRequest())
	require.NoError(t, err)
	assert.Equal(t, want, second)
}
