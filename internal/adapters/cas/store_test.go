package cas_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shadercache/internal/adapters/cas"
	"go.trai.ch/shadercache/internal/core/domain"
)

var releaseCfg = domain.CacheConfig{Root: "/proj/ShaderCache", Mode: domain.ModeRelease}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	store := cas.NewStore(mem, releaseCfg)
	artifact := domain.Artifact{0x03, 0x02, 0x23, 0x07, 0xff}

	require.NoError(t, store.Store("mesh_PS_spirv-0011", 0xfeed, artifact))

	entry, err := store.Lookup("mesh_PS_spirv-0011")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(0xfeed), entry.StoredHash)
	assert.Equal(t, artifact, entry.Artifact)

	exists, err := afero.Exists(mem, "/proj/ShaderCache/Release/mesh_PS_spirv-0011.cache")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = afero.Exists(mem, "/proj/ShaderCache/Release/mesh_PS_spirv-0011.cache.hash")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_Persistence(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "ShaderCache")
	cfg := domain.CacheConfig{Root: root, Mode: domain.ModeDebug}
	osfs := afero.NewOsFs()

	require.NoError(t, cas.NewStore(osfs, cfg).Store("k", 7, domain.Artifact("spirv")))

	entry, err := cas.NewStore(osfs, cfg).Lookup("k")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(7), entry.StoredHash)
	assert.Equal(t, domain.Artifact("spirv"), entry.Artifact)
	assert.FileExists(t, filepath.Join(root, "Debug", "k.cache"))
}

func TestStore_Overwrite(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(afero.NewMemMapFs(), releaseCfg)
	require.NoError(t, store.Store("k", 1, domain.Artifact("old")))
	require.NoError(t, store.Store("k", 2, domain.Artifact("newer")))

	entry, err := store.Lookup("k")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, uint64(2), entry.StoredHash)
	assert.Equal(t, domain.Artifact("newer"), entry.Artifact)
}

func TestStore_ModesAreIsolated(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	release := cas.NewStore(mem, releaseCfg)
	debug := cas.NewStore(mem, domain.CacheConfig{Root: releaseCfg.Root, Mode: domain.ModeDebug})

	require.NoError(t, release.Store("k", 1, domain.Artifact("r")))

	entry, err := debug.Lookup("k")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_CompilersAreIsolated(t *testing.T) {
	t.Parallel()

	req := domain.CompileRequest{SourcePath: "/proj/mesh.wgsl", EntryPoint: "fs_main", Profile: "spirv"}
	nagaCfg, execCfg := releaseCfg, releaseCfg
	nagaCfg.Compiler = domain.CompilerConfig{Kind: domain.CompilerNaga}.Fingerprint()
	execCfg.Compiler = domain.CompilerConfig{Kind: domain.CompilerExec, Command: []string{"dxc"}}.Fingerprint()

	mem := afero.NewMemMapFs()
	naga := cas.NewStore(mem, nagaCfg)
	exec := cas.NewStore(mem, execCfg)
	require.NotEqual(t, naga.KeyFor(req), exec.KeyFor(req))

	require.NoError(t, naga.Store(naga.KeyFor(req), 1, domain.Artifact("naga")))

	entry, err := exec.Lookup(exec.KeyFor(req))
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_Misses(t *testing.T) {
	t.Parallel()

	const dir = "/proj/ShaderCache/Release"

	tests := []struct {
		name    string
		corrupt func(t *testing.T, mem afero.Fs)
	}{
		{
			name:    "missing cache directory",
			corrupt: func(t *testing.T, mem afero.Fs) { require.NoError(t, mem.RemoveAll("/proj")) },
		},
		{
			name:    "missing hash record",
			corrupt: func(t *testing.T, mem afero.Fs) { require.NoError(t, mem.Remove(dir+"/k.cache.hash")) },
		},
		{
			name:    "missing artifact",
			corrupt: func(t *testing.T, mem afero.Fs) { require.NoError(t, mem.Remove(dir+"/k.cache")) },
		},
		{
			name: "truncated hash record",
			corrupt: func(t *testing.T, mem afero.Fs) {
				require.NoError(t, afero.WriteFile(mem, dir+"/k.cache.hash", []byte("SHCR\x01\x00"), 0o644))
			},
		},
		{
			name: "raw 8 byte hash record",
			corrupt: func(t *testing.T, mem afero.Fs) {
				require.NoError(t, afero.WriteFile(mem, dir+"/k.cache.hash", make([]byte, 8), 0o644))
			},
		},
		{
			name: "truncated artifact",
			corrupt: func(t *testing.T, mem afero.Fs) {
				require.NoError(t, afero.WriteFile(mem, dir+"/k.cache", []byte("spi"), 0o644))
			},
		},
		{
			name: "artifact replaced with same length",
			corrupt: func(t *testing.T, mem afero.Fs) {
				require.NoError(t, afero.WriteFile(mem, dir+"/k.cache", []byte("SPIRV"), 0o644))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mem := afero.NewMemMapFs()
			store := cas.NewStore(mem, releaseCfg)
			require.NoError(t, store.Store("k", 99, domain.Artifact("spirv")))

			tt.corrupt(t, mem)

			entry, err := store.Lookup("k")
			require.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestStore_NeverStoredIsMiss(t *testing.T) {
	t.Parallel()

	entry, err := cas.NewStore(afero.NewMemMapFs(), releaseCfg).Lookup("absent")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_WriteFailureIsCacheIO(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), releaseCfg)

	err := store.Store("k", 1, domain.Artifact("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheIO)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	store := cas.NewStore(mem, releaseCfg)
	require.NoError(t, store.Store("k", 1, domain.Artifact("x")))
	require.NoError(t, store.Store("k", 2, domain.Artifact("y")))

	infos, err := afero.ReadDir(mem, store.Dir())
	require.NoError(t, err)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	assert.ElementsMatch(t, []string{"k.cache", "k.cache.hash"}, names)
}

func TestStore_EntriesAndClear(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	store := cas.NewStore(mem, releaseCfg)

	records, err := store.Entries()
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, store.Store("b", 1, domain.Artifact("bb")))
	require.NoError(t, store.Store("a", 2, domain.Artifact("a")))
	require.NoError(t, afero.WriteFile(mem, store.Dir()+"/orphan.cache", []byte("o"), 0o644))

	records, err = store.Entries()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Key)
	assert.Equal(t, int64(1), records[0].Size)
	assert.Equal(t, "b", records[1].Key)
	assert.Equal(t, int64(2), records[1].Size)

	require.NoError(t, store.Clear())

	entry, err := store.Lookup("a")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestOpener_Open(t *testing.T) {
	t.Parallel()

	mem := afero.NewMemMapFs()
	store := cas.NewOpener(mem).Open(releaseCfg)
	assert.Equal(t, "/proj/ShaderCache/Release", store.Dir())
}
