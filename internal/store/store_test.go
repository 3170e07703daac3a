package store_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"sail/internal/crypto"
	"sail/internal/metrics"
	"sail/internal/store"
	"sail/internal/testutil/fsperm"
)

type profile struct {
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Attrs map[string]string `json:"attrs"`
	Count int               `json:"count"`
}

func openStore(t *testing.T, root, ns string, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithIterations(crypto.MinIterations)}, opts...)
	s, err := store.Open(root, ns, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet_Roundtrip(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")

	in := profile{Name: "alice", Tags: []string{"a", "b"}, Attrs: map[string]string{"z": "1", "a": "2"}, Count: 3}
	require.NoError(t, s.Put("profile", in))

	var out profile
	found, err := s.Get("profile", &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, in, out)

	require.NoError(t, s.Put("greeting", "hello"))
	var greeting string
	found, err = s.Get("greeting", &greeting)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "hello", greeting)

	keys, err := s.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"greeting", "profile"}, keys)
}

func TestGet_Missing(t *testing.T) {
	s := openStore(t, t.TempDir(), "tor")

	var out profile
	found, err := s.Get("config", &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestOpen_Permissions(t *testing.T) {
	root := t.TempDir()
	s := openStore(t, root, "tor")
	require.NoError(t, s.Put("config", map[string]string{"mode": "tor"}))

	fsperm.AssertPrivateDirPerm(t, s.Dir())
	fsperm.AssertPrivateDirPerm(t, filepath.Join(root, "secure"))
	fsperm.AssertPrivateFilePerm(t, filepath.Join(s.Dir(), ".key"))
	fsperm.AssertPrivateFilePerm(t, filepath.Join(s.Dir(), "config.enc"))
}

func TestOpen_TightensExistingDirectory(t *testing.T) {
	root := t.TempDir()
	dir := store.Dir(root, "standard")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o755))

	openStore(t, root, "standard")
	fsperm.AssertPrivateDirPerm(t, dir)
}

func TestOpen_TightensExistingKey(t *testing.T) {
	root := t.TempDir()
	s, err := store.Open(root, "tor", store.WithIterations(crypto.MinIterations))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	keyPath := filepath.Join(store.Dir(root, "tor"), ".key")
	require.NoError(t, os.Chmod(keyPath, 0o644))

	again := openStore(t, root, "tor")
	require.False(t, again.KeyCreated())
	fsperm.AssertPrivateFilePerm(t, keyPath)
}

func TestOpen_ReusesKey(t *testing.T) {
	root := t.TempDir()

	first, err := store.Open(root, "standard", store.WithIterations(crypto.MinIterations))
	require.NoError(t, err)
	require.True(t, first.KeyCreated())
	require.NoError(t, first.Put("config", "v1"))
	keyBefore, err := os.ReadFile(filepath.Join(first.Dir(), ".key"))
	require.NoError(t, err)
	require.Len(t, keyBefore, crypto.KeyBytes)
	require.NoError(t, first.Close())

	second := openStore(t, root, "standard")
	require.False(t, second.KeyCreated())
	keyAfter, err := os.ReadFile(filepath.Join(second.Dir(), ".key"))
	require.NoError(t, err)
	require.Equal(t, keyBefore, keyAfter)

	var got string
	found, err := second.Get("config", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v1", got)
}

func TestOpen_NamespacesHaveDistinctKeys(t *testing.T) {
	root := t.TempDir()
	std := openStore(t, root, "standard")
	tor := openStore(t, root, "tor")

	a, err := os.ReadFile(filepath.Join(std.Dir(), ".key"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(tor.Dir(), ".key"))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestOpen_BadKeyFile(t *testing.T) {
	root := t.TempDir()
	dir := store.Dir(root, "standard")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".key"), []byte("short"), 0o600))

	_, err := store.Open(root, "standard")
	require.ErrorIs(t, err, store.ErrInit)
}

func TestOpen_InvalidNamespace(t *testing.T) {
	for _, ns := range []string{"", "..", "../escape", "a/b", ".hidden"} {
		_, err := store.Open(t.TempDir(), ns)
		require.ErrorIs(t, err, store.ErrInit, ns)
		require.ErrorIs(t, err, store.ErrInvalidName, ns)
	}
}

func TestOpen_RootNotWritable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "secure")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o600))

	_, err := store.Open(root, "standard")
	require.ErrorIs(t, err, store.ErrInit)
}

func TestGet_DetectsTampering(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("config", map[string]string{"mode": "standard"}))

	path := filepath.Join(s.Dir(), "config.enc")
	orig, err := os.ReadFile(path)
	require.NoError(t, err)

	for i := range orig {
		tampered := bytes.Clone(orig)
		tampered[i] ^= 0xA5
		require.NoError(t, os.WriteFile(path, tampered, 0o600))

		var out map[string]string
		found, err := s.Get("config", &out)
		if !errors.Is(err, store.ErrCorrupt) {
			t.Fatalf("byte %d: expected ErrCorrupt, got found=%v err=%v", i, found, err)
		}
		require.False(t, found)
	}

	for _, n := range []int{0, 1, len(orig) / 2, len(orig) - 1} {
		require.NoError(t, os.WriteFile(path, orig[:n], 0o600))
		var out map[string]string
		_, err := s.Get("config", &out)
		require.ErrorIs(t, err, store.ErrCorrupt, "truncated to %d", n)
	}
}

func TestGet_RecordMovedBetweenNamesIsRejected(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("a", "alpha"))

	blob, err := os.ReadFile(filepath.Join(s.Dir(), "a.enc"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "b.enc"), blob, 0o600))

	var out string
	_, err = s.Get("b", &out)
	require.ErrorIs(t, err, store.ErrCorrupt)
}

func TestGet_UndecodablePayload(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("config", "a string, not an object"))

	var out profile
	_, err := s.Get("config", &out)
	require.ErrorIs(t, err, store.ErrCorrupt)
}

func TestPut_FailureKeepsPreviousRecord(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("config", "v1"))

	err := s.Put("config", make(chan int))
	require.ErrorIs(t, err, store.ErrWrite)

	var got string
	found, err := s.Get("config", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v1", got)
	assertNoTempFiles(t, s.Dir())
}

func TestPut_InterruptedWriteLeavesTargetIntact(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("config", "v1"))

	// A crash between temp write and rename leaves only a stray temp file.
	stray := filepath.Join(s.Dir(), "config.enc123456")
	require.NoError(t, os.WriteFile(stray, []byte("SAILENC\x01partial"), 0o600))

	var got string
	found, err := s.Get("config", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v1", got)

	keys, err := s.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"config"}, keys)

	// The stray file is scrubbed along with the records.
	require.NoError(t, s.SecureWipe())
	_, err = os.Stat(stray)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPut_InvalidRecordName(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	for _, key := range []string{"", ".key", "../config", "a/b"} {
		err := s.Put(key, "x")
		require.ErrorIs(t, err, store.ErrWrite, key)
		require.ErrorIs(t, err, store.ErrInvalidName, key)
	}
}

func TestSecureWipe_KeepsKey(t *testing.T) {
	s := openStore(t, t.TempDir(), "standard")
	require.NoError(t, s.Put("config", "v1"))
	require.NoError(t, s.Put("profile", profile{Name: "bob"}))
	keyBefore, err := os.ReadFile(filepath.Join(s.Dir(), ".key"))
	require.NoError(t, err)

	require.NoError(t, s.SecureWipe())

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ".key", entries[0].Name())

	keyAfter, err := os.ReadFile(filepath.Join(s.Dir(), ".key"))
	require.NoError(t, err)
	require.Equal(t, keyBefore, keyAfter)

	var got string
	found, err := s.Get("config", &got)
	require.NoError(t, err)
	require.False(t, found)

	// The namespace stays usable.
	require.NoError(t, s.Put("config", "v2"))
	found, err = s.Get("config", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v2", got)
}

func TestSecureWipe_ReportsFailures(t *testing.T) {
	m := metrics.New()
	s := openStore(t, t.TempDir(), "standard", store.WithMetrics(m))
	require.NoError(t, s.Put("config", "v1"))
	stuck := filepath.Join(s.Dir(), "stuck")
	require.NoError(t, os.Mkdir(stuck, 0o700))

	err := s.SecureWipe()
	require.ErrorIs(t, err, store.ErrWipe)

	var werr *store.WipeError
	require.ErrorAs(t, err, &werr)
	require.Equal(t, "standard", werr.Namespace)
	require.Equal(t, []string{stuck}, werr.Paths())

	// Files that could be wiped were wiped.
	_, err = os.Stat(filepath.Join(s.Dir(), "config.enc"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Equal(t, 1.0, testutil.ToFloat64(m.WipeFailures.WithLabelValues("standard")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("standard", "wipe", "error")))
}

func TestSecureWipe_DoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	s := openStore(t, root, "standard")

	outside := filepath.Join(root, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o600))
	require.NoError(t, os.Symlink(outside, filepath.Join(s.Dir(), "link.enc")))

	require.NoError(t, s.SecureWipe())

	got, err := os.ReadFile(outside)
	require.NoError(t, err)
	require.Equal(t, "keep me", string(got))
}

func TestDestroy_RemovesNamespace(t *testing.T) {
	root := t.TempDir()
	s := openStore(t, root, "tor")
	require.NoError(t, s.Put("config", "v1"))

	require.NoError(t, s.Destroy())
	_, err := os.Stat(store.Dir(root, "tor"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.ErrorIs(t, s.Put("config", "v2"), store.ErrClosed)

	// Reopening starts over with a fresh key.
	again := openStore(t, root, "tor")
	require.True(t, again.KeyCreated())
}

func TestHasRecord_DoesNotCreateNamespace(t *testing.T) {
	root := t.TempDir()

	ok, err := store.HasRecord(root, "tor", "config")
	require.NoError(t, err)
	require.False(t, ok)
	_, err = os.Stat(store.Dir(root, "tor"))
	require.ErrorIs(t, err, os.ErrNotExist)

	s := openStore(t, root, "tor")
	require.NoError(t, s.Put("config", "v1"))

	ok, err = store.HasRecord(root, "tor", "config")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Has("config")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMetricsCountOperations(t *testing.T) {
	m := metrics.New()
	s := openStore(t, t.TempDir(), "standard", store.WithMetrics(m))
	require.NoError(t, s.Put("config", "v1"))
	var got string
	_, err := s.Get("config", &got)
	require.NoError(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("standard", "open", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("standard", "put", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("standard", "get", "ok")))
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		name := e.Name()
		if name != ".key" && filepath.Ext(name) != ".enc" {
			t.Fatalf("unexpected leftover file %s", name)
		}
	}
}
