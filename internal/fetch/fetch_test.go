// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covctl/covctl/internal/config"
)

const sampleXML = `<coverage>
  <packages>
    <package name="app">
      <classes>
        <class name="app.main" filename="main.py">
          <lines>
            <line number="1" hits="1"/>
            <line number="2" hits="0"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`

func TestSnapshot_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"),
		[]byte("print(1)\nprint(2)\n"), 0o600))

	snap, err := Snapshot(context.Background(), path, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, snap.ClassFiles())

	// Without an explicit source dir, sources resolve against the coverage
	// file's own directory.
	lines, err := snap.SourceLines("main.py")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestSnapshot_ExplicitSourceDir(t *testing.T) {
	covDir := t.TempDir()
	srcDir := t.TempDir()
	path := filepath.Join(covDir, "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "main.py"),
		[]byte("print(1)\n"), 0o600))

	snap, err := Snapshot(context.Background(), path, srcDir)

	require.NoError(t, err)
	_, err = snap.SourceLines("main.py")
	assert.NoError(t, err)
}

func TestSnapshot_MissingFile(t *testing.T) {
	_, err := Snapshot(context.Background(), filepath.Join(t.TempDir(), "nope.xml"), "")

	assert.Error(t, err)
}

func TestBytes_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleXML), 0o600))

	data, err := Bytes(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []byte(sampleXML), data)
}

func TestSplitS3URI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"simple", "s3://bucket/coverage.xml", "bucket", "coverage.xml", false},
		{"nested key", "s3://bucket/ci/run-42/coverage.xml", "bucket", "ci/run-42/coverage.xml", false},
		{"missing key", "s3://bucket", "", "", true},
		{"missing bucket", "s3:///coverage.xml", "", "", true},
		{"empty key", "s3://bucket/", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := splitS3URI(tt.uri)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

// seedCacheFiles drops a stale and a fresh entry under the s3 cache subdir.
func seedCacheFiles(t *testing.T, cacheDir string) (stale, fresh string) {
	t.Helper()

	sub := filepath.Join(cacheDir, "s3")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	stale = filepath.Join(sub, "stale")
	fresh = filepath.Join(sub, "fresh")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o600))

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	return stale, fresh
}

func TestPurgeCache_HonorsCleanHours(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("COVCTL_CACHE_DIR", cacheDir)

	cfgPath := filepath.Join(t.TempDir(), "covctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cache:\n  clean: 1\n"), 0o600))
	t.Setenv("COVCTL_CFG_FILE", cfgPath)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	stale, fresh := seedCacheFiles(t, cacheDir)

	require.NoError(t, purgeCache())

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestPurgeCache_UnconfiguredIsNoOp(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv("COVCTL_CACHE_DIR", cacheDir)

	cfgPath := filepath.Join(t.TempDir(), "covctl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("source-dir: /src\n"), 0o600))
	t.Setenv("COVCTL_CFG_FILE", cfgPath)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { config.Config = config.Type{} })

	stale, fresh := seedCacheFiles(t, cacheDir)

	require.NoError(t, purgeCache())

	// No cache.clean configured: nothing is evicted, however old.
	_, err = os.Stat(stale)
	assert.NoError(t, err)
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestListCoverageFiles(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "older.xml")
	newer := filepath.Join(dir, "newer.xml")
	require.NoError(t, os.WriteFile(older, []byte(sampleXML), 0o600))
	require.NoError(t, os.WriteFile(newer, []byte(sampleXML), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.xml"), 0o755))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	files, err := ListCoverageFiles(dir)

	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, newer, files[0].Path)
	assert.Equal(t, older, files[1].Path)
	assert.Equal(t, int64(len(sampleXML)), files[0].Size)
}

func TestListCoverageFiles_MissingDir(t *testing.T) {
	_, err := ListCoverageFiles(filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}
