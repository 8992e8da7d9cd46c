package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func TestDiscover_DefaultPatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "zeta.audit.yaml", "audit: {}\n")
	writeFile(t, root, "2024/q1/alpha.audit.yml", "audit: {}\n")
	writeFile(t, root, "2024/q1/notes.yaml", "x: 1\n")
	writeFile(t, root, "catalog.yaml", "categories: []\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.audit.yaml"), 0755))

	files, err := NewFileDiscovery(root, nil, false).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/q1/alpha.audit.yml", "zeta.audit.yaml"}, relPaths(files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path) || strings.HasPrefix(f.Path, root))
		assert.Positive(t, f.Size)
	}
}

func TestDiscover_CustomPatternDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/one.audit.yaml", "audit: {}\n")
	writeFile(t, root, "b/two.audit.yaml", "audit: {}\n")

	files, err := NewFileDiscovery(root, nil, false).Discover("a/*.yaml", "**/*.audit.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one.audit.yaml", "b/two.audit.yaml"}, relPaths(files))
}

func TestDiscover_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "current/one.audit.yaml", "audit: {}\n")
	writeFile(t, root, "archive/2019/old.audit.yaml", "audit: {}\n")

	files, err := NewFileDiscovery(root, []string{"archive/**"}, false).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"current/one.audit.yaml"}, relPaths(files))
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := NewFileDiscovery(t.TempDir(), nil, false).Discover("[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid pattern")

	_, err = NewFileDiscovery(t.TempDir(), []string{"{a"}, false).Discover()
	require.Error(t, err)
}

func TestDiscover_NoMatches(t *testing.T) {
	files, err := NewFileDiscovery(t.TempDir(), nil, false).Discover()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := writeFile(t, root, "real/one.audit.yaml", "audit: {}\n")
	escaped := writeFile(t, outside, "two.audit.yaml", "audit: {}\n")

	if err := os.Symlink(target, filepath.Join(root, "linked.audit.yaml")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(escaped, filepath.Join(root, "escaped.audit.yaml")))

	files, err := NewFileDiscovery(root, nil, false).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"real/one.audit.yaml"}, relPaths(files), "links skipped unless followed")

	files, err = NewFileDiscovery(root, nil, true).Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{"linked.audit.yaml", "real/one.audit.yaml"}, relPaths(files), "links leaving the root stay skipped")
}

func TestValidateFilePath(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.audit.yaml", "audit: {}\n")
	empty := writeFile(t, dir, "empty.audit.yaml", "")
	binary := writeFile(t, dir, "report.xlsx", "PK\x03\x04\x00\x00")

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid file", good, ""},
		{"missing file", filepath.Join(dir, "missing.yaml"), "file not found"},
		{"directory", dir, "path is a directory"},
		{"empty file", empty, "file is empty"},
		{"binary file", binary, "appears to be binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, err := ValidateFilePath(tt.path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, filepath.IsAbs(abs))
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFilePath_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.audit.yaml", "audit: {}\n")
	link := filepath.Join(dir, "link.audit.yaml")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	abs, err := ValidateFilePath(link)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, resolved, abs)
}
