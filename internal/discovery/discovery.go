package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns locate audit session files when no pattern is configured.
var DefaultPatterns = []string{"**/*.audit.yaml", "**/*.audit.yml"}

// ValidateFilePath checks that path names a readable, non-empty text file and
// returns its absolute path.
//
// Example:
//
//	absPath, err := ValidateFilePath("audits/ferme-du-val.audit.yaml")
//	if err != nil {
//	    fmt.Fprintf(os.Stderr, "Error: %v\n", err)
//	    os.Exit(1)
//	}
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	// An xlsx passed by mistake is a zip archive and trips this check.
	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not YAML: %s", absPath)
	}

	return absPath, nil
}

// File is a discovered audit file.
type File struct {
	Path    string
	RelPath string
	Size    int64
}

// FileDiscovery finds audit files under a root directory.
type FileDiscovery struct {
	rootPath       string
	exclude        []string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance. Matches of any exclude
// pattern (relative to rootPath) are skipped.
func NewFileDiscovery(rootPath string, exclude []string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		exclude:        exclude,
		followSymlinks: followSymlinks,
	}
}

// Discover returns the regular files matching any of patterns, sorted by
// relative path and without duplicates. With no patterns DefaultPatterns apply.
func (fd *FileDiscovery) Discover(patterns ...string) ([]File, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range append(slices.Clone(patterns), fd.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern: %s", p)
		}
	}

	seen := make(map[string]bool)
	var files []File

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] || fd.excluded(match) {
				continue
			}
			seen[match] = true
			if f, ok := fd.processMatch(match); ok {
				files = append(files, f)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func (fd *FileDiscovery) excluded(relPath string) bool {
	for _, pattern := range fd.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, filepath.FromSlash(match))

	info, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}

	if info.Mode()&os.ModeSymlink != 0 {
		resolvedInfo, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		info = resolvedInfo
	}

	if !info.Mode().IsRegular() {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: match,
		Size:    info.Size(),
	}, true
}

// resolveSymlink follows a symlink if configured and the target stays inside the root.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (os.FileInfo, bool) {
	if !fd.followSymlinks {
		return nil, false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return nil, false
	}

	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return nil, false
	}
	if rel, err := filepath.Rel(root, realPath); err != nil || strings.HasPrefix(rel, "..") {
		return nil, false
	}

	info, err := os.Stat(realPath)
	if err != nil {
		return nil, false
	}
	return info, true
}
