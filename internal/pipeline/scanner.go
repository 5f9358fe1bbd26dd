package pipeline

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/theirongolddev/payg/internal/scenario"
)

// ScanDir walks dir and returns every scenario file in it, sorted by path.
// Files with unsupported extensions are skipped.
func ScanDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if _, ferr := scenario.FormatFromPath(path); ferr != nil {
			return nil
		}
		files = append(files, path)
		return nil
	})
	slices.Sort(files)
	return files, err
}

// Expand resolves each argument to scenario files: directories are scanned,
// files are kept as given.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		files, err := ScanDir(a)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
