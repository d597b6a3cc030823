package converter

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the qualifying workbook extension, matched case-insensitively.
const SourceExt = ".xlsx"

// Discover enumerates the workbook files reachable from path. A path that is
// itself a matching file yields just that file (as an absolute path); a
// non-matching file yields nothing. Anything else is walked recursively and
// matching files are collected in walk order. An empty result is not an
// error; the caller decides how to report it.
//
// Symlink cycles are not guarded against beyond what filepath.WalkDir
// already provides (it does not follow directory symlinks).
func Discover(path string) []string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		if !matchesExt(path) {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			return []string{abs}
		}
		return []string{path}
	}

	var found []string
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if !d.IsDir() && matchesExt(d.Name()) {
			found = append(found, p)
		}
		return nil
	})
	return found
}

func matchesExt(name string) bool {
	return strings.EqualFold(filepath.Ext(name), SourceExt)
}
