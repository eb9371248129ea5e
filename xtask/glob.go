package xtask

import (
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/spf13/afero"
)

// listFiles returns the regular files matching any of patterns inside
// dir, in sorted order. Listing and stat problems are logged and flagged
// on failed so that one broken entry does not hide the remaining files.
func (r *Runner) listFiles(dir string, patterns []string, failed *atomic.Bool) []string {
	var files []string
	for _, pattern := range patterns {
		matches, err := afero.Glob(r.fs, filepath.Join(dir, pattern))
		if err != nil {
			r.log.Errorf("%s: %v", pattern, err)
			failed.Store(true)
			continue
		}
		for _, path := range matches {
			info, err := r.fs.Stat(path)
			if err != nil {
				r.log.Errorf("%s: %v", path, err)
				failed.Store(true)
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files
}
