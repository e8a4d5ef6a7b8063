// scan.go - recursive wav discovery with memoization
package dataset

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tphakala/audiofp-go/internal/errors"
)

// wavExt is the only extension served to the sequence generator.
const wavExt = ".wav"

// ScanWavFiles returns every .wav file under root, recursively, sorted
// lexicographically by full path. A missing root is a not-found error; an
// existing root with no wav files returns an empty list and no error, the
// caller decides whether emptiness is fatal for its partition.
func ScanWavFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), wavExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Context("root", root).
			Build()
	}

	sort.Strings(files)
	return files, nil
}

// scan resolves root/subdir through the selector's memoization cache. The
// cache key is the joined path, so repeated resolutions of the same pool
// reuse the first scan. Recomputing a sorted scan is idempotent, a raced
// double write stores identical values.
func (s *Selector) scan(pool, root, subdir string) ([]string, error) {
	dir := filepath.Join(root, subdir)

	if cached, found := s.scans.Get(dir); found {
		if s.metrics != nil {
			s.metrics.RecordScan(pool, "cached", 0, 0)
		}
		return cached.([]string), nil
	}

	start := time.Now()
	files, err := ScanWavFiles(dir)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordScan(pool, "error", 0, 0)
		}
		return nil, err
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordScan(pool, "success", elapsed.Seconds(), len(files))
	}
	s.logger.Debug("scanned pool",
		"pool", pool,
		"dir", dir,
		"files", len(files),
		"elapsed", elapsed)

	s.scans.SetDefault(dir, files)
	return files, nil
}

// scanRequired is scan plus the partition-fatal emptiness rule: a pool that
// is missing or yields zero files resolves nothing.
func (s *Selector) scanRequired(pool, root, subdir string) ([]string, error) {
	files, err := s.scan(pool, root, subdir)
	if err != nil {
		return nil, sourceNotFound(err, filepath.Join(root, subdir))
	}
	if len(files) == 0 {
		return nil, sourceNotFound(nil, filepath.Join(root, subdir))
	}
	return files, nil
}

// sourceNotFound builds the partition-fatal error for a missing or empty
// source pool.
func sourceNotFound(cause error, dir string) error {
	if cause == nil {
		return errors.Newf("no %s files found under %s", wavExt, dir).
			Category(errors.CategoryNotFound).
			Context("dir", dir).
			Build()
	}
	return errors.Newf("source %s unavailable: %w", dir, cause).
		Category(errors.CategoryNotFound).
		Context("dir", dir).
		Build()
}
