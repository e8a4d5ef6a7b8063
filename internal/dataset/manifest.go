// manifest.go - custom source manifest reading
package dataset

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/tphakala/audiofp-go/internal/errors"
)

// ReadManifest reads a plain text manifest, one file path per line, no
// header, no comments. Blank lines are skipped. The returned list is sorted
// lexicographically.
func ReadManifest(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryManifest).
			Context("manifest", path).
			Build()
	}
	defer f.Close()

	var fps []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fps = append(fps, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryManifest).
			Context("manifest", path).
			Build()
	}

	sort.Strings(fps)
	return fps, nil
}
