package fixture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpectFiles finds the files under root matching pattern and checks that
// their count is within [minCount, maxCount].
//
// Patterns use forward slashes on every platform; "**/*.go" also matches
// files directly in root. Returned paths are joined with root.
func ExpectFiles(root, pattern string, minCount, maxCount int) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("expect files: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("expect files: %s is not a directory", root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expect files %q: %w", pattern, err)
	}
	if len(matches) < minCount || len(matches) > maxCount {
		return nil, fmt.Errorf("expect files %q in %s: want %d..%d, found %d: %v",
			pattern, root, minCount, maxCount, len(matches), matches)
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return out, nil
}
