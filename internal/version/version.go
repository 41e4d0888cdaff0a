// Package version extracts the project version string from the metadata
// file at startup.
package version

import (
	"fmt"
	"strings"

	"github.com/jlollis/jscl/internal/config"
	"github.com/jlollis/jscl/internal/source"
)

// Read scans the metadata file for the version key and returns its quoted
// value. The file is deliberately not parsed as structured data; the first
// occurrence of the key wins.
func Read(path string) (string, error) {
	unit, err := source.Load(path)
	if err != nil {
		return "", err
	}
	key := `"` + config.VersionKey + `"`
	for _, line := range strings.Split(unit.Text, "\n") {
		idx := strings.Index(line, key)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(key):]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			continue
		}
		rest = rest[colon+1:]
		open := strings.Index(rest, `"`)
		if open < 0 {
			continue
		}
		rest = rest[open+1:]
		end := strings.Index(rest, `"`)
		if end < 0 {
			continue
		}
		return rest[:end], nil
	}
	return "", fmt.Errorf("version: no %s key in %s", key, path)
}
