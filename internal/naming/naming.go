// Package naming derives template identifiers from file paths.
package naming

import (
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/colonyops/fuet/internal/core/validate"
)

// Name converts a file path into a flat identifier. The extension is
// stripped, segments are normalized (- becomes _), segments listed in filter
// are removed, repeated segments keep only their first occurrence, and any
// segment carrying an @ scope marker is dropped. The survivors are joined
// with _.
//
// An empty result is returned as "" without error; use Validate before
// emitting the name.
func Name(file string, filter []string) string {
	p := filepath.ToSlash(file)
	p = strings.TrimSuffix(p, path.Ext(p))

	skip := make(map[string]struct{}, len(filter))
	for _, f := range filter {
		skip[normalize(f)] = struct{}{}
	}

	parts := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		seg = normalize(seg)
		if _, ok := skip[seg]; ok {
			continue
		}
		if slices.Contains(parts, seg) {
			continue
		}
		if strings.Contains(seg, "@") {
			continue
		}
		parts = append(parts, seg)
	}

	return strings.Join(parts, "_")
}

// Validate reports an error when name cannot be emitted as a property key or
// export name. file is only used for the error message.
func Validate(name, file string) error {
	if err := validate.Identifier(name); err != nil {
		return fmt.Errorf("invalid template name for %s: %w", file, err)
	}
	return nil
}

func normalize(seg string) string {
	return strings.ReplaceAll(seg, "-", "_")
}
