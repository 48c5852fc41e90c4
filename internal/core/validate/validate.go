// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Identifier validates that s can be used as a JavaScript property key with
// dot access or as an export name.
func Identifier(s string) error {
	if s == "" {
		return fmt.Errorf("name is empty")
	}
	if !identifierRe.MatchString(s) {
		return fmt.Errorf("%q is not a valid identifier", s)
	}
	return nil
}

// Namespace validates a dotted property path such as "window.templates".
func Namespace(ns string) error {
	if strings.TrimSpace(ns) == "" {
		return fmt.Errorf("namespace is required")
	}
	for _, part := range strings.Split(ns, ".") {
		if err := Identifier(part); err != nil {
			return fmt.Errorf("invalid namespace %q: %w", ns, err)
		}
	}
	return nil
}

// GlobPattern validates an input pattern is non-empty and well formed.
func GlobPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("malformed glob pattern %q", pattern)
	}
	return nil
}

// NamespaceField returns a criterio validator for namespaces.
func NamespaceField(field, ns string) error {
	return criterio.Run(field, ns, Namespace)
}
