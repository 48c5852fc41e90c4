// Package scripts embeds the node helper scripts used to reach the Vue
// template compiler.
package scripts

import (
	"embed"
	"fmt"
)

//go:embed bin/*.js
var binFS embed.FS

// Bundled script names.
const (
	VueCompile = "vue-compile.js"
	VueCheck   = "vue-check.js"
)

// Source returns the contents of a bundled script, suitable for node -e.
func Source(name string) (string, error) {
	content, err := binFS.ReadFile("bin/" + name)
	if err != nil {
		return "", fmt.Errorf("read embedded %s: %w", name, err)
	}
	return string(content), nil
}
