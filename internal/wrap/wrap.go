// Package wrap serializes compiled templates into JavaScript statements.
package wrap

import (
	"fmt"
	"strings"

	"github.com/colonyops/fuet/internal/compiler"
)

// Format selects how a compiled template is exposed by the bundle.
type Format int

const (
	// FormatGlobal assigns onto a namespace object, e.g. window.templates.
	FormatGlobal Format = iota
	// FormatCommonJS assigns onto module.exports.
	FormatCommonJS
	// FormatESModule declares a named export.
	FormatESModule
)

func (f Format) String() string {
	switch f {
	case FormatGlobal:
		return "global"
	case FormatCommonJS:
		return "commonjs"
	case FormatESModule:
		return "esmodule"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat converts a configured format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "global":
		return FormatGlobal, nil
	case "commonjs", "cjs":
		return FormatCommonJS, nil
	case "esmodule", "esm", "es_modules":
		return FormatESModule, nil
	default:
		return FormatGlobal, fmt.Errorf("unknown output format %q (want global, commonjs or esmodule)", s)
	}
}

// Fragment is one serialized, self-terminated statement.
type Fragment struct {
	Name string
	Code string
}

// Transformer rewrites a standalone function declaration, e.g. to
// transpile or minify it.
type Transformer interface {
	Transform(fn string) (string, error)
}

// TransformFunc adapts a plain function to a Transformer.
type TransformFunc func(fn string) (string, error)

// Transform calls f(fn).
func (f TransformFunc) Transform(fn string) (string, error) { return f(fn) }

// Passthrough leaves functions untouched.
var Passthrough Transformer = TransformFunc(func(fn string) (string, error) { return fn, nil })

// Wrapper builds fragments for a single output format.
type Wrapper struct {
	format      Format
	namespace   string
	transformer Transformer
}

// New returns a Wrapper. namespace is only used by FormatGlobal. A nil
// transformer means Passthrough.
func New(format Format, namespace string, t Transformer) *Wrapper {
	if t == nil {
		t = Passthrough
	}
	return &Wrapper{format: format, namespace: namespace, transformer: t}
}

// Target returns the assignment target for name.
func (w *Wrapper) Target(name string) string {
	switch w.format {
	case FormatCommonJS:
		return "module.exports." + name
	case FormatESModule:
		return "export const " + name
	default:
		return w.namespace + "." + name
	}
}

// Wrap serializes tmpl as {r:<fn>,s:[<fn>,...]} assigned to the target for
// name. The s key is omitted when there are no static render functions.
func (w *Wrapper) Wrap(name string, tmpl compiler.Template) (Fragment, error) {
	render, err := w.function(tmpl.Render)
	if err != nil {
		return Fragment{}, fmt.Errorf("transform %s render: %w", name, err)
	}

	var b strings.Builder
	b.WriteString(w.Target(name))
	b.WriteString("={r:")
	b.WriteString(render)

	if len(tmpl.StaticRender) > 0 {
		b.WriteString(",s:[")
		for i, body := range tmpl.StaticRender {
			fn, err := w.function(body)
			if err != nil {
				return Fragment{}, fmt.Errorf("transform %s static render %d: %w", name, i, err)
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fn)
		}
		b.WriteByte(']')
	}

	b.WriteString("};")

	return Fragment{Name: name, Code: b.String()}, nil
}

func (w *Wrapper) function(body string) (string, error) {
	return w.transformer.Transform("function r(){" + body + "}")
}
