package wrap

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// ParseTarget maps a target name such as "es2015" to an esbuild target.
func ParseTarget(s string) (api.Target, error) {
	t, ok := targets[strings.ToLower(s)]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown transform target %q", s)
	}
	return t, nil
}

// ESBuild transforms render functions with esbuild.
type ESBuild struct {
	opts   api.TransformOptions
	strict bool
}

// NewESBuild returns an esbuild backed Transformer. With minify set,
// whitespace and syntax are minified. Identifiers are never renamed since
// render bodies may rely on with(this) scoping.
func NewESBuild(target string, minify bool) (*ESBuild, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return nil, err
	}

	return &ESBuild{
		opts: api.TransformOptions{
			Loader:           api.LoaderJS,
			Target:           t,
			MinifyWhitespace: minify,
			MinifySyntax:     minify,
			LogLevel:         api.LogLevelSilent,
		},
	}, nil
}

// Strict returns a copy of e that also rejects output which is not valid
// inside an ES module, such as a with statement.
func (e *ESBuild) Strict() *ESBuild {
	cp := *e
	cp.strict = true
	return &cp
}

// Transform implements Transformer.
func (e *ESBuild) Transform(fn string) (string, error) {
	result := api.Transform(fn, e.opts)
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("esbuild: %s", messages(result.Errors))
	}

	code := strings.TrimSpace(string(result.Code))

	if e.strict {
		if err := CheckModule(code); err != nil {
			return "", err
		}
	}

	return strings.TrimSuffix(code, ";"), nil
}

// CheckModule parses code as an ES module and reports any syntax error.
func CheckModule(code string) error {
	result := api.Transform(code, api.TransformOptions{
		Loader:   api.LoaderJS,
		Format:   api.FormatESModule,
		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return fmt.Errorf("not valid in an es module: %s", messages(result.Errors))
	}
	return nil
}

func messages(msgs []api.Message) string {
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}
	return strings.Join(texts, "; ")
}
