package wrap

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/fuet/internal/compiler"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatGlobal, false},
		{"global", FormatGlobal, false},
		{"commonjs", FormatCommonJS, false},
		{"CJS", FormatCommonJS, false},
		{"esmodule", FormatESModule, false},
		{"es_modules", FormatESModule, false},
		{"esm", FormatESModule, false},
		{"umd", FormatGlobal, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "global", FormatGlobal.String())
	assert.Equal(t, "commonjs", FormatCommonJS.String())
	assert.Equal(t, "esmodule", FormatESModule.String())
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestWrap_Formats(t *testing.T) {
	tmpl := compiler.Template{Render: "return 1"}

	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"global", FormatGlobal, "window.templates.foo_bar={r:function r(){return 1}};"},
		{"commonjs", FormatCommonJS, "module.exports.foo_bar={r:function r(){return 1}};"},
		{"esmodule", FormatESModule, "export const foo_bar={r:function r(){return 1}};"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := New(tt.format, "window.templates", nil).Wrap("foo_bar", tmpl)
			require.NoError(t, err)
			assert.Equal(t, "foo_bar", frag.Name)
			assert.Equal(t, tt.want, frag.Code)
		})
	}
}

func TestWrap_NamespaceIgnoredOutsideGlobal(t *testing.T) {
	frag, err := New(FormatCommonJS, "app.tpl", nil).Wrap("x", compiler.Template{Render: ""})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(frag.Code, "module.exports."))
	assert.NotContains(t, frag.Code, "app.tpl")

	frag, err = New(FormatGlobal, "app.tpl", nil).Wrap("x", compiler.Template{Render: ""})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(frag.Code, "app.tpl.x="))
}

func TestWrap_NoStaticRenderOmitsS(t *testing.T) {
	frag, err := New(FormatGlobal, "t", nil).Wrap("a", compiler.Template{Render: "return _c('div')"})
	require.NoError(t, err)

	assert.Equal(t, "t.a={r:function r(){return _c('div')}};", frag.Code)
	assert.NotContains(t, frag.Code, ",s:")
}

func TestWrap_StaticRenderOrder(t *testing.T) {
	tmpl := compiler.Template{
		Render:       "return _m(0)",
		StaticRender: []string{"return 'first'", "return 'second'", "return 'third'"},
	}

	frag, err := New(FormatESModule, "", nil).Wrap("list", tmpl)
	require.NoError(t, err)

	want := "export const list={r:function r(){return _m(0)}," +
		"s:[function r(){return 'first'},function r(){return 'second'},function r(){return 'third'}]};"
	assert.Equal(t, want, frag.Code)
	assert.Equal(t, 3, strings.Count(frag.Code[strings.Index(frag.Code, ",s:["):], "function r()"))
}

func TestWrap_EveryFunctionTransformed(t *testing.T) {
	var seen []string
	tr := TransformFunc(func(fn string) (string, error) {
		seen = append(seen, fn)
		return "F", nil
	})

	frag, err := New(FormatGlobal, "ns", tr).Wrap("x", compiler.Template{
		Render:       "a",
		StaticRender: []string{"b", "c"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"function r(){a}", "function r(){b}", "function r(){c}"}, seen)
	assert.Equal(t, "ns.x={r:F,s:[F,F]};", frag.Code)
}

func TestWrap_TransformError(t *testing.T) {
	boom := errors.New("boom")

	_, err := New(FormatGlobal, "ns", TransformFunc(func(string) (string, error) {
		return "", boom
	})).Wrap("broken", compiler.Template{Render: "a"})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
}
