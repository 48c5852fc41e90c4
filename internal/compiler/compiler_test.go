package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/fuet/pkg/executil"
)

func newTestNode(t *testing.T, exec *executil.RecordingExecutor, opts Options) *Node {
	t.Helper()
	if opts.Command == nil {
		opts.Command = []string{"node"}
	}
	n, err := NewNode(exec, opts)
	require.NoError(t, err)
	return n
}

func TestNode_Compile(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"node": []byte(`{"render":"with(this){return _c('div',[_m(0)])}","staticRenderFns":["with(this){return _c('p')}"],"errors":[]}`),
		},
	}
	n := newTestNode(t, exec, Options{OptimizeSSR: true})

	tmpl, err := n.Compile(context.Background(), "foo/bar.vue", []byte("<div><p></p></div>"))
	require.NoError(t, err)

	assert.Equal(t, "with(this){return _c('div',[_m(0)])}", tmpl.Render)
	assert.Equal(t, []string{"with(this){return _c('p')}"}, tmpl.StaticRender)

	require.Len(t, exec.Commands, 1)
	cmd := exec.Commands[0]
	assert.Equal(t, "node", cmd.Cmd)
	require.Len(t, cmd.Args, 2)
	assert.Equal(t, "-e", cmd.Args[0])
	assert.Contains(t, cmd.Args[1], "vue-template-compiler")

	var req request
	require.NoError(t, json.Unmarshal(cmd.Stdin, &req))
	assert.Equal(t, "<div><p></p></div>", req.Source)
	assert.False(t, req.Options.PreserveWhitespace)
	assert.True(t, req.Options.OptimizeSSR)
	assert.False(t, req.StripWith)
}

func TestNode_Compile_StripWith(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"node": []byte(`{"render":"var _vm=this;var _h=_vm.$createElement;var _c=_vm._self._c||_h;return _c('div')","staticRenderFns":[]}`),
		},
	}
	n := newTestNode(t, exec, Options{StripWith: true})

	tmpl, err := n.Compile(context.Background(), "a.vue", []byte("<div/>"))
	require.NoError(t, err)
	assert.NotContains(t, tmpl.Render, "with(this)")

	require.Len(t, exec.Commands, 1)
	assert.Contains(t, exec.Commands[0].Args[1], "vue-template-es2015-compiler")

	var req request
	require.NoError(t, json.Unmarshal(exec.Commands[0].Stdin, &req))
	assert.True(t, req.StripWith)
}

func TestNode_Compile_CommandArgsPrecedeScript(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"nodejs": []byte(`{"render":"","staticRenderFns":[]}`)},
	}
	n := newTestNode(t, exec, Options{Command: []string{"nodejs", "--no-warnings"}})

	_, err := n.Compile(context.Background(), "a.vue", []byte("<div/>"))
	require.NoError(t, err)

	require.Len(t, exec.Commands, 1)
	assert.Equal(t, "nodejs", exec.Commands[0].Cmd)
	assert.Equal(t, "--no-warnings", exec.Commands[0].Args[0])
	assert.Equal(t, "-e", exec.Commands[0].Args[1])
}

func TestNode_Compile_ReportedErrors(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"node": []byte(`{"render":"","staticRenderFns":[],"errors":["tag <div> has no matching end tag.","unexpected text"]}`),
		},
	}
	n := newTestNode(t, exec, Options{})

	_, err := n.Compile(context.Background(), "broken.vue", []byte("<div>"))
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "broken.vue", compileErr.File)
	assert.Len(t, compileErr.Messages, 2)
	assert.Equal(t, "compile broken.vue: tag <div> has no matching end tag.,unexpected text", err.Error())
}

func TestNode_Compile_ProcessFailure(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Errors: map[string]error{"node": errors.New("exec node: Cannot find module 'vue-template-compiler'")},
	}
	n := newTestNode(t, exec, Options{Timeout: time.Second})

	_, err := n.Compile(context.Background(), "a.vue", []byte("<div/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run compiler for a.vue")
	assert.Contains(t, err.Error(), "Cannot find module")
}

func TestNode_Compile_BadOutput(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"node": []byte("not json")},
	}
	n := newTestNode(t, exec, Options{})

	_, err := n.Compile(context.Background(), "a.vue", []byte("<div/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode compiler output for a.vue")
}

func TestNode_Check(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"node": []byte("2.7.16\n")},
	}
	n := newTestNode(t, exec, Options{})

	version, err := n.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.7.16", version)
	assert.Nil(t, exec.Commands[0].Stdin)
	assert.Len(t, exec.Commands[0].Args, 2)
}

func TestNode_Check_StripWith(t *testing.T) {
	exec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"node": []byte("2.7.16")},
	}
	n := newTestNode(t, exec, Options{StripWith: true})

	_, err := n.Check(context.Background())
	require.NoError(t, err)

	args := exec.Commands[0].Args
	require.Len(t, args, 3)
	assert.Equal(t, "-e", args[0])
	assert.Equal(t, "strip-with", args[2])
}

func TestNewNode_EmptyCommand(t *testing.T) {
	_, err := NewNode(&executil.RecordingExecutor{}, Options{Command: []string{}})
	require.Error(t, err)
}

func TestSplitCommand(t *testing.T) {
	words, err := SplitCommand(`node --max-old-space-size=4096 "--title=fuet compiler"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"node", "--max-old-space-size=4096", "--title=fuet compiler"}, words)

	_, err = SplitCommand("")
	require.Error(t, err)

	_, err = SplitCommand(`node "unterminated`)
	require.Error(t, err)
}
