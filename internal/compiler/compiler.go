// Package compiler turns Vue template sources into render function bodies by
// delegating to the vue-template-compiler npm package through node.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/colonyops/fuet/internal/scripts"
	"github.com/colonyops/fuet/pkg/executil"
)

// Template is the output of compiling one template source.
type Template struct {
	Render       string
	StaticRender []string
}

// Compiler compiles a single template source. file identifies the source
// in errors only.
type Compiler interface {
	Compile(ctx context.Context, file string, source []byte) (Template, error)
}

// CompileError is returned when the compiler reports problems in a source.
type CompileError struct {
	File     string
	Messages []string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %s", e.File, strings.Join(e.Messages, ","))
}

// Options configures the node bridge.
type Options struct {
	// Command is the node executable plus any leading arguments.
	Command            []string
	PreserveWhitespace bool
	OptimizeSSR        bool
	// StripWith rewrites render bodies without with(this) so they are
	// valid strict mode code. Requires vue-template-es2015-compiler.
	StripWith          bool
	// Timeout bounds a single compile. Zero means no limit.
	Timeout            time.Duration
}

// SplitCommand parses a configured command line using shell quoting rules.
func SplitCommand(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", s, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return words, nil
}

type request struct {
	Source    string     `json:"source"`
	Options   vueOptions `json:"options"`
	StripWith bool       `json:"stripWith"`
}

type vueOptions struct {
	PreserveWhitespace bool `json:"preserveWhitespace"`
	OptimizeSSR        bool `json:"optimizeSSR"`
}

type response struct {
	Render          string   `json:"render"`
	StaticRenderFns []string `json:"staticRenderFns"`
	Errors          []string `json:"errors"`
}

// Node compiles templates by running the bundled bridge script with node.
// One process is started per template.
type Node struct {
	exec   executil.Executor
	opts   Options
	script string
}

// NewNode returns a Node compiler using exec to start processes.
func NewNode(exec executil.Executor, opts Options) (*Node, error) {
	if len(opts.Command) == 0 {
		return nil, fmt.Errorf("compiler command is empty")
	}

	script, err := scripts.Source(scripts.VueCompile)
	if err != nil {
		return nil, err
	}

	return &Node{exec: exec, opts: opts, script: script}, nil
}

// Compile implements Compiler.
func (n *Node) Compile(ctx context.Context, file string, source []byte) (Template, error) {
	if n.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.opts.Timeout)
		defer cancel()
	}

	payload, err := json.Marshal(request{
		Source: string(source),
		Options: vueOptions{
			PreserveWhitespace: n.opts.PreserveWhitespace,
			OptimizeSSR:        n.opts.OptimizeSSR,
		},
		StripWith: n.opts.StripWith,
	})
	if err != nil {
		return Template{}, fmt.Errorf("encode compile request for %s: %w", file, err)
	}

	out, err := n.exec.RunInput(ctx, bytes.NewReader(payload), n.opts.Command[0], n.args(n.script)...)
	if err != nil {
		return Template{}, fmt.Errorf("run compiler for %s: %w", file, err)
	}

	var resp response
	if err := json.Unmarshal(out, &resp); err != nil {
		return Template{}, fmt.Errorf("decode compiler output for %s: %w", file, err)
	}

	if len(resp.Errors) > 0 {
		return Template{}, &CompileError{File: file, Messages: resp.Errors}
	}

	return Template{Render: resp.Render, StaticRender: resp.StaticRenderFns}, nil
}

// Check verifies node can resolve vue-template-compiler from the working
// directory and returns its version. vue-template-es2015-compiler is checked
// too when StripWith is set.
func (n *Node) Check(ctx context.Context) (string, error) {
	script, err := scripts.Source(scripts.VueCheck)
	if err != nil {
		return "", err
	}

	args := n.args(script)
	if n.opts.StripWith {
		args = append(args, "strip-with")
	}

	out, err := n.exec.Run(ctx, n.opts.Command[0], args...)
	if err != nil {
		return "", fmt.Errorf("resolve vue-template-compiler: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (n *Node) args(script string) []string {
	return append(slices.Clone(n.opts.Command[1:]), "-e", script)
}
