package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type CompileCmd struct {
	flags    *Flags
	out      *OutputFlags
	stdin    io.Reader
	stdout   io.Writer
	filename string
}

// NewCompileCmd creates a new compile command.
func NewCompileCmd(flags *Flags, out *OutputFlags, stdin io.Reader, stdout io.Writer) *CompileCmd {
	return &CompileCmd{
		flags:  flags,
		out:    out,
		stdin:  stdin,
		stdout: stdout,
	}
}

// Register adds the compile command to the application.
func (cmd *CompileCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "compile",
		Usage: "Compile a single template read from stdin",
		UsageText: `fuet [layout flags] compile --filename <path>

Examples:
  cat src/components/card.vue | fuet compile --filename src/components/card.vue
  fuet -e -p src compile -f components/card.vue < card.vue`,
		Description: `Compiles one template from stdin and prints its statement.

The filename is only used to derive the template name; nothing is read from
disk. Layout flags (--commonjs, --es_modules, --namespace, --pathfilter,
--output) are given before the subcommand.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filename",
				Aliases:     []string{"f"},
				Usage:       "path used to derive the template name (required)",
				Destination: &cmd.filename,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CompileCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.filename == "" {
		return fmt.Errorf("missing required flag --filename")
	}

	source, err := cmd.readSource()
	if err != nil {
		return err
	}

	driver, err := cmd.out.Driver(cmd.flags.Config, cmd.stdout)
	if err != nil {
		return err
	}

	frag, err := driver.ProcessSource(ctx, cmd.filename, source)
	if err != nil {
		return err
	}

	return driver.Write(frag.Code)
}

func (cmd *CompileCmd) readSource() ([]byte, error) {
	if f, ok := cmd.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("no input provided (stdin is a terminal); pipe a template into fuet compile")
	}

	source, err := io.ReadAll(cmd.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return source, nil
}
