package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fuet/internal/naming"
)

type NameCmd struct {
	flags  *Flags
	out    *OutputFlags
	stdout io.Writer
}

// NewNameCmd creates a new name command.
func NewNameCmd(flags *Flags, out *OutputFlags, stdout io.Writer) *NameCmd {
	return &NameCmd{flags: flags, out: out, stdout: stdout}
}

// Register adds the name command to the application.
func (cmd *NameCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "name",
		Usage:     "Print the template name derived from each path",
		UsageText: "fuet [-p segment]... name <path>...",
		Description: `Prints one template name per path without compiling anything.

Path filters come from the config file and the root --pathfilter flag.
Fails when a path produces an empty or non-identifier name.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *NameCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("at least one path is required")
	}

	opts, err := cmd.out.Options(cmd.flags.Config)
	if err != nil {
		return err
	}

	var errs []error
	for _, path := range c.Args().Slice() {
		name := naming.Name(path, opts.PathFilter)
		if err := naming.Validate(name, path); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := fmt.Fprintln(cmd.stdout, name); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}
