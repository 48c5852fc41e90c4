package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/fuet/internal/core/validate"
)

type BuildCmd struct {
	flags  *Flags
	out    *OutputFlags
	stdout io.Writer
	input  string
}

// NewBuildCmd creates the build command, which is the root action.
func NewBuildCmd(flags *Flags, out *OutputFlags, stdout io.Writer) *BuildCmd {
	return &BuildCmd{
		flags:  flags,
		out:    out,
		stdout: stdout,
	}
}

// Flags returns the build flags for registration on the root command.
func (cmd *BuildCmd) Flags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "glob to vue templates (required)",
			Destination: &cmd.input,
		},
	}, cmd.out.Flags()...)
}

// Run builds the bundle. Exported for use as default command.
func (cmd *BuildCmd) Run(ctx context.Context, c *cli.Command) error {
	if cmd.input == "" {
		return fmt.Errorf("missing required flag --input")
	}
	if err := validate.GlobPattern(cmd.input); err != nil {
		return err
	}

	driver, err := cmd.out.Driver(cmd.flags.Config, cmd.stdout)
	if err != nil {
		return err
	}

	return driver.Run(ctx, cmd.input)
}
