package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
)

type TouchCommand struct {
}

func (t *TouchCommand) Name() string {
	return "touch"
}

func (t *TouchCommand) Description() string {
	return "Create empty files"
}

func (t *TouchCommand) Usage() string {
	return "touch [-c unique|replace|fail|open] path..."
}

func (t *TouchCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := requireArgs(args, 1, t.Usage()); err != nil {
		return cmd.ExitUsage, err
	}

	option, err := collisionOption(args, "open")
	if err != nil {
		return cmd.ExitUsage, err
	}

	for _, p := range args.Args {
		parent, name, err := cmd.ResolveParent(ctx, folder, p)
		if err != nil {
			return cmd.ExitError, fmt.Errorf("touch %s: %w", p, err)
		}

		file, err := parent.CreateFile(ctx, name, option)
		if err != nil {
			return cmd.ExitError, fmt.Errorf("touch %s: %w", p, err)
		}

		fmt.Fprintln(writer, file.Path())
	}

	return cmd.ExitOK, nil
}

func (t *TouchCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"collision": collisionFlag("open"),
		},
	}
}
