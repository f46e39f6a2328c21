package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
)

type RmCommand struct {
}

func (rm *RmCommand) Name() string {
	return "rm"
}

func (rm *RmCommand) Description() string {
	return "Delete files and folders"
}

func (rm *RmCommand) Usage() string {
	return "rm [-r] path..."
}

func (rm *RmCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := requireArgs(args, 1, rm.Usage()); err != nil {
		return cmd.ExitUsage, err
	}

	for _, p := range args.Args {
		item, err := cmd.Resolve(ctx, folder, p)
		if err != nil {
			return cmd.ExitError, fmt.Errorf("rm %s: %w", p, err)
		}

		// Hosts always delete folders recursively, so ask for it explicitly
		if item.Kind() == data.KindFolder && !args.Bool("recursive") {
			return cmd.ExitError, fmt.Errorf("rm %s: %w", p, errs.ItemWrongKind(item.Name(), data.KindFile))
		}

		if err := item.Delete(ctx, data.DeletePermanent); err != nil {
			return cmd.ExitError, fmt.Errorf("rm %s: %w", p, err)
		}
	}

	return cmd.ExitOK, nil
}

func (rm *RmCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"recursive": {
				Name:        "recursive",
				Short:       "r",
				Type:        "bool",
				Description: "Delete folders and everything below them",
			},
		},
	}
}
