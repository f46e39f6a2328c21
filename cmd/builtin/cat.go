package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
	errs "github.com/mwantia/hostfs/data/errors"
	"github.com/mwantia/hostfs/stream"
)

type CatCommand struct {
}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Print file contents"
}

func (c *CatCommand) Usage() string {
	return "cat path..."
}

func (c *CatCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := requireArgs(args, 1, c.Usage()); err != nil {
		return cmd.ExitUsage, err
	}

	for _, p := range args.Args {
		if err := c.copyFile(ctx, folder, p, writer); err != nil {
			return cmd.ExitError, fmt.Errorf("cat %s: %w", p, err)
		}
	}

	return cmd.ExitOK, nil
}

func (c *CatCommand) copyFile(ctx context.Context, folder *hostfs.Folder, p string, writer io.Writer) error {
	item, err := cmd.Resolve(ctx, folder, p)
	if err != nil {
		return err
	}

	file, ok := item.(*hostfs.File)
	if !ok {
		return errs.ItemWrongKind(item.Name(), data.KindFile)
	}

	reader, err := file.OpenRead(ctx)
	if err != nil {
		return err
	}
	defer reader.Close()

	_, err = io.Copy(writer, stream.Bind(ctx, reader))
	return err
}

func (c *CatCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
