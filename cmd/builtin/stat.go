package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
)

type StatCommand struct {
}

func (s *StatCommand) Name() string {
	return "stat"
}

func (s *StatCommand) Description() string {
	return "Show what the host reports for an item"
}

func (s *StatCommand) Usage() string {
	return "stat path..."
}

func (s *StatCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := requireArgs(args, 1, s.Usage()); err != nil {
		return cmd.ExitUsage, err
	}

	for _, p := range args.Args {
		item, err := cmd.Resolve(ctx, folder, p)
		if err != nil {
			return cmd.ExitError, fmt.Errorf("stat %s: %w", p, err)
		}

		fmt.Fprintf(writer, "  Name: %s\n", item.Name())
		fmt.Fprintf(writer, "  Path: %s\n", displayPath(item))
		fmt.Fprintf(writer, "  Kind: %s\n", item.Kind())
		fmt.Fprintf(writer, "    ID: %s\n", item.ID())

		if file, ok := item.(*hostfs.File); ok {
			reader, err := file.OpenRead(ctx)
			if err != nil {
				return cmd.ExitError, fmt.Errorf("stat %s: %w", p, err)
			}
			reader.Close()

			fmt.Fprintf(writer, "  Type: %s\n", file.ContentType())
			fmt.Fprintf(writer, "  Size: %d\n", reader.Length())
		}
	}

	return cmd.ExitOK, nil
}

func (s *StatCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
