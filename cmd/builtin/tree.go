package builtin

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
)

type TreeCommand struct {
}

func (t *TreeCommand) Name() string {
	return "tree"
}

func (t *TreeCommand) Description() string {
	return "Print a folder and everything below it"
}

func (t *TreeCommand) Usage() string {
	return "tree [-d depth] [path]"
}

func (t *TreeCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	target := "."
	if len(args.Args) > 0 {
		target = args.Args[0]
	}

	root, err := cmd.ResolveFolder(ctx, folder, target)
	if err != nil {
		return cmd.ExitError, err
	}

	fmt.Fprintln(writer, displayPath(root))

	folders, files := 0, 0
	if err := t.walk(ctx, root, "", int(args.Int("depth", 0)), 1, writer, &folders, &files); err != nil {
		return cmd.ExitError, err
	}

	fmt.Fprintf(writer, "\n%d folders, %d files\n", folders, files)
	return cmd.ExitOK, nil
}

func (t *TreeCommand) walk(ctx context.Context, folder *hostfs.Folder, prefix string, maxDepth, depth int, writer io.Writer, folders, files *int) error {
	items, err := folder.ListItems(ctx)
	if err != nil {
		return err
	}

	slices.SortFunc(items, func(a, b hostfs.Item) int {
		return strings.Compare(a.Name(), b.Name())
	})

	for i, item := range items {
		connector, indent := "├── ", "│   "
		if i == len(items)-1 {
			connector, indent = "└── ", "    "
		}

		child, isFolder := item.(*hostfs.Folder)
		if !isFolder {
			*files++
			fmt.Fprintf(writer, "%s%s%s\n", prefix, connector, item.Name())
			continue
		}

		*folders++
		fmt.Fprintf(writer, "%s%s%s/\n", prefix, connector, item.Name())
		if maxDepth > 0 && depth >= maxDepth {
			continue
		}
		if err := t.walk(ctx, child, prefix+indent, maxDepth, depth+1, writer, folders, files); err != nil {
			return err
		}
	}

	return nil
}

func (t *TreeCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"depth": {
				Name:        "depth",
				Short:       "d",
				Type:        "int",
				Description: "Maximum depth to descend, 0 for unlimited",
			},
		},
	}
}

func displayPath(item hostfs.Item) string {
	if p := item.Path(); p != "" {
		return p
	}
	return "."
}
