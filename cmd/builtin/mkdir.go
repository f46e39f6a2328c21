package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
)

type MkdirCommand struct {
}

func (mk *MkdirCommand) Name() string {
	return "mkdir"
}

func (mk *MkdirCommand) Description() string {
	return "Create folders"
}

func (mk *MkdirCommand) Usage() string {
	return "mkdir [-p] [-c unique|replace|fail|open] path..."
}

func (mk *MkdirCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if err := requireArgs(args, 1, mk.Usage()); err != nil {
		return cmd.ExitUsage, err
	}

	option, err := collisionOption(args, "fail")
	if err != nil {
		return cmd.ExitUsage, err
	}

	for _, p := range args.Args {
		var created *hostfs.Folder
		if args.Bool("parents") {
			created, err = mk.createAll(ctx, folder, p, option)
		} else {
			var parent *hostfs.Folder
			var name string
			if parent, name, err = cmd.ResolveParent(ctx, folder, p); err == nil {
				created, err = parent.CreateFolder(ctx, name, option)
			}
		}
		if err != nil {
			return cmd.ExitError, fmt.Errorf("mkdir %s: %w", p, err)
		}

		fmt.Fprintln(writer, created.Path())
	}

	return cmd.ExitOK, nil
}

// createAll opens existing intermediate folders and applies option to the last element only.
func (mk *MkdirCommand) createAll(ctx context.Context, folder *hostfs.Folder, p string, option data.CollisionOption) (*hostfs.Folder, error) {
	if strings.HasPrefix(p, "/") {
		for folder.Parent() != nil {
			folder = folder.Parent()
		}
	}

	var elements []string
	for _, element := range strings.Split(p, "/") {
		if element != "" && element != "." {
			elements = append(elements, element)
		}
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: empty path", data.ErrInvalid)
	}

	current := folder
	for i, element := range elements {
		if element == ".." {
			if current.Parent() != nil {
				current = current.Parent()
			}
			continue
		}

		elementOption := data.OpenIfExists
		if i == len(elements)-1 {
			elementOption = option
		}

		next, err := current.CreateFolder(ctx, element, elementOption)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return current, nil
}

func (mk *MkdirCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"parents": {
				Name:        "parents",
				Short:       "p",
				Type:        "bool",
				Description: "Create missing parent folders",
			},
			"collision": collisionFlag("fail"),
		},
	}
}
