package builtin

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
)

type LsCommand struct {
}

// Name returns the command identifier
func (ls *LsCommand) Name() string {
	return "ls"
}

// Description returns human-readable help text
func (ls *LsCommand) Description() string {
	return "List the items of a folder"
}

// Usage returns a usage string for help (e.g. "ls -al [path]")
func (ls *LsCommand) Usage() string {
	return "ls [-l] [path]"
}

// Execute runs the command with parsed arguments
// Returns exit code (0 = success) and error message
func (ls *LsCommand) Execute(ctx context.Context, folder *hostfs.Folder, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	target := "."
	if len(args.Args) > 0 {
		target = args.Args[0]
	}

	item, err := cmd.Resolve(ctx, folder, target)
	if err != nil {
		return cmd.ExitError, err
	}

	var items []hostfs.Item
	switch resolved := item.(type) {
	case *hostfs.Folder:
		if items, err = resolved.ListItems(ctx); err != nil {
			return cmd.ExitError, err
		}
	default:
		items = []hostfs.Item{resolved}
	}

	slices.SortFunc(items, func(a, b hostfs.Item) int {
		return strings.Compare(a.Name(), b.Name())
	})

	long := args.Bool("long")
	for _, entry := range items {
		name := entry.Name()
		if entry.Kind() == data.KindFolder {
			name += "/"
		}

		if !long {
			fmt.Fprintln(writer, name)
			continue
		}

		contentType := "-"
		if file, ok := entry.(*hostfs.File); ok {
			contentType = string(file.ContentType())
		}
		fmt.Fprintf(writer, "%-6s %-28s %s\n", entry.Kind(), contentType, name)
	}

	return cmd.ExitOK, nil
}

// GetFlags returns the flag set for this command (this is optional)
func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"long": {
				Name:        "long",
				Short:       "l",
				Type:        "bool",
				Description: "Show kind and content type",
			},
		},
	}
}
