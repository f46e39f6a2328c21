package cmd

import (
	"context"
	"io"

	"github.com/mwantia/hostfs"
)

// Command represents an executable command operating on a host folder tree.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls -l [path]")
	Usage() string

	// Execute runs the command with parsed arguments. Relative paths are
	// resolved against folder. Output is written to writer.
	// Returns exit code (0 = success) and error
	Execute(ctx context.Context, folder *hostfs.Folder, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}

// Exit codes returned by commands.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)
