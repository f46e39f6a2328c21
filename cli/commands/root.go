// Package commands implements the hostfs command line.
package commands

import (
	"errors"
	"fmt"

	"github.com/mwantia/hostfs/cli/config"
	"github.com/spf13/cobra"
)

// ExitError carries the exit code of a failed hostfs command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

type rootOptions struct {
	configPath string
	logLevel   string

	config *config.Config
}

// NewRootCommand builds the hostfs command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "hostfs",
		Short: "Browse and serve host storage through virtual folders",
		Long: `hostfs exposes a storage backend as a tree of folders and files that are
addressed by opaque identifiers.

Storage backends (configured via backend.type):
  ephemeral  in-memory, lost on exit
  direct     a directory on the local disk
  sqlite     a single database file
  badger     an embedded BadgerDB directory
  postgres   a PostgreSQL database
  consul     the Consul KV store
  s3         an S3 compatible bucket

Examples:
  # Serve a directory to remote clients
  hostfs serve -c hostfs.yaml

  # Run a command against the configured backend or a remote host
  hostfs exec ls -l docs
  hostfs exec --remote ws://localhost:8420/host tree

  # Browse interactively
  hostfs browse --remote ws://localhost:8420/host`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			opts.config = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newServeCommand(opts),
		newExecCommand(opts),
		newImportCommand(opts),
		newBrowseCommand(opts),
	)

	return root
}
