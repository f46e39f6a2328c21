package commands

import (
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/cmd/builtin"
	"github.com/spf13/cobra"
)

func newExecCommand(opts *rootOptions) *cobra.Command {
	var remoteURL string

	command := &cobra.Command{
		Use:   "exec [--remote url] <command> [args...]",
		Short: "Run a folder command against a host",
		Long: `Run one of the builtin folder commands (ls, mkdir, touch, rm, cat, tree, stat)
with the root folder of the host as working folder.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()
			logger := opts.config.NewLogger("hostfs", true)

			session, release, err := opts.openSession(ctx, remoteURL, logger)
			if err != nil {
				return err
			}
			defer release()

			root, err := session.GetRoot(ctx)
			if err != nil {
				return err
			}

			registry := cmd.NewRegistry()
			if err := builtin.Register(registry); err != nil {
				return err
			}

			code, err := registry.Execute(ctx, root, command.OutOrStdout(), args...)
			if code != cmd.ExitOK {
				return &ExitError{Code: code, Err: err}
			}
			return nil
		},
	}

	// Everything after the folder command belongs to it
	command.Flags().SetInterspersed(false)
	command.Flags().StringVar(&remoteURL, "remote", "", "websocket URL of a hostfs server")

	return command
}
