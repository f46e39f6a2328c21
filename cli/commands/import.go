package commands

import (
	"fmt"
	"os"

	"github.com/mwantia/hostfs/cli/config"
	"github.com/mwantia/hostfs/data"
	"github.com/spf13/cobra"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <local-file> <key>",
		Short: "Copy a local file into the configured backend",
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()
			logger := opts.config.NewLogger("hostfs", true)

			if opts.config.Backend.Type == config.BackendEphemeral {
				logger.Warn("Importing into an ephemeral backend, content is lost on exit")
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			key := data.NormalizeKey(args[1])
			if key == "" {
				return fmt.Errorf("%w: key must name a file", data.ErrInvalid)
			}

			local, err := opts.openLocal(ctx, logger)
			if err != nil {
				return err
			}
			defer local.Close(ctx)

			if err := local.WriteFile(ctx, key, content); err != nil {
				return err
			}

			fmt.Fprintf(command.OutOrStdout(), "%s (%d bytes)\n", key, len(content))
			return nil
		},
	}
}
