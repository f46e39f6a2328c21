package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/hostfs/cli/tui"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/cmd/builtin"
	"github.com/spf13/cobra"
)

func newBrowseCommand(opts *rootOptions) *cobra.Command {
	var remoteURL string

	command := &cobra.Command{
		Use:   "browse [--remote url]",
		Short: "Browse a host interactively",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()
			// The terminal belongs to the browser, so only file logging is kept
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

			model := tui.NewModel(ctx, root, registry, logger)
			program := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)

			_, err = program.Run()
			return err
		},
	}

	command.Flags().StringVar(&remoteURL, "remote", "", "websocket URL of a hostfs server")
	return command
}
