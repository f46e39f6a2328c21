package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	TitleStyle         lipgloss.Style
	BorderStyle        lipgloss.Style
	PreviewBorderStyle lipgloss.Style
	PreviewStyle       lipgloss.Style
	NormalItemStyle    lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	FolderStyle        lipgloss.Style
	FileStyle          lipgloss.Style
	StatusBarStyle     lipgloss.Style
	ErrorStyle         lipgloss.Style
	CommandStyle       lipgloss.Style
	HelpStyle          lipgloss.Style
}

func DefaultTheme() *Theme {
	accent := lipgloss.Color("63")
	muted := lipgloss.Color("241")

	return &Theme{
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(accent).
			Padding(0, 1),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		PreviewBorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		PreviewStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		NormalItemStyle: lipgloss.NewStyle().Foreground(muted),
		SelectedItemStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		FolderStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		FileStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		StatusBarStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")),
		ErrorStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		CommandStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		HelpStyle:      lipgloss.NewStyle().Foreground(muted),
	}
}
