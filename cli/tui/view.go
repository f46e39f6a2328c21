package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.mode == ModeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) renderMain() string {
	sections := []string{
		m.renderTitle(),
		m.renderContent(),
		m.renderStatus(),
	}

	if m.mode == ModeCommand || m.mode == ModeInput {
		sections = append(sections, m.renderInput())
	}
	if m.commandOut != "" {
		sections = append(sections, m.renderCommandOutput())
	}

	sections = append(sections, m.renderHelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	folder := m.Current()
	title := fmt.Sprintf("%s - %s", folder.Provider().DisplayName, folder.Path())
	return m.theme.TitleStyle.Render(title)
}

func (m *Model) renderContent() string {
	height := m.getVisibleLines() + 2

	if !m.showPreview {
		return m.theme.BorderStyle.
			Width(m.width - 4).
			Height(height).
			Render(m.renderList())
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 4

	list := m.theme.BorderStyle.
		Width(leftWidth).
		Height(height).
		Render(m.renderList())
	preview := m.theme.PreviewBorderStyle.
		Width(rightWidth).
		Height(height).
		Render(m.renderPreview())

	return lipgloss.JoinHorizontal(lipgloss.Top, list, preview)
}

func (m *Model) renderList() string {
	if len(m.entries) == 0 {
		return m.theme.NormalItemStyle.Render("(empty folder)")
	}

	end := min(m.offset+m.getVisibleLines(), len(m.entries))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderEntry(m.entries[i], i == m.cursor))
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderEntry(entry *Entry, selected bool) string {
	style := m.theme.FileStyle
	switch {
	case selected:
		style = m.theme.SelectedItemStyle
	case entry.IsFolder():
		style = m.theme.FolderStyle
	}

	nameWidth := 40
	if m.showPreview {
		nameWidth = 30
	}

	name := entry.DisplayName()
	if lipgloss.Width(name) > nameWidth {
		name = string([]rune(name)[:nameWidth-3]) + "..."
	}
	name += strings.Repeat(" ", max(nameWidth-lipgloss.Width(name), 0))

	return style.Render(fmt.Sprintf("%s %s %s", entry.Icon(), name, entry.DisplayType()))
}

func (m *Model) renderPreview() string {
	entry := m.currentEntry()
	if entry == nil {
		return m.theme.PreviewStyle.Render("Nothing selected")
	}

	info := fmt.Sprintf("Name: %s\nPath: %s\nKind: %s\nID:   %s\n",
		entry.Name(), entry.Item.Path(), entry.Item.Kind(), entry.Item.ID())

	if entry.IsFolder() {
		return m.theme.PreviewStyle.Render(info)
	}

	if m.previewError != nil {
		return m.theme.ErrorStyle.Render(fmt.Sprintf("Error: %v", m.previewError))
	}

	info += fmt.Sprintf("Type: %s\n\n--- Preview ---\n", entry.DisplayType())
	if m.previewContent == "" {
		return m.theme.PreviewStyle.Render(info + "(empty file)")
	}

	lines := strings.Split(m.previewContent, "\n")
	if maxLines := m.getVisibleLines() - 7; len(lines) > maxLines {
		lines = append(lines[:max(maxLines, 1)], "...")
	}

	return m.theme.PreviewStyle.Render(info + strings.Join(lines, "\n"))
}

func (m *Model) renderStatus() string {
	left := "0 items"
	if len(m.entries) > 0 {
		left = fmt.Sprintf("%d/%d items", m.cursor+1, len(m.entries))
	}

	right := m.statusMsg
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)
	return m.theme.StatusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", spacing) + right)
}

func (m *Model) renderInput() string {
	prompt := "> "
	if m.mode == ModeCommand {
		prompt = ": "
	}
	return m.theme.CommandStyle.Render(prompt + m.textInput.View())
}

func (m *Model) renderCommandOutput() string {
	lines := strings.Split(strings.TrimRight(m.commandOut, "\n"), "\n")
	if len(lines) > 8 {
		lines = append(lines[:8], "...")
	}

	return m.theme.PreviewBorderStyle.
		Width(m.width - 4).
		Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelpBar() string {
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderHelp() string {
	sections := []string{
		m.theme.TitleStyle.Render("hostfs browser - Help"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		m.theme.TitleStyle.Render("Commands:"),
	}

	for _, command := range m.registry.Commands() {
		sections = append(sections, fmt.Sprintf("  %-8s %s", command.Name(), command.Description()))
	}

	sections = append(sections, "", m.theme.HelpStyle.Render("Press ? or q to return"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
