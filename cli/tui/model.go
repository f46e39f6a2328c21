package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/log"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeInput
	ModeHelp
)

type InputType int

const (
	InputNewFile InputType = iota
	InputNewFolder
	InputDelete
	InputCommand
)

// Model is the bubbletea model browsing one host session.
type Model struct {
	ctx      context.Context
	registry *cmd.Registry
	log      *log.Logger
	theme    *Theme
	keys     KeyMap
	help     help.Model

	// Opened folders from the root down to the current one
	folders      []*hostfs.Folder
	previousName string
	entries      []*Entry
	cursor       int
	offset       int

	width          int
	height         int
	showPreview    bool
	previewContent string
	previewError   error
	previewGen     int

	mode      Mode
	inputType InputType
	textInput textinput.Model

	statusMsg  string
	errorMsg   string
	commandOut string
}

func NewModel(ctx context.Context, root *hostfs.Folder, registry *cmd.Registry, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 256

	if logger == nil {
		logger = log.Discard()
	}

	return &Model{
		ctx:         ctx,
		registry:    registry,
		log:         logger.Named("tui"),
		theme:       DefaultTheme(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		folders:     []*hostfs.Folder{root},
		showPreview: true,
		textInput:   ti,
	}
}

// Current returns the folder being listed.
func (m *Model) Current() *hostfs.Folder {
	return m.folders[len(m.folders)-1]
}

// Entries returns the rows of the current listing.
func (m *Model) Entries() []*Entry {
	return m.entries
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadFolder(),
		textinput.Blink,
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case folderLoadedMsg:
		if msg.folder != m.Current() {
			return m, nil
		}
		m.entries = msg.entries
		m.errorMsg = ""
		m.restoreCursor()
		return m, m.updatePreview()

	case previewLoadedMsg:
		if msg.generation == m.previewGen {
			m.previewContent = msg.content
			m.previewError = msg.err
		}
		return m, nil

	case operationDoneMsg:
		m.statusMsg = msg.status
		return m, m.loadFolder()

	case commandExecutedMsg:
		m.commandOut = msg.output
		m.errorMsg = msg.error
		m.statusMsg = "Command executed"
		return m, m.loadFolder()

	case errorMsg:
		m.errorMsg = string(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.mode == ModeCommand || m.mode == ModeInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) restoreCursor() {
	if m.previousName != "" {
		for i, entry := range m.entries {
			if entry.Name() == m.previousName {
				m.cursor = i
				visibleLines := m.getVisibleLines()
				if m.cursor >= m.offset+visibleLines {
					m.offset = m.cursor - visibleLines + 1
				} else if m.cursor < m.offset {
					m.offset = m.cursor
				}
				break
			}
		}
		m.previousName = ""
		return
	}

	if len(m.entries) > 0 && m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeCommand, ModeInput:
		return m.handleInputMode(msg)
	case ModeHelp:
		return m.handleHelpMode(msg)
	}
	return m.handleNormalMode(msg)
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(10)
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Bottom):
		if len(m.entries) > 0 {
			m.moveCursor(len(m.entries))
		}
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Enter):
		return m, m.enterFolder()

	case key.Matches(msg, m.keys.Back):
		return m, m.goBack()

	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		return m, m.updatePreview()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadFolder()

	case key.Matches(msg, m.keys.NewFile):
		m.startInput(InputNewFile, "New file name:")
		return m, nil

	case key.Matches(msg, m.keys.NewFolder):
		m.startInput(InputNewFolder, "New folder name:")
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if entry := m.currentEntry(); entry != nil {
			m.startInput(InputDelete, fmt.Sprintf("Delete %s? (y/n):", entry.Name()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.startInput(InputCommand, ":")
		return m, nil
	}

	return m, nil
}

func (m *Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.cancelInput()
		return m, nil

	case tea.KeyEnter:
		return m, m.submitInput()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}

func (m *Model) startInput(inputType InputType, prompt string) {
	m.mode = ModeInput
	if inputType == InputCommand {
		m.mode = ModeCommand
	}

	m.inputType = inputType
	m.textInput.Placeholder = prompt
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.errorMsg = ""
	m.statusMsg = ""
}

func (m *Model) cancelInput() {
	m.mode = ModeNormal
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	m.cancelInput()

	if value == "" {
		return nil
	}

	switch m.inputType {
	case InputNewFile:
		return m.create(data.KindFile, value)
	case InputNewFolder:
		return m.create(data.KindFolder, value)
	case InputDelete:
		if answer := strings.ToLower(value); answer == "y" || answer == "yes" {
			return m.deleteEntry()
		}
		return nil
	case InputCommand:
		return m.executeCommand(value)
	}

	return nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.entries)-1)

	visibleLines := m.getVisibleLines()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visibleLines {
		m.offset = m.cursor - visibleLines + 1
	}
}

// getVisibleLines reserves rows for the title, status, help and borders.
func (m *Model) getVisibleLines() int {
	return max(m.height-8, 5)
}

// previewSize subtracts the borders and the info lines above the preview.
func (m *Model) previewSize() previewSize {
	return previewSize{
		width:  m.width - m.width/2 - 6,
		height: m.getVisibleLines() - 7,
	}
}

func (m *Model) currentEntry() *Entry {
	if m.cursor >= 0 && m.cursor < len(m.entries) {
		return m.entries[m.cursor]
	}
	return nil
}

type folderLoadedMsg struct {
	folder  *hostfs.Folder
	entries []*Entry
}

type previewLoadedMsg struct {
	content    string
	err        error
	generation int
}

type operationDoneMsg struct {
	status string
}

type commandExecutedMsg struct {
	output string
	error  string
}

type errorMsg string

func (m *Model) loadFolder() tea.Cmd {
	ctx, folder := m.ctx, m.Current()

	return func() tea.Msg {
		items, err := folder.ListItems(ctx)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to list '%s': %v", folder.Path(), err))
		}

		entries := make([]*Entry, 0, len(items))
		for _, item := range items {
			entries = append(entries, &Entry{Item: item})
		}
		sortEntries(entries)

		return folderLoadedMsg{folder: folder, entries: entries}
	}
}

func (m *Model) updatePreview() tea.Cmd {
	if !m.showPreview {
		return nil
	}

	m.previewGen++
	generation := m.previewGen

	entry := m.currentEntry()
	if entry == nil || entry.IsFolder() {
		return func() tea.Msg {
			return previewLoadedMsg{generation: generation}
		}
	}

	ctx, file := m.ctx, entry.Item.(*hostfs.File)
	size := m.previewSize()
	logger := m.log

	return func() tea.Msg {
		content, err := readPreview(ctx, file, size)
		if err != nil {
			logger.Debug("Preview of '%s' failed: %v", file.Path(), err)
		}
		return previewLoadedMsg{content: content, err: err, generation: generation}
	}
}

func (m *Model) enterFolder() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	folder, ok := entry.Item.(*hostfs.Folder)
	if !ok {
		m.statusMsg = fmt.Sprintf("Not a folder: %s", entry.Name())
		return nil
	}

	m.folders = append(m.folders, folder)
	m.previousName = ""
	m.cursor = 0
	m.offset = 0
	return m.loadFolder()
}

func (m *Model) goBack() tea.Cmd {
	if len(m.folders) == 1 {
		return nil
	}

	m.previousName = m.Current().Name()
	m.folders = m.folders[:len(m.folders)-1]
	m.cursor = 0
	m.offset = 0
	return m.loadFolder()
}

func (m *Model) create(kind data.ItemKind, name string) tea.Cmd {
	ctx, folder := m.ctx, m.Current()

	return func() tea.Msg {
		var item hostfs.Item
		var err error
		if kind == data.KindFolder {
			item, err = folder.CreateFolder(ctx, name, data.GenerateUniqueName)
		} else {
			item, err = folder.CreateFile(ctx, name, data.GenerateUniqueName)
		}
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to create %s: %v", kind, err))
		}
		return operationDoneMsg{status: fmt.Sprintf("Created %s '%s'", kind, item.Name())}
	}
}

func (m *Model) deleteEntry() tea.Cmd {
	entry := m.currentEntry()
	if entry == nil {
		return nil
	}

	ctx := m.ctx
	return func() tea.Msg {
		if err := entry.Item.Delete(ctx, data.DeletePermanent); err != nil {
			return errorMsg(fmt.Sprintf("Failed to delete: %v", err))
		}
		return operationDoneMsg{status: fmt.Sprintf("Deleted '%s'", entry.Name())}
	}
}

func (m *Model) executeCommand(line string) tea.Cmd {
	ctx, folder := m.ctx, m.Current()

	return func() tea.Msg {
		args := splitCommandLine(line)
		if len(args) == 0 {
			return commandExecutedMsg{}
		}

		var output bytes.Buffer
		code, err := m.registry.Execute(ctx, folder, &output, args...)

		result := commandExecutedMsg{output: output.String()}
		switch {
		case err != nil:
			result.error = err.Error()
		case code != cmd.ExitOK:
			result.error = fmt.Sprintf("Command exited with code %d", code)
		}
		return result
	}
}

// splitCommandLine splits on spaces outside of single or double quotes.
func splitCommandLine(line string) []string {
	var args []string
	var current strings.Builder
	quote := rune(0)

	for _, ch := range line {
		switch {
		case quote != 0 && ch == quote:
			quote = 0
		case quote == 0 && (ch == '"' || ch == '\''):
			quote = ch
		case quote == 0 && ch == ' ':
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
