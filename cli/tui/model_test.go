package tui

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/cmd/builtin"
	"github.com/mwantia/hostfs/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, files map[string]string) (*Model, *hostfs.Folder) {
	t.Helper()
	ctx := t.Context()

	local := host.NewLocal(ephemeral.NewEphemeralBackend())
	require.NoError(t, local.Open(ctx))
	t.Cleanup(func() { local.Close(context.Background()) })

	for key, content := range files {
		require.NoError(t, local.WriteFile(ctx, key, []byte(content)))
	}

	session, err := hostfs.NewSession(local)
	require.NoError(t, err)
	root, err := session.GetRoot(ctx)
	require.NoError(t, err)

	registry := cmd.NewRegistry()
	require.NoError(t, builtin.Register(registry))

	m := NewModel(ctx, root, registry, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drive(m, m.loadFolder())

	return m, root
}

// drive runs c and feeds every resulting message back into m until no command is left.
func drive(m *Model, c tea.Cmd) {
	for c != nil {
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, inner := range batch {
				drive(m, inner)
			}
			return
		}
		_, c = m.Update(msg)
	}
}

func press(m *Model, keys ...tea.KeyMsg) {
	for _, k := range keys {
		_, c := m.Update(k)
		drive(m, c)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func entryNames(m *Model) []string {
	names := make([]string, 0, len(m.Entries()))
	for _, entry := range m.Entries() {
		names = append(names, entry.DisplayName())
	}
	return names
}

func TestModel_Navigate(t *testing.T) {
	m, root := newTestModel(t, map[string]string{
		"a/keep.txt":     "",
		"docs/readme.md": "# hello",
		"notes.txt":      "some notes",
	})

	assert.Equal(t, []string{"a/", "docs/", "notes.txt"}, entryNames(m))

	press(m, keyDown, keyDown)
	assert.Equal(t, "some notes", m.previewContent)
	assert.NoError(t, m.previewError)

	press(m, keyUp, keyEnter)
	require.NotSame(t, root, m.Current())
	assert.Equal(t, "docs", m.Current().Name())
	assert.Equal(t, []string{"readme.md"}, entryNames(m))
	assert.Equal(t, "# hello", m.previewContent)

	// Opening a file is refused
	press(m, keyEnter)
	assert.Equal(t, "docs", m.Current().Name())
	assert.Contains(t, m.statusMsg, "Not a folder")

	press(m, keyBack)
	assert.Same(t, root, m.Current())
	assert.Equal(t, 1, m.cursor, "cursor returns to the folder that was left")

	// Back on the root does nothing
	press(m, keyBack)
	assert.Same(t, root, m.Current())
}

func TestModel_CreateAndDelete(t *testing.T) {
	m, root := newTestModel(t, nil)
	assert.Empty(t, m.Entries())

	for range 2 {
		press(m, runes("n"))
		require.Equal(t, ModeInput, m.mode)
		m.textInput.SetValue("draft.txt")
		press(m, keyEnter)
	}
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, []string{"draft (1).txt", "draft.txt"}, entryNames(m))
	assert.Equal(t, "Created file 'draft (1).txt'", m.statusMsg)

	press(m, runes("N"))
	m.textInput.SetValue("box")
	press(m, keyEnter)
	assert.Equal(t, []string{"box/", "draft (1).txt", "draft.txt"}, entryNames(m))

	// Declining keeps the item
	press(m, runes("d"))
	m.textInput.SetValue("n")
	press(m, keyEnter)
	assert.Len(t, m.Entries(), 3)

	press(m, runes("d"))
	m.textInput.SetValue("y")
	press(m, keyEnter)
	assert.Equal(t, []string{"draft (1).txt", "draft.txt"}, entryNames(m))

	item, err := root.TryGetItem(t.Context(), "box")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestModel_Command(t *testing.T) {
	m, root := newTestModel(t, map[string]string{"notes.txt": "hello"})

	press(m, runes(":"))
	require.Equal(t, ModeCommand, m.mode)
	m.textInput.SetValue("mkdir -p 'deep folder/inner'")
	press(m, keyEnter)

	assert.Empty(t, m.errorMsg)
	assert.Equal(t, []string{"deep folder/", "notes.txt"}, entryNames(m))

	_, err := root.GetFolder(t.Context(), "deep folder")
	require.NoError(t, err)

	press(m, runes(":"))
	m.textInput.SetValue("cat notes.txt")
	press(m, keyEnter)
	assert.Equal(t, "hello", m.commandOut)

	press(m, runes(":"))
	m.textInput.SetValue("cat missing.txt")
	press(m, keyEnter)
	assert.NotEmpty(t, m.errorMsg)

	// Escape leaves command mode untouched
	press(m, runes(":"), tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, ModeNormal, m.mode)
}

func TestModel_ImagePreview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	m, _ := newTestModel(t, map[string]string{
		"broken.png": "not an image",
		"photo.png":  encoded.String(),
		"tool.bin":   "\x00\x01",
	})
	require.Equal(t, []string{"broken.png", "photo.png", "tool.bin"}, entryNames(m))

	assert.Error(t, m.previewError)

	press(m, keyDown)
	require.NoError(t, m.previewError)
	assert.Contains(t, m.previewContent, "\x1b[")

	press(m, keyDown)
	require.NoError(t, m.previewError)
	assert.Equal(t, "(application/octet-stream content)", m.previewContent)
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, map[string]string{"notes.txt": "hello"})

	view := m.View()
	assert.Contains(t, view, "notes.txt")
	assert.Contains(t, view, m.Current().Provider().DisplayName)

	press(m, runes("?"))
	assert.Contains(t, m.View(), "mkdir")
	press(m, runes("?"))
	assert.Equal(t, ModeNormal, m.mode)
}

func TestSplitCommandLine(t *testing.T) {
	tests := map[string][]string{
		"":                 nil,
		"ls":               {"ls"},
		"  ls   -l  ":      {"ls", "-l"},
		`touch "a b.txt"`:  {"touch", "a b.txt"},
		`mkdir 'it"s' x`:   {"mkdir", `it"s`, "x"},
		`cat "half quoted`: {"cat", "half quoted"},
	}

	for line, want := range tests {
		assert.Equal(t, want, splitCommandLine(line), line)
	}
}
