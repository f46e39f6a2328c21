package builtin_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/cmd/builtin"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shell struct {
	t        *testing.T
	local    *host.Local
	root     *hostfs.Folder
	registry *cmd.Registry
}

func newShell(t *testing.T) *shell {
	t.Helper()

	local := host.NewLocal(ephemeral.NewEphemeralBackend())
	session, err := hostfs.NewSession(local)
	require.NoError(t, err)
	root, err := session.GetRoot(t.Context())
	require.NoError(t, err)

	registry := cmd.NewRegistry()
	require.NoError(t, builtin.Register(registry))

	return &shell{t: t, local: local, root: root, registry: registry}
}

func (s *shell) run(args ...string) (string, error) {
	var out bytes.Buffer
	_, err := s.registry.Execute(s.t.Context(), s.root, &out, args...)
	return out.String(), err
}

func (s *shell) mustRun(args ...string) string {
	s.t.Helper()

	out, err := s.run(args...)
	require.NoError(s.t, err, strings.Join(args, " "))
	return out
}

func TestRegister_Duplicate(t *testing.T) {
	registry := cmd.NewRegistry()
	require.NoError(t, builtin.Register(registry))
	assert.ErrorIs(t, builtin.Register(registry), data.ErrExist)
	assert.Len(t, registry.Commands(), 7)
}

func TestExecute_Unknown(t *testing.T) {
	s := newShell(t)

	code, err := s.registry.Execute(t.Context(), s.root, &bytes.Buffer{}, "format")
	assert.ErrorIs(t, err, data.ErrInvalid)
	assert.Equal(t, cmd.ExitUsage, code)

	code, err = s.registry.Execute(t.Context(), s.root, &bytes.Buffer{}, "ls", "--bogus")
	assert.ErrorIs(t, err, data.ErrInvalid)
	assert.Equal(t, cmd.ExitUsage, code)
}

func TestMkdirAndLs(t *testing.T) {
	s := newShell(t)

	assert.Equal(t, "docs\n", s.mustRun("mkdir", "docs"))
	assert.Equal(t, "a/b/c\n", s.mustRun("mkdir", "-p", "a/b/c"))
	assert.Equal(t, "docs (1)\n", s.mustRun("mkdir", "-c", "unique", "docs"))

	_, err := s.run("mkdir", "docs")
	assert.ErrorIs(t, err, data.ErrExist)
	_, err = s.run("mkdir", "missing/child")
	assert.ErrorIs(t, err, data.ErrNotExist)
	_, err = s.run("mkdir", "-c", "sideways", "x")
	assert.ErrorIs(t, err, data.ErrInvalid)

	assert.Equal(t, "a/\ndocs/\ndocs (1)/\n", s.mustRun("ls"))
	assert.Equal(t, "c/\n", s.mustRun("ls", "a/b"))
	assert.Equal(t, "b/\n", s.mustRun("ls", "/a/b/.."))
}

func TestTouchCatStat(t *testing.T) {
	s := newShell(t)
	require.NoError(t, s.local.WriteFile(t.Context(), "notes/todo.md", []byte("- write tests\n")))

	assert.Equal(t, "- write tests\n", s.mustRun("cat", "notes/todo.md"))

	out := s.mustRun("stat", "notes/todo.md")
	assert.Contains(t, out, "  Path: notes/todo.md\n")
	assert.Contains(t, out, "  Kind: file\n")
	assert.Contains(t, out, "  Type: text/markdown\n")
	assert.Contains(t, out, "  Size: 14\n")

	assert.Equal(t, "notes/todo.md\n", s.mustRun("touch", "notes/todo.md"))
	assert.Equal(t, "- write tests\n", s.mustRun("cat", "notes/todo.md"))
	assert.Equal(t, "notes/todo (1).md\n", s.mustRun("touch", "-c", "unique", "notes/todo.md"))
	assert.Equal(t, "", s.mustRun("cat", "notes/todo (1).md"))

	out = s.mustRun("ls", "-l", "notes")
	assert.Contains(t, out, "text/markdown")

	_, err := s.run("cat", "notes")
	assert.ErrorIs(t, err, data.ErrWrongKind)
}

func TestRm(t *testing.T) {
	s := newShell(t)
	s.mustRun("mkdir", "-p", "a/b")
	s.mustRun("touch", "a/file.txt")

	_, err := s.run("rm", "a")
	assert.ErrorIs(t, err, data.ErrWrongKind)

	s.mustRun("rm", "a/file.txt")
	assert.Equal(t, "b/\n", s.mustRun("ls", "a"))

	s.mustRun("rm", "-r", "a")
	assert.Equal(t, "", s.mustRun("ls"))

	_, err = s.run("rm", "a")
	assert.ErrorIs(t, err, data.ErrNotExist)
}

func TestTree(t *testing.T) {
	s := newShell(t)
	s.mustRun("mkdir", "-p", "a/b")
	s.mustRun("touch", "a/b/deep.txt", "a/x.txt", "top.txt")

	expected := strings.Join([]string{
		".",
		"├── a/",
		"│   ├── b/",
		"│   │   └── deep.txt",
		"│   └── x.txt",
		"└── top.txt",
		"",
		"2 folders, 3 files",
		"",
	}, "\n")
	assert.Equal(t, expected, s.mustRun("tree"))

	out := s.mustRun("tree", "-d", "1")
	assert.NotContains(t, out, "b/")
	assert.Contains(t, out, "1 folders, 1 files")
}
