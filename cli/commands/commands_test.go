package commands

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/cli/config"
	"github.com/mwantia/hostfs/cmd"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func writeDirectConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "hostfs.yaml")
	content := "log:\n  level: off\nbackend:\n  type: direct\n  path: " + filepath.Join(dir, "storage") + "\n"
	require.NoError(t, os.Mkdir(filepath.Join(dir, "storage"), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestImportAndExec(t *testing.T) {
	cfg := writeDirectConfig(t)

	source := filepath.Join(t.TempDir(), "readme.md")
	require.NoError(t, os.WriteFile(source, []byte("hello"), 0o644))

	out, err := run(t, "import", "-c", cfg, source, "/docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "docs/readme.md (5 bytes)\n", out)

	out, err = run(t, "exec", "-c", cfg, "cat", "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = run(t, "exec", "-c", cfg, "ls", "-l")
	require.NoError(t, err)
	assert.Contains(t, out, "docs")

	out, err = run(t, "exec", "-c", cfg, "mkdir", "-p", "a/b")
	require.NoError(t, err)
	assert.Contains(t, out, "a/b")
}

func TestExec_Failures(t *testing.T) {
	cfg := writeDirectConfig(t)

	_, err := run(t, "exec", "-c", cfg, "cat", "missing.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, data.ErrNotExist)
	assert.Equal(t, cmd.ExitError, ExitCode(err))

	_, err = run(t, "exec", "-c", cfg, "frobnicate")
	require.Error(t, err)
	assert.Equal(t, cmd.ExitUsage, ExitCode(err))

	_, err = run(t, "exec", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "ls")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))

	assert.Equal(t, 0, ExitCode(nil))
}

func TestImport_RejectsEmptyKey(t *testing.T) {
	cfg := writeDirectConfig(t)
	source := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(source, nil, 0o644))

	_, err := run(t, "import", "-c", cfg, source, "/")
	assert.ErrorIs(t, err, data.ErrInvalid)
}

func TestHandler_RemoteAndMetrics(t *testing.T) {
	ctx := t.Context()

	local := host.NewLocal(ephemeral.NewEphemeralBackend())
	require.NoError(t, local.Open(ctx))
	t.Cleanup(func() { local.Close(context.Background()) })
	require.NoError(t, local.WriteFile(ctx, "notes.txt", []byte("remote notes")))

	cfg := config.Default()
	cfg.Log.Level = "off"
	cfg.Metrics.Enabled = true

	server := httptest.NewServer(NewHandler(cfg, local, log.Discard()))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + cfg.Server.Path
	out, err := run(t, "exec", "--remote", url, "cat", "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "remote notes", out)

	resp, err := http.Get(server.URL + cfg.Metrics.Path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `hostfs_host_calls_total{method="OpenStream",outcome="ok"} 1`)
	assert.Contains(t, string(body), "hostfs_stream_bytes_read_total 12")
}

func TestHandler_ReadOnly(t *testing.T) {
	ctx := t.Context()

	local := host.NewLocal(ephemeral.NewEphemeralBackend())
	require.NoError(t, local.Open(ctx))
	t.Cleanup(func() { local.Close(context.Background()) })

	cfg := config.Default()
	cfg.Server.ReadOnly = true

	server := httptest.NewServer(NewHandler(cfg, local, log.Discard()))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + cfg.Server.Path
	_, err := run(t, "exec", "--remote", url, "mkdir", "docs")
	assert.ErrorIs(t, err, data.ErrPermission)

	out, err := run(t, "exec", "--remote", url, "ls")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestServe_Shutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, http.NotFoundHandler(), log.Discard())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
