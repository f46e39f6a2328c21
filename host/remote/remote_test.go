package remote_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/host/remote"
	"github.com/mwantia/hostfs/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*host.Local, *remote.Client) {
	t.Helper()

	local := host.NewLocal(ephemeral.NewEphemeralBackend(), host.WithDisplayName("Remote Memory"))
	server := httptest.NewServer(remote.NewServer(local))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, err := remote.Dial(t.Context(), url)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
	})

	return local, client
}

func TestClient_Provider(t *testing.T) {
	_, client := startServer(t)

	assert.Equal(t, host.Provider{ID: "ephemeral", DisplayName: "Remote Memory"}, client.Provider())
}

func TestClient_Session(t *testing.T) {
	ctx := t.Context()
	local, client := startServer(t)
	require.NoError(t, local.WriteFile(ctx, "docs/readme.txt", []byte("served over a websocket")))

	session, err := hostfs.NewSession(client)
	require.NoError(t, err)
	root, err := session.GetRoot(ctx)
	require.NoError(t, err)

	docs, err := root.GetFolder(ctx, "docs")
	require.NoError(t, err)

	_, err = docs.CreateFile(ctx, "readme.txt", data.FailIfExists)
	assert.ErrorIs(t, err, data.ErrExist)

	renamed, err := docs.CreateFile(ctx, "readme.txt", data.GenerateUniqueName)
	require.NoError(t, err)
	assert.Equal(t, "readme (1).txt", renamed.Name())

	files, err := docs.ListFiles(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	file, err := docs.GetFile(ctx, "readme.txt")
	require.NoError(t, err)

	reader, err := file.OpenRead(ctx)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(stream.Bind(ctx, reader))
	require.NoError(t, err)
	assert.Equal(t, "served over a websocket", string(content))

	_, err = reader.Seek(-7, io.SeekEnd)
	require.NoError(t, err)
	buffer := make([]byte, 10)
	n, err := reader.ReadContext(ctx, buffer, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "websocket"[2:], string(buffer[3:3+n]))
}

func TestClient_Errors(t *testing.T) {
	ctx := t.Context()
	_, client := startServer(t)

	_, err := client.ListItems(ctx, "unknown")
	assert.ErrorIs(t, err, data.ErrNotExist)

	_, err = client.ReadStream(ctx, "unknown", make([]byte, 4), 0, 4, 0)
	assert.ErrorIs(t, err, data.ErrNotExist)

	_, err = client.ReadStream(ctx, "unknown", make([]byte, 4), 2, 4, 0)
	assert.ErrorIs(t, err, data.ErrInvalid)

	raw, err := client.TryGetFile(ctx, mustRootID(t, client), "missing")
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestClient_DeleteDangling(t *testing.T) {
	ctx := t.Context()
	_, client := startServer(t)

	session, err := hostfs.NewSession(client)
	require.NoError(t, err)
	root, err := session.GetRoot(ctx)
	require.NoError(t, err)

	folder, err := root.CreateFolder(ctx, "gone", data.FailIfExists)
	require.NoError(t, err)
	require.NoError(t, folder.Delete(ctx, data.DeleteDefault))

	_, err = folder.ListItems(ctx)
	assert.ErrorIs(t, err, data.ErrNotExist)
}

func TestServer_ReleasesStreamsOnDisconnect(t *testing.T) {
	ctx := t.Context()
	local, client := startServer(t)
	require.NoError(t, local.WriteFile(ctx, "file.txt", []byte("abc")))

	session, err := hostfs.NewSession(client)
	require.NoError(t, err)
	root, err := session.GetRoot(ctx)
	require.NoError(t, err)
	file, err := root.GetFile(ctx, "file.txt")
	require.NoError(t, err)

	_, err = file.OpenRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, local.OpenStreams())

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool {
		return local.OpenStreams() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClient_ClosedConnection(t *testing.T) {
	_, client := startServer(t)
	require.NoError(t, client.Close())

	_, err := client.OpenPrivateRoot(context.Background())
	assert.ErrorIs(t, err, data.ErrIO)
}

func mustRootID(t *testing.T, client *remote.Client) string {
	t.Helper()

	raw, err := client.OpenPrivateRoot(t.Context())
	require.NoError(t, err)
	snapshot, err := data.DecodeSnapshot(raw)
	require.NoError(t, err)
	return snapshot.ID
}
