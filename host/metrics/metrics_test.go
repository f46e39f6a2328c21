package metrics_test

import (
	"context"
	"io"
	"testing"

	"github.com/mwantia/hostfs"
	"github.com/mwantia/hostfs/backend/ephemeral"
	"github.com/mwantia/hostfs/data"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/host/metrics"
	"github.com/mwantia/hostfs/stream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_Records(t *testing.T) {
	ctx := t.Context()

	local := host.NewLocal(ephemeral.NewEphemeralBackend())
	require.NoError(t, local.Open(ctx))
	t.Cleanup(func() { local.Close(context.Background()) })

	require.NoError(t, local.WriteFile(ctx, "data.bin", []byte("0123456789")))

	m := metrics.New(prometheus.NewRegistry())
	session, err := hostfs.NewSession(m.Wrap(local))
	require.NoError(t, err)

	root, err := session.GetRoot(ctx)
	require.NoError(t, err)

	_, err = root.CreateFolder(ctx, "a", data.FailIfExists)
	require.NoError(t, err)
	_, err = root.CreateFolder(ctx, "a", data.FailIfExists)
	assert.ErrorIs(t, err, data.ErrExist)

	file, err := root.GetFile(ctx, "data.bin")
	require.NoError(t, err)
	reader, err := file.OpenRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StreamsActive()))

	_, err = io.ReadAll(stream.Bind(ctx, reader))
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	assert.Equal(t, float64(10), testutil.ToFloat64(m.BytesRead()))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.StreamsActive()))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("CreateFolder", metrics.OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("OpenPrivateRoot", metrics.OutcomeOK)))

	// Collision probes look for a file first
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("TryGetFolder", metrics.OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("TryGetFolder", metrics.OutcomeNull)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Calls("TryGetFile", metrics.OutcomeNull)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("TryGetFile", metrics.OutcomeOK)))

	_, err = m.Wrap(local).ListItems(ctx, "unknown")
	assert.ErrorIs(t, err, data.ErrNotExist)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Calls("ListItems", "not_exist")))
}
