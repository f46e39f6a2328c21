package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshots(t *testing.T) {
	snapshots, err := DecodeSnapshots(`[{"id":"1","name":"a","isFile":true},{"id":"2","name":"b"}]`)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, KindFile, snapshots[0].Kind())
	assert.Equal(t, KindFolder, snapshots[1].Kind())

	snapshots, err = DecodeSnapshots(`[]`)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestDecodeSnapshots_Malformed(t *testing.T) {
	for name, raw := range map[string]string{
		"missing":     ``,
		"not json":    `{`,
		"null entry":  `[null]`,
		"mixed null":  `[{"id":"1","name":"a"},null]`,
		"empty id":    `[{"id":"","name":"a"}]`,
		"no id":       `[{"name":"a","isFile":true}]`,
		"wrong shape": `{"id":"1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshots(raw)
			assert.ErrorIs(t, err, ErrIO)
		})
	}
}

func TestDecodeSnapshot(t *testing.T) {
	snapshot, err := DecodeSnapshot("")
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	_, err = DecodeSnapshot(`{"name":"a"}`)
	assert.ErrorIs(t, err, ErrIO)
}
