package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

func TestWriteCommands_WarnAboutRunningServer(t *testing.T) {
	for _, cmd := range []*cobra.Command{boardsDeleteCmd, storeResetCmd} {
		assert.Contains(t, cmd.Long, "stop the server first", cmd.Use)
		assert.Contains(t, cmd.Long, "restart it", cmd.Use)
	}
}

func TestStoreReset_RemovesKeyAndPrintsRestartNote(t *testing.T) {
	store := kvstore.NewMemoryStore()
	ctx := context.Background()
	key := model.KeySavedMoodboards.String()
	require.NoError(t, store.Set(ctx, key, `[]`))

	current = &admin{store: store, close: func() {}, logger: zap.NewNop()}
	t.Cleanup(func() { current = nil })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(ctx)

	require.NoError(t, runStoreReset(cmd, []string{key}))

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "removed "+key)
	assert.Contains(t, out.String(), restartNote)
}

func TestStoreReset_UnknownKey(t *testing.T) {
	current = &admin{store: kvstore.NewMemoryStore(), close: func() {}, logger: zap.NewNop()}
	t.Cleanup(func() { current = nil })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	assert.ErrorContains(t, runStoreReset(cmd, []string{"notAKey"}), "unknown key")
}
