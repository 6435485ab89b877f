package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"toyland/internal/config"
	"toyland/internal/models"
	"toyland/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	ctx := context.Background()
	repo, closeStore, err := openStore(ctx, &config.Config{StoreDriver: config.DriverMemory})
	require.NoError(t, err)
	defer closeStore()

	assert.NoError(t, repo.Ping(ctx))
	toys, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, toys)
}

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreDriver:  config.DriverSQLite,
		DatabaseDSN:  filepath.Join(t.TempDir(), "toyland.db"),
		DBCollection: "toys",
	}

	repo, closeStore, err := openStore(ctx, cfg)
	require.NoError(t, err)

	ack, err := repo.Insert(ctx, &models.Toy{ToyName: "Kite", Category: "outdoor"})
	require.NoError(t, err)
	require.NoError(t, closeStore())

	// Reopening the same file keeps the data.
	repo, closeStore, err = openStore(ctx, cfg)
	require.NoError(t, err)
	defer closeStore()

	toy, err := repo.FindByID(ctx, ack.InsertedID)
	require.NoError(t, err)
	require.NotNil(t, toy)
	assert.Equal(t, "Kite", toy.ToyName)
}

func TestOpenStore_Unsupported(t *testing.T) {
	_, _, err := openStore(context.Background(), &config.Config{StoreDriver: "redis"})
	assert.Error(t, err)
}

func TestLogToyEvent(t *testing.T) {
	err := logToyEvent(rabbitmq.Event{Type: rabbitmq.EventToyDeleted, ToyID: "abc", OccurredAt: time.Now()})
	assert.NoError(t, err)
}
