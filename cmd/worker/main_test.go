package main

import (
	"testing"
	"time"

	"storefront-be/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorker(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	t.Run("Queue disabled", func(t *testing.T) {
		svc, m, err := newWorker(&config.Config{QueueEnabled: false, TxTimeout: time.Second}, db)
		assert.Error(t, err)
		assert.Nil(t, svc)
		assert.Nil(t, m)
	})

	t.Run("Queue enabled", func(t *testing.T) {
		svc, m, err := newWorker(&config.Config{
			QueueEnabled:     true,
			RedisAddr:        "127.0.0.1:6379",
			QueueConcurrency: 2,
			TxTimeout:        time.Second,
		}, db)
		require.NoError(t, err)
		assert.NotNil(t, svc)
		assert.NotNil(t, m)
	})
}
