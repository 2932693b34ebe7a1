package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/eventstore/pkg/engine"
	"github.com/ssargent/eventstore/pkg/event"
	"github.com/ssargent/eventstore/pkg/storage"
)

func TestStartServer_ShutsDownOnCancel(t *testing.T) {
	e := engine.New(storage.NewMemory(), event.MaxEncodedSize)
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	done := make(chan error, 1)
	go func() {
		done <- NewServerFactory().CreateServerStarter().StartServer(
			ctx, event.NewService(e), ServerConfig{Bind: "127.0.0.1", Port: 0}, logger)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartServer_BindFailure(t *testing.T) {
	e := engine.New(storage.NewMemory(), event.MaxEncodedSize)
	defer e.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := StartServer(context.Background(), event.NewService(e),
		ServerConfig{Bind: "256.0.0.1", Port: 1}, logger)
	assert.Error(t, err)
}
