package service_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/metanav/internal/flow"
	"github.com/phrazzld/metanav/internal/mocks"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, sessions *mocks.SessionStore) *flow.Engine {
	t.Helper()
	engine, err := flow.NewEngine(sessions, nil, nil, testLogger())
	require.NoError(t, err)
	return engine
}
