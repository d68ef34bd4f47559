package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	buf := &bytes.Buffer{}
	logger := Setup(buf, false)
	logger.Debug("hidden")
	logger.Info("shown", "remote", "origin")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "remote=origin")
	// A buffer is not a terminal
	require.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	Setup(buf, true)
	slog.Debug("visible")
	require.Contains(t, buf.String(), "visible")
}
