package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")

	require.Same(t, logger, FromContext(ctx))
	require.Contains(t, buf.String(), "msg=hello")
}

func TestFromContextMissing(t *testing.T) {
	require.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		FromContext(context.Background())
	})
}
