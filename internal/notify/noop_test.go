package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/sfeuerstein/watch-monitor/pkg/types"
)

func TestNoOp_Notify(t *testing.T) {
	t.Parallel()

	n := NewNoOp(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, n.Notify(context.Background(), testEvent()))
}

func TestNoOp_NilLogger(t *testing.T) {
	t.Parallel()

	n := NewNoOp(nil)
	require.NoError(t, n.Notify(context.Background(), domain.NotificationEvent{}))
}
