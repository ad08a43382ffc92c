package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMissing(t *testing.T) {
	got := missing([]string{"a", "b", "c"}, []string{"c", "a"})

	assert.Equal(t, []string{"b"}, got)
	assert.Empty(t, missing([]string{"a"}, []string{"a"}))
}

func TestPoolMonitorObserve(t *testing.T) {
	var buf bytes.Buffer
	m := &poolMonitor{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	m.observe(context.Background(), sql.DBStats{})
	assert.Empty(t, buf.String())

	m.observe(context.Background(), sql.DBStats{WaitCount: 4, WaitDuration: 400 * time.Millisecond})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "avgWait=100ms")
}
