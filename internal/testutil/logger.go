// Package testutil test logger, SQLite/Postgres adapter kurulumu, fixture
// şemaları ve sorgu sayacı sağlar.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger t.Log'a yazan bir logger döner. Loglar sadece test
// başarısız olduğunda veya -v ile görünür.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
