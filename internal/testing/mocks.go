package testing

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/geappliances/erdgen/internal/codegen/source"
)

// FakeResolver serves canned documents by name; missing names fail with
// source.ErrUnresolved.
type FakeResolver map[string]string

func (f FakeResolver) Resolve(_ context.Context, doc source.Document) (*source.Result, error) {
	data, ok := f[doc.Name]
	if !ok {
		return nil, source.ErrUnresolved
	}
	return &source.Result{
		Document: doc,
		Source:   source.Source{Description: "test", Location: "mem://" + doc.Name},
		Data:     []byte(data),
	}, nil
}

// LogBuffer collects text log output for assertions.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *LogBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// CaptureLogger returns a debug level text logger writing into the buffer.
func CaptureLogger(t *testing.T) (*slog.Logger, *LogBuffer) {
	t.Helper()
	logs := &LogBuffer{}
	return slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})), logs
}
