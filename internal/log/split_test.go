package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsSplitFromConsole(t *testing.T) {
	var out, errs bytes.Buffer
	logger := slog.New(fanout{
		below{h: NewHandler(&out, FormatText, slog.LevelDebug), limit: slog.LevelError},
		NewHandler(&errs, FormatText, slog.LevelError),
	}).With("document", "appliance_api.json")

	logger.Debug("candidate missing")
	logger.Warn("remote fetch failed")
	logger.Error("appliance API unavailable")

	assert.Contains(t, out.String(), "candidate missing")
	assert.Contains(t, out.String(), "remote fetch failed")
	assert.NotContains(t, out.String(), "unavailable")
	assert.Contains(t, errs.String(), "appliance API unavailable")
	assert.Contains(t, errs.String(), "document=appliance_api.json")
	assert.NotContains(t, errs.String(), "remote fetch failed")
}

func TestBelowDisablesLevelsAtLimit(t *testing.T) {
	var buf bytes.Buffer
	b := below{h: NewHandler(&buf, FormatText, LevelTrace), limit: slog.LevelWarn}
	assert.True(t, b.Enabled(t.Context(), LevelTrace))
	assert.True(t, b.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, b.Enabled(t.Context(), slog.LevelWarn))
	assert.False(t, fanout{b}.Enabled(t.Context(), slog.LevelError))
}
