// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagesnap/pkg/types"
)

func setupTestLogger(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLoggerForTest(zerolog.New(&buf).Level(level))
	return &buf
}

func TestInfoWritesKeyValuePairs(t *testing.T) {
	buf := setupTestLogger(t, zerolog.InfoLevel)

	Info("rendered page", "page", 0, "dpi", 200.0)

	out := buf.String()
	assert.Contains(t, out, "rendered page")
	assert.Contains(t, out, `"page":0`)
	assert.Contains(t, out, `"dpi":200`)
}

func TestErrorValuesUseErrorField(t *testing.T) {
	buf := setupTestLogger(t, zerolog.InfoLevel)

	Error("render failed", "err", errors.New("boom"))

	assert.Contains(t, buf.String(), `"err":"boom"`)
}

func TestOddKeyValueCount(t *testing.T) {
	buf := setupTestLogger(t, zerolog.InfoLevel)

	Warn("dangling", "orphan")

	assert.Contains(t, buf.String(), `"orphan":null`)
}

func TestLevelFiltering(t *testing.T) {
	buf := setupTestLogger(t, zerolog.WarnLevel)

	Debug("hidden debug")
	Info("hidden info")
	Warn("visible warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warn")
}

func TestSetLevel(t *testing.T) {
	buf := setupTestLogger(t, zerolog.WarnLevel)

	SetLevel("debug")
	Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")

	SetLevel("bogus")
	Debug("filtered again")
	assert.NotContains(t, buf.String(), "filtered again")
}

func TestInitWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "pagesnap.log")
	var stderr bytes.Buffer

	Init(types.LogConfig{Level: "info", File: logFile}, &stderr)
	Info("to both", "k", "v")

	assert.Contains(t, stderr.String(), "to both")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"k":"v"`)
}
