package jsonfile_test

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/precip-climatology/internal/adapter/jsonfile"
	"github.com/couchcryptid/precip-climatology/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSource_Load(t *testing.T) {
	path := writeFile(t, `{"2025-02-01": 151.2, "2025-01-01": 240.8}`)
	src := jsonfile.NewSource(path, discardLogger())

	series, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, time.January, series[0].Date.Month())
	assert.Equal(t, 240.8, series[0].PrecipMM)
	assert.Equal(t, path, src.Path())
}

func TestSource_Load_MissingFile(t *testing.T) {
	src := jsonfile.NewSource(filepath.Join(t.TempDir(), "absent.json"), discardLogger())

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "absent.json", filepath.Base(pathErr.Path))
}

func TestSource_Load_MalformedJSON(t *testing.T) {
	src := jsonfile.NewSource(writeFile(t, `{"2025-01-01": 240.8,`), discardLogger())

	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
	assert.NotErrorIs(t, err, domain.ErrInputNotFound)
}

func TestSource_Load_CancelledContext(t *testing.T) {
	src := jsonfile.NewSource(writeFile(t, `{}`), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
