package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/couchcryptid/precip-climatology/internal/domain"
)

// Source reads a monthly precipitation series from a JSON file.
// It implements pipeline.SeriesLoader.
type Source struct {
	path   string
	logger *slog.Logger
}

// NewSource creates a Source for the given file path.
func NewSource(path string, logger *slog.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// Load reads and decodes the whole file. A missing file is reported as
// domain.ErrInputNotFound and undecodable content as domain.ErrMalformedInput.
func (s *Source) Load(ctx context.Context) (domain.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInputNotFound, err)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	series, err := domain.ParseSeries(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.logger.Debug("series file read", "path", s.path, "bytes", len(data), "observations", len(series))
	return series, nil
}
