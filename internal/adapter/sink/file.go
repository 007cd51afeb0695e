package sink

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
)

// FileStore creates per-station CSV sinks under a base directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first Open.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Open creates (or truncates) the output file for one station and range.
// Truncation gives re-runs overwrite semantics: stale rows from a prior
// run never survive into a new one. The filename is deterministic from
// station name, datum, and range, e.g. "seattle_MLLW_20160102-20160922.csv".
func (s *FileStore) Open(station domain.StationSpec, datum string, r domain.DateRange) (*FileSink, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s-%s.csv",
		sanitizeName(station.Name), datum, domain.Dashless(r.Start), domain.Dashless(r.End))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	buf := bufio.NewWriter(f)
	return &FileSink{
		file: f,
		buf:  buf,
		csv:  csv.NewWriter(buf),
		path: path,
	}, nil
}

// FileSink is one station's append-only output file. It is owned
// exclusively by the collector processing that station.
type FileSink struct {
	file        *os.File
	buf         *bufio.Writer
	csv         *csv.Writer
	path        string
	wroteHeader bool
}

// Path returns the location of the underlying file.
func (s *FileSink) Path() string { return s.path }

// WriteHeader writes the header row. It must be called exactly once,
// before any data rows.
func (s *FileSink) WriteHeader(header []string) error {
	if s.wroteHeader {
		return fmt.Errorf("header already written to %s", s.path)
	}
	s.wroteHeader = true
	if err := s.csv.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteRows appends data rows in order.
func (s *FileSink) WriteRows(rows [][]string) error {
	for _, row := range rows {
		if err := s.csv.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file. The file keeps
// whatever was written before a failure; partial output is left visible
// rather than deleted.
func (s *FileSink) Close() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush rows: %w", err)
	}
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush buffer: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// sanitizeName makes a station name safe for use as a filename segment.
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "station"
	}
	return b.String()
}
