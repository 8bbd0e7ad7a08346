// Package sink writes harvested records to a durable CSV artifact.
package sink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harvestkit/townpage/models"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Header matches the upstream feed's locale: company name, phone,
// address, URL, search keyword, search area, timestamp.
var Header = []string{"社名", "番号", "住所", "URL", "検索キーワード", "検索地域", "日時"}

// TimestampLayout is the fixed display format of the timestamp column.
const TimestampLayout = "2006年01月02日 15:04:05"

// jst is the feed's local timezone; rows are stamped in it.
var jst = time.FixedZone("JST", 9*60*60)

// ErrSink wraps artifact open/write failures.
type ErrSink struct {
	Err error
}

func (e ErrSink) Error() string {
	return fmt.Errorf("sink: %w", e.Err).Error()
}

func (e ErrSink) Unwrap() error {
	return e.Err
}

// CSV is an append-only record writer. Open truncates any existing
// artifact and writes the header; every Append is flushed independently
// so a crash after N records leaves exactly N complete rows.
type CSV struct {
	path     string
	encoding string

	file    *os.File
	encoder io.WriteCloser
	writer  *csv.Writer
	now     func() time.Time
}

// NewCSV builds a sink writing to path in the named text encoding
// (empty or "utf-8" writes bytes through unchanged).
func NewCSV(path, encoding string) *CSV {
	return &CSV{
		path:     path,
		encoding: encoding,
		now:      func() time.Time { return time.Now().In(jst) },
	}
}

// Open creates the artifact, truncating any previous run's output, and
// writes the header row.
func (s *CSV) Open() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ErrSink{Err: fmt.Errorf("create directory %q: %w", dir, err)}
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return ErrSink{Err: fmt.Errorf("create artifact: %w", err)}
	}

	encoder, err := encodedWriter(file, s.encoding)
	if err != nil {
		file.Close()
		return ErrSink{Err: err}
	}

	s.file = file
	s.encoder = encoder
	s.writer = csv.NewWriter(encoder)

	if err := s.writer.Write(Header); err != nil {
		s.Close()
		return ErrSink{Err: fmt.Errorf("write header: %w", err)}
	}
	return s.flush()
}

// Append writes one record as a fully flushed row, stamping it with the
// capture timestamp at append time.
func (s *CSV) Append(record *models.Record) error {
	if s.writer == nil {
		return ErrSink{Err: fmt.Errorf("sink not open")}
	}

	row := []string{
		record.CompanyName,
		record.Phone,
		record.Address,
		record.URL,
		record.Keyword,
		record.Area,
		s.now().Format(TimestampLayout),
	}
	if err := s.writer.Write(row); err != nil {
		return ErrSink{Err: fmt.Errorf("write record: %w", err)}
	}
	return s.flush()
}

func (s *CSV) flush() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return ErrSink{Err: fmt.Errorf("flush: %w", err)}
	}
	return nil
}

// Close releases the file handle. Calling Close on a sink that never
// opened is a no-op.
func (s *CSV) Close() error {
	if s.file == nil {
		return nil
	}

	var errs []error
	if s.writer != nil {
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.encoder != nil {
		if err := s.encoder.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}

	s.file = nil
	s.encoder = nil
	s.writer = nil

	if len(errs) > 0 {
		return ErrSink{Err: errors.Join(errs...)}
	}
	return nil
}

// Remove deletes the artifact. Idempotent: an already-absent artifact is
// not an error.
func (s *CSV) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ErrSink{Err: err}
	}
	return nil
}

// encodedWriter wraps w with the named text encoding's encoder.
func encodedWriter(w io.Writer, name string) (io.WriteCloser, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nopCloser{w}, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return transform.NewWriter(w, enc.NewEncoder()), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
