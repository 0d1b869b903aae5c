// Package store implements the columnar writer and reader: the
// write-path batching/row-group/crash-safety design, and the
// read-path pruning/decode design.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/skywalkerx28/nexus/internal/config"
	"github.com/skywalkerx28/nexus/internal/event"
	"github.com/skywalkerx28/nexus/internal/logging"
	"github.com/skywalkerx28/nexus/internal/metadata"
	"github.com/skywalkerx28/nexus/internal/validate"
)

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithConfig overrides the default engine tuning.
func WithConfig(cfg config.EngineConfig) Option {
	return func(w *Writer) { w.cfg = cfg }
}

// Writer is a single-file, single-producer columnar event writer. It
// is not safe for concurrent appends: callers serialize
// their own access.
type Writer struct {
	path        string
	partialPath string

	cfg config.EngineConfig
	log *slog.Logger

	f  *os.File
	pw *parquet.GenericWriter[event.Row]

	batch        []event.Row
	rowGroupRows int

	meta        *metadata.Record
	appendedAny bool
	prevEvent   *event.Event

	eventCount       uint64
	validationErrors uint64
	closed           bool
	checksum         string
}

// NewWriter opens a writer whose eventual, canonical path is path. Until
// Close succeeds, all data lives at path+".partial".
func NewWriter(path string, opts ...Option) (*Writer, error) {
	w := &Writer{
		path:        path,
		partialPath: path + ".partial",
		cfg:         config.Default(),
		meta:        metadata.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.WriterLogger(path)

	if err := os.MkdirAll(filepath.Dir(w.partialPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create parent directory: %w: %w", err, ErrIO)
	}

	f, err := os.OpenFile(w.partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w: %w", w.partialPath, err, ErrIO)
	}
	w.f = f

	w.pw = parquet.NewGenericWriter[event.Row](f,
		parquet.Compression(newZstdCodec(w.cfg.CompressionLevel)),
		parquet.PageBufferSize(w.cfg.DataPageSizeBytes),
	)

	w.batch = make([]event.Row, 0, w.cfg.BatchCapacity)
	return w, nil
}

// Append validates and enqueues one event. It returns false on
// validation failure or I/O failure; the writer stays open and usable
// either way unless the underlying file handle has gone bad.
func (w *Writer) Append(e *event.Event) bool {
	w.appendedAny = true

	if w.closed {
		w.log.Error("append on closed writer", "error", ErrClosed)
		return false
	}

	if err := validate.Event(e); err != nil {
		w.validationErrors++
		w.log.Warn("rejected event: validation failure", "error", fmt.Errorf("%w: %w", ErrValidation, err))
		return false
	}
	if err := validate.Ordering(e, w.prevEvent); err != nil {
		w.validationErrors++
		w.log.Warn("rejected event: ordering failure", "error", fmt.Errorf("%w: %w", ErrOrdering, err))
		return false
	}

	w.batch = append(w.batch, event.ToRow(e))
	w.prevEvent = e
	w.meta.Observe(e.TsEventNs, e.Symbol, e.Venue, e.Source)
	w.eventCount++

	if len(w.batch) >= w.cfg.BatchCapacity {
		if err := w.flushBatch(); err != nil {
			w.log.Error("batch flush failed", "error", err)
			return false
		}
	}
	return true
}

// flushBatch hands any pending batch to the underlying column
// builders. It does not by itself seal a row-group boundary; that
// happens only when the cumulative row count reaches the row-group
// target, or on an explicit Flush()/Close(): batch capacity and
// row-group length are two distinct thresholds, one for builder
// buffering and one for the physical on-disk boundary.
func (w *Writer) flushBatch() error {
	if len(w.batch) == 0 {
		return nil
	}
	n, err := w.pw.Write(w.batch)
	w.rowGroupRows += n
	w.batch = w.batch[:0]
	if err != nil {
		return fmt.Errorf("store: write batch: %w: %w", err, ErrIO)
	}
	if w.rowGroupRows >= w.cfg.RowGroupTarget {
		if err := w.pw.Flush(); err != nil {
			return fmt.Errorf("store: seal row group: %w: %w", err, ErrIO)
		}
		w.rowGroupRows = 0
	}
	return nil
}

// Flush seals any pending batch as a row-group, regardless of whether
// the row-group length threshold has been reached.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}
	if err := w.flushBatch(); err != nil {
		return err
	}
	if w.rowGroupRows == 0 {
		return nil
	}
	if err := w.pw.Flush(); err != nil {
		return fmt.Errorf("store: flush: %w: %w", err, ErrIO)
	}
	w.rowGroupRows = 0
	return nil
}

// Close seals any pending data, finalizes the footer with
// write_complete=true, publishes the file at its canonical path via
// atomic rename, and best-effort fsyncs the parent directory. Close is
// idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	defer func() { w.closed = true }()

	if err := w.flushBatch(); err != nil {
		return err
	}
	if w.rowGroupRows > 0 {
		if err := w.pw.Flush(); err != nil {
			return fmt.Errorf("store: final row group flush: %w: %w", err, ErrIO)
		}
		w.rowGroupRows = 0
	}

	if !w.meta.Started() {
		w.log.Warn("closing with zero accepted events; footer bounds remain unset")
	}

	w.meta.WriteComplete = true
	for k, v := range w.meta.ToMap() {
		w.pw.SetKeyValueMetadata(k, v)
	}

	if err := w.pw.Close(); err != nil {
		return fmt.Errorf("store: finalize footer: %w: %w", err, ErrIO)
	}

	if sum, err := checksumFile(w.f); err != nil {
		w.log.Warn("checksum computation failed", "error", err)
	} else {
		w.checksum = sum
	}

	if err := w.f.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w: %w", w.partialPath, err, ErrIO)
	}

	if err := os.Rename(w.partialPath, w.path); err != nil {
		return fmt.Errorf("store: rename %s to %s: %w: %w", w.partialPath, w.path, err, ErrIO)
	}

	if err := fsyncDir(filepath.Dir(w.path)); err != nil {
		// Best-effort: logged, never raised.
		w.log.Warn("parent directory fsync failed", "error", err)
	}

	return nil
}

// EventCount returns the number of events successfully appended.
func (w *Writer) EventCount() uint64 { return w.eventCount }

// ValidationErrors returns the number of rejected append attempts.
func (w *Writer) ValidationErrors() uint64 { return w.validationErrors }

// Checksum returns the SHA-256 of the finalized file, populated only
// after a successful Close.
func (w *Writer) Checksum() string { return w.checksum }

// SetIngestSessionID overrides the session id. It belongs before the
// first append; a later call still takes effect (the late value is
// written to the footer) but a ConfigurationMisuse warning is logged.
func (w *Writer) SetIngestSessionID(id string) {
	if w.appendedAny {
		w.log.Warn("SetIngestSessionID called after first append", "error", ErrConfigurationMisuse)
	}
	w.meta.IngestSessionID = id
}

// SetFeedMode overrides the feed mode, with the same late-call warning
// semantics as SetIngestSessionID.
func (w *Writer) SetFeedMode(mode string) {
	if w.appendedAny {
		w.log.Warn("SetFeedMode called after first append", "error", ErrConfigurationMisuse)
	}
	w.meta.FeedMode = mode
}

func checksumFile(f *os.File) (string, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}
	h := sha256.New()
	buf := make([]byte, 1<<20)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}
