package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/skywalkerx28/nexus/internal/event"
	"github.com/skywalkerx28/nexus/internal/logging"
	"github.com/skywalkerx28/nexus/internal/metadata"
)

// rowGroupStats holds the row-group-level min/max bounds this reader
// prunes on (ts_event_ns and seq), aggregated across
// every data page parquet-go's column index reports for that row
// group's chunk of the respective column.
type rowGroupStats struct {
	tsMin, tsMax   int64
	tsUsable       bool
	seqMin, seqMax uint64
	seqUsable      bool
	rowCount       int64
}

// Reader is a single-file, single-consumer columnar event reader. It
// is not safe for concurrent use: callers serialize their
// own access.
type Reader struct {
	path string
	log  *slog.Logger

	f    *os.File
	file *parquet.File
	meta *metadata.Record

	rowGroups []parquet.RowGroup
	stats     []rowGroupStats
	totalRows uint64

	currentRowGroup  int
	rows             parquet.Rows
	rowGroupsTouched int32

	rowBuf    []parquet.Row
	rowBufLen int
	rowBufPos int

	timeFiltered       bool
	timeStart, timeEnd int64
	seqFiltered        bool
	seqMin, seqMax     uint64

	err error
}

// NewReader opens path for columnar reading, parses its footer metadata, and
// builds the per-row-group statistics index used for pruning.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w: %w", path, err, ErrIO)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: stat %s: %w: %w", path, err, ErrIO)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: parse footer of %s: %w: %w", path, err, ErrDecode)
	}

	r := &Reader{
		path:      path,
		log:       logging.ReaderLogger(path),
		f:         f,
		file:      pf,
		meta:      metadata.FromMap(keyValueMap(pf)),
		rowGroups: pf.RowGroups(),
	}
	r.stats = make([]rowGroupStats, len(r.rowGroups))
	for i, rg := range r.rowGroups {
		st := buildRowGroupStats(rg)
		r.stats[i] = st
		r.totalRows += uint64(st.rowCount)
	}

	if !r.meta.WriteComplete {
		r.log.Warn("footer reports write_complete=false", "error", ErrMetadataAnomaly)
	}

	return r, nil
}

func keyValueMap(pf *parquet.File) map[string]string {
	m := make(map[string]string)
	for _, kv := range pf.Metadata().KeyValueMetadata {
		m[kv.Key] = kv.Value
	}
	return m
}

// buildRowGroupStats aggregates the ts_event_ns and seq min/max across
// every data page parquet-go's column index exposes for this
// row-group's chunk of each column. A column index that is absent, or
// reports zero pages, leaves the corresponding bound unusable — the
// reader never prunes a row-group it cannot prove excluded: unusable
// statistics never cause a false skip. This plays the
// same defensive role as a raw-byte-length check against a malformed
// or legacy statistics encoding, expressed through parquet-go's typed
// accessors instead of hand-copied byte buffers.
func buildRowGroupStats(rg parquet.RowGroup) rowGroupStats {
	st := rowGroupStats{rowCount: rg.NumRows()}

	if tsMin, tsMax, ok := columnBounds(rg, columns.tsEventNs); ok {
		st.tsMin, st.tsMax, st.tsUsable = tsMin, tsMax, true
	}
	if seqMin, seqMax, ok := columnBounds(rg, columns.seq); ok {
		st.seqMin, st.seqMax, st.seqUsable = uint64(seqMin), uint64(seqMax), true
	}
	return st
}

func columnBounds(rg parquet.RowGroup, colIdx int) (min, max int64, ok bool) {
	chunks := rg.ColumnChunks()
	if colIdx < 0 || colIdx >= len(chunks) {
		return 0, 0, false
	}
	ci, err := chunks[colIdx].ColumnIndex()
	if err != nil || ci == nil || ci.NumPages() == 0 {
		return 0, 0, false
	}

	min = ci.MinValue(0).Int64()
	max = ci.MaxValue(0).Int64()
	for i := 1; i < ci.NumPages(); i++ {
		if v := ci.MinValue(i).Int64(); v < min {
			min = v
		}
		if v := ci.MaxValue(i).Int64(); v > max {
			max = v
		}
	}
	return min, max, true
}

// SetTimeRange restricts reads to events whose ts_event_ns falls in
// [start, end] inclusive, used both for row-group pruning and residual
// row-level filtering.
func (r *Reader) SetTimeRange(start, end int64) {
	r.timeFiltered = true
	r.timeStart, r.timeEnd = start, end
}

// SetSeqRange restricts reads to events whose seq falls in [min, max]
// inclusive.
func (r *Reader) SetSeqRange(min, max uint64) {
	r.seqFiltered = true
	r.seqMin, r.seqMax = min, max
}

// ClearFilters removes every active filter, without resetting the
// read cursor.
func (r *Reader) ClearFilters() {
	r.timeFiltered = false
	r.seqFiltered = false
}

// GetMetadata returns the footer's provenance record.
func (r *Reader) GetMetadata() *metadata.Record { return r.meta }

// RowGroupCount returns the total number of row groups in the file,
// irrespective of filtering.
func (r *Reader) RowGroupCount() int32 { return int32(len(r.rowGroups)) }

// RowGroupsTouched returns the number of row groups this reader has
// actually opened a row cursor on since the last Reset, the metric
// pruning correctness is asserted against.
func (r *Reader) RowGroupsTouched() int32 { return r.rowGroupsTouched }

// EventCount returns the total row count recorded in the footer. It is
// a constant fixed at NewReader() time — independent of reads, Reset, or any
// active filter.
func (r *Reader) EventCount() uint64 { return r.totalRows }

// Err returns the first systemic error (decode failure or row-group
// read error) encountered since the reader was opened or last Reset.
// Next stops yielding events once Err is non-nil; callers that need to
// distinguish a clean EOF from an aborted scan must check Err after
// Next returns false.
func (r *Reader) Err() error { return r.err }

// Reset drops the read cursor, the row-groups-touched counter, and any
// sticky error, without disturbing an active filter, so a fresh full
// or filtered scan can begin.
func (r *Reader) Reset() {
	if r.rows != nil {
		r.rows.Close()
		r.rows = nil
	}
	r.currentRowGroup = 0
	r.rowGroupsTouched = 0
	r.rowBufLen, r.rowBufPos = 0, 0
	r.err = nil
}

// passesRowGroupPredicate reports whether a row-group's statistics
// cannot rule out every active filter. A row-group is skipped only
// when its usable bounds provably fall outside an active range.
func (r *Reader) passesRowGroupPredicate(st rowGroupStats) bool {
	if r.timeFiltered && st.tsUsable {
		if st.tsMax < r.timeStart || st.tsMin > r.timeEnd {
			return false
		}
	}
	if r.seqFiltered && st.seqUsable {
		if st.seqMax < r.seqMin || st.seqMin > r.seqMax {
			return false
		}
	}
	return true
}

func (r *Reader) passesResidual(e *event.Event) bool {
	if r.timeFiltered && (e.TsEventNs < r.timeStart || e.TsEventNs > r.timeEnd) {
		return false
	}
	if r.seqFiltered && (e.Seq < r.seqMin || e.Seq > r.seqMax) {
		return false
	}
	return true
}

const readerRowBatch = 1024

// Next advances to, and returns, the next event that passes every
// active filter. It returns (nil, false) once every remaining
// row-group has been exhausted, or once a systemic error (decode
// failure, row-group read failure) aborts the scan — callers must
// check Err to tell the two apart.
func (r *Reader) Next() (*event.Event, bool) {
	if r.err != nil {
		return nil, false
	}
	for {
		if r.rowBufPos >= r.rowBufLen {
			if !r.fillRowBuf() {
				return nil, false
			}
		}

		pr := r.rowBuf[r.rowBufPos]
		r.rowBufPos++

		row, err := decodeRow(pr)
		if err != nil {
			r.log.Error("decode failure", "error", err)
			r.err = err
			return nil, false
		}
		ev := event.FromRow(row)
		if !r.passesResidual(ev) {
			continue
		}
		return ev, true
	}
}

// fillRowBuf refills the row buffer from the current open row-group,
// advancing to the next surviving row-group (opening a fresh cursor
// via RowGroup.Rows()) whenever the current one is exhausted. It
// returns false once no row-group remains.
func (r *Reader) fillRowBuf() bool {
	for {
		if r.rows == nil {
			if !r.openNextRowGroup() {
				return false
			}
		}

		if cap(r.rowBuf) < readerRowBatch {
			r.rowBuf = make([]parquet.Row, readerRowBatch)
		}
		r.rowBuf = r.rowBuf[:readerRowBatch]

		n, err := r.rows.ReadRows(r.rowBuf)
		if n > 0 {
			r.rowBufLen = n
			r.rowBufPos = 0
			return true
		}
		r.rows.Close()
		r.rows = nil
		if err != nil && !errors.Is(err, io.EOF) {
			r.log.Error("row-group read error", "error", err)
			r.err = fmt.Errorf("store: read row group: %w: %w", err, ErrIO)
			return false
		}
	}
}

// openNextRowGroup advances currentRowGroup past any row-group the
// statistics index provably excludes, opening a row cursor on the
// first surviving one. It returns false once no row-group remains.
func (r *Reader) openNextRowGroup() bool {
	for r.currentRowGroup < len(r.rowGroups) {
		idx := r.currentRowGroup
		r.currentRowGroup++
		if !r.passesRowGroupPredicate(r.stats[idx]) {
			continue
		}
		r.rows = r.rowGroups[idx].Rows()
		r.rowGroupsTouched++
		return true
	}
	return false
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.rows != nil {
		r.rows.Close()
		r.rows = nil
	}
	return r.f.Close()
}
