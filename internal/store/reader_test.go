package store

import (
	"path/filepath"
	"testing"

	"github.com/skywalkerx28/nexus/internal/config"
	"github.com/skywalkerx28/nexus/internal/event"
)

// smallRowGroupConfig forces frequent row-group seals so pruning tests
// can exercise multiple row groups without writing hundreds of
// thousands of rows.
func smallRowGroupConfig() config.EngineConfig {
	cfg := config.Default()
	cfg.BatchCapacity = 50
	cfg.RowGroupTarget = 100
	return cfg
}

func writeTradesForRead(t *testing.T, path string, n int) {
	t.Helper()
	w, err := NewWriter(path, WithConfig(smallRowGroupConfig()))
	if err != nil {
		t.Fatalf("NewWriter() = %v", err)
	}
	for i := 1; i <= n; i++ {
		if !w.Append(testTrade(uint64(i))) {
			t.Fatalf("Append(%d) = false", i)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

func TestReaderRoundTripsSingleTrade(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	writeTradesForRead(t, path, 1)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	ev, ok := r.Next()
	if !ok {
		t.Fatal("Next() = false, want one event")
	}
	if ev.Type != event.TypeTrade || ev.Seq != 1 {
		t.Errorf("decoded event = %+v", ev)
	}
	if _, ok := r.Next(); ok {
		t.Error("Next() returned a second event for a single-trade file")
	}
}

func TestReaderRoundTripsEveryEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	const n = 350
	writeTradesForRead(t, path, n)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	count := 0
	var lastSeq uint64
	for {
		ev, ok := r.Next()
		if !ok {
			break
		}
		count++
		if ev.Seq <= lastSeq {
			t.Fatalf("events decoded out of order: seq %d after %d", ev.Seq, lastSeq)
		}
		lastSeq = ev.Seq
	}
	if count != n {
		t.Errorf("decoded %d events, want %d", count, n)
	}
	if got := r.EventCount(); got != uint64(n) {
		t.Errorf("EventCount() = %d, want %d", got, n)
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil after a clean full drain", err)
	}
}

func TestReaderEventCountIsFooterTotalBeforeAnyRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	const n = 42
	writeTradesForRead(t, path, n)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	if got := r.EventCount(); got != uint64(n) {
		t.Errorf("EventCount() before any Next() = %d, want %d", got, n)
	}

	r.SetTimeRange(0, 1) // excludes every event
	for {
		if _, ok := r.Next(); !ok {
			break
		}
	}
	if got := r.EventCount(); got != uint64(n) {
		t.Errorf("EventCount() under an exclusionary filter = %d, want unchanged %d", got, n)
	}
}

func TestReaderTimeRangePruning(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	const n = 350
	writeTradesForRead(t, path, n)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	if r.RowGroupCount() < 3 {
		t.Fatalf("RowGroupCount() = %d, want at least 3 for this test to be meaningful", r.RowGroupCount())
	}

	// Restrict to a window that only the first row group's events can
	// satisfy; later row groups must never be opened.
	base := testTrade(1).TsEventNs
	r.SetTimeRange(base, base+5)

	count := 0
	for {
		if _, ok := r.Next(); !ok {
			break
		}
		count++
	}
	if r.RowGroupsTouched() != 1 {
		t.Errorf("RowGroupsTouched() = %d, want 1", r.RowGroupsTouched())
	}
	if count != 6 {
		t.Errorf("matched %d events, want 6 (seq 1..6 inclusive)", count)
	}
}

func TestReaderOutOfRangeFilterYieldsNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	writeTradesForRead(t, path, 50)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	r.SetTimeRange(0, 1) // far before every event in the file
	if _, ok := r.Next(); ok {
		t.Error("Next() returned an event for a time range outside the file's bounds")
	}
	if r.RowGroupsTouched() != 0 {
		t.Errorf("RowGroupsTouched() = %d, want 0 when statistics provably exclude every row group", r.RowGroupsTouched())
	}
}

func TestReaderCombinedFilterIntersection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	const n = 350
	writeTradesForRead(t, path, n)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	base := testTrade(1).TsEventNs
	r.SetTimeRange(base, base+300)
	r.SetSeqRange(50, 150)

	count := 0
	for {
		ev, ok := r.Next()
		if !ok {
			break
		}
		if ev.Seq < 50 || ev.Seq > 150 {
			t.Fatalf("event with seq %d survived the [50,150] seq filter", ev.Seq)
		}
		count++
	}
	if count != 101 {
		t.Errorf("matched %d events, want 101 (seq 50..150 inclusive)", count)
	}
}

func TestReaderResetReplaysFromStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	writeTradesForRead(t, path, 20)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	first := 0
	for {
		if _, ok := r.Next(); !ok {
			break
		}
		first++
	}

	r.Reset()
	second := 0
	for {
		if _, ok := r.Next(); !ok {
			break
		}
		second++
	}

	if first != second {
		t.Errorf("replayed %d events after Reset, want %d", second, first)
	}
	if r.RowGroupsTouched() == 0 {
		t.Error("RowGroupsTouched() = 0 after Reset and a full re-scan")
	}
}

func TestReaderMetadataSurvivesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AAPL.parquet")
	writeTradesForRead(t, path, 5)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	defer r.Close()

	meta := r.GetMetadata()
	if !meta.WriteComplete {
		t.Error("GetMetadata().WriteComplete = false after a clean Close")
	}
	if meta.Symbol != "AAPL" || meta.Venue != "XNAS" || meta.Source != "feedA" {
		t.Errorf("GetMetadata() = %+v", meta)
	}
}
