// Package metadata defines the file-level provenance record embedded
// in the footer key-value metadata and its serialization to/from the
// string map a parquet footer carries.
package metadata

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
)

// SchemaVersion is the only schema version this module implements;
// there is no schema evolution path beyond v1.0.
const SchemaVersion = "1.0"

// NexusVersion is a build constant embedded in every file's footer.
const NexusVersion = "nexus-1.0"

// Record is the per-file provenance record embedded in the footer.
type Record struct {
	SchemaVersion   string
	NexusVersion    string
	IngestSessionID string
	FeedMode        string
	IngestStartNs   int64
	IngestEndNs     int64
	Symbol          string
	Venue           string
	Source          string
	IngestHost      string
	WriteComplete   bool
}

// New returns a Record with a fresh UUID v4 session id and the local
// hostname, ready to accrue bounds as events are appended.
func New() *Record {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return &Record{
		SchemaVersion:   SchemaVersion,
		NexusVersion:    NexusVersion,
		IngestSessionID: uuid.NewString(),
		IngestHost:      host,
	}
}

// Observe accrues the primary symbol/venue/source and the
// ingest_start_ns/ingest_end_ns bounds: set on the first append,
// widened on every subsequent one.
func (r *Record) Observe(tsEventNs int64, symbol, venue, source string) {
	if r.Symbol == "" && r.Venue == "" && r.Source == "" {
		r.Symbol, r.Venue, r.Source = symbol, venue, source
		r.IngestStartNs = tsEventNs
		r.IngestEndNs = tsEventNs
		return
	}
	if tsEventNs < r.IngestStartNs {
		r.IngestStartNs = tsEventNs
	}
	if tsEventNs > r.IngestEndNs {
		r.IngestEndNs = tsEventNs
	}
}

// Started reports whether Observe has accrued at least one event.
func (r *Record) Started() bool {
	return r.Symbol != "" || r.Venue != "" || r.Source != ""
}

// ToMap serializes the record into the footer's key-value string map.
func (r *Record) ToMap() map[string]string {
	return map[string]string{
		"schema_version":    r.SchemaVersion,
		"nexus_version":     r.NexusVersion,
		"ingest_session_id": r.IngestSessionID,
		"feed_mode":         r.FeedMode,
		"ingest_start_ns":   strconv.FormatInt(r.IngestStartNs, 10),
		"ingest_end_ns":     strconv.FormatInt(r.IngestEndNs, 10),
		"symbol":            r.Symbol,
		"venue":             r.Venue,
		"source":            r.Source,
		"ingest_host":       r.IngestHost,
		"write_complete":    strconv.FormatBool(r.WriteComplete),
	}
}

// FromMap parses a footer key-value string map back into a Record.
// Absent or malformed fields are left at their zero value rather than
// raised as errors — callers that care surface a MetadataAnomaly
// themselves.
func FromMap(m map[string]string) *Record {
	r := &Record{
		SchemaVersion:   m["schema_version"],
		NexusVersion:    m["nexus_version"],
		IngestSessionID: m["ingest_session_id"],
		FeedMode:        m["feed_mode"],
		Symbol:          m["symbol"],
		Venue:           m["venue"],
		Source:          m["source"],
		IngestHost:      m["ingest_host"],
	}
	r.IngestStartNs, _ = strconv.ParseInt(m["ingest_start_ns"], 10, 64)
	r.IngestEndNs, _ = strconv.ParseInt(m["ingest_end_ns"], 10, 64)
	r.WriteComplete, _ = strconv.ParseBool(m["write_complete"])
	return r
}

// String renders the record for diagnostics (used by cmd/nexus-verify).
func (r *Record) String() string {
	return fmt.Sprintf(
		"schema=%s nexus=%s session=%s feed_mode=%q symbol=%s venue=%s source=%s host=%s bounds=[%d,%d] write_complete=%t",
		r.SchemaVersion, r.NexusVersion, r.IngestSessionID, r.FeedMode,
		r.Symbol, r.Venue, r.Source, r.IngestHost,
		r.IngestStartNs, r.IngestEndNs, r.WriteComplete,
	)
}
