// Package validate implements the pure per-event predicate and the
// pairwise ordering check. Each failure returns a single descriptive
// error for the first check that failed; checks run in a fixed order.
package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/skywalkerx28/nexus/internal/event"
)

// Wall-clock bounds: events outside this window are rejected.
var (
	MinWallNs = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano()
	MaxWallNs = time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano()
)

const maxClockSkewNs = int64(60 * time.Second)

// Event validates a single event in isolation. It returns nil when the
// event satisfies every header and variant-specific check.
func Event(e *event.Event) error {
	if err := header(&e.Header); err != nil {
		return err
	}
	switch e.Type {
	case event.TypeDepthUpdate:
		return depthUpdate(e.Depth)
	case event.TypeTrade:
		return trade(e.Trade)
	case event.TypeOrder:
		return orderEvent(e.Order)
	case event.TypeBar:
		return bar(e.Bar)
	case event.TypeHeartbeat:
		return nil
	default:
		return fmt.Errorf("validate: unknown event type %d", e.Type)
	}
}

func header(h *event.Header) error {
	if h.TsEventNs < MinWallNs || h.TsEventNs > MaxWallNs {
		return fmt.Errorf("validate: ts_event_ns %d out of bounds [%d, %d]", h.TsEventNs, MinWallNs, MaxWallNs)
	}
	if h.TsReceiveNs < MinWallNs || h.TsReceiveNs > MaxWallNs {
		return fmt.Errorf("validate: ts_receive_ns %d out of bounds [%d, %d]", h.TsReceiveNs, MinWallNs, MaxWallNs)
	}
	if h.TsReceiveNs < h.TsEventNs-maxClockSkewNs {
		return fmt.Errorf("validate: ts_receive_ns %d precedes ts_event_ns %d by more than allowed skew", h.TsReceiveNs, h.TsEventNs)
	}
	if h.Seq == 0 {
		return fmt.Errorf("validate: seq must be > 0")
	}
	if h.Venue == "" {
		return fmt.Errorf("validate: venue must be non-empty")
	}
	if h.Symbol == "" {
		return fmt.Errorf("validate: symbol must be non-empty")
	}
	if h.Source == "" {
		return fmt.Errorf("validate: source must be non-empty")
	}
	return nil
}

func depthUpdate(d *event.DepthUpdate) error {
	if d.Level >= 1000 {
		return fmt.Errorf("validate: depth level %d must be < 1000", d.Level)
	}
	if d.Op == event.DepthOpDelete {
		if d.Price < 0 || !finite(d.Price) {
			return fmt.Errorf("validate: depth delete price %v must be >= 0 and finite", d.Price)
		}
	} else {
		if d.Price <= 0 || !finite(d.Price) {
			return fmt.Errorf("validate: depth price %v must be > 0 and finite", d.Price)
		}
	}
	if d.Size < 0 || !finite(d.Size) {
		return fmt.Errorf("validate: depth size %v must be >= 0 and finite", d.Size)
	}
	return nil
}

func trade(t *event.Trade) error {
	if t.Price <= 0 || !finite(t.Price) {
		return fmt.Errorf("validate: trade price %v must be > 0 and finite", t.Price)
	}
	if t.Size <= 0 || !finite(t.Size) {
		return fmt.Errorf("validate: trade size %v must be > 0 and finite", t.Size)
	}
	return nil
}

func orderEvent(o *event.OrderEvent) error {
	if o.OrderID == "" {
		return fmt.Errorf("validate: order_id must be non-empty")
	}
	if o.Price < 0 || !finite(o.Price) {
		return fmt.Errorf("validate: order price %v must be >= 0 and finite", o.Price)
	}
	if o.Size <= 0 || !finite(o.Size) {
		return fmt.Errorf("validate: order size %v must be > 0 and finite", o.Size)
	}
	if o.Filled < 0 || !finite(o.Filled) {
		return fmt.Errorf("validate: order filled %v must be >= 0 and finite", o.Filled)
	}
	if o.Filled > o.Size {
		return fmt.Errorf("validate: order filled %v exceeds size %v", o.Filled, o.Size)
	}
	return nil
}

func bar(b *event.Bar) error {
	if b.TsCloseNs <= b.TsOpenNs {
		return fmt.Errorf("validate: bar ts_close_ns %d must be > ts_open_ns %d", b.TsCloseNs, b.TsOpenNs)
	}
	if b.Open <= 0 || !finite(b.Open) {
		return fmt.Errorf("validate: bar open %v must be > 0 and finite", b.Open)
	}
	if b.High <= 0 || !finite(b.High) {
		return fmt.Errorf("validate: bar high %v must be > 0 and finite", b.High)
	}
	if b.Low <= 0 || !finite(b.Low) {
		return fmt.Errorf("validate: bar low %v must be > 0 and finite", b.Low)
	}
	if b.Close <= 0 || !finite(b.Close) {
		return fmt.Errorf("validate: bar close %v must be > 0 and finite", b.Close)
	}
	if b.Low > b.Open {
		return fmt.Errorf("validate: bar low %v must be <= open %v", b.Low, b.Open)
	}
	if b.Low > b.Close {
		return fmt.Errorf("validate: bar low %v must be <= close %v", b.Low, b.Close)
	}
	if b.High < b.Open {
		return fmt.Errorf("validate: bar high %v must be >= open %v", b.High, b.Open)
	}
	if b.High < b.Close {
		return fmt.Errorf("validate: bar high %v must be >= close %v", b.High, b.Close)
	}
	if b.High < b.Low {
		return fmt.Errorf("validate: bar high %v must be >= low %v", b.High, b.Low)
	}
	if b.Volume < 0 || !finite(b.Volume) {
		return fmt.Errorf("validate: bar volume %v must be >= 0 and finite", b.Volume)
	}
	return nil
}

// Ordering checks the pairwise predicate between a candidate event and
// the previous one accepted into the same file. prev may be nil, in
// which case there is nothing to check against.
func Ordering(curr, prev *event.Event) error {
	if prev == nil {
		return nil
	}
	if curr.TsMonotonicNs < prev.TsMonotonicNs {
		return fmt.Errorf("validate: ts_monotonic_ns %d precedes previous %d", curr.TsMonotonicNs, prev.TsMonotonicNs)
	}
	if curr.Source == prev.Source && curr.Symbol == prev.Symbol {
		if curr.Seq <= prev.Seq {
			return fmt.Errorf("validate: seq %d does not strictly increase over previous %d for (%s, %s)", curr.Seq, prev.Seq, curr.Source, curr.Symbol)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
