package store

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/skywalkerx28/nexus/internal/event"
)

// colIdx caches the declaration-order column indices this package
// needs for decoding, derived once from event.ColumnOrdinal rather
// than hand-maintained constants.
type colIdx struct {
	tsEventNs, tsReceiveNs, tsMonotonicNs, eventType int
	venue, symbol, source, seq                       int

	side, price, size, level, op                       int
	priceDecimal, sizeDecimal                          int
	aggressor, orderID, state, filled, filledDecimal   int
	reason                                              int
	tsOpenNs, tsCloseNs                                 int
	open, high, low, close                              int
	openDecimal, highDecimal, lowDecimal, closeDecimal  int
	volume, volumeDecimal                               int
}

var columns = func() colIdx {
	c := colIdx{}
	o := event.ColumnOrdinal
	c.tsEventNs, c.tsReceiveNs, c.tsMonotonicNs = o("ts_event_ns"), o("ts_receive_ns"), o("ts_monotonic_ns")
	c.eventType, c.venue, c.symbol, c.source, c.seq = o("event_type"), o("venue"), o("symbol"), o("source"), o("seq")
	c.side, c.price, c.size, c.level, c.op = o("side"), o("price"), o("size"), o("level"), o("op")
	c.priceDecimal, c.sizeDecimal = o("price_decimal"), o("size_decimal")
	c.aggressor, c.orderID, c.state, c.filled, c.filledDecimal = o("aggressor"), o("order_id"), o("state"), o("filled"), o("filled_decimal")
	c.reason = o("reason")
	c.tsOpenNs, c.tsCloseNs = o("ts_open_ns"), o("ts_close_ns")
	c.open, c.high, c.low, c.close = o("open"), o("high"), o("low"), o("close")
	c.openDecimal, c.highDecimal, c.lowDecimal, c.closeDecimal = o("open_decimal"), o("high_decimal"), o("low_decimal"), o("close_decimal")
	c.volume, c.volumeDecimal = o("volume"), o("volume_decimal")
	return c
}()

func i8(v parquet.Value) int8    { return int8(v.Int32()) }
func u32(v parquet.Value) uint32 { return uint32(v.Int32()) }
func u64(v parquet.Value) uint64 { return uint64(v.Int64()) }

func fixed16(v parquet.Value) *[16]byte {
	if v.IsNull() {
		return nil
	}
	b := v.ByteArray()
	var out [16]byte
	copy(out[:], b)
	return &out
}

func optF64(v parquet.Value) *float64 {
	if v.IsNull() {
		return nil
	}
	f := v.Double()
	return &f
}

func optI64(v parquet.Value) *int64 {
	if v.IsNull() {
		return nil
	}
	i := v.Int64()
	return &i
}

func optI8(v parquet.Value) *int8 {
	if v.IsNull() {
		return nil
	}
	i := i8(v)
	return &i
}

func optU32(v parquet.Value) *uint32 {
	if v.IsNull() {
		return nil
	}
	i := u32(v)
	return &i
}

func optStr(v parquet.Value) *string {
	if v.IsNull() {
		return nil
	}
	s := v.String()
	return &s
}

// decodeRow reconstructs an event.Row from one flat parquet row. Only
// the columns the row's event_type requires are read — invariant 2
// guarantees every other variant column is null.
func decodeRow(pr parquet.Row) (*event.Row, error) {
	r := &event.Row{
		TsEventNs:     pr[columns.tsEventNs].Int64(),
		TsReceiveNs:   pr[columns.tsReceiveNs].Int64(),
		TsMonotonicNs: pr[columns.tsMonotonicNs].Int64(),
		EventType:     i8(pr[columns.eventType]),
		Venue:         pr[columns.venue].String(),
		Symbol:        pr[columns.symbol].String(),
		Source:        pr[columns.source].String(),
		Seq:           u64(pr[columns.seq]),
	}

	switch event.Type(r.EventType) {
	case event.TypeDepthUpdate:
		r.Side = optI8(pr[columns.side])
		r.Price = optF64(pr[columns.price])
		r.Size = optF64(pr[columns.size])
		r.Level = optU32(pr[columns.level])
		r.Op = optI8(pr[columns.op])
		r.PriceDecimal = fixed16(pr[columns.priceDecimal])
		r.SizeDecimal = fixed16(pr[columns.sizeDecimal])

	case event.TypeTrade:
		r.Price = optF64(pr[columns.price])
		r.Size = optF64(pr[columns.size])
		r.Aggressor = optI8(pr[columns.aggressor])
		r.PriceDecimal = fixed16(pr[columns.priceDecimal])
		r.SizeDecimal = fixed16(pr[columns.sizeDecimal])

	case event.TypeOrder:
		r.OrderID = optStr(pr[columns.orderID])
		r.State = optI8(pr[columns.state])
		r.Price = optF64(pr[columns.price])
		r.Size = optF64(pr[columns.size])
		r.Filled = optF64(pr[columns.filled])
		r.Reason = optStr(pr[columns.reason])
		r.PriceDecimal = fixed16(pr[columns.priceDecimal])
		r.SizeDecimal = fixed16(pr[columns.sizeDecimal])
		r.FilledDecimal = fixed16(pr[columns.filledDecimal])

	case event.TypeBar:
		r.TsOpenNs = optI64(pr[columns.tsOpenNs])
		r.TsCloseNs = optI64(pr[columns.tsCloseNs])
		r.Open = optF64(pr[columns.open])
		r.High = optF64(pr[columns.high])
		r.Low = optF64(pr[columns.low])
		r.Close = optF64(pr[columns.close])
		r.Volume = optF64(pr[columns.volume])
		r.OpenDecimal = fixed16(pr[columns.openDecimal])
		r.HighDecimal = fixed16(pr[columns.highDecimal])
		r.LowDecimal = fixed16(pr[columns.lowDecimal])
		r.CloseDecimal = fixed16(pr[columns.closeDecimal])
		r.VolumeDecimal = fixed16(pr[columns.volumeDecimal])

	case event.TypeHeartbeat:
		// Header only.

	default:
		return nil, fmt.Errorf("store: unknown event_type %d: %w", r.EventType, ErrDecode)
	}

	return r, nil
}
