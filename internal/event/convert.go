package event

import "github.com/skywalkerx28/nexus/internal/decimal"

// ToRow converts a validated Event into its on-disk Row. Exactly the
// non-null columns the event's Type requires are populated; every
// other variant column is left nil.
func ToRow(e *Event) Row {
	r := Row{
		TsEventNs:     e.TsEventNs,
		TsReceiveNs:   e.TsReceiveNs,
		TsMonotonicNs: e.TsMonotonicNs,
		EventType:     int8(e.Type),
		Venue:         e.Venue,
		Symbol:        e.Symbol,
		Source:        e.Source,
		Seq:           e.Seq,
	}

	switch e.Type {
	case TypeDepthUpdate:
		d := e.Depth
		side, op := int8(d.Side), int8(d.Op)
		priceDec := decimal.ToDecimal128(d.Price, decimal.PriceScale)
		sizeDec := decimal.ToDecimal128(d.Size, decimal.SizeScale)
		r.Side = &side
		r.Price = &d.Price
		r.Size = &d.Size
		r.Level = &d.Level
		r.Op = &op
		r.PriceDecimal = &priceDec
		r.SizeDecimal = &sizeDec

	case TypeTrade:
		t := e.Trade
		aggressor := int8(t.Aggressor)
		priceDec := decimal.ToDecimal128(t.Price, decimal.PriceScale)
		sizeDec := decimal.ToDecimal128(t.Size, decimal.SizeScale)
		r.Price = &t.Price
		r.Size = &t.Size
		r.Aggressor = &aggressor
		r.PriceDecimal = &priceDec
		r.SizeDecimal = &sizeDec

	case TypeOrder:
		o := e.Order
		state := int8(o.State)
		priceDec := decimal.ToDecimal128(o.Price, decimal.PriceScale)
		sizeDec := decimal.ToDecimal128(o.Size, decimal.SizeScale)
		filledDec := decimal.ToDecimal128(o.Filled, decimal.SizeScale)
		r.OrderID = &o.OrderID
		r.State = &state
		r.Price = &o.Price
		r.Size = &o.Size
		r.Filled = &o.Filled
		r.Reason = &o.Reason
		r.PriceDecimal = &priceDec
		r.SizeDecimal = &sizeDec
		r.FilledDecimal = &filledDec

	case TypeBar:
		b := e.Bar
		openDec := decimal.ToDecimal128(b.Open, decimal.PriceScale)
		highDec := decimal.ToDecimal128(b.High, decimal.PriceScale)
		lowDec := decimal.ToDecimal128(b.Low, decimal.PriceScale)
		closeDec := decimal.ToDecimal128(b.Close, decimal.PriceScale)
		volumeDec := decimal.ToDecimal128(b.Volume, decimal.SizeScale)
		r.TsOpenNs = &b.TsOpenNs
		r.TsCloseNs = &b.TsCloseNs
		r.Open = &b.Open
		r.High = &b.High
		r.Low = &b.Low
		r.Close = &b.Close
		r.Volume = &b.Volume
		r.OpenDecimal = &openDec
		r.HighDecimal = &highDec
		r.LowDecimal = &lowDec
		r.CloseDecimal = &closeDec
		r.VolumeDecimal = &volumeDec

	case TypeHeartbeat:
		// Header only; no variant columns.
	}

	return r
}

// FromRow reconstructs an Event from a decoded Row. It trusts the
// Row's event_type tag over which variant columns happen to be
// populated (event_type is the authoritative tag).
func FromRow(r *Row) *Event {
	h := Header{
		TsEventNs:     r.TsEventNs,
		TsReceiveNs:   r.TsReceiveNs,
		TsMonotonicNs: r.TsMonotonicNs,
		Venue:         r.Venue,
		Symbol:        r.Symbol,
		Source:        r.Source,
		Seq:           r.Seq,
	}
	e := &Event{Header: h, Type: Type(r.EventType)}

	switch e.Type {
	case TypeDepthUpdate:
		e.Depth = &DepthUpdate{
			Side:  Side(deref(r.Side)),
			Price: deref(r.Price),
			Size:  deref(r.Size),
			Level: deref(r.Level),
			Op:    DepthOp(deref(r.Op)),
		}
	case TypeTrade:
		e.Trade = &Trade{
			Price:     deref(r.Price),
			Size:      deref(r.Size),
			Aggressor: Aggressor(deref(r.Aggressor)),
		}
	case TypeOrder:
		e.Order = &OrderEvent{
			OrderID: deref(r.OrderID),
			State:   OrderState(deref(r.State)),
			Price:   deref(r.Price),
			Size:    deref(r.Size),
			Filled:  deref(r.Filled),
			Reason:  deref(r.Reason),
		}
	case TypeBar:
		e.Bar = &Bar{
			TsOpenNs:  deref(r.TsOpenNs),
			TsCloseNs: deref(r.TsCloseNs),
			Open:      deref(r.Open),
			High:      deref(r.High),
			Low:       deref(r.Low),
			Close:     deref(r.Close),
			Volume:    deref(r.Volume),
		}
	case TypeHeartbeat:
		// Header only.
	}

	return e
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
