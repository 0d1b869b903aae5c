package validate

import (
	"testing"

	"github.com/skywalkerx28/nexus/internal/event"
)

func validHeader() event.Header {
	return event.Header{
		TsEventNs:     MinWallNs + 1,
		TsReceiveNs:   MinWallNs + 1,
		TsMonotonicNs: 1,
		Venue:         "XNAS",
		Symbol:        "AAPL",
		Source:        "feedA",
		Seq:           1,
	}
}

func TestEventAcceptsValidTrade(t *testing.T) {
	e := event.NewTrade(validHeader(), event.Trade{Price: 100, Size: 1, Aggressor: event.AggressorBuy})
	if err := Event(e); err != nil {
		t.Fatalf("Event() = %v, want nil", err)
	}
}

func TestEventRejectsOutOfBoundsTimestamp(t *testing.T) {
	h := validHeader()
	h.TsEventNs = MinWallNs - 1
	e := event.NewTrade(h, event.Trade{Price: 100, Size: 1, Aggressor: event.AggressorBuy})
	if err := Event(e); err == nil {
		t.Fatal("Event() = nil, want error for out-of-bounds ts_event_ns")
	}
}

func TestEventRejectsZeroSeq(t *testing.T) {
	h := validHeader()
	h.Seq = 0
	e := event.NewTrade(h, event.Trade{Price: 100, Size: 1, Aggressor: event.AggressorBuy})
	if err := Event(e); err == nil {
		t.Fatal("Event() = nil, want error for seq == 0")
	}
}

func TestEventRejectsNonPositiveTradePrice(t *testing.T) {
	e := event.NewTrade(validHeader(), event.Trade{Price: 0, Size: 1, Aggressor: event.AggressorBuy})
	if err := Event(e); err == nil {
		t.Fatal("Event() = nil, want error for non-positive trade price")
	}
}

func TestEventAcceptsDepthDeleteWithZeroPrice(t *testing.T) {
	e := event.NewDepthUpdate(validHeader(), event.DepthUpdate{
		Side: event.SideBid, Price: 0, Size: 0, Level: 1, Op: event.DepthOpDelete,
	})
	if err := Event(e); err != nil {
		t.Fatalf("Event() = %v, want nil for depth delete with zero price", err)
	}
}

func TestEventRejectsOrderFilledExceedingSize(t *testing.T) {
	e := event.NewOrderEvent(validHeader(), event.OrderEvent{
		OrderID: "ord-1", State: event.OrderStateAck, Price: 10, Size: 1, Filled: 2,
	})
	if err := Event(e); err == nil {
		t.Fatal("Event() = nil, want error for filled > size")
	}
}

func TestEventRejectsBarWithLowAboveOpen(t *testing.T) {
	e := event.NewBar(validHeader(), event.Bar{
		TsOpenNs: 1, TsCloseNs: 2, Open: 10, High: 12, Low: 11, Close: 10, Volume: 1,
	})
	if err := Event(e); err == nil {
		t.Fatal("Event() = nil, want error for bar low above open")
	}
}

func TestEventAcceptsHeartbeat(t *testing.T) {
	e := event.NewHeartbeat(validHeader())
	if err := Event(e); err != nil {
		t.Fatalf("Event() = %v, want nil for heartbeat", err)
	}
}

func TestOrderingAcceptsFirstEvent(t *testing.T) {
	e := event.NewHeartbeat(validHeader())
	if err := Ordering(e, nil); err != nil {
		t.Fatalf("Ordering(e, nil) = %v, want nil", err)
	}
}

func TestOrderingRejectsMonotonicRegression(t *testing.T) {
	prev := event.NewHeartbeat(validHeader())
	h := validHeader()
	h.TsMonotonicNs = 0
	curr := event.NewHeartbeat(h)
	if err := Ordering(curr, prev); err == nil {
		t.Fatal("Ordering() = nil, want error for ts_monotonic_ns regression")
	}
}

func TestOrderingRejectsNonIncreasingSeqForSameSourceSymbol(t *testing.T) {
	prev := event.NewHeartbeat(validHeader())
	curr := event.NewHeartbeat(validHeader()) // identical seq, source, symbol
	if err := Ordering(curr, prev); err == nil {
		t.Fatal("Ordering() = nil, want error for non-increasing seq")
	}
}

func TestOrderingAllowsSeqResetForDifferentSourceSymbol(t *testing.T) {
	prev := event.NewHeartbeat(validHeader())
	h := validHeader()
	h.Symbol = "MSFT"
	h.Seq = 1
	curr := event.NewHeartbeat(h)
	if err := Ordering(curr, prev); err != nil {
		t.Fatalf("Ordering() = %v, want nil across different (source, symbol)", err)
	}
}
