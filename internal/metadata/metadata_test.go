package metadata

import "testing"

func TestNewPopulatesSessionAndHost(t *testing.T) {
	r := New()
	if r.IngestSessionID == "" {
		t.Error("New() left IngestSessionID empty")
	}
	if r.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", r.SchemaVersion, SchemaVersion)
	}
	if r.Started() {
		t.Error("Started() = true for a fresh record")
	}
}

func TestObserveSetsBoundsOnFirstCall(t *testing.T) {
	r := New()
	r.Observe(1000, "AAPL", "XNAS", "feedA")

	if !r.Started() {
		t.Fatal("Started() = false after first Observe")
	}
	if r.Symbol != "AAPL" || r.Venue != "XNAS" || r.Source != "feedA" {
		t.Errorf("Observe() set Symbol=%q Venue=%q Source=%q", r.Symbol, r.Venue, r.Source)
	}
	if r.IngestStartNs != 1000 || r.IngestEndNs != 1000 {
		t.Errorf("Observe() bounds = [%d, %d], want [1000, 1000]", r.IngestStartNs, r.IngestEndNs)
	}
}

func TestObserveWidensBounds(t *testing.T) {
	r := New()
	r.Observe(1000, "AAPL", "XNAS", "feedA")
	r.Observe(500, "AAPL", "XNAS", "feedA")
	r.Observe(2000, "AAPL", "XNAS", "feedA")

	if r.IngestStartNs != 500 {
		t.Errorf("IngestStartNs = %d, want 500", r.IngestStartNs)
	}
	if r.IngestEndNs != 2000 {
		t.Errorf("IngestEndNs = %d, want 2000", r.IngestEndNs)
	}
}

func TestToMapFromMapRoundTrip(t *testing.T) {
	r := New()
	r.Observe(1000, "AAPL", "XNAS", "feedA")
	r.WriteComplete = true

	got := FromMap(r.ToMap())

	if got.SchemaVersion != r.SchemaVersion || got.IngestSessionID != r.IngestSessionID {
		t.Errorf("FromMap(ToMap()) lost identity fields: %+v", got)
	}
	if got.IngestStartNs != r.IngestStartNs || got.IngestEndNs != r.IngestEndNs {
		t.Errorf("FromMap(ToMap()) bounds = [%d, %d], want [%d, %d]",
			got.IngestStartNs, got.IngestEndNs, r.IngestStartNs, r.IngestEndNs)
	}
	if got.WriteComplete != true {
		t.Error("FromMap(ToMap()) lost write_complete=true")
	}
}

func TestFromMapOnEmptyMapLeavesZeroValues(t *testing.T) {
	got := FromMap(map[string]string{})
	if got.WriteComplete {
		t.Error("FromMap({}) WriteComplete = true, want false")
	}
	if got.IngestStartNs != 0 || got.IngestEndNs != 0 {
		t.Errorf("FromMap({}) bounds = [%d, %d], want [0, 0]", got.IngestStartNs, got.IngestEndNs)
	}
}
