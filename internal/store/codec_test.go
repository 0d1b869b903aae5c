package store

import (
	"bytes"
	"testing"

	"github.com/parquet-go/parquet-go/format"
)

func TestZstdCodecReportsZstdCompressionCodec(t *testing.T) {
	c := newZstdCodec(3)
	if c.CompressionCodec() != format.Zstd {
		t.Errorf("CompressionCodec() = %v, want Zstd", c.CompressionCodec())
	}
}

func TestZstdCodecDefaultsNonPositiveLevel(t *testing.T) {
	def := newZstdCodec(3)
	zero := newZstdCodec(0)
	if zero.level != def.level {
		t.Errorf("newZstdCodec(0).level = %v, want same as newZstdCodec(3).level = %v", zero.level, def.level)
	}
}

func TestZstdCodecEncodeDecodeRoundTrip(t *testing.T) {
	c := newZstdCodec(3)
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 100)

	encoded, err := c.Encode(nil, src)
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if len(encoded) >= len(src) {
		t.Errorf("Encode() produced %d bytes, want smaller than input %d", len(encoded), len(src))
	}

	decoded, err := c.Decode(nil, encoded)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if !bytes.Equal(decoded, src) {
		t.Error("Decode(Encode(src)) != src")
	}
}
