package store

import (
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/parquet-go/parquet-go/format"
)

// zstdCodec implements parquet-go's compress.Codec directly on top of
// klauspost/compress/zstd, rather than relying on the codec bundled
// with the parquet library, so the configured compression level is
// explicit rather than whatever default the library ships.
// klauspost/compress/zstd exposes named speed tiers instead of the
// reference encoder's numeric 1-22 levels; EncoderLevelFromZstd maps
// an operator-supplied level onto the nearest tier.
type zstdCodec struct {
	level zstd.EncoderLevel
}

// newZstdCodec builds a codec at the given reference zstd level
// (config.EngineConfig.CompressionLevel), defaulting to level 3 when
// level is non-positive.
func newZstdCodec(level int) *zstdCodec {
	if level <= 0 {
		level = 3
	}
	return &zstdCodec{level: zstd.EncoderLevelFromZstd(level)}
}

func (z *zstdCodec) String() string {
	return "zstd"
}

func (z *zstdCodec) CompressionCodec() format.CompressionCodec {
	return format.Zstd
}

func (z *zstdCodec) Encode(dst, src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, dst[:0]), nil
}

func (z *zstdCodec) Decode(dst, src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, dst[:0])
}

var _ compress.Codec = (*zstdCodec)(nil)
