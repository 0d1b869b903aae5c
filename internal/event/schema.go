package event

import "reflect"

// Row is the on-disk schema (v1.0): one flat parquet
// schema with nullable variant-specific columns. Field order here is
// the authoritative column order — see columnIndex below.
//
// The *_decimal columns are stored as plain 16-byte fixed-length byte
// arrays (decimal128's physical representation): a big-endian two's
// complement integer, scaled by 10^6 for prices and 10^3 for
// sizes/volumes. See internal/decimal for the scale table.
type Row struct {
	TsEventNs     int64  `parquet:"ts_event_ns"`
	TsReceiveNs   int64  `parquet:"ts_receive_ns"`
	TsMonotonicNs int64  `parquet:"ts_monotonic_ns"`
	EventType     int8   `parquet:"event_type"`
	Venue         string `parquet:"venue,dict"`
	Symbol        string `parquet:"symbol,dict"`
	Source        string `parquet:"source,dict"`
	Seq           uint64 `parquet:"seq"`

	Side  *int8    `parquet:"side,optional"`
	Price *float64 `parquet:"price,optional"`
	Size  *float64 `parquet:"size,optional"`
	Level *uint32  `parquet:"level,optional"`
	Op    *int8    `parquet:"op,optional"`

	PriceDecimal *[16]byte `parquet:"price_decimal,optional"`
	SizeDecimal  *[16]byte `parquet:"size_decimal,optional"`

	Aggressor *int8   `parquet:"aggressor,optional"`
	OrderID   *string `parquet:"order_id,optional,dict"`
	State     *int8   `parquet:"state,optional"`
	Filled    *float64 `parquet:"filled,optional"`

	FilledDecimal *[16]byte `parquet:"filled_decimal,optional"`

	Reason *string `parquet:"reason,optional"`

	TsOpenNs  *int64 `parquet:"ts_open_ns,optional"`
	TsCloseNs *int64 `parquet:"ts_close_ns,optional"`

	Open  *float64 `parquet:"open,optional"`
	High  *float64 `parquet:"high,optional"`
	Low   *float64 `parquet:"low,optional"`
	Close *float64 `parquet:"close,optional"`

	OpenDecimal  *[16]byte `parquet:"open_decimal,optional"`
	HighDecimal  *[16]byte `parquet:"high_decimal,optional"`
	LowDecimal   *[16]byte `parquet:"low_decimal,optional"`
	CloseDecimal *[16]byte `parquet:"close_decimal,optional"`

	Volume        *float64  `parquet:"volume,optional"`
	VolumeDecimal *[16]byte `parquet:"volume_decimal,optional"`
}

// ColumnNames lists the schema's columns in declaration order. Column
// indices used by the reader for statistics lookup are derived from
// this order via reflection, not hardcoded, so a future column
// addition never needs a parallel constant table kept in sync by hand.
var ColumnNames = columnIndex()

func columnIndex() []string {
	t := reflect.TypeOf(Row{})
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("parquet")
		name := tag
		for j := 0; j < len(tag); j++ {
			if tag[j] == ',' {
				name = tag[:j]
				break
			}
		}
		names = append(names, name)
	}
	return names
}

// ColumnOrdinal returns the declaration-order index of a column name,
// or -1 if the schema has no such column.
func ColumnOrdinal(name string) int {
	for i, n := range ColumnNames {
		if n == name {
			return i
		}
	}
	return -1
}
