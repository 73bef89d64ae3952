package record_test

import (
	"context"
	"encoding/binary"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/sliderule-go/record"
	"github.com/aalemi-dev/sliderule-go/schema"
	"github.com/aalemi-dev/sliderule-go/stream"
)

func newRegistry(t *testing.T, schemas ...*schema.RecordSchema) *schema.Registry {
	t.Helper()
	registry := schema.NewRegistry(nil)
	for _, s := range schemas {
		require.NoError(t, registry.Add(s))
	}
	return registry
}

func field(name, typ string, offset, elements int, flags ...string) schema.FieldDescriptor {
	return schema.FieldDescriptor{
		Name:     name,
		Type:     typ,
		Base:     schema.ParseBaseType(typ),
		Offset:   offset,
		Elements: elements,
		Flags:    flags,
	}
}

func TestDecodeScalarAndByteOrder(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name: "pair",
		Fields: []schema.FieldDescriptor{
			field("be", "UINT16", 0, 1),
			field("le", "UINT16", 16, 1, "LE"),
			field("neg", "INT32", 32, 1, "LE"),
			field("h", "DOUBLE", 64, 1, "LE"),
		},
	})

	buf := make([]byte, 16)
	binary.BigEndian.PutUint16(buf[0:], 0x0102)
	binary.LittleEndian.PutUint16(buf[2:], 0x0102)
	binary.LittleEndian.PutUint32(buf[4:], uint32(0xFFFFFFFE))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(1234.5))

	rec := record.NewDecoder(registry).Decode(context.Background(), "pair", buf)
	require.Equal(t, "pair", rec.Type)
	assert.Equal(t, []string{"be", "le", "neg", "h"}, rec.Names())

	be, _ := rec.Get("be")
	le, _ := rec.Get("le")
	assert.Equal(t, record.Uint(0x0102), be)
	assert.Equal(t, record.Uint(0x0102), le)

	neg, _ := rec.Int("neg")
	assert.Equal(t, int64(-2), neg)

	h, _ := rec.Float("h")
	assert.Equal(t, 1234.5, h)
}

func TestDecodeArrays(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name: "arrays",
		Fields: []schema.FieldDescriptor{
			field("fixed", "UINT8", 0, 5),
			field("rest", "INT16", 40, 0, "LE"),
		},
	})

	// five fixed bytes, then 7 bytes: three INT16 plus one byte of padding
	buf := []byte{1, 2, 3, 4, 5, 0x01, 0x00, 0x02, 0x00, 0xFF, 0xFF, 0xAA}
	rec := record.NewDecoder(registry).Decode(context.Background(), "arrays", buf)

	fixed, ok := rec.Get("fixed")
	require.True(t, ok)
	assert.Equal(t, record.Array{record.Uint(1), record.Uint(2), record.Uint(3), record.Uint(4), record.Uint(5)}, fixed)

	rest, ok := rec.Get("rest")
	require.True(t, ok)
	assert.Equal(t, record.Array{record.Int(1), record.Int(2), record.Int(-1)}, rest)
}

func TestDecodeStringTrimsAtNul(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name: "named",
		Fields: []schema.FieldDescriptor{
			field("fixed", "STRING", 0, 8),
			field("tail", "STRING", 64, 0),
		},
	})

	buf := append([]byte("abc\x00zzzz"), []byte("granule.h5\x00\x00")...)
	rec := record.NewDecoder(registry).Decode(context.Background(), "named", buf)

	fixed, _ := rec.Text("fixed")
	tail, _ := rec.Text("tail")
	assert.Equal(t, "abc", fixed)
	assert.Equal(t, "granule.h5", tail)
}

func TestDecodeOmitsBadFields(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name: "mixed",
		Fields: []schema.FieldDescriptor{
			field("ok", "UINT8", 0, 1),
			field("bits", "BITFIELD", 8, 1),
			field("misaligned", "UINT8", 12, 1),
			field("ptr", "UINT64", 16, 1, "PTR"),
			field("beyond", "UINT64", 64, 1),
			field("last", "UINT8", 8, 1),
		},
	})

	rec := record.NewDecoder(registry).Decode(context.Background(), "mixed", []byte{7, 9, 0, 0})
	assert.Equal(t, []string{"ok", "last"}, rec.Names())
}

func TestDecodeUnknownTypeKeepsTag(t *testing.T) {
	rec := record.NewDecoder(newRegistry(t)).Decode(context.Background(), "mystery", []byte{1, 2, 3})
	assert.Equal(t, "mystery", rec.Type)
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, map[string]interface{}{record.TypeKey: "mystery"}, rec.Map())
}

func TestDecodeNestedStriding(t *testing.T) {
	registry := newRegistry(t,
		&schema.RecordSchema{
			Name:     "elev",
			DataSize: 4,
			Fields: []schema.FieldDescriptor{
				field("id", "UINT16", 0, 1, "LE"),
				field("h", "INT16", 16, 1, "LE"),
			},
		},
		&schema.RecordSchema{
			Name: "batch",
			Fields: []schema.FieldDescriptor{
				field("count", "UINT16", 0, 1, "LE"),
				field("elevation", "elev", 16, 0),
			},
		},
	)

	buf := []byte{
		3, 0,
		1, 0, 10, 0,
		2, 0, 20, 0,
		3, 0, 0xF6, 0xFF,
		0xEE, // trailing remainder dropped
	}
	rec := record.NewDecoder(registry).Decode(context.Background(), "batch", buf)

	rows := rec.Records("elevation")
	require.Len(t, rows, 3)
	for i, row := range rows {
		assert.Equal(t, "elev", row.Type)
		id, _ := row.Int("id")
		assert.Equal(t, int64(i+1), id)
	}
	h, _ := rows[2].Int("h")
	assert.Equal(t, int64(-10), h)
}

func TestDecodeSingleNestedRecord(t *testing.T) {
	registry := newRegistry(t,
		&schema.RecordSchema{Name: "inner", Fields: []schema.FieldDescriptor{field("v", "UINT8", 0, 1)}},
		&schema.RecordSchema{Name: "outer", Fields: []schema.FieldDescriptor{
			field("a", "UINT8", 0, 1),
			field("in", "inner", 8, 1),
		}},
	)
	rec := record.NewDecoder(registry).Decode(context.Background(), "outer", []byte{1, 42})

	m := rec.Map()
	assert.Equal(t, "outer", m[record.TypeKey])
	assert.Equal(t, map[string]interface{}{record.TypeKey: "inner", "v": uint64(42)}, m["in"])
}

func TestDecodeNestedArrayWithoutDataSizeIsOmitted(t *testing.T) {
	registry := newRegistry(t,
		&schema.RecordSchema{Name: "inner", Fields: []schema.FieldDescriptor{field("v", "UINT8", 0, 1)}},
		&schema.RecordSchema{Name: "outer", Fields: []schema.FieldDescriptor{
			field("a", "UINT8", 0, 1),
			field("in", "inner", 8, 0),
		}},
	)
	rec := record.NewDecoder(registry).Decode(context.Background(), "outer", []byte{1, 2, 3})
	assert.Equal(t, []string{"a"}, rec.Names())
}

func TestDecodeUnknownSingleNestedIsOmitted(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{Name: "outer", Fields: []schema.FieldDescriptor{
		field("a", "UINT8", 0, 1),
		field("in", "missingrec", 8, 1),
	}})
	rec := record.NewDecoder(registry).Decode(context.Background(), "outer", []byte{1, 2})

	assert.Equal(t, []string{"a"}, rec.Names())
	assert.Equal(t, map[string]interface{}{record.TypeKey: "outer", "a": uint64(1)}, rec.Map())
}

func TestDecodeHugeElementCountIsOmitted(t *testing.T) {
	registry := newRegistry(t,
		&schema.RecordSchema{Name: "inner", DataSize: 8, Fields: []schema.FieldDescriptor{field("v", "UINT64", 0, 1)}},
		&schema.RecordSchema{Name: "wide", Fields: []schema.FieldDescriptor{
			field("first", "UINT8", 0, 1),
			field("values", "UINT64", 0, 1<<61),
			field("rows", "inner", 0, 1<<61),
			field("name", "STRING", 0, math.MaxInt),
		}},
	)

	var rec *record.Record
	require.NotPanics(t, func() {
		rec = record.NewDecoder(registry).Decode(context.Background(), "wide", make([]byte, 8))
	})
	assert.Equal(t, []string{"first"}, rec.Names())
}

func TestDecodeTestrecScenario(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name:     "testrec",
		DataSize: 12,
		Fields: []schema.FieldDescriptor{
			field("a", "INT32", 0, 1),
			field("b", "DOUBLE", 32, 1),
		},
	})

	payload := make([]byte, 12)
	binary.BigEndian.PutUint32(payload[0:], 42)
	binary.BigEndian.PutUint64(payload[4:], math.Float64bits(3.14))
	wire, err := stream.AppendRecord(nil, stream.WireRecord{Type: "testrec", Payload: payload})
	require.NoError(t, err)

	recs, err := stream.NewFramer(0).Feed(wire)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := record.NewDecoder(registry).Decode(context.Background(), recs[0].Type, recs[0].Payload)
	assert.Equal(t, map[string]interface{}{
		record.TypeKey: "testrec",
		"a":            int64(42),
		"b":            3.14,
	}, rec.Map())
}

func TestDecodeDepthBound(t *testing.T) {
	registry := newRegistry(t, &schema.RecordSchema{
		Name:   "loop",
		Fields: []schema.FieldDescriptor{field("self", "loop", 0, 1)},
	})

	rec := record.NewDecoder(registry).WithMaxDepth(3).Decode(context.Background(), "loop", []byte{0})
	depth := 0
	for {
		nested := rec.Records("self")
		if len(nested) == 0 {
			break
		}
		rec = nested[0]
		depth++
	}
	assert.Equal(t, 4, depth)
}

func TestDecodeCacheHitAvoidsResolution(t *testing.T) {
	var calls atomic.Int32
	registry := schema.NewRegistry(schema.ResolverFunc(func(_ context.Context, name string) (*schema.RecordSchema, error) {
		calls.Add(1)
		return &schema.RecordSchema{Name: name, Fields: []schema.FieldDescriptor{field("v", "UINT8", 0, 1)}}, nil
	}))
	decoder := record.NewDecoder(registry)

	decoder.Decode(context.Background(), "logrec", []byte{1})
	decoder.Decode(context.Background(), "logrec", []byte{2})
	assert.Equal(t, int32(1), calls.Load())
}

func TestTimeUTC(t *testing.T) {
	assert.Equal(t, record.GPSEpoch.Add(-18*time.Second), record.Time(0).UTC())

	// 2020-01-01T00:00:00Z is 1261872018 GPS seconds.
	ts := record.Time(uint64(1261872018) * uint64(time.Second))
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), ts.UTC())
	assert.Equal(t, 1261872018.0, ts.GPSSeconds())
}
