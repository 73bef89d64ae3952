package record_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aalemi-dev/sliderule-go/record"
)

func TestRecordAccessors(t *testing.T) {
	rec := &record.Record{Type: "logrec"}
	rec.Set("level", record.Int(2))
	rec.Set("message", record.String("hello"))
	rec.Set("level", record.Int(3))

	assert.Equal(t, 2, rec.Len())
	level, ok := rec.Int("level")
	assert.True(t, ok)
	assert.Equal(t, int64(3), level)

	msg, ok := rec.Text("message")
	assert.True(t, ok)
	assert.Equal(t, "hello", msg)

	_, ok = rec.Float("missing")
	assert.False(t, ok)

	clone := rec.Clone()
	clone.Set("extra", record.Float(1.5))
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestRecordMap(t *testing.T) {
	rec := &record.Record{
		Type: "atl06rec",
		Fields: []record.Field{
			{Name: "a", Value: record.Int(42)},
			{Name: "arr", Value: record.Array{record.Float(1), record.Float(2)}},
		},
	}
	assert.Equal(t, map[string]interface{}{
		record.TypeKey: "atl06rec",
		"a":            int64(42),
		"arr":          []interface{}{1.0, 2.0},
	}, rec.Map())
}

func TestNilRecordIsEmpty(t *testing.T) {
	var rec *record.Record
	assert.Equal(t, 0, rec.Len())
	_, ok := rec.Get("x")
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "<nil>", record.FormatValue(nil))
	assert.Equal(t, "7", record.FormatValue(record.Uint(7)))
}

func TestAsIntRejectsOverflow(t *testing.T) {
	n, ok := record.AsInt(record.Uint(math.MaxInt64))
	assert.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64), n)

	_, ok = record.AsInt(record.Uint(math.MaxUint64))
	assert.False(t, ok)
	_, ok = record.AsInt(record.Time(uint64(math.MaxInt64) + 1))
	assert.False(t, ok)
}
