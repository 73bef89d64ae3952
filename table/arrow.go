package table

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/aalemi-dev/sliderule-go/record"
)

// ErrEmpty is returned by Build when there are no scalar columns.
var ErrEmpty = errors.New("no scalar columns to build")

// TimestampType is the Arrow type of TIME8 columns.
var TimestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

type column struct {
	name  string
	dtype arrow.DataType
}

// Build converts records into an Arrow record batch. Columns are the union of
// the records' scalar fields in first-seen order, typed by the first value
// seen: Int as int64, Uint as uint64, Float as float64, String as utf8 and
// Time as a UTC nanosecond timestamp. Missing or mistyped cells are null.
// Array and nested record fields are skipped. The caller releases the result.
func Build(mem memory.Allocator, recs []*record.Record) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	cols := columns(recs)
	if len(cols) == 0 {
		return nil, ErrEmpty
	}

	fields := make([]arrow.Field, len(cols))
	builders := make([]array.Builder, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.name, Type: c.dtype, Nullable: true}
		builders[i] = array.NewBuilder(mem, c.dtype)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for _, rec := range recs {
		for i, c := range cols {
			v, _ := rec.Get(c.name)
			if err := appendValue(builders[i], v); err != nil {
				return nil, fmt.Errorf("column %s: %w", c.name, err)
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = b.NewArray()
	}
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, arrays, int64(len(recs))), nil
}

func columns(recs []*record.Record) []column {
	var cols []column
	seen := make(map[string]struct{})
	for _, rec := range recs {
		for _, f := range rec.Fields {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			dtype := dataType(f.Value)
			if dtype == nil {
				continue
			}
			seen[f.Name] = struct{}{}
			cols = append(cols, column{name: f.Name, dtype: dtype})
		}
	}
	return cols
}

func dataType(v record.Value) arrow.DataType {
	switch v.(type) {
	case record.Int:
		return arrow.PrimitiveTypes.Int64
	case record.Uint:
		return arrow.PrimitiveTypes.Uint64
	case record.Float:
		return arrow.PrimitiveTypes.Float64
	case record.String:
		return arrow.BinaryTypes.String
	case record.Time:
		return TimestampType
	default:
		return nil
	}
}

func appendValue(b array.Builder, v record.Value) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.Int64Builder:
		if n, ok := v.(record.Int); ok {
			b.Append(int64(n))
			return nil
		}
	case *array.Uint64Builder:
		if n, ok := v.(record.Uint); ok {
			b.Append(uint64(n))
			return nil
		}
	case *array.Float64Builder:
		if f, ok := record.AsFloat(v); ok {
			b.Append(f)
			return nil
		}
	case *array.StringBuilder:
		if s, ok := v.(record.String); ok {
			b.Append(string(s))
			return nil
		}
	case *array.TimestampBuilder:
		if t, ok := v.(record.Time); ok {
			b.Append(arrow.Timestamp(t.UTC().UnixNano()))
			return nil
		}
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	b.AppendNull()
	return nil
}
