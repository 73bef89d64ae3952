package record

import (
	"fmt"
	"math"
	"time"
)

// Value is one decoded field value. The concrete types are Int, Uint, Float,
// String, Time, Array and *Record.
type Value interface {
	// Interface converts the value to plain Go types for encoding.
	Interface() interface{}
	isValue()
}

type (
	// Int holds every signed integer width.
	Int int64
	// Uint holds every unsigned integer width.
	Uint uint64
	// Float holds FLOAT and DOUBLE fields.
	Float float64
	// String holds a STRING field with padding removed.
	String string
	// Time is a TIME8 field: nanoseconds since the GPS epoch.
	Time uint64
	// Array holds fixed or variable length arrays.
	Array []Value
)

func (Int) isValue()     {}
func (Uint) isValue()    {}
func (Float) isValue()   {}
func (String) isValue()  {}
func (Time) isValue()    {}
func (Array) isValue()   {}
func (*Record) isValue() {}

func (v Int) Interface() interface{}    { return int64(v) }
func (v Uint) Interface() interface{}   { return uint64(v) }
func (v Float) Interface() interface{}  { return float64(v) }
func (v String) Interface() interface{} { return string(v) }
func (v Time) Interface() interface{}   { return uint64(v) }

func (v Array) Interface() interface{} {
	out := make([]interface{}, len(v))
	for i, e := range v {
		out[i] = e.Interface()
	}
	return out
}

// GPSEpoch is 1980-01-06T00:00:00Z.
var GPSEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// LeapSeconds is the GPS-UTC offset applied by UTC.
const LeapSeconds = 18

// UTC converts the GPS timestamp to UTC.
func (v Time) UTC() time.Time {
	return GPSEpoch.Add(time.Duration(v) - LeapSeconds*time.Second)
}

// GPSSeconds returns the timestamp as fractional GPS seconds.
func (v Time) GPSSeconds() float64 {
	return float64(v) / float64(time.Second)
}

// AsInt converts integer-valued scalars.
func AsInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Uint:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	case Time:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	default:
		return 0, false
	}
}

// AsFloat converts any numeric scalar.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Float:
		return float64(x), true
	case Int:
		return float64(x), true
	case Uint:
		return float64(x), true
	default:
		return 0, false
	}
}

// AsString returns the text of a String value.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// FormatValue renders v for log output.
func FormatValue(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprint(v.Interface())
}
