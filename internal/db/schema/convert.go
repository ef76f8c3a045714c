package schema

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConversionError reports a driver value no converter could turn into the
// target type.
type ConversionError struct {
	Column string
	From   reflect.Type
	To     reflect.Type
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("convert column %q from %v to %v", e.Column, e.From, e.To)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ConvertFunc converts a driver value into a value of the registered target
// type.
type ConvertFunc func(v any) (any, error)

type convKey struct {
	from reflect.Type
	to   reflect.Type
}

// Converter turns driver values into field values. Lookup order is the
// registered conversion table, then name parsing for targets implementing
// encoding.TextUnmarshaler (enums, UUIDs), then generic scalar coercion.
type Converter struct {
	table map[convKey]ConvertFunc
}

var (
	bytesType   = reflect.TypeOf([]byte(nil))
	stringType  = reflect.TypeOf("")
	uuidType    = reflect.TypeOf(uuid.UUID{})
	arrayType   = reflect.TypeOf([16]byte{})
	timeType    = reflect.TypeOf(time.Time{})
	textUnmType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// sqlite stores timestamps as text in one of these layouts.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewConverter returns a Converter with the driver conversions both supported
// dialects need.
func NewConverter() *Converter {
	c := &Converter{table: make(map[convKey]ConvertFunc)}
	c.Register(bytesType, stringType, func(v any) (any, error) {
		return string(v.([]byte)), nil
	})
	c.Register(arrayType, uuidType, func(v any) (any, error) {
		return uuid.UUID(v.([16]byte)), nil
	})
	c.Register(bytesType, uuidType, func(v any) (any, error) {
		b := v.([]byte)
		if len(b) == 16 {
			return uuid.FromBytes(b)
		}
		return uuid.ParseBytes(b)
	})
	c.Register(stringType, timeType, func(v any) (any, error) {
		return parseTime(v.(string))
	})
	c.Register(bytesType, timeType, func(v any) (any, error) {
		return parseTime(string(v.([]byte)))
	})
	return c
}

// Register adds or replaces a conversion from one driver type to a target.
func (c *Converter) Register(from, to reflect.Type, fn ConvertFunc) {
	c.table[convKey{from: from, to: to}] = fn
}

// Convert converts v to target. v must be non-nil.
func (c *Converter) Convert(v any, target reflect.Type) (any, error) {
	from := reflect.TypeOf(v)
	if from.AssignableTo(target) {
		return v, nil
	}

	if fn, ok := c.table[convKey{from: from, to: target}]; ok {
		return fn(v)
	}

	if reflect.PointerTo(target).Implements(textUnmType) {
		if text, ok := textOf(v); ok {
			ptr := reflect.New(target)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
				return nil, err
			}
			return ptr.Elem().Interface(), nil
		}
	}

	return convertScalar(v, target)
}

func textOf(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case fmt.Stringer:
		return s.String(), true
	}
	return "", false
}

func convertScalar(v any, target reflect.Type) (any, error) {
	rv := reflect.ValueOf(v)

	// Strings coming from text columns are parsed with strconv; everything
	// else goes through reflect conversions between kinds.
	if s, ok := textOf(v); ok && rv.Kind() != reflect.Struct {
		return parseScalar(strings.TrimSpace(s), target)
	}

	switch target.Kind() {
	case reflect.Bool:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return reflect.ValueOf(rv.Int() != 0).Convert(target).Interface(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return reflect.ValueOf(rv.Uint() != 0).Convert(target).Interface(), nil
		}
	case reflect.String:
		return reflect.ValueOf(fmt.Sprint(v)).Convert(target).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if rv.Kind() == reflect.Bool {
			n := int64(0)
			if rv.Bool() {
				n = 1
			}
			return reflect.ValueOf(n).Convert(target).Interface(), nil
		}
		if rv.Type().ConvertibleTo(target) && isNumeric(rv.Kind()) {
			return rv.Convert(target).Interface(), nil
		}
	}
	return nil, fmt.Errorf("no converter from %T to %v", v, target)
}

func parseScalar(s string, target reflect.Type) (any, error) {
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(target).Interface(), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(target).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, target.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, target.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, target.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(target).Interface(), nil
	}
	return nil, fmt.Errorf("no converter from string to %v", target)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
