package schema

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	c := NewConverter()
	id := uuid.New()

	tests := []struct {
		name   string
		in     any
		target reflect.Type
		want   any
	}{
		{"bytes_to_string", []byte("abc"), stringType, "abc"},
		{"array_to_uuid", [16]byte(id), uuidType, id},
		{"text_to_uuid", id.String(), uuidType, id},
		{"int_to_bool", int64(1), reflect.TypeOf(true), true},
		{"bool_to_int", true, reflect.TypeOf(int64(0)), int64(1)},
		{"int32_to_int64", int32(7), reflect.TypeOf(int64(0)), int64(7)},
		{"text_to_float", " 1.5 ", reflect.TypeOf(float64(0)), 1.5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.Convert(tc.in, tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConverter_Time(t *testing.T) {
	c := NewConverter()
	got, err := c.Convert("2024-03-01 10:00:00", timeType)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got)

	_, err = c.Convert("yesterday", timeType)
	assert.Error(t, err)
}

func TestConverter_Register(t *testing.T) {
	type cents int64
	c := NewConverter()
	c.Register(stringType, reflect.TypeOf(cents(0)), func(v any) (any, error) {
		return cents(len(v.(string))), nil
	})
	got, err := c.Convert("abcd", reflect.TypeOf(cents(0)))
	require.NoError(t, err)
	assert.Equal(t, cents(4), got)
}
