package schema

import (
	"database/sql"
	"fmt"
	"reflect"
)

// Row is one result row keyed by column alias ("e_id", "archetype_id", ...).
type Row map[string]any

// ScanRows drains rows into Rows. Byte slices are copied because drivers may
// reuse their buffers between Next calls.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = append([]byte(nil), b...)
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Hydrator copies the columns of one prefix in a Row onto an entity struct.
type Hydrator struct {
	conv *Converter
}

// NewHydrator creates a Hydrator using conv for driver type mismatches.
func NewHydrator(conv *Converter) *Hydrator {
	if conv == nil {
		conv = NewConverter()
	}
	return &Hydrator{conv: conv}
}

// Hydrate assigns every manifest column found under prefix to dst, which must
// be a pointer to a struct. Missing or NULL columns leave the field at its
// zero value. present reports whether the prefix's primary key was non-NULL;
// callers treat present == false as "association absent".
func (h *Hydrator) Hydrate(row Row, prefix string, t *Table, dst any) (present bool, err error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return false, fmt.Errorf("hydrate %s: destination must be a non-nil struct pointer, got %T", t.Name, dst)
	}
	sv := rv.Elem()

	for _, col := range t.Columns {
		key := prefix + "_" + col.Name
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		if col.Name == t.PrimaryKey {
			present = true
		}

		field := sv.FieldByName(col.Field)
		if !field.IsValid() || !field.CanSet() {
			return false, fmt.Errorf("hydrate %s: %T has no settable field %q", t.Name, dst, col.Field)
		}
		if err := h.assign(field, key, v); err != nil {
			return false, err
		}
	}
	return present, nil
}

func (h *Hydrator) assign(field reflect.Value, column string, v any) error {
	target := field.Type()
	isPtr := target.Kind() == reflect.Pointer
	if isPtr {
		target = target.Elem()
	}

	var val reflect.Value
	if reflect.TypeOf(v).AssignableTo(target) {
		val = reflect.ValueOf(v)
	} else {
		converted, err := h.conv.Convert(v, target)
		if err != nil {
			return &ConversionError{Column: column, From: reflect.TypeOf(v), To: target, Err: err}
		}
		val = reflect.ValueOf(converted)
	}

	if isPtr {
		ptr := reflect.New(target)
		ptr.Elem().Set(val)
		field.Set(ptr)
		return nil
	}
	field.Set(val)
	return nil
}

// Values reads the writable columns of t from src (a struct or struct
// pointer) in manifest order. Nil pointers become SQL NULL.
func Values(t *Table, src any) ([]any, error) {
	sv := reflect.Indirect(reflect.ValueOf(src))
	if sv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("values %s: source must be a struct, got %T", t.Name, src)
	}
	cols := t.WritableColumns()
	out := make([]any, len(cols))
	for i, col := range cols {
		f := sv.FieldByName(col.Field)
		if !f.IsValid() {
			return nil, fmt.Errorf("values %s: %T has no field %q", t.Name, src, col.Field)
		}
		if f.Kind() == reflect.Pointer {
			if f.IsNil() {
				out[i] = nil
				continue
			}
			f = f.Elem()
		}
		out[i] = f.Interface()
	}
	return out, nil
}
