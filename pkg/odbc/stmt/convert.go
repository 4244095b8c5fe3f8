// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"database/sql"
	"reflect"
	"time"

	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/spf13/cast"
)

var timeType = reflect.TypeOf(time.Time{})

// assign stores a column or output value into dest, which must be a non-nil
// pointer or implement sql.Scanner. NULL sets the zero value.
func assign(dest, src any) error {
	if scanner, ok := dest.(sql.Scanner); ok {
		if err := scanner.Scan(src); err != nil {
			return errors.Wrapf(ErrExtract, "scan %T into %T: %w", src, dest, err)
		}
		return nil
	}
	if d, ok := dest.(*any); ok {
		if d == nil {
			return errors.Wrapf(ErrExtract, "destination is a nil pointer")
		}
		*d = src
		return nil
	}
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return errors.Wrapf(ErrExtract, "destination %T is not a non-nil pointer", dest)
	}
	if err := assignValue(dv.Elem(), src); err != nil {
		return errors.Wrapf(ErrExtract, "assign %T to %T: %w", src, dest, err)
	}
	return nil
}

func assignValue(elem reflect.Value, src any) error {
	if src == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	if elem.Kind() == reflect.Pointer {
		v := reflect.New(elem.Type().Elem())
		if err := assignValue(v.Elem(), src); err != nil {
			return err
		}
		elem.Set(v)
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Type() == elem.Type() {
		if b, ok := src.([]byte); ok {
			src = append([]byte(nil), b...)
			sv = reflect.ValueOf(src)
		}
		elem.Set(sv)
		return nil
	}
	if elem.Type() == timeType {
		t, err := cast.ToTimeE(src)
		if err != nil {
			return err
		}
		elem.Set(reflect.ValueOf(t))
		return nil
	}
	switch elem.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(src)
		if err != nil {
			return err
		}
		elem.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(src)
		if err != nil {
			return err
		}
		elem.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(src)
		if err != nil {
			return err
		}
		if elem.OverflowInt(n) {
			return errors.Errorf("value %d overflows %s", n, elem.Type())
		}
		elem.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(src)
		if err != nil {
			return err
		}
		if elem.OverflowUint(n) {
			return errors.Errorf("value %d overflows %s", n, elem.Type())
		}
		elem.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(src)
		if err != nil {
			return err
		}
		elem.SetFloat(f)
	case reflect.Slice:
		if elem.Type().Elem().Kind() != reflect.Uint8 {
			return errors.Errorf("unsupported destination %s", elem.Type())
		}
		switch v := src.(type) {
		case []byte:
			elem.SetBytes(append([]byte(nil), v...))
		case string:
			elem.SetBytes([]byte(v))
		default:
			return errors.Errorf("unsupported source %T", src)
		}
	default:
		if sv.Type().ConvertibleTo(elem.Type()) {
			elem.Set(sv.Convert(elem.Type()))
			return nil
		}
		return errors.Errorf("unsupported destination %s", elem.Type())
	}
	return nil
}
