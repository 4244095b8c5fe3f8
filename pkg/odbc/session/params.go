// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/odbc/stmt"
)

var ErrInvalidParam = errors.New("invalid parameter")

// ParseParam decodes one JSON parameter value, keeping numbers exact.
func ParseParam(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(ErrInvalidParam, err)
	}
	return v, nil
}

// Bindings binds decoded JSON values in order. Numbers without a fraction
// are bound as BIGINT, other numbers as DOUBLE. Objects and arrays are
// rejected.
func Bindings(params []any) ([]stmt.Binding, error) {
	bindings := make([]stmt.Binding, 0, len(params))
	for i, p := range params {
		switch v := p.(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				p = n
			} else if f, err := v.Float64(); err == nil {
				p = f
			} else {
				return nil, errors.Wrapf(ErrInvalidParam, "param %d: %s is not a number", i, v)
			}
		case float64:
			if v == float64(int64(v)) {
				p = int64(v)
			}
		case nil, bool, string:
		default:
			return nil, errors.Wrapf(ErrInvalidParam, "param %d: unsupported type %T", i, p)
		}
		bindings = append(bindings, stmt.Bind(p))
	}
	return bindings, nil
}
