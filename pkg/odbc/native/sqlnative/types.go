// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlnative

import (
	"database/sql"
	"reflect"
	"strings"

	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

var typeNames = map[string]native.SQLType{
	"BIT":        native.TypeBit,
	"BOOL":       native.TypeBoolean,
	"BOOLEAN":    native.TypeBoolean,
	"TINYINT":    native.TypeTinyInt,
	"SMALLINT":   native.TypeSmallInt,
	"MEDIUMINT":  native.TypeInteger,
	"INT":        native.TypeInteger,
	"INTEGER":    native.TypeInteger,
	"BIGINT":     native.TypeBigInt,
	"REAL":       native.TypeReal,
	"FLOAT":      native.TypeFloat,
	"DOUBLE":     native.TypeDouble,
	"DECIMAL":    native.TypeDecimal,
	"NUMERIC":    native.TypeNumeric,
	"CHAR":       native.TypeChar,
	"NCHAR":      native.TypeWChar,
	"VARCHAR":    native.TypeVarchar,
	"NVARCHAR":   native.TypeWVarchar,
	"TINYTEXT":   native.TypeLongVarchar,
	"TEXT":       native.TypeLongVarchar,
	"MEDIUMTEXT": native.TypeLongVarchar,
	"LONGTEXT":   native.TypeLongVarchar,
	"CLOB":       native.TypeLongVarchar,
	"JSON":       native.TypeLongVarchar,
	"BINARY":     native.TypeBinary,
	"VARBINARY":  native.TypeVarBinary,
	"TINYBLOB":   native.TypeLongVarBinary,
	"BLOB":       native.TypeLongVarBinary,
	"MEDIUMBLOB": native.TypeLongVarBinary,
	"LONGBLOB":   native.TypeLongVarBinary,
	"DATE":       native.TypeDate,
	"TIME":       native.TypeTime,
	"DATETIME":   native.TypeTimestamp,
	"TIMESTAMP":  native.TypeTimestamp,
}

// fixed sizes reported for types without a declared length.
var typeSizes = map[native.SQLType]uint64{
	native.TypeBit:       1,
	native.TypeBoolean:   1,
	native.TypeTinyInt:   3,
	native.TypeSmallInt:  5,
	native.TypeInteger:   10,
	native.TypeBigInt:    19,
	native.TypeReal:      7,
	native.TypeFloat:     15,
	native.TypeDouble:    15,
	native.TypeDecimal:   38,
	native.TypeNumeric:   38,
	native.TypeDate:      10,
	native.TypeTime:      8,
	native.TypeTimestamp: 29,
}

// sqlType maps a database type name such as "VARCHAR(10)" or "INT UNSIGNED".
func sqlType(ct *sql.ColumnType) native.SQLType {
	name := strings.ToUpper(strings.TrimSpace(ct.DatabaseTypeName()))
	name = strings.TrimPrefix(name, "UNSIGNED ")
	if i := strings.IndexAny(name, "( "); i >= 0 {
		name = name[:i]
	}
	if t, ok := typeNames[name]; ok {
		return t
	}
	if name != "" {
		return native.TypeUnknown
	}
	// Expressions have no declared type.
	if st := ct.ScanType(); st != nil {
		switch st.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return native.TypeBigInt
		case reflect.Float32, reflect.Float64:
			return native.TypeDouble
		}
	}
	return native.TypeUnknown
}

func describe(ct *sql.ColumnType) native.ColumnDesc {
	t := sqlType(ct)
	desc := native.ColumnDesc{
		Name:     ct.Name(),
		Type:     t,
		Nullable: native.NullableUnknown,
	}
	if length, ok := ct.Length(); ok && length > 0 && !t.IsLong() {
		desc.Size = uint64(length)
	} else {
		desc.Size = typeSizes[t]
	}
	if _, scale, ok := ct.DecimalSize(); ok {
		desc.DecimalDigits = int16(scale)
	}
	if nullable, ok := ct.Nullable(); ok {
		desc.Nullable = native.NoNulls
		if nullable {
			desc.Nullable = native.Nullable
		}
	}
	return desc
}
