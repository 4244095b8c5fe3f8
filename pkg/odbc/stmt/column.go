// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

import (
	"fmt"

	"github.com/pingcap/odbcexec/pkg/odbc/native"
)

// ColumnDataType is the value kind a column is extracted as.
type ColumnDataType int

const (
	TypeUnknown ColumnDataType = iota
	TypeBool
	TypeInt64
	TypeDouble
	TypeDecimal
	TypeString
	TypeBlob
	TypeTimestamp
)

func (t ColumnDataType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt64:
		return "int64"
	case TypeDouble:
		return "double"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeBlob:
		return "blob"
	case TypeTimestamp:
		return "timestamp"
	}
	return "unknown"
}

// MetaColumn describes one result column. Position is 0-based.
type MetaColumn struct {
	Position  int            `json:"position"`
	Name      string         `json:"name"`
	Type      ColumnDataType `json:"-"`
	TypeName  string         `json:"type"`
	SQLType   native.SQLType `json:"sql_type"`
	Length    uint64         `json:"length"`
	Precision int16          `json:"precision"`
	Nullable  bool           `json:"nullable"`
}

func newMetaColumn(pos int, desc native.ColumnDesc) *MetaColumn {
	typ := columnDataType(desc.Type)
	return &MetaColumn{
		Position:  pos,
		Name:      desc.Name,
		Type:      typ,
		TypeName:  typ.String(),
		SQLType:   desc.Type,
		Length:    desc.Size,
		Precision: desc.DecimalDigits,
		Nullable:  desc.Nullable != native.NoNulls,
	}
}

func (c *MetaColumn) String() string {
	return fmt.Sprintf("%s(%d) %s", c.Name, c.Position, c.Type)
}

func columnDataType(t native.SQLType) ColumnDataType {
	switch t {
	case native.TypeBit, native.TypeBoolean:
		return TypeBool
	case native.TypeTinyInt, native.TypeSmallInt, native.TypeInteger, native.TypeBigInt:
		return TypeInt64
	case native.TypeReal, native.TypeFloat, native.TypeDouble:
		return TypeDouble
	case native.TypeNumeric, native.TypeDecimal:
		return TypeDecimal
	case native.TypeChar, native.TypeVarchar, native.TypeLongVarchar,
		native.TypeWChar, native.TypeWVarchar, native.TypeWLongVarchar, native.TypeGUID:
		return TypeString
	case native.TypeBinary, native.TypeVarBinary, native.TypeLongVarBinary:
		return TypeBlob
	case native.TypeDate, native.TypeTime, native.TypeTimestamp:
		return TypeTimestamp
	}
	return TypeUnknown
}

// cType is the C type a column of the data type is read as.
func (t ColumnDataType) cType() native.CType {
	switch t {
	case TypeBool:
		return native.CBit
	case TypeInt64:
		return native.CSBigInt
	case TypeDouble:
		return native.CDouble
	case TypeBlob:
		return native.CBinary
	case TypeTimestamp:
		return native.CTypeTimestamp
	}
	return native.CChar
}
