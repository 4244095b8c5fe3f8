// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package native

import (
	"encoding/binary"
	"math"
	"time"
)

// TimestampSize is sizeof(SQL_TIMESTAMP_STRUCT).
const TimestampSize = 16

// FixedSize returns the buffer size of a fixed-width C type, or 0 for
// variable-length types.
func FixedSize(ctype CType) int {
	switch ctype {
	case CSBigInt, CDouble:
		return 8
	case CBit:
		return 1
	case CTypeTimestamp:
		return TimestampSize
	}
	return 0
}

func EncodeInt64(v int64) []byte {
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, uint64(v))
	return buf
}

func DecodeInt64(buf []byte) int64 {
	return int64(binary.NativeEndian.Uint64(buf))
}

func EncodeFloat64(v float64) []byte {
	buf := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func DecodeFloat64(buf []byte) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(buf))
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBool(buf []byte) bool {
	return buf[0] != 0
}

// EncodeTimestamp lays out t as SQL_TIMESTAMP_STRUCT: year, month, day, hour,
// minute and second as 16-bit integers followed by the 32-bit fraction in
// nanoseconds. The time is taken in its own location.
func EncodeTimestamp(t time.Time) []byte {
	buf := make([]byte, TimestampSize)
	binary.NativeEndian.PutUint16(buf[0:], uint16(int16(t.Year())))
	binary.NativeEndian.PutUint16(buf[2:], uint16(t.Month()))
	binary.NativeEndian.PutUint16(buf[4:], uint16(t.Day()))
	binary.NativeEndian.PutUint16(buf[6:], uint16(t.Hour()))
	binary.NativeEndian.PutUint16(buf[8:], uint16(t.Minute()))
	binary.NativeEndian.PutUint16(buf[10:], uint16(t.Second()))
	binary.NativeEndian.PutUint32(buf[12:], uint32(t.Nanosecond()))
	return buf
}

// DecodeTimestamp reads SQL_TIMESTAMP_STRUCT as a UTC time.
func DecodeTimestamp(buf []byte) time.Time {
	return time.Date(
		int(int16(binary.NativeEndian.Uint16(buf[0:]))),
		time.Month(binary.NativeEndian.Uint16(buf[2:])),
		int(binary.NativeEndian.Uint16(buf[4:])),
		int(binary.NativeEndian.Uint16(buf[6:])),
		int(binary.NativeEndian.Uint16(buf[8:])),
		int(binary.NativeEndian.Uint16(buf[10:])),
		int(binary.NativeEndian.Uint32(buf[12:])),
		time.UTC)
}
