// Package value encodes and decodes HAP characteristic values to and
// from the raw little-endian buffers carried in GATT payloads.
package value

import (
	"encoding/base64"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Format selects how a characteristic value maps to bytes. The set is
// closed; text tags from HAP characteristic metadata enter through
// ParseFormat.
type Format uint8

// Formats defined by HAP characteristic metadata.
const (
	Bool Format = iota + 1
	Uint8
	Uint16
	Uint32
	Uint64
	Int    // signed 32-bit
	Float  // 32-bit IEEE-754
	String // UTF-8 text
	Data   // opaque bytes, base64 text at the boundary
)

var formatTags = map[Format]string{
	Bool:   "bool",
	Uint8:  "uint8",
	Uint16: "uint16",
	Uint32: "uint32",
	Uint64: "uint64",
	Int:    "int",
	Float:  "float",
	String: "string",
	Data:   "data",
}

func (f Format) String() string {
	if s, ok := formatTags[f]; ok {
		return s
	}
	return "unknown"
}

// UnsupportedFormatError reports a format tag outside the fixed set.
type UnsupportedFormatError struct {
	Tag string
}

func (e *UnsupportedFormatError) Error() string {
	return "value: unsupported format " + e.Tag
}

// ParseFormat maps a text format tag to its Format. Unknown tags
// return an UnsupportedFormatError.
func ParseFormat(tag string) (Format, error) {
	for f, s := range formatTags {
		if s == tag {
			return f, nil
		}
	}
	return 0, &UnsupportedFormatError{Tag: tag}
}

// Decode converts a raw characteristic buffer to the native value for
// the given format. Data buffers decode to base64 text. The only
// errors are an unsupported format and a buffer shorter than the
// format's fixed layout.
func Decode(b []byte, f Format) (interface{}, error) {
	switch f {
	case Bool:
		if err := need(b, 1, f); err != nil {
			return nil, err
		}
		return b[0] != 0, nil
	case Uint8:
		if err := need(b, 1, f); err != nil {
			return nil, err
		}
		return b[0], nil
	case Uint16:
		if err := need(b, 2, f); err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint16(b), nil
	case Uint32:
		if err := need(b, 4, f); err != nil {
			return nil, err
		}
		return binary.LittleEndian.Uint32(b), nil
	case Uint64:
		if err := need(b, 8, f); err != nil {
			return nil, err
		}
		// Known quirk carried over from the original transport: the
		// low word wins when non-zero, and the high word is only used
		// when the low word is zero. Wire peers depend on it.
		low := binary.LittleEndian.Uint32(b)
		if low == 0 {
			return uint64(binary.LittleEndian.Uint32(b[4:])) << 32, nil
		}
		return uint64(low), nil
	case Int:
		if err := need(b, 4, f); err != nil {
			return nil, err
		}
		return int32(binary.LittleEndian.Uint32(b)), nil
	case Float:
		if err := need(b, 4, f); err != nil {
			return nil, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case String:
		return string(b), nil
	case Data:
		return base64.StdEncoding.EncodeToString(b), nil
	}
	return nil, &UnsupportedFormatError{Tag: f.String()}
}

// Encode converts a native value to the raw buffer for the given
// format. Numeric input of any Go scalar type is accepted and wrapped
// to the field width; out-of-range values are not rejected. Data
// accepts base64 text or raw bytes.
func Encode(v interface{}, f Format) ([]byte, error) {
	switch f {
	case Bool:
		if truthy(v) {
			return []byte{0x01}, nil
		}
		return []byte{0x00}, nil
	case Uint8:
		u, err := toUint64(v, f)
		if err != nil {
			return nil, err
		}
		return []byte{byte(u)}, nil
	case Uint16:
		u, err := toUint64(v, f)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(u))
		return b, nil
	case Uint32, Int:
		u, err := toUint64(v, f)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(u))
		return b, nil
	case Uint64:
		u, err := toUint64(v, f)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 8)
		binary.LittleEndian.PutUint32(b, uint32(u))
		binary.LittleEndian.PutUint32(b[4:], uint32(u>>32))
		return b, nil
	case Float:
		fv, err := toFloat64(v, f)
		if err != nil {
			return nil, err
		}
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(fv)))
		return b, nil
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("value: can't encode %T as %v", v, f)
		}
		return []byte(s), nil
	case Data:
		switch d := v.(type) {
		case []byte:
			return d, nil
		case string:
			b, err := base64.StdEncoding.DecodeString(d)
			if err != nil {
				return nil, errors.Wrap(err, "value: bad base64 data")
			}
			return b, nil
		}
		return nil, errors.Errorf("value: can't encode %T as %v", v, f)
	}
	return nil, &UnsupportedFormatError{Tag: f.String()}
}

func need(b []byte, n int, f Format) error {
	if len(b) < n {
		return errors.Errorf("value: %v needs %d bytes, have %d", f, n, len(b))
	}
	return nil
}

// truthy follows the loose truthiness of the metadata sources feeding
// this codec: zero numbers, empty text, empty buffers, and nil are
// false, everything else is true.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case []byte:
		return len(t) != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	}
	if u, err := toUint64(v, Bool); err == nil {
		return u != 0
	}
	return true
}

func toUint64(v interface{}, f Format) (uint64, error) {
	switch t := v.(type) {
	case int:
		return uint64(t), nil
	case int8:
		return uint64(t), nil
	case int16:
		return uint64(t), nil
	case int32:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case uint:
		return uint64(t), nil
	case uint8:
		return uint64(t), nil
	case uint16:
		return uint64(t), nil
	case uint32:
		return uint64(t), nil
	case uint64:
		return t, nil
	case float32:
		return uint64(int64(t)), nil
	case float64:
		return uint64(int64(t)), nil
	case bool:
		if t {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errors.Errorf("value: can't encode %T as %v", v, f)
}

func toFloat64(v interface{}, f Format) (float64, error) {
	switch t := v.(type) {
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	}
	if u, err := toUint64(v, f); err == nil {
		return float64(int64(u)), nil
	}
	return 0, errors.Errorf("value: can't encode %T as %v", v, f)
}
