// Package uuid converts BLE UUID strings between the canonical dashed
// form used by HAP metadata and the compact lowercase form used by the
// BLE stack.
package uuid

import "strings"

// Base UUID suffixes appended to short-form identifiers.
// BaseBluetooth is the Bluetooth SIG base [Vol 3, Part B, 2.5.1];
// BaseHAP is the Apple-assigned base under which HAP services and
// characteristics live.
const (
	BaseBluetooth = "-0000-1000-8000-00805F9B34FB"
	BaseHAP       = "-0000-1000-8000-0026BB765291"
)

// ToCompact converts a UUID-like string to the unpunctuated lowercase
// form the BLE stack uses, such as "2a37" or
// "0000180d00001000800000805f9b34fb". It is a pure string transform;
// hex content is not validated.
func ToCompact(s string) string {
	return strings.Replace(strings.ToLower(s), "-", "", -1)
}

// ToCanonical converts a compact 32-digit UUID to uppercase canonical
// 8-4-4-4-12 dashed form. Input of any other length is returned
// uppercased and otherwise unchanged, so already-canonical or malformed
// strings pass through.
func ToCanonical(s string) string {
	s = strings.ToUpper(s)
	if len(s) != 32 {
		return s
	}
	return strings.Join([]string{
		s[0:8],
		s[8:12],
		s[12:16],
		s[16:20],
		s[20:32],
	}, "-")
}

// Equal reports whether a and b name the same UUID, ignoring case and
// dash placement.
func Equal(a, b string) bool {
	return ToCompact(a) == ToCompact(b)
}

// Valid reports whether s is a 16-bit, 32-bit, or 128-bit UUID in
// compact or canonical form, case-insensitively.
func Valid(s string) bool {
	switch len(s) {
	case 4, 8, 32:
		return isHex(s)
	case 36:
		for i := 0; i < len(s); i++ {
			if i == 8 || i == 13 || i == 18 || i == 23 {
				if s[i] != '-' {
					return false
				}
				continue
			}
			if !isHexByte(s[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHexByte(s[i]) {
			return false
		}
	}
	return true
}

func isHexByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
	case b >= 'a' && b <= 'f':
	case b >= 'A' && b <= 'F':
	default:
		return false
	}
	return true
}

// FromShort expands a 16-bit or 32-bit short identifier such as "2A37"
// to its canonical 128-bit form under the given base suffix. Input
// longer than 8 characters is assumed to be a full UUID already and is
// passed through unchanged.
func FromShort(s, base string) string {
	if len(s) > 8 {
		return s
	}
	return strings.Repeat("0", 8-len(s)) + strings.ToUpper(s) + base
}
