package internal

// IsSpace reports whether the character is a JSON whitespace character
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// IsDigit reports whether the character is a digit
func IsDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsHex reports whether the character is a hexadecimal digit
func IsHex(c byte) bool {
	return IsDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// ============================================================================
// CAPACITY POLICY
// ============================================================================

// NextPow2 returns the smallest power of two not below n
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// GrowCapacity returns the slot capacity for a container that must hold want
// elements. Capacity starts at MinContainerCapacity and doubles, and it never
// shrinks below cur.
func GrowCapacity(cur, want int) int {
	if want <= cur {
		return cur
	}
	if cur < MinContainerCapacity {
		cur = MinContainerCapacity
	}
	for cur < want {
		cur <<= 1
	}
	return cur
}

// StringAllocation returns the byte allocation needed to hold want bytes
// plus a terminator. Usable capacity is always the allocation minus one.
func StringAllocation(cur, want int) int {
	if want+1 <= cur {
		return cur
	}
	n := NextPow2(want + 1)
	if n < MinStringAllocation {
		n = MinStringAllocation
	}
	return n
}

// ============================================================================
// ESCAPE CODEC
// ============================================================================

// hexChars contains hex characters for escape sequences
var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// NeedsEscape reports whether s contains a byte that AppendEscaped rewrites
func NeedsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if needsEscapeTable[s[i]] {
			return true
		}
	}
	return false
}

// AppendEscaped appends s to dst with quotes, backslashes and control bytes
// escaped. Control bytes with a short form use it, the rest become \u00XX.
// Bytes from 0x80 upward pass through untouched.
func AppendEscaped(dst []byte, s string) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !needsEscapeTable[c] {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexChars[c>>4], hexChars[c&0x0f])
		}
		start = i + 1
	}
	return append(dst, s[start:]...)
}

// AppendUnescaped appends the decoded form of s to dst. It returns false on a
// stray backslash, an unknown escape, or a \u escape without four hex digits;
// dst then holds the bytes decoded so far.
func AppendUnescaped(dst []byte, s string) ([]byte, bool) {
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		if i+1 >= len(s) {
			return dst, false
		}
		i++
		switch s[i] {
		case '"', '\\', '/':
			dst = append(dst, s[i])
		case 'b':
			dst = append(dst, '\b')
		case 'f':
			dst = append(dst, '\f')
		case 'n':
			dst = append(dst, '\n')
		case 'r':
			dst = append(dst, '\r')
		case 't':
			dst = append(dst, '\t')
		case 'u':
			r, ok := parseHex4(s, i+1)
			if !ok {
				return dst, false
			}
			dst = appendUTF8(dst, r)
			i += 4
		default:
			return dst, false
		}
		start = i + 1
	}
	return append(dst, s[start:]...), true
}

// ValidEscape reports whether s[i:] starts with a decodable escape body, i.e.
// the bytes following a backslash. It returns the body length.
func ValidEscape(s string, i int) (int, bool) {
	if i >= len(s) {
		return 0, false
	}
	switch s[i] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 1, true
	case 'u':
		if _, ok := parseHex4(s, i+1); ok {
			return 5, true
		}
	}
	return 0, false
}

func parseHex4(s string, i int) (uint32, bool) {
	if i+4 > len(s) {
		return 0, false
	}
	var r uint32
	for k := i; k < i+4; k++ {
		c := s[k]
		switch {
		case '0' <= c && c <= '9':
			r = r<<4 | uint32(c-'0')
		case 'a' <= c && c <= 'f':
			r = r<<4 | uint32(c-'a'+10)
		case 'A' <= c && c <= 'F':
			r = r<<4 | uint32(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}

// appendUTF8 writes a code point below 0x10000 as 1, 2 or 3 bytes. Surrogate
// halves are written as-is; pairs are not combined.
func appendUTF8(dst []byte, r uint32) []byte {
	switch {
	case r < 0x80:
		return append(dst, byte(r))
	case r < 0x800:
		return append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
	default:
		return append(dst, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
	}
}
