package flatkey

import "fmt"

// The unreserved set follows RFC 3986: ALPHA / DIGIT / "-" / "." / "_" / "~".
// Everything else is percent-encoded, which keeps "/", "=", "," and "%" out
// of encoded values so key parsing can split on them blindly.
func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

const hexDigits = "0123456789ABCDEF"

// Escape percent-encodes every byte of v outside the unreserved set.
// Escape("") is "".
func Escape(v string) string {
	hot := 0
	for i := 0; i < len(v); i++ {
		if !unreserved(v[i]) {
			hot++
		}
	}
	if hot == 0 {
		return v
	}
	out := make([]byte, 0, len(v)+2*hot)
	for i := 0; i < len(v); i++ {
		c := v[i]
		if unreserved(c) {
			out = append(out, c)
		} else {
			out = append(out, '%', hexDigits[c>>4], hexDigits[c&0x0f])
		}
	}
	return string(out)
}

// Unescape is the exact inverse of Escape. It rejects truncated or
// non-hexadecimal percent escapes.
func Unescape(v string) (string, error) {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(v) {
			return "", fmt.Errorf("truncated percent escape in %q", v)
		}
		hi, ok1 := unhex(v[i+1])
		lo, ok2 := unhex(v[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("invalid percent escape %q in %q", v[i:i+3], v)
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return string(out), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
