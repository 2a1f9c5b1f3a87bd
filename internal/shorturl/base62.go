package shorturl

import "fmt"

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// encodeBase62 converts an id to its base62 representation.
func encodeBase62(id uint64) string {
	if id == 0 {
		return string(base62Chars[0])
	}
	buf := make([]byte, 0, 11) // 2^64 fits in 11 base62 digits
	for id > 0 {
		buf = append(buf, base62Chars[id%62])
		id /= 62
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// decodeBase62 converts a base62 string back to an id.
func decodeBase62(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("shorturl: empty base62 string")
	}
	var id uint64
	for _, c := range s {
		var digit uint64
		switch {
		case c >= '0' && c <= '9':
			digit = uint64(c - '0')
		case c >= 'a' && c <= 'z':
			digit = uint64(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			digit = uint64(c-'A') + 36
		default:
			return 0, fmt.Errorf("shorturl: invalid base62 character %q", c)
		}
		id = id*62 + digit
	}
	return id, nil
}
