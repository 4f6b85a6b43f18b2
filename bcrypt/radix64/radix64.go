// Package radix64 implements the non-standard, unpadded radix-64
// encoding OpenBSD uses for bcrypt salts and digests. It is not RFC 4648
// Base64: the alphabet orders '.' and '/' first and digits last.
package radix64

import "strconv"

const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var decodeMap [128]int8

func init() {
	for i := range decodeMap {
		decodeMap[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = int8(i)
	}
}

// InvalidCharacterError reports a byte that does not belong to the
// radix-64 alphabet.
type InvalidCharacterError byte

func (e InvalidCharacterError) Error() string {
	return "radix64: invalid character " + strconv.QuoteRuneToASCII(rune(e))
}

// EncodedLen returns the number of radix-64 characters needed to encode
// n bytes.
func EncodedLen(n int) int {
	return (n*4 + 2) / 3
}

// DecodedLen returns the number of bytes decoded from n radix-64
// characters.
func DecodedLen(n int) int {
	return n * 3 / 4
}

// Encode writes the radix-64 encoding of the first len(src) bytes of src
// into dst, which must be EncodedLen(len(src)) bytes long, and returns
// the number of bytes written. Encode never emits padding.
func Encode(dst []byte, src []byte) int {
	n := 0
	for len(src) >= 3 {
		c0, c1, c2 := src[0], src[1], src[2]
		dst[n] = alphabet[c0>>2]
		dst[n+1] = alphabet[(c0&0x03)<<4|(c1>>4)]
		dst[n+2] = alphabet[(c1&0x0f)<<2|(c2>>6)]
		dst[n+3] = alphabet[c2&0x3f]
		n += 4
		src = src[3:]
	}
	switch len(src) {
	case 2:
		c0, c1 := src[0], src[1]
		dst[n] = alphabet[c0>>2]
		dst[n+1] = alphabet[(c0&0x03)<<4|(c1>>4)]
		dst[n+2] = alphabet[(c1&0x0f)<<2]
		n += 3
	case 1:
		c0 := src[0]
		dst[n] = alphabet[c0>>2]
		dst[n+1] = alphabet[(c0&0x03)<<4]
		n += 2
	}
	return n
}

// EncodeToString is a convenience wrapper around Encode.
func EncodeToString(src []byte) string {
	dst := make([]byte, EncodedLen(len(src)))
	n := Encode(dst, src)
	return string(dst[:n])
}

// Decode writes the bytes represented by the radix-64 characters in src
// into dst, which must be at least DecodedLen(len(src)) bytes long, and
// returns the number of bytes written. An empty src decodes to zero
// bytes; any other length shorter than two characters is invalid.
// Decode rejects any byte outside the alphabet or with ordinal greater
// than 127.
func Decode(dst []byte, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(src) < 2 {
		return 0, InvalidCharacterError(src[0])
	}
	vals := make([]int8, len(src))
	for i, c := range src {
		if c > 127 || decodeMap[c] < 0 {
			return 0, InvalidCharacterError(c)
		}
		vals[i] = decodeMap[c]
	}
	n := 0
	i := 0
	for ; i+4 <= len(vals); i += 4 {
		v0, v1, v2, v3 := vals[i], vals[i+1], vals[i+2], vals[i+3]
		dst[n] = byte(v0)<<2 | byte(v1)>>4
		dst[n+1] = byte(v1)<<4 | byte(v2)>>2
		dst[n+2] = byte(v2)<<6 | byte(v3)
		n += 3
	}
	switch len(vals) - i {
	case 3:
		v0, v1, v2 := vals[i], vals[i+1], vals[i+2]
		dst[n] = byte(v0)<<2 | byte(v1)>>4
		dst[n+1] = byte(v1)<<4 | byte(v2)>>2
		n += 2
	case 2:
		v0, v1 := vals[i], vals[i+1]
		dst[n] = byte(v0)<<2 | byte(v1)>>4
		n++
	}
	return n, nil
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(s string) ([]byte, error) {
	dst := make([]byte, DecodedLen(len(s)))
	n, err := Decode(dst, []byte(s))
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
