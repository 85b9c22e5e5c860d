// Package fingerprint computes the content hash used as the identity key
// of a message. The same text and meaning always produce the same value on
// every platform, so fingerprints can be stored and compared across builds.
package fingerprint

import (
	"crypto/md5"
	"encoding/binary"
	"strconv"
)

// Of returns the signed 64-bit fingerprint of text disambiguated by meaning.
//
// The value is the first 8 bytes of the MD5 digest of the UTF-8 text read
// as a big-endian unsigned integer and reinterpreted as two's complement.
// A non-empty meaning is appended to the hashed input after a NUL byte.
func Of(text, meaning string) int64 {
	h := md5.New()
	h.Write([]byte(text))
	if meaning != "" {
		h.Write([]byte{0})
		h.Write([]byte(meaning))
	}
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// String formats a fingerprint as a decimal id.
func String(fp int64) string {
	return strconv.FormatInt(fp, 10)
}

// Parse reads a decimal id back into a fingerprint.
func Parse(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
