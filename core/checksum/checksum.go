// Package checksum derives the 16-bit integrity value appended to a phrase.
package checksum

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/ipv6poetry/poetrytools/core/ipv6"
)

// Sum serializes the eight segments into a 16-byte big-endian buffer and
// returns the low 16 bits of its CRC-32 (IEEE polynomial, the same value
// zlib's crc32 produces). The result is used for transcription-error
// detection only; it has no cryptographic strength.
func Sum(segs ipv6.Segments) uint16 {
	var buf [16]byte
	for i, s := range segs {
		binary.BigEndian.PutUint16(buf[i*2:], s)
	}
	return uint16(crc32.ChecksumIEEE(buf[:]) & 0xFFFF)
}
