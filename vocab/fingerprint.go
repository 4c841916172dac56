package vocab

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/text/unicode/norm"
)

// fingerprintDomain separates vocabulary fingerprints from any other
// SHA-256 use. Bump the suffix if the canonical form ever changes.
const fingerprintDomain = "selectir/vocabulary/v1"

// Fingerprint returns a stable hex-encoded SHA-256 over the vocabulary's
// canonical form. Two vocabularies with the same version, tables and
// columns fingerprint identically regardless of how their definitions
// were written, so the value identifies "which vocabulary produced this
// SQL" in audit trails.
//
// The canonical form NFC-normalizes every string and length-prefixes each
// field, with tables and columns in sorted order.
func (v *Vocabulary) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(fingerprintDomain))
	h.Write([]byte{0x00})

	hashString(h, v.version)
	hashCount(h, len(v.tables))
	for _, def := range v.tables {
		hashString(h, def.name)
		hashCount(h, len(def.columns))
		for _, col := range def.columns {
			hashString(h, col)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// hashString writes one NFC-normalized, length-prefixed string.
func hashString(h hash.Hash, s string) {
	b := norm.NFC.Bytes([]byte(s))
	hashCount(h, len(b))
	h.Write(b)
}

// hashCount writes a fixed-width element count so adjacent fields cannot
// alias each other.
func hashCount(h hash.Hash, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}
