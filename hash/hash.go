// Package hash implements the primitives Component A names: SHA-256,
// double-SHA-256, HASH160, and a pluggable signature verifier.
package hash

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // spec-mandated HASH160 construction
)

// SHA256 returns the SHA-256 digest of b.
func SHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// DoubleSHA256 returns sha256(sha256(b)).
func DoubleSHA256(b []byte) [32]byte {
	first := sha256.Sum256(b)
	return sha256.Sum256(first[:])
}

// Hash160 returns ripemd160(sha256(b)), the address/key-hash construction
// used by the P2PKH and P2WPKH templates.
func Hash160(b []byte) [20]byte {
	first := sha256.Sum256(b)
	r := ripemd160.New()
	_, _ = r.Write(first[:])
	sum := r.Sum(nil)
	var out [20]byte
	copy(out[:], sum)
	return out
}
