package hash

import "crypto/sha256"

// Signer is the pluggable signature capability named in spec §4.A/§6. The
// interface is kept stable so a real ECDSA/Schnorr implementation can be
// swapped in later without touching callers.
type Signer interface {
	Sign(priv, msg []byte) []byte
	Verify(pub, msg, sig []byte) bool
}

// pubkeySuffix is the key-derivation convention shared by Sign and every
// caller that needs to derive a public key from a private one (see the
// worked examples in spec §8: pub = sha256(priv || "pubkey")).
const pubkeySuffix = "pubkey"

// DerivePublicKey computes the public key a wallet would publish for priv,
// under the reference scheme's key-derivation convention.
func DerivePublicKey(priv []byte) []byte {
	sum := sha256.Sum256(append(append([]byte{}, priv...), pubkeySuffix...))
	return sum[:]
}

// MACSigner is the reference verifier named in §6/§9: a symmetric
// construction, insecure by design, that exists only to keep the Signer
// interface stable until a real asymmetric scheme is swapped in. Sign
// derives the public key from priv internally (the same derivation
// DerivePublicKey exposes) and produces a keyed hash of (pub, msg); Verify
// recomputes the identical hash from the caller-supplied pub. Knowing pub
// alone is enough to forge a signature for any message — that is the
// "insecure, for demo purposes" property spec §9 calls out; a real
// implementation swaps this type for one backed by an actual private key.
type MACSigner struct{}

// Sign returns a deterministic 32-byte tag over (DerivePublicKey(priv), msg).
func (MACSigner) Sign(priv, msg []byte) []byte {
	pub := DerivePublicKey(priv)
	return tag(pub, msg)
}

// Verify recomputes tag(pub, msg) and compares it against sig.
func (MACSigner) Verify(pub, msg, sig []byte) bool {
	if len(sig) != 32 || len(pub) == 0 {
		return false
	}
	expected := tag(pub, msg)
	return constantTimeEqual(expected, sig)
}

func tag(pub, msg []byte) []byte {
	buf := make([]byte, 0, len(pub)+len(msg))
	buf = append(buf, pub...)
	buf = append(buf, msg...)
	sum := sha256.Sum256(buf)
	return sum[:]
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
