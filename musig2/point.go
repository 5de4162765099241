// Package musig2 implements the two-round MuSig2 multi-signature protocol
// over Ed25519 (spec §2-§4): deterministic key aggregation, distributed
// nonce agreement, partial signing, and partial-signature aggregation into
// a single signature that verifies under a stock Ed25519 verifier.
//
// The protocol structure — a per-participant commitment round followed by a
// signing round, coordinated by a binding-factor/challenge pattern — mirrors
// the two-round Schnorr threshold signing scheme this package was adapted
// from (the teacher's frost/signer.go and frost/coordinator.go), specialized
// from secp256k1/big.Int arithmetic and t-of-n Lagrange interpolation down to
// Ed25519 group arithmetic and N-of-N aggregation (spec §2 item 2-5).
package musig2

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/musig2err"
)

// decodePoint parses a 32-byte compressed Ed25519 point, the same encoding
// Solana (and every Ed25519 implementation) uses for public keys.
func decodePoint(b []byte) (*edwards25519.Point, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: want 32 bytes, got %d", musig2err.ErrInvalidPoint, len(b))
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrInvalidPoint, err)
	}
	return p, nil
}

// encodePoint returns the canonical 32-byte compressed encoding of p.
func encodePoint(p *edwards25519.Point) [32]byte {
	var out [32]byte
	copy(out[:], p.Bytes())
	return out
}

// decodeScalar parses a 32-byte little-endian scalar, rejecting anything not
// canonically reduced modulo the group order ℓ.
func decodeScalar(b []byte) (*edwards25519.Scalar, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: want 32 bytes, got %d", musig2err.ErrInvalidScalar, len(b))
	}
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrInvalidScalar, err)
	}
	return s, nil
}

// encodeScalar returns the canonical 32-byte little-endian encoding of s.
func encodeScalar(s *edwards25519.Scalar) [32]byte {
	var out [32]byte
	copy(out[:], s.Bytes())
	return out
}

// hashToScalar computes SHA-512 over the concatenation of parts and reduces
// the 64-byte digest modulo ℓ, the "H(...) reduced mod ℓ" operation spec
// §4.1 and §4.3 use for the per-key coefficients a_i, the binding scalar b,
// and the challenge c. The list commitment L is kept as the raw 64-byte
// digest and does not go through this function.
func hashToScalar(parts ...[]byte) *edwards25519.Scalar {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)
	s, err := new(edwards25519.Scalar).SetUniformBytes(digest)
	if err != nil {
		// sha512.Sum always returns 64 bytes; SetUniformBytes only rejects
		// inputs of the wrong length.
		panic("musig2: sha512 digest was not 64 bytes")
	}
	return s
}

// expandSecretScalar derives the clamped Ed25519 secret scalar x from the
// 32-byte seed, per RFC 8032: x is the first half of SHA-512(seed), clamped.
// This is the x_own used in spec §4.3 step 6.
func expandSecretScalar(seed []byte) *edwards25519.Scalar {
	digest := sha512.Sum512(seed)
	s, err := new(edwards25519.Scalar).SetBytesWithClamping(digest[:32])
	if err != nil {
		panic("musig2: clamped scalar derivation failed")
	}
	return s
}

func addPoints(points ...*edwards25519.Point) *edwards25519.Point {
	sum := edwards25519.NewIdentityPoint()
	for _, p := range points {
		sum.Add(sum, p)
	}
	return sum
}
