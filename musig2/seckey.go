package musig2

import (
	"crypto/ed25519"
	"fmt"

	"github.com/solmusig2/agg/musig2err"
)

// SecretKey is a party's long-term Ed25519 keypair in Solana's on-disk
// convention: 64 bytes, the 32-byte seed followed by the 32-byte public key
// (spec §6.4). It is a thin wrapper over crypto/ed25519.PrivateKey so key
// material I/O (package keystore) stays on the standard library type the
// rest of the Go Ed25519 ecosystem uses.
type SecretKey struct {
	inner ed25519.PrivateKey
}

// NewSecretKeyFromExpanded wraps a 64-byte seed‖pubkey value. It does not
// re-derive or validate the public half against the seed; callers that read
// key material from untrusted input should prefer NewSecretKeyFromSeed.
func NewSecretKeyFromExpanded(expanded []byte) (SecretKey, error) {
	if len(expanded) != ed25519.PrivateKeySize {
		return SecretKey{}, fmt.Errorf("%w: expected %d bytes, got %d", musig2err.ErrInvalidInput, ed25519.PrivateKeySize, len(expanded))
	}
	k := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(k, expanded)
	return SecretKey{inner: k}, nil
}

// NewSecretKeyFromSeed derives the full expanded keypair from a 32-byte
// seed, the form produced by crypto/ed25519.GenerateKey.
func NewSecretKeyFromSeed(seed []byte) (SecretKey, error) {
	if len(seed) != ed25519.SeedSize {
		return SecretKey{}, fmt.Errorf("%w: expected %d-byte seed, got %d", musig2err.ErrInvalidInput, ed25519.SeedSize, len(seed))
	}
	return SecretKey{inner: ed25519.NewKeyFromSeed(seed)}, nil
}

// ExpandedBytes returns the full 64-byte seed‖pubkey encoding (spec §6.4),
// the form Solana's own solana.PrivateKey type uses.
func (k SecretKey) ExpandedBytes() []byte {
	out := make([]byte, len(k.inner))
	copy(out, k.inner)
	return out
}

// Seed returns the 32-byte seed half of the keypair.
func (k SecretKey) Seed() []byte {
	return k.inner.Seed()
}

// PublicKeyBytes returns the 32-byte Ed25519 public key.
func (k SecretKey) PublicKeyBytes() []byte {
	pub := k.inner.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// ParticipantKey returns the public half as a ParticipantKey, for building a
// ParticipantList entry.
func (k SecretKey) ParticipantKey() ParticipantKey {
	var pk ParticipantKey
	copy(pk[:], k.PublicKeyBytes())
	return pk
}
