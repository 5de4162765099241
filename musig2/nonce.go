package musig2

import (
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/musig2err"
)

// PublicPartialNonces is (R_0, R_1) = (r_0·B, r_1·B), the public commitment
// to one party's pair of secret nonces (spec §3, entity PublicPartialNonces).
type PublicPartialNonces struct {
	R0, R1 *edwards25519.Point
}

// privatePartialNonces is (r_0, r_1), a party's secret nonce pair (spec §3,
// entity PrivatePartialNonces). It must never be reused across two distinct
// signing sessions: reuse leaks the long-term secret key (spec §4.2, §4.7).
type privatePartialNonces struct {
	r0, r1 *edwards25519.Scalar
}

// AggMessage1 is the message broadcast in round one: a party's public
// nonces together with its own public key, so peers can match entries
// against the participant list without assuming wire order (spec §3, §4.3).
type AggMessage1 struct {
	PublicNonces PublicPartialNonces
	Sender       ParticipantKey
}

// SecretAggStepOne is the state a party must retain locally between step_one
// and step_two (spec §3, §4.7). It carries the private nonce pair plus a
// copy of the public pair so it can be re-derived if needed, and should be
// discarded once step_two is called.
type SecretAggStepOne struct {
	private privatePartialNonces
	public  PublicPartialNonces
}

// Zeroize overwrites the secret scalars so they don't linger in memory after
// a party transitions out of the NONCES_READY state (spec §4.7).
func (s *SecretAggStepOne) Zeroize() {
	if s.private.r0 != nil {
		s.private.r0.Set(edwards25519.NewScalar())
	}
	if s.private.r1 != nil {
		s.private.r1.Set(edwards25519.NewScalar())
	}
}

// generateNonce samples fresh nonce randomness and salts it with the party's
// own secret key bytes before hashing it down to a scalar, the same
// defensive pattern the teacher's frost.Signer.generateNonce uses to harden
// nonce generation against a weak RNG (spec §4.2: "Sample ... uniformly ...
// using a cryptographically secure RNG").
func generateNonce(secretSeed []byte) (*edwards25519.Scalar, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, musig2err.ErrRngUnavailable
	}
	return hashToScalar(b, secretSeed), nil
}

// Payload returns the tag-1 wire payload: R_0 ‖ R_1 ‖ sender-pubkey, 96
// bytes (spec §4.5).
func (m *AggMessage1) Payload() []byte {
	out := make([]byte, 0, 96)
	r0 := encodePoint(m.PublicNonces.R0)
	r1 := encodePoint(m.PublicNonces.R1)
	out = append(out, r0[:]...)
	out = append(out, r1[:]...)
	out = append(out, m.Sender[:]...)
	return out
}

// ParseAggMessage1Payload parses a 96-byte tag-1 payload (spec §4.5).
func ParseAggMessage1Payload(b []byte) (*AggMessage1, error) {
	if len(b) != 96 {
		return nil, fmt.Errorf("%w: want 96 bytes, got %d", musig2err.ErrInvalidInput, len(b))
	}
	r0, err := decodePoint(b[0:32])
	if err != nil {
		return nil, err
	}
	r1, err := decodePoint(b[32:64])
	if err != nil {
		return nil, err
	}
	var sender ParticipantKey
	copy(sender[:], b[64:96])
	return &AggMessage1{
		PublicNonces: PublicPartialNonces{R0: r0, R1: r1},
		Sender:       sender,
	}, nil
}

// Payload returns the tag-3 wire payload: r_0 ‖ r_1 ‖ R_0 ‖ R_1, 128 bytes
// (spec §4.5). Payload exposes the secret scalars: callers must treat the
// result as sensitive (spec §9, "tag-3 artifacts" note).
func (s *SecretAggStepOne) Payload() []byte {
	out := make([]byte, 0, 128)
	r0 := encodeScalar(s.private.r0)
	r1 := encodeScalar(s.private.r1)
	R0 := encodePoint(s.public.R0)
	R1 := encodePoint(s.public.R1)
	out = append(out, r0[:]...)
	out = append(out, r1[:]...)
	out = append(out, R0[:]...)
	out = append(out, R1[:]...)
	return out
}

// ParseSecretAggStepOnePayload parses a 128-byte tag-3 payload (spec §4.5).
func ParseSecretAggStepOnePayload(b []byte) (*SecretAggStepOne, error) {
	if len(b) != 128 {
		return nil, fmt.Errorf("%w: want 128 bytes, got %d", musig2err.ErrInvalidInput, len(b))
	}
	r0, err := decodeScalar(b[0:32])
	if err != nil {
		return nil, err
	}
	r1, err := decodeScalar(b[32:64])
	if err != nil {
		return nil, err
	}
	R0, err := decodePoint(b[64:96])
	if err != nil {
		return nil, err
	}
	R1, err := decodePoint(b[96:128])
	if err != nil {
		return nil, err
	}
	return &SecretAggStepOne{
		private: privatePartialNonces{r0: r0, r1: r1},
		public:  PublicPartialNonces{R0: R0, R1: R1},
	}, nil
}

// StepOne implements step_one(own_secret_key) from spec §4.2: it samples a
// fresh, message-independent nonce pair and returns the message to broadcast
// plus the local state to retain until step_two.
//
// Every call produces fresh nonces. Callers must never cache or replay a
// SecretAggStepOne across two different signing sessions.
func StepOne(ownSecretKey SecretKey) (*AggMessage1, *SecretAggStepOne, error) {
	seed := ownSecretKey.Seed()
	pub := ownSecretKey.PublicKeyBytes()

	r0, err := generateNonce(seed)
	if err != nil {
		return nil, nil, err
	}
	r1, err := generateNonce(seed)
	if err != nil {
		return nil, nil, err
	}

	R0 := new(edwards25519.Point).ScalarBaseMult(r0)
	R1 := new(edwards25519.Point).ScalarBaseMult(r1)

	public := PublicPartialNonces{R0: R0, R1: R1}

	var sender ParticipantKey
	copy(sender[:], pub)

	msg := &AggMessage1{PublicNonces: public, Sender: sender}
	secret := &SecretAggStepOne{
		private: privatePartialNonces{r0: r0, r1: r1},
		public:  public,
	}
	return msg, secret, nil
}
