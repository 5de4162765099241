package musig2

import (
	"bytes"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/musig2err"
)

// PartialSignature is (R, s_i), one party's share of the aggregated
// signature (spec §3, entity PartialSignature). R is identical across every
// participant of a session; Σ s_i under a fixed R produces the final
// signature (spec §4.4).
type PartialSignature struct {
	R *edwards25519.Point
	S *edwards25519.Scalar
}

// Bytes returns the 64-byte (R ‖ s_i) encoding.
func (p PartialSignature) Bytes() [64]byte {
	var out [64]byte
	r := encodePoint(p.R)
	s := encodeScalar(p.S)
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// ParsePartialSignaturePayload parses a 64-byte tag-2 payload, R ‖ s_i
// (spec §4.5).
func ParsePartialSignaturePayload(b []byte) (*PartialSignature, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("%w: want 64 bytes, got %d", musig2err.ErrInvalidInput, len(b))
	}
	r, err := decodePoint(b[0:32])
	if err != nil {
		return nil, err
	}
	s, err := decodeScalar(b[32:64])
	if err != nil {
		return nil, err
	}
	return &PartialSignature{R: r, S: s}, nil
}

// StepTwo implements step_two from spec §4.3: given the message to be
// signed, the participant list, the caller's own secret key, every party's
// round-one message (including its own, order unspecified), and its own
// round-one secret state, it produces this party's partial signature.
//
// firstMsgs need not be ordered the same way as list; the caller's own
// message is located by public-key equality, and every entry contributes to
// the combined nonce regardless of order (spec §4.3, "Implementer MUST NOT
// assume ordering matches list").
func StepTwo(
	ownSecretKey SecretKey,
	message []byte,
	list ParticipantList,
	firstMsgs []*AggMessage1,
	ownSecretState *SecretAggStepOne,
) (*PartialSignature, error) {
	own := ownSecretKey.ParticipantKey()

	aggKey, err := AggregateKeys(list, &own)
	if err != nil {
		return nil, err
	}

	foundOwn := false
	for _, m := range firstMsgs {
		if bytes.Equal(m.Sender[:], own[:]) {
			foundOwn = true
			break
		}
	}
	if !foundOwn {
		return nil, fmt.Errorf("%w: own public-nonce message not present in firstMsgs", musig2err.ErrInvalidInput)
	}

	// R̃_0, R̃_1 = Σ_i R_{i,0}, Σ_i R_{i,1} (spec §4.3 step 2).
	r0Terms := make([]*edwards25519.Point, len(firstMsgs))
	r1Terms := make([]*edwards25519.Point, len(firstMsgs))
	for i, m := range firstMsgs {
		r0Terms[i] = m.PublicNonces.R0
		r1Terms[i] = m.PublicNonces.R1
	}
	combinedR0 := addPoints(r0Terms...)
	combinedR1 := addPoints(r1Terms...)

	xTilde := aggKey.PublicKeyBytes()
	r0Bytes := encodePoint(combinedR0)
	r1Bytes := encodePoint(combinedR1)

	// b = SHA-512(X̃ ‖ R̃_0 ‖ R̃_1 ‖ m) reduced mod ℓ (spec §4.3 step 3).
	b := hashToScalar(xTilde[:], r0Bytes[:], r1Bytes[:], message)

	// R = R̃_0 + b·R̃_1 (spec §4.3 step 4).
	bR1 := new(edwards25519.Point).ScalarMult(b, combinedR1)
	R := new(edwards25519.Point).Add(combinedR0, bR1)
	rBytes := encodePoint(R)

	// c = SHA-512(R ‖ X̃ ‖ m) reduced mod ℓ (spec §4.3 step 5).
	c := hashToScalar(rBytes[:], xTilde[:], message)

	xOwn := expandSecretScalar(ownSecretKey.Seed())

	// s_own = (r_0 + b*r_1) + c*a_own*x_own (mod ℓ) (spec §4.3 step 6).
	rb := new(edwards25519.Scalar).MultiplyAdd(b, ownSecretState.private.r1, ownSecretState.private.r0)
	caX := new(edwards25519.Scalar).Multiply(c, aggKey.FocusCoefficient)
	caX.Multiply(caX, xOwn)
	sOwn := new(edwards25519.Scalar).Add(rb, caX)

	return &PartialSignature{R: R, S: sOwn}, nil
}
