package musig2

import (
	"crypto/ed25519"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/musig2err"
)

// Signature is the final, verifiable Ed25519 signature produced by
// aggregating every party's partial signature (spec §3, entity Signature).
type Signature struct {
	R *edwards25519.Point
	S *edwards25519.Scalar
}

// Bytes returns the standard 64-byte Ed25519 signature encoding (R ‖ S),
// verifiable by any stock Ed25519 verifier against the aggregated public
// key (spec §4.4, "the output MUST verify under a standard Ed25519
// verification routine").
func (sig *Signature) Bytes() [64]byte {
	var out [64]byte
	r := encodePoint(sig.R)
	s := encodeScalar(sig.S)
	copy(out[:32], r[:])
	copy(out[32:], s[:])
	return out
}

// StepThree implements step_three from spec §4.4: it sums every partial
// signature's scalar under a common R and verifies the result against the
// aggregated public key before returning it.
//
// Every shares[i].R must be bytewise identical — they were all derived from
// the same combined nonce in step_two. A mismatch means the parties did not
// agree on the same round-one message set and is rejected rather than
// silently aggregated (spec §4.4 step 1, §5 edge case "mismatched nonce
// commitments").
func StepThree(list ParticipantList, message []byte, shares []*PartialSignature) (*Signature, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no partial signatures to aggregate", musig2err.ErrInvalidInput)
	}

	commonR := encodePoint(shares[0].R)
	sSum := edwards25519.NewScalar()
	for _, sh := range shares {
		if encodePoint(sh.R) != commonR {
			return nil, musig2err.ErrMismatchedNonces
		}
		sSum.Add(sSum, sh.S)
	}

	aggKey, err := AggregateKeys(list, nil)
	if err != nil {
		return nil, err
	}

	sig := &Signature{R: shares[0].R, S: sSum}

	pub := aggKey.PublicKeyBytes()
	sigBytes := sig.Bytes()
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), message, sigBytes[:]) {
		return nil, musig2err.ErrInvalidAggregatedSignature
	}

	return sig, nil
}

// VerifyAgainstKey checks sig against an already-computed aggregated public
// key, for callers (tests, audit tooling) that want to verify a signature
// without re-running key aggregation.
func VerifyAgainstKey(pub [32]byte, message []byte, sig *Signature) bool {
	sigBytes := sig.Bytes()
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sigBytes[:])
}
