package musig2

import (
	"bytes"
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/musig2err"
)

// ParticipantKey is a 32-byte Ed25519 public key (spec §3, entity
// ParticipantKey). It may repeat within a ParticipantList: duplicate entries
// are treated as distinct positions, not collapsed.
type ParticipantKey [32]byte

// ParticipantList is the ordered, non-empty list of keys a session is bound
// to. Its order must be byte-identical across every party: permuting it
// yields a different aggregated key (spec §9, "Participant-list identity vs
// ordering").
type ParticipantList []ParticipantKey

// AggregatedKey is the result of aggregate_keys (spec §4.1): the aggregated
// public key X̃, the per-position coefficients a_i, and the list-commitment
// digest L the coefficients are bound to.
type AggregatedKey struct {
	Key          *edwards25519.Point
	Coefficients []*edwards25519.Scalar
	L            [64]byte

	// FocusCoefficient is a_focus when AggregateKeys was called with a
	// non-nil focus key, nil otherwise.
	FocusCoefficient *edwards25519.Scalar
}

// PublicKeyBytes returns the canonical 32-byte encoding of the aggregated
// public key.
func (ak *AggregatedKey) PublicKeyBytes() [32]byte {
	return encodePoint(ak.Key)
}

// AggregateKeys implements aggregate_keys(list, focus) from spec §4.1.
//
// focus, if non-nil, must be byte-identical to one of the entries in list;
// AggregateKeys then also returns that entry's coefficient a_focus via
// AggregatedKey.FocusCoefficient. A focus key absent from list fails with
// musig2err.ErrFocusNotInList.
//
// Two calls with an identical list, including order and duplicates, always
// yield a bytewise-identical AggregatedKey (spec §4.1 "Determinism" and §8
// property 1).
func AggregateKeys(list ParticipantList, focus *ParticipantKey) (*AggregatedKey, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: participant list must be non-empty", musig2err.ErrInvalidInput)
	}

	focusIndex := -1
	if focus != nil {
		for i, k := range list {
			if bytes.Equal(k[:], focus[:]) {
				focusIndex = i
				break
			}
		}
		if focusIndex == -1 {
			return nil, musig2err.ErrFocusNotInList
		}
	}

	points := make([]*edwards25519.Point, len(list))
	for i, k := range list {
		p, err := decodePoint(k[:])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}

	// L̂ = SHA-512(P_1 ‖ ... ‖ P_n); D is the full 64-byte digest, used as
	// the per-key hash input below (spec §4.1 step 3).
	h := sha512.New()
	for _, k := range list {
		h.Write(k[:])
	}
	var digest [64]byte
	copy(digest[:], h.Sum(nil))

	coefficients := make([]*edwards25519.Scalar, len(list))
	combined := edwards25519.NewIdentityPoint()
	if len(list) == 1 {
		// Single-key identity (spec §8 property 2): X̃ must equal P_1
		// exactly, so the sole coefficient is fixed at 1 rather than
		// hash-derived.
		var one [32]byte
		one[0] = 1
		scalarOne, err := edwards25519.NewScalar().SetCanonicalBytes(one[:])
		if err != nil {
			panic("musig2: canonical encoding of 1 rejected")
		}
		coefficients[0] = scalarOne
		combined.Set(points[0])
	} else {
		for i, k := range list {
			// a_i = SHA-512(D ‖ P_i) reduced mod ℓ (spec §4.1 step 4).
			a := hashToScalar(digest[:], k[:])
			coefficients[i] = a

			term := new(edwards25519.Point).ScalarMult(a, points[i])
			combined.Add(combined, term)
		}
	}

	ak := &AggregatedKey{
		Key:          combined,
		Coefficients: coefficients,
		L:            digest,
	}
	if focusIndex != -1 {
		ak.FocusCoefficient = coefficients[focusIndex]
	}
	return ak, nil
}
