package musig2

import (
	"testing"

	"github.com/solmusig2/agg/internal/testutils"
	"github.com/solmusig2/agg/musig2err"
)

// S2: flipping one bit of a partial signature's R causes step_three to
// fail with MismatchedNonces.
func TestStepThree_MismatchedNonces(t *testing.T) {
	keyA := freshSecretKey(t)
	keyB := freshSecretKey(t)
	keyC := freshSecretKey(t)
	message := []byte("hello!\n")

	keys := []SecretKey{keyA, keyB, keyC}
	list := make(ParticipantList, len(keys))
	for i, k := range keys {
		list[i] = k.ParticipantKey()
	}

	firstMsgs := make([]*AggMessage1, len(keys))
	secrets := make([]*SecretAggStepOne, len(keys))
	for i, k := range keys {
		msg, secret, err := StepOne(k)
		testutils.AssertNoError(t, "step_one", err)
		firstMsgs[i] = msg
		secrets[i] = secret
	}

	partials := make([]*PartialSignature, len(keys))
	for i, k := range keys {
		p, err := StepTwo(k, message, list, firstMsgs, secrets[i])
		testutils.AssertNoError(t, "step_two", err)
		partials[i] = p
	}

	// Flip one bit of the second partial's R: the sign-of-x bit, which
	// turns R into its negation, a point that still decodes.
	tampered := encodePoint(partials[1].R)
	tampered[31] ^= 0x80
	tamperedPoint, err := decodePoint(tampered[:])
	if err == nil {
		partials[1] = &PartialSignature{R: tamperedPoint, S: partials[1].S}
	} else {
		// A negated point always decodes, so reaching this branch
		// indicates a broken test fixture.
		t.Fatalf("tampered R no longer decodes: %v", err)
	}

	_, err = StepThree(list, message, partials)
	testutils.AssertErrorIs(t, "mismatched nonces", err, musig2err.ErrMismatchedNonces)
}

// Property 6: permuting the partials input to step_three yields the same
// FinalSignature.
func TestStepThree_CommutativeOverPartialOrder(t *testing.T) {
	keyA := freshSecretKey(t)
	keyB := freshSecretKey(t)
	message := []byte("hello!\n")

	keys := []SecretKey{keyA, keyB}
	list := make(ParticipantList, len(keys))
	for i, k := range keys {
		list[i] = k.ParticipantKey()
	}

	firstMsgs := make([]*AggMessage1, len(keys))
	secrets := make([]*SecretAggStepOne, len(keys))
	for i, k := range keys {
		msg, secret, err := StepOne(k)
		testutils.AssertNoError(t, "step_one", err)
		firstMsgs[i] = msg
		secrets[i] = secret
	}

	partials := make([]*PartialSignature, len(keys))
	for i, k := range keys {
		p, err := StepTwo(k, message, list, firstMsgs, secrets[i])
		testutils.AssertNoError(t, "step_two", err)
		partials[i] = p
	}

	inOrder, err := StepThree(list, message, []*PartialSignature{partials[0], partials[1]})
	testutils.AssertNoError(t, "step_three in order", err)
	reversed, err := StepThree(list, message, []*PartialSignature{partials[1], partials[0]})
	testutils.AssertNoError(t, "step_three reversed", err)

	a := inOrder.Bytes()
	b := reversed.Bytes()
	testutils.AssertBytesEqual(t, a[:], b[:])
}

func TestStepThree_RejectsEmptyPartials(t *testing.T) {
	keyA := freshSecretKey(t)
	list := ParticipantList{keyA.ParticipantKey()}
	_, err := StepThree(list, []byte("m"), nil)
	testutils.AssertErrorIs(t, "empty partials", err, musig2err.ErrInvalidInput)
}
