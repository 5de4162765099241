package musig2

import (
	"testing"

	"github.com/solmusig2/agg/internal/testutils"
)

func TestStepOne_ProducesDistinctNoncesAcrossCalls(t *testing.T) {
	sk := freshSecretKey(t)

	msg1, _, err := StepOne(sk)
	testutils.AssertNoError(t, "first step_one", err)
	msg2, _, err := StepOne(sk)
	testutils.AssertNoError(t, "second step_one", err)

	r0a := encodePoint(msg1.PublicNonces.R0)
	r0b := encodePoint(msg2.PublicNonces.R0)
	if r0a == r0b {
		t.Fatal("expected two independent step_one calls to sample distinct nonces")
	}
}

func TestStepOne_SenderMatchesOwnParticipantKey(t *testing.T) {
	sk := freshSecretKey(t)
	msg, _, err := StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	own := sk.ParticipantKey()
	testutils.AssertBytesEqual(t, msg.Sender[:], own[:])
}

func TestSecretAggStepOne_ZeroizeClearsScalars(t *testing.T) {
	sk := freshSecretKey(t)
	_, secret, err := StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	secret.Zeroize()

	zero := encodeScalar(secret.private.r0)
	for _, b := range zero {
		if b != 0 {
			t.Fatal("expected r0 to be zeroized")
		}
	}
}

func TestAggMessage1_PayloadRoundTrip(t *testing.T) {
	sk := freshSecretKey(t)
	msg, _, err := StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	payload := msg.Payload()
	parsed, err := ParseAggMessage1Payload(payload)
	testutils.AssertNoError(t, "parsing payload", err)

	testutils.AssertBytesEqual(t, msg.Sender[:], parsed.Sender[:])

	want := encodePoint(msg.PublicNonces.R0)
	got := encodePoint(parsed.PublicNonces.R0)
	testutils.AssertBytesEqual(t, want[:], got[:])
}

func TestSecretAggStepOne_PayloadRoundTrip(t *testing.T) {
	sk := freshSecretKey(t)
	_, secret, err := StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	payload := secret.Payload()
	parsed, err := ParseSecretAggStepOnePayload(payload)
	testutils.AssertNoError(t, "parsing payload", err)

	want := encodeScalar(secret.private.r0)
	got := encodeScalar(parsed.private.r0)
	testutils.AssertBytesEqual(t, want[:], got[:])
}
