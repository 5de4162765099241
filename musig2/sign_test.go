package musig2

import (
	"crypto/ed25519"
	"testing"

	"github.com/solmusig2/agg/internal/testutils"
)

func freshSecretKey(t *testing.T) SecretKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating fresh keypair", err)
	sk, err := NewSecretKeyFromExpanded(priv)
	testutils.AssertNoError(t, "wrapping expanded keypair", err)
	return sk
}

func runFullSession(t *testing.T, keys []SecretKey, message []byte) *Signature {
	t.Helper()

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

	sig, err := StepThree(list, message, partials)
	testutils.AssertNoError(t, "step_three", err)
	return sig
}

// S1: 2-of-2 end-to-end session verifies under a stock Ed25519 verifier.
func TestFullSession_TwoParty(t *testing.T) {
	keyA := freshSecretKey(t)
	keyB := freshSecretKey(t)
	message := []byte("hello!\n")

	list := ParticipantList{keyA.ParticipantKey(), keyB.ParticipantKey()}
	aggKey, err := AggregateKeys(list, nil)
	testutils.AssertNoError(t, "aggregating keys", err)

	sig := runFullSession(t, []SecretKey{keyA, keyB}, message)

	pub := aggKey.PublicKeyBytes()
	sigBytes := sig.Bytes()
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), message, sigBytes[:]) {
		t.Fatal("aggregated signature failed standard Ed25519 verification")
	}
}

// S1 variant with a third party, confirming the property holds for N > 2.
func TestFullSession_ThreeParty(t *testing.T) {
	keys := []SecretKey{freshSecretKey(t), freshSecretKey(t), freshSecretKey(t)}
	message := []byte("hello!\n")

	list := make(ParticipantList, len(keys))
	for i, k := range keys {
		list[i] = k.ParticipantKey()
	}
	aggKey, err := AggregateKeys(list, nil)
	testutils.AssertNoError(t, "aggregating keys", err)

	sig := runFullSession(t, keys, message)

	pub := aggKey.PublicKeyBytes()
	sigBytes := sig.Bytes()
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), message, sigBytes[:]) {
		t.Fatal("aggregated signature failed standard Ed25519 verification")
	}
}

// S1 corollary: the two independently-computed R values for a session
// must be byte-identical (spec §4.3, "Every party deriving independently
// MUST arrive at byte-identical R").
func TestStepTwo_AgreesOnR(t *testing.T) {
	keyA := freshSecretKey(t)
	keyB := freshSecretKey(t)
	message := []byte("hello!\n")

	list := ParticipantList{keyA.ParticipantKey(), keyB.ParticipantKey()}

	msgA, secretA, err := StepOne(keyA)
	testutils.AssertNoError(t, "step_one A", err)
	msgB, secretB, err := StepOne(keyB)
	testutils.AssertNoError(t, "step_one B", err)

	firstMsgs := []*AggMessage1{msgA, msgB}

	partialA, err := StepTwo(keyA, message, list, firstMsgs, secretA)
	testutils.AssertNoError(t, "step_two A", err)
	partialB, err := StepTwo(keyB, message, list, firstMsgs, secretB)
	testutils.AssertNoError(t, "step_two B", err)

	ra := encodePoint(partialA.R)
	rb := encodePoint(partialB.R)
	testutils.AssertBytesEqual(t, ra[:], rb[:])
}

func TestStepTwo_RejectsMissingOwnMessage(t *testing.T) {
	keyA := freshSecretKey(t)
	keyB := freshSecretKey(t)
	message := []byte("hello!\n")

	list := ParticipantList{keyA.ParticipantKey(), keyB.ParticipantKey()}

	_, secretA, err := StepOne(keyA)
	testutils.AssertNoError(t, "step_one A", err)
	msgB, _, err := StepOne(keyB)
	testutils.AssertNoError(t, "step_one B", err)

	_, err = StepTwo(keyA, message, list, []*AggMessage1{msgB}, secretA)
	if err == nil {
		t.Fatal("expected step_two to fail when own round-one message is absent")
	}
}
