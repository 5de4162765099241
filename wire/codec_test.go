package wire

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/solmusig2/agg/internal/testutils"
	"github.com/solmusig2/agg/musig2"
	"github.com/solmusig2/agg/musig2err"
)

func freshSecretKey(t *testing.T) musig2.SecretKey {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating fresh keypair", err)
	sk, err := musig2.NewSecretKeyFromExpanded(priv)
	testutils.AssertNoError(t, "wrapping expanded keypair", err)
	return sk
}

func TestAggMessage1_EncodeDecodeRoundTrip(t *testing.T) {
	sk := freshSecretKey(t)
	msg, _, err := musig2.StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	encoded := EncodeAggMessage1(msg)
	decoded, err := DecodeAggMessage1(encoded)
	testutils.AssertNoError(t, "decoding", err)

	testutils.AssertBytesEqual(t, msg.Sender[:], decoded.Sender[:])
}

func TestSecretAggStepOne_EncodeDecodeRoundTrip(t *testing.T) {
	sk := freshSecretKey(t)
	_, secret, err := musig2.StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	encoded := EncodeSecretAggStepOne(secret)
	decoded, err := DecodeSecretAggStepOne(encoded)
	testutils.AssertNoError(t, "decoding", err)

	testutils.AssertBytesEqual(t, secret.Payload(), decoded.Payload())
}

// S3: handing a valid AggMessage1 envelope to the PartialSignature decoder
// fails with WrongTag{expected: 2, found: 1}.
func TestDecode_TagConfusion(t *testing.T) {
	sk := freshSecretKey(t)
	msg, _, err := musig2.StepOne(sk)
	testutils.AssertNoError(t, "step_one", err)

	encoded := EncodeAggMessage1(msg)

	_, err = DecodePartialSignature(encoded)
	if err == nil {
		t.Fatal("expected decoding a tag-1 envelope as PartialSignature to fail")
	}
	var wrongTag *musig2err.WrongTagError
	testutils.AssertErrorAs(t, "tag confusion", err, &wrongTag)
	if wrongTag.Expected != tagPartialSignature || wrongTag.Found != tagAggMessage1 {
		t.Fatalf("unexpected WrongTagError: expected %d found %d", wrongTag.Expected, wrongTag.Found)
	}
}

func TestDecode_ShortInput(t *testing.T) {
	_, err := DecodeAggMessage1(base58OfOneByte(tagAggMessage1))
	var shortInput *musig2err.ShortInputError
	testutils.AssertErrorAs(t, "short input", err, &shortInput)
}

func TestDecode_UnknownTagAlwaysFailsWrongTag(t *testing.T) {
	_, err := DecodeAggMessage1(base58OfEnvelope(0xEE, make([]byte, 96)))
	var wrongTag *musig2err.WrongTagError
	testutils.AssertErrorAs(t, "unknown tag", err, &wrongTag)
}

func base58OfOneByte(tag byte) string {
	return base58OfEnvelope(tag, nil)
}

func base58OfEnvelope(tag byte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, tag)
	buf = append(buf, payload...)
	return base58.Encode(buf)
}
