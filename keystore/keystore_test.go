package keystore

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"

	"github.com/solmusig2/agg/internal/testutils"
	"github.com/solmusig2/agg/musig2err"
)

func TestParse_RawBytes(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating key", err)

	sk, err := Parse(priv)
	testutils.AssertNoError(t, "parsing raw bytes", err)
	testutils.AssertBytesEqual(t, []byte(priv), sk.ExpandedBytes())
}

func TestParse_Base58String(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating key", err)

	encoded := base58.Encode(priv)
	sk, err := Parse([]byte(encoded))
	testutils.AssertNoError(t, "parsing base58 string", err)
	testutils.AssertBytesEqual(t, []byte(priv), sk.ExpandedBytes())
}

func TestParse_Base58WithWhitespace(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating key", err)

	encoded := "  " + base58.Encode(priv) + "\n"
	sk, err := Parse([]byte(encoded))
	testutils.AssertNoError(t, "parsing padded base58 string", err)
	testutils.AssertBytesEqual(t, []byte(priv), sk.ExpandedBytes())
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not valid base58 or raw bytes \x00\x01"))
	testutils.AssertErrorIs(t, "garbage input", err, musig2err.ErrInvalidInput)
}

func TestParticipantListFromCSV(t *testing.T) {
	_, privA, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating key A", err)
	_, privB, err := ed25519.GenerateKey(nil)
	testutils.AssertNoError(t, "generating key B", err)

	pubA := base58.Encode(privA.Public().(ed25519.PublicKey))
	pubB := base58.Encode(privB.Public().(ed25519.PublicKey))

	list, err := ParticipantListFromCSV(pubA + "," + pubB)
	testutils.AssertNoError(t, "parsing CSV participant list", err)

	if len(list) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(list))
	}
	testutils.AssertBytesEqual(t, list[0][:], privA.Public().(ed25519.PublicKey))
	testutils.AssertBytesEqual(t, list[1][:], privB.Public().(ed25519.PublicKey))
}

func TestParticipantListFromCSV_RejectsEmpty(t *testing.T) {
	_, err := ParticipantListFromCSV("   ")
	testutils.AssertErrorIs(t, "empty CSV", err, musig2err.ErrInvalidInput)
}
