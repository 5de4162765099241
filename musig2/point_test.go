package musig2

import (
	"testing"

	"filippo.io/edwards25519"

	"github.com/solmusig2/agg/internal/testutils"
	"github.com/solmusig2/agg/musig2err"
)

func TestEncodeDecodePointRoundTrip(t *testing.T) {
	p := edwards25519.NewGeneratorPoint()
	encoded := encodePoint(p)

	decoded, err := decodePoint(encoded[:])
	testutils.AssertNoError(t, "decoding encoded generator point", err)

	redecoded := encodePoint(decoded)
	testutils.AssertBytesEqual(t, encoded[:], redecoded[:])
}

func TestDecodePoint_RejectsWrongLength(t *testing.T) {
	_, err := decodePoint(make([]byte, 31))
	testutils.AssertErrorIs(t, "short point", err, musig2err.ErrInvalidPoint)
}

func TestDecodeScalar_RejectsNonCanonical(t *testing.T) {
	// The all-0xff bytes are not a canonically reduced scalar mod ℓ.
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	_, err := decodeScalar(b[:])
	testutils.AssertErrorIs(t, "non-canonical scalar", err, musig2err.ErrInvalidScalar)
}

func TestHashToScalar_Deterministic(t *testing.T) {
	a := hashToScalar([]byte("foo"), []byte("bar"))
	b := hashToScalar([]byte("foo"), []byte("bar"))
	ea := encodeScalar(a)
	eb := encodeScalar(b)
	testutils.AssertBytesEqual(t, ea[:], eb[:])
}

func TestHashToScalar_DiffersOnDifferentInput(t *testing.T) {
	a := hashToScalar([]byte("foo"))
	b := hashToScalar([]byte("bar"))
	ea := encodeScalar(a)
	eb := encodeScalar(b)
	if ea == eb {
		t.Fatal("expected distinct inputs to hash to distinct scalars")
	}
}

func TestAddPoints_IdentityIsNeutral(t *testing.T) {
	g := edwards25519.NewGeneratorPoint()
	sum := addPoints(g, edwards25519.NewIdentityPoint())
	ge := encodePoint(g)
	se := encodePoint(sum)
	testutils.AssertBytesEqual(t, ge[:], se[:])
}
