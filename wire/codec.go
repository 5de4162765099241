// Package wire implements the tagged, base58-encoded envelope format spec.md
// §4.5 uses for every value that crosses a process or network boundary:
// AggMessage1, PartialSignature, and SecretAggStepOne. It is the sole place
// that knows about wire tags; callers never see a raw byte slice.
//
// Grounded on the teacher's assert-style validation ordering in
// frost/signer.go (length check, then tag check, then field decode) and on
// the hdpay sol_serialize.go file's base58 usage pattern.
package wire

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/solmusig2/agg/musig2"
	"github.com/solmusig2/agg/musig2err"
)

// Kind identifies which of the three wire message types a decoded envelope
// carries, including the Unknown sentinel for an unrecognized tag byte
// (spec §4.5, "Unknown tag bytes decode to a sentinel Unknown kind").
type Kind byte

const (
	KindUnknown Kind = iota
	KindAggMessage1
	KindPartialSignature
	KindSecretAggStepOne
)

const (
	tagAggMessage1      byte = 1
	tagPartialSignature byte = 2
	tagSecretAggStepOne byte = 3
)

// Minimum total envelope length (tag + payload) per kind, used for the
// ShortInput check before any field is decoded.
const (
	minLenAggMessage1      = 1 + 96
	minLenPartialSignature = 1 + 64
	minLenSecretAggStepOne = 1 + 128
)

func kindForTag(tag byte) Kind {
	switch tag {
	case tagAggMessage1:
		return KindAggMessage1
	case tagPartialSignature:
		return KindPartialSignature
	case tagSecretAggStepOne:
		return KindSecretAggStepOne
	default:
		return KindUnknown
	}
}

func decodeEnvelope(s string, expectedTag byte, minLen int) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", musig2err.ErrInvalidInput, err)
	}
	if len(raw) < minLen {
		return nil, &musig2err.ShortInputError{Tag: expectedTag, Min: minLen, Got: len(raw)}
	}
	found := raw[0]
	if kindForTag(found) == KindUnknown || found != expectedTag {
		return nil, &musig2err.WrongTagError{Expected: expectedTag, Found: found}
	}
	return raw[1:], nil
}

// EncodeAggMessage1 returns the base58 tag-1 envelope for m.
func EncodeAggMessage1(m *musig2.AggMessage1) string {
	payload := m.Payload()
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, tagAggMessage1)
	buf = append(buf, payload...)
	return base58.Encode(buf)
}

// DecodeAggMessage1 parses a base58 tag-1 envelope.
func DecodeAggMessage1(s string) (*musig2.AggMessage1, error) {
	payload, err := decodeEnvelope(s, tagAggMessage1, minLenAggMessage1)
	if err != nil {
		return nil, err
	}
	return musig2.ParseAggMessage1Payload(payload)
}

// EncodePartialSignature returns the base58 tag-2 envelope for sig.
func EncodePartialSignature(sig *musig2.PartialSignature) string {
	payload := sig.Bytes()
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, tagPartialSignature)
	buf = append(buf, payload[:]...)
	return base58.Encode(buf)
}

// DecodePartialSignature parses a base58 tag-2 envelope.
func DecodePartialSignature(s string) (*musig2.PartialSignature, error) {
	payload, err := decodeEnvelope(s, tagPartialSignature, minLenPartialSignature)
	if err != nil {
		return nil, err
	}
	return musig2.ParsePartialSignaturePayload(payload)
}

// EncodeSecretAggStepOne returns the base58 tag-3 envelope for s. The result
// carries secret nonce scalars; see musig2.SecretAggStepOne.Zeroize.
func EncodeSecretAggStepOne(s *musig2.SecretAggStepOne) string {
	payload := s.Payload()
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, tagSecretAggStepOne)
	buf = append(buf, payload...)
	return base58.Encode(buf)
}

// DecodeSecretAggStepOne parses a base58 tag-3 envelope.
func DecodeSecretAggStepOne(s string) (*musig2.SecretAggStepOne, error) {
	payload, err := decodeEnvelope(s, tagSecretAggStepOne, minLenSecretAggStepOne)
	if err != nil {
		return nil, err
	}
	return musig2.ParseSecretAggStepOnePayload(payload)
}
