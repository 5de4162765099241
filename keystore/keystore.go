// Package keystore reads the one key-material format the CLI collaborator
// accepts (spec §6.4): a file holding either 64 raw bytes, or a UTF-8
// base58 string decoding to 64 bytes, in Solana's seed‖pubkey convention.
package keystore

import (
	"fmt"
	"os"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/solmusig2/agg/musig2"
	"github.com/solmusig2/agg/musig2err"
)

// Load reads path and returns the expanded secret key it contains (spec
// §6.4).
func Load(path string) (musig2.SecretKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return musig2.SecretKey{}, fmt.Errorf("%w: reading %s: %v", musig2err.ErrInvalidInput, path, err)
	}
	return Parse(raw)
}

// Parse decodes key material already read into memory: 64 raw bytes, or a
// base58 string (optionally with surrounding whitespace) decoding to 64
// bytes.
func Parse(raw []byte) (musig2.SecretKey, error) {
	if len(raw) == 64 {
		return musig2.NewSecretKeyFromExpanded(raw)
	}

	trimmed := strings.TrimSpace(string(raw))
	decoded, err := base58.Decode(trimmed)
	if err != nil {
		return musig2.SecretKey{}, fmt.Errorf("%w: key material is neither 64 raw bytes nor base58: %v", musig2err.ErrInvalidInput, err)
	}
	return musig2.NewSecretKeyFromExpanded(decoded)
}

// ParticipantKeyFromBase58 decodes a single base58 public key into a
// musig2.ParticipantKey, the form `--keys K1,K2,...` entries take (spec
// §6.1).
func ParticipantKeyFromBase58(s string) (musig2.ParticipantKey, error) {
	b, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return musig2.ParticipantKey{}, fmt.Errorf("%w: invalid base58 public key %q: %v", musig2err.ErrInvalidInput, s, err)
	}
	if len(b) != 32 {
		return musig2.ParticipantKey{}, fmt.Errorf("%w: public key must be 32 bytes, got %d", musig2err.ErrInvalidInput, len(b))
	}
	var k musig2.ParticipantKey
	copy(k[:], b)
	return k, nil
}

// ParticipantListFromCSV splits a comma-separated list of base58 public
// keys into a musig2.ParticipantList, preserving order (spec §5, "The
// ParticipantList order is a protocol input"). Entries that do not decode
// to a valid Ed25519 point are rejected.
func ParticipantListFromCSV(csv string) (musig2.ParticipantList, error) {
	parts := strings.Split(csv, ",")
	list := make(musig2.ParticipantList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := ParticipantKeyFromBase58(p)
		if err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty participant list", musig2err.ErrInvalidInput)
	}
	if _, err := musig2.AggregateKeys(list, nil); err != nil {
		return nil, err
	}
	return list, nil
}
