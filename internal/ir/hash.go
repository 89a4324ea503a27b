package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainBlock = "slpvec/block/v1"
	DomainDAG   = "slpvec/dag/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// HashSnapshot computes a content-addressed fingerprint of a canonical
// snapshot structure under the given domain. The fingerprint is stable
// across runs and processes given structurally identical input, which is
// what the determinism tests and the run store key on.
func HashSnapshot(domain string, snapshot map[string]any) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("HashSnapshot: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustHashSnapshot is like HashSnapshot but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustHashSnapshot(domain string, snapshot map[string]any) string {
	h, err := HashSnapshot(domain, snapshot)
	if err != nil {
		panic(err)
	}
	return h
}

// BlockFingerprint fingerprints a block's instruction stream. Recorded by
// the run store so a stored run can be matched back to its input.
func BlockFingerprint(b *Block) (string, error) {
	insts := make([]any, 0, b.Len())
	for _, inst := range b.Insts() {
		insts = append(insts, inst.String())
	}
	return HashSnapshot(DomainBlock, map[string]any{
		"name":  b.Name(),
		"insts": insts,
	})
}
