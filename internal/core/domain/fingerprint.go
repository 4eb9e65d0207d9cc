package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
)

// fingerprintSep separates fields fed to the digest so that moving bytes
// between adjacent fields cannot produce a collision.
var fingerprintSep = []byte{0}

// Fingerprint returns the deterministic digest identifying the
// specification's runtime constraint and dependency set. Application
// identity and lock contents never contribute, so two specifications that
// differ only in identity or pin share a fingerprint.
func (s *Spec) Fingerprint() string {
	// Sort a copy for order-insensitive equality
	deps := slices.Clone(s.Dependencies)
	slices.Sort(deps)

	h := sha256.New()
	h.Write([]byte(s.RuntimeConstraint))
	h.Write(fingerprintSep)
	for _, dep := range deps {
		h.Write([]byte(dep))
		h.Write(fingerprintSep)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// LockFingerprint returns the digest of the lock contents alone, or the
// empty string when the specification is unlocked. Keeping it independent of
// Fingerprint lets a lock change be detected without altering the primary
// matching key.
func (s *Spec) LockFingerprint() string {
	return HashLockContents(s.LockContents)
}

// HashLockContents digests raw lock contents. Empty contents yield the empty
// string, never a digest, so "no lock" and "empty lock" are the same state.
func HashLockContents(contents string) string {
	if contents == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(contents))
	return hex.EncodeToString(hash[:])
}
