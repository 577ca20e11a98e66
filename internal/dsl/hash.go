package dsl

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainDocument is the domain prefix for document fingerprints.
// The version suffix leaves room for an algorithm change.
const DomainDocument = "esq/document/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content address of a builder's current document.
// Two builders that serialize to the same canonical JSON share a fingerprint
// regardless of the order their accessors were called in.
func Fingerprint(b Builder) (string, error) {
	if IsNil(b) {
		return "", &TypeError{Op: "fingerprint", Want: "Builder", Got: b}
	}
	return FingerprintDocument(b.Document())
}

// FingerprintDocument is Fingerprint for an already serialized document.
func FingerprintDocument(doc Object) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}
