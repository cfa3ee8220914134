// Package sealing implements the integrity core of Carta-Selo: a
// deterministic content digest over a draft's sections and a plain-text
// renderer for exported letters.
//
// The digest fixes one exact byte layout so that a third party can recompute
// it from the exported text alone: for each section, in order, an RS byte
// (0x1E), the section id, a US byte (0x1F), then the section content in
// UTF-8. SHA-256 over the whole stream, lowercase hex. Empty sections are
// hashed as empty strings, never skipped, so later re-addition of content is
// detectable.
package sealing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

const (
	sectionBoundary = 0x1E // ASCII record separator, precedes each section id
	contentBoundary = 0x1F // ASCII unit separator, splits id from content
)

// Hash computes the content digest of the given sections in slice order.
// It is a pure function: same input, same output, no side effects.
func Hash(sections []models.Section) string {
	h := sha256.New()
	for _, s := range sections {
		h.Write([]byte{sectionBoundary})
		io.WriteString(h, s.ID)
		h.Write([]byte{contentBoundary})
		io.WriteString(h, s.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the digest of sections and compares it to wantHex in
// constant time. Comparison is case-sensitive; digests are lowercase hex.
func Verify(sections []models.Section, wantHex string) bool {
	got := Hash(sections)
	return subtle.ConstantTimeCompare([]byte(got), []byte(wantHex)) == 1
}
