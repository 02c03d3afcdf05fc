package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// The assistant is only observable through its chat transcript, so progress
// is inferred from file-change phrasing in the response text. A match is a
// change verb followed closely by a file reference (backtick-quoted name or
// a dotted filename).
var fileChangePattern = regexp.MustCompile(
	"(?i)\\b(created|modified|updated|wrote|edited|added|deleted|renamed)\\b[^\\n.]{0,80}?(`[^`\\n]+`|\\b[\\w./-]+\\.[a-z]{1,5}\\b)")

// ScanFilesChanged counts file-change mentions in a response.
func ScanFilesChanged(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return len(fileChangePattern.FindAllString(text, -1))
}

// hashResponse returns a short stable fingerprint of a response, computed
// over the lower-cased, whitespace-collapsed text so cosmetic reflow does
// not defeat duplicate detection.
func hashResponse(text string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	if norm == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:8])
}
