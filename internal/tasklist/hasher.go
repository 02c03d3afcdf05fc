package tasklist

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// HashFile returns the lowercase hexadecimal SHA-256 digest of the entire
// contents of path. The loop uses it to notice checklist edits between
// iterations.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
