// Package verify checks downloaded artifacts against the manifest:
// sha256 content digests and, when the release publishes one, a
// minisign signature.
package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// SHA256HexLength is the character count of a hex-encoded sha256 digest.
const SHA256HexLength = sha256.Size * 2

// IntegrityError reports a digest mismatch between a downloaded
// artifact and the manifest-declared digest. It is always fatal.
type IntegrityError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// FileDigest computes the lower-case hex sha256 digest of the file's
// full contents. Same bytes always yield the same digest.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path scratch controlled
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Matches reports whether the file's digest equals expected,
// case-insensitively. The computed digest is returned either way so
// callers can report both sides of a mismatch.
func Matches(path, expected string) (bool, string, error) {
	actual, err := FileDigest(path)
	if err != nil {
		return false, "", err
	}
	return actual == strings.ToLower(expected), actual, nil
}

// IsHexDigest reports whether value is a hex string of expectedLen
// characters (0 means any even length).
func IsHexDigest(value string, expectedLen int) bool {
	if expectedLen > 0 && len(value) != expectedLen {
		return false
	}
	if len(value)%2 != 0 {
		return false
	}
	for _, ch := range value {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}
	return true
}
