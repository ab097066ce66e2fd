package verify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFileDigestDeterministic(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, []byte("release bytes"))

	first, err := FileDigest(path)
	require.NoError(t, err)
	second, err := FileDigest(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, SHA256HexLength)
	assert.Equal(t, strings.ToLower(first), first)
}

func TestFileDigestSensitivity(t *testing.T) {
	t.Parallel()

	a, err := FileDigest(writeTemp(t, []byte("release bytes")))
	require.NoError(t, err)
	b, err := FileDigest(writeTemp(t, []byte("release byteS")))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFileDigestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := FileDigest(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, []byte("release bytes"))
	digest, err := FileDigest(path)
	require.NoError(t, err)

	tests := []struct {
		name     string
		expected string
		want     bool
	}{
		{name: "exact", expected: digest, want: true},
		{name: "uppercase expected", expected: strings.ToUpper(digest), want: true},
		{name: "wrong digest", expected: strings.Repeat("0", SHA256HexLength), want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ok, actual, err := Matches(path, tc.expected)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
			assert.Equal(t, digest, actual)
		})
	}
}

func TestMatchesCorruptedContent(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, []byte("release bytes"))
	digest, err := FileDigest(path)
	require.NoError(t, err)

	// Truncate after hashing: the stored digest no longer matches.
	require.NoError(t, os.WriteFile(path, []byte("release"), 0o644))

	ok, _, err := Matches(path, digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsHexDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		len   int
		want  bool
	}{
		{name: "valid sha256", value: strings.Repeat("ab", 32), len: SHA256HexLength, want: true},
		{name: "uppercase", value: strings.Repeat("AB", 32), len: SHA256HexLength, want: true},
		{name: "wrong length", value: "abcd", len: SHA256HexLength, want: false},
		{name: "odd length", value: "abc", len: 0, want: false},
		{name: "non hex", value: strings.Repeat("zz", 32), len: SHA256HexLength, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsHexDigest(tc.value, tc.len))
		})
	}
}

func TestIntegrityErrorMessage(t *testing.T) {
	t.Parallel()

	err := &IntegrityError{Path: "release.zip", Expected: "aa", Actual: "bb"}
	assert.Contains(t, err.Error(), "release.zip")
	assert.Contains(t, err.Error(), "expected aa")
	assert.Contains(t, err.Error(), "got bb")
}
