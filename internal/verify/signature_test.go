package verify

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// A syntactically valid minisign public key (base64 of the right
// length) that matches no real signing key.
const testPubKey = `untrusted comment: minisign public key
RWQf6LRCGA9i53mlYecO4IzT51TGPpvWucNSCh1CBM0QTaLn73Y7GFO3
`

func TestVerifyMinisignMissingKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sigPath := filepath.Join(dir, "release.zip.minisig")
	require.NoError(t, os.WriteFile(sigPath, []byte("not a signature"), 0o644))

	err := VerifyMinisign([]byte("content"), sigPath, filepath.Join(dir, "absent.pub"))
	require.ErrorContains(t, err, "read minisign pubkey")
}

func TestVerifyMinisignMalformedSignature(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.pub")
	require.NoError(t, os.WriteFile(keyPath, []byte(testPubKey), 0o644))
	sigPath := filepath.Join(dir, "release.zip.minisig")
	require.NoError(t, os.WriteFile(sigPath, []byte("garbage"), 0o644))

	err := VerifyMinisign([]byte("content"), sigPath, keyPath)
	require.ErrorContains(t, err, "read minisign signature")
}

func TestVerifyMinisignWrongKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "key.pub")
	require.NoError(t, os.WriteFile(keyPath, []byte(testPubKey), 0o644))

	// A structurally valid signature whose key id matches no key:
	// "Ed" algorithm tag, 8-byte key id, 64-byte signature.
	sigBytes := append([]byte("Ed"), make([]byte, 72)...)
	globalSig := make([]byte, 64)
	sig := fmt.Sprintf("untrusted comment: test signature\n%s\ntrusted comment: test\n%s\n",
		base64.StdEncoding.EncodeToString(sigBytes),
		base64.StdEncoding.EncodeToString(globalSig))
	sigPath := filepath.Join(dir, "release.zip.minisig")
	require.NoError(t, os.WriteFile(sigPath, []byte(sig), 0o644))

	err := VerifyMinisign([]byte("content"), sigPath, keyPath)
	require.Error(t, err)
}
