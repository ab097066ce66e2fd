package verify

import (
	"fmt"

	"github.com/jedisct1/go-minisign"
)

// VerifyMinisign verifies a minisign signature over content. sigPath is
// the downloaded .minisig file, pubKeyPath the operator-supplied .pub
// file. Signature checking is opt-in: the pipeline only calls this when
// both a manifest signature URL and a public key are present.
func VerifyMinisign(content []byte, sigPath, pubKeyPath string) error {
	pubKey, err := minisign.NewPublicKeyFromFile(pubKeyPath)
	if err != nil {
		return fmt.Errorf("read minisign pubkey: %w", err)
	}

	sig, err := minisign.NewSignatureFromFile(sigPath)
	if err != nil {
		return fmt.Errorf("read minisign signature: %w", err)
	}

	valid, err := pubKey.Verify(content, sig)
	if err != nil {
		return fmt.Errorf("minisign: verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("minisign: signature verification failed")
	}

	return nil
}
