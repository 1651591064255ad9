package encryption

import (
	"bytes"
	"fmt"
	"io"

	"driftwatch/internal/drift"
)

// Sealed test records are testHeader followed by the record bytes XORed
// with testKey. No key material or real crypto, but sealed output holds
// no readable plaintext and opens back losslessly.
var testHeader = []byte("DWENC\x00\x00\x00")

const testKey = 0x5a

// TestEncryptor is a deterministic encryptor for tests. It keeps store
// and wiring tests fast while still producing records that are clearly
// not plaintext.
type TestEncryptor struct {
	setupCalled bool
}

var _ drift.Encryptor = (*TestEncryptor)(nil)

// NewTestEncryptor creates a new TestEncryptor.
func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}
	if _, err := w.Write(scramble(body)); err != nil {
		return fmt.Errorf("writing sealed record: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (drift.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// scramble XORs every byte with testKey. XOR is its own inverse, so the
// same function seals and opens.
func scramble(body []byte) []byte {
	out := make([]byte, len(body))
	for i, b := range body {
		out[i] = b ^ testKey
	}
	return out
}

// TestDecryptionContext opens records sealed by TestEncryptor.
type TestDecryptionContext struct{}

var _ drift.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading sealed record: %w", err)
	}
	if _, err := w.Write(scramble(body)); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}
