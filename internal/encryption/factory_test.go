package encryption

import (
	"testing"

	"driftwatch/internal/config"
)

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Run("none and empty return nil encryptor", func(t *testing.T) {
		for _, typ := range []string{"none", ""} {
			enc, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: typ})
			if err != nil {
				t.Fatalf("NewEncryptorFromConfig(%q) error = %v", typ, err)
			}
			if enc != nil {
				t.Errorf("NewEncryptorFromConfig(%q) = %T, want nil", typ, enc)
			}
		}
	})

	t.Run("age", func(t *testing.T) {
		enc, err := NewEncryptorFromConfig(config.EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  "/tmp/k.pub",
			PrivateKeyPath: "/tmp/k.key",
		})
		if err != nil {
			t.Fatalf("NewEncryptorFromConfig() error = %v", err)
		}
		if _, ok := enc.(*AgeEncryptor); !ok {
			t.Errorf("got %T, want *AgeEncryptor", enc)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewEncryptorFromConfig(config.EncryptionConfig{Type: "rot13"}); err == nil {
			t.Fatal("expected error for unknown encryption type")
		}
	})
}
