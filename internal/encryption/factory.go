package encryption

import (
	"fmt"

	"driftwatch/internal/config"
	"driftwatch/internal/drift"
)

// NewEncryptorFromConfig creates an Encryptor based on the
// configuration type. Type "none" (the default) returns a nil
// Encryptor: callers treat nil as records-stored-in-plaintext.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (drift.Encryptor, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg.PublicKeyPath, cfg.PrivateKeyPath), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
