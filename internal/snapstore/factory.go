package snapstore

import (
	"fmt"

	"driftwatch/internal/config"
	"driftwatch/internal/drift"
)

// NewStoreFromConfig creates a Store implementation based on the store
// config type. enc and dctx come from the encryption layer; both may be
// nil, in which case records are stored in plaintext.
func NewStoreFromConfig(cfg config.StoreConfig, enc drift.Encryptor, dctx drift.DecryptionContext) (drift.Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.Path == "" {
			return nil, fmt.Errorf("filesystem store requires path to be set")
		}
		store, err := NewFilesystemStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		if enc != nil {
			store = store.WithEncryption(enc, dctx)
		}
		return store, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
		}
		store, err := NewS3Store(S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		if enc != nil {
			store = store.WithEncryption(enc, dctx)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
