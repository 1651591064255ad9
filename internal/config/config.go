// Package config reads, writes and validates the driftwatch
// configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the main configuration for driftwatch.
type Config struct {
	HostID      string            `toml:"host_id"`
	BaseDir     string            `toml:"base_dir"`
	LogDir      string            `toml:"log_dir"`
	Store       StoreConfig       `toml:"store"`
	Ignore      IgnoreConfig      `toml:"ignore"`
	Database    DatabaseConfig    `toml:"database"`
	Encryption  EncryptionConfig  `toml:"encryption"`
	Fingerprint FingerprintConfig `toml:"fingerprint"`
}

// Validate validates the whole configuration tree.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.HostID, validation.Required),
		validation.Field(&c.BaseDir, validation.Required),
	); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Encryption.Validate(); err != nil {
		return err
	}
	return c.Fingerprint.Validate()
}

// StoreConfig represents configuration for the snapshot store backend.
// This uses a tagged union pattern - the Type field determines which
// other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "filesystem" (default), "memory", or "s3"

	// Filesystem-specific fields (only used when Type == "filesystem")
	Path string `toml:"path,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	if c.Type == "" {
		c.Type = "filesystem"
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Type, validation.Required, validation.In("filesystem", "memory", "s3")),
	); err != nil {
		return err
	}
	if c.Type == "filesystem" && c.Path == "" {
		return fmt.Errorf("store: type is %q but path is empty", c.Type)
	}
	if c.Type == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("store: type is %q but s3_bucket is empty", c.Type)
	}
	return nil
}

// IgnoreConfig controls which files are excluded from drift reports.
// Path points at the ignore file (one basename per line); Basenames are
// merged on top of it. Neither has to exist.
type IgnoreConfig struct {
	Path      string   `toml:"path"`
	Basenames []string `toml:"basenames,omitempty"`
}

// DatabaseConfig represents configuration for the run-history ledger.
// This uses a tagged union pattern - the Type field determines which
// other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" (default) or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	if c.Type == "" {
		c.Type = "sqlite"
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Type, validation.Required, validation.In("sqlite", "memory")),
	); err != nil {
		return err
	}
	if c.Type == "sqlite" && c.DataDir == "" {
		return fmt.Errorf("database: type is %q but data_dir is empty", c.Type)
	}
	return nil
}

// EncryptionConfig holds paths to the age key pair used for sealing
// snapshot records. Type "none" leaves records in plaintext.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "none" (default), "age", or "test"
	PublicKeyPath  string `toml:"public_key_path,omitempty"`
	PrivateKeyPath string `toml:"private_key_path,omitempty"`
}

// Validate validates the encryption configuration.
func (c *EncryptionConfig) Validate() error {
	if c.Type == "" {
		c.Type = "none"
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Type, validation.Required, validation.In("none", "age", "test")),
	); err != nil {
		return err
	}
	if c.Type == "age" && (c.PublicKeyPath == "" || c.PrivateKeyPath == "") {
		return fmt.Errorf("encryption: type is %q but key paths are empty", c.Type)
	}
	return nil
}

// FingerprintConfig selects the hash algorithm. Directory identifiers
// and digests both come from this hash, so changing it over an existing
// store starts a fresh snapshot history instead of comparing digests
// across algorithms.
type FingerprintConfig struct {
	Algorithm string `toml:"algorithm"` // "sha256" (default) or "xxh3"
}

// Validate validates the fingerprint configuration.
func (c *FingerprintConfig) Validate() error {
	if c.Algorithm == "" {
		c.Algorithm = "sha256"
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Algorithm, validation.Required, validation.In("sha256", "xxh3")),
	)
}

// NewConfig creates a new Config with the provided values and defaults
// rooted under baseDir.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type: "filesystem",
			Path: filepath.Join(baseDir, "snapshots"),
		},
		Ignore: IgnoreConfig{
			Path: filepath.Join(baseDir, "ignore"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: baseDir,
		},
		Encryption: EncryptionConfig{
			Type:           "none",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "driftwatch.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "driftwatch.key"),
		},
		Fingerprint: FingerprintConfig{
			Algorithm: "sha256",
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads and validates a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
