package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"lampions/internal/domain"
)

// Regions lists the AWS regions that support inbound SES mail.
var Regions = []string{"eu-west-1", "us-east-1", "us-west-2"}

// Config mirrors the on-disk configuration file. Field names double as
// JSON keys for compatibility with existing config files.
type Config struct {
	Region          string          `json:"Region,omitempty"`
	Domain          string          `json:"Domain,omitempty"`
	AccessKeyId     string          `json:"AccessKeyId,omitempty"`
	SecretAccessKey string          `json:"SecretAccessKey,omitempty"`
	SealedCreds     json.RawMessage `json:"SealedCredentials,omitempty"`
	DkimTokens      []string        `json:"DkimTokens,omitempty"`
}

// Verify checks that the config has been initialized.
func (c *Config) Verify() error {
	if c.Region == "" || c.Domain == "" {
		return domain.ErrNotInitialized
	}
	return nil
}

// Bucket returns the S3 bucket holding routes, recipients and the inbox.
func (c *Config) Bucket() string {
	return "lampions." + c.Domain
}

// SetCredentials stores the access key pair, sealed under passphrase when
// one is given.
func (c *Config) SetCredentials(accessKeyID, secretAccessKey, passphrase string) error {
	if passphrase == "" {
		c.AccessKeyId = accessKeyID
		c.SecretAccessKey = secretAccessKey
		c.SealedCreds = nil
		return nil
	}
	raw, err := json.Marshal(credentials{
		AccessKeyId:     accessKeyID,
		SecretAccessKey: secretAccessKey,
	})
	if err != nil {
		return err
	}
	blob, err := seal(passphrase, raw)
	if err != nil {
		return err
	}
	c.AccessKeyId = ""
	c.SecretAccessKey = ""
	c.SealedCreds = blob
	return nil
}

// Credentials returns the access key pair, unsealing it if necessary.
// Both values are empty when the config carries no credentials.
func (c *Config) Credentials(passphrase string) (accessKeyID, secretAccessKey string, err error) {
	if len(c.SealedCreds) == 0 {
		return c.AccessKeyId, c.SecretAccessKey, nil
	}
	if passphrase == "" {
		return "", "", errors.New("credentials are sealed; set LAMPIONS_PASSPHRASE or pass --passphrase")
	}
	raw, err := unseal(passphrase, c.SealedCreds)
	if err != nil {
		return "", "", err
	}
	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return "", "", err
	}
	return creds.AccessKeyId, creds.SecretAccessKey, nil
}

type credentials struct {
	AccessKeyId     string
	SecretAccessKey string
}

// String renders the config as indented JSON. Sealed credentials are
// elided rather than dumped as ciphertext.
func (c *Config) String() string {
	display := *c
	if len(display.SealedCreds) > 0 {
		display.SealedCreds = nil
		display.AccessKeyId = "(sealed)"
		display.SecretAccessKey = "(sealed)"
	}
	b, err := json.MarshalIndent(&display, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DefaultPath returns ~/.config/lampions/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lampions", "config.json"), nil
}

// Store persists the config file on disk.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a Store for the config file at path.
func NewStore(path string) *Store { return &Store{path: path} }

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Load reads the config. A missing or unreadable-as-JSON file yields an
// empty config rather than an error.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Config
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return &Config{}, nil
	}
	return &c, nil
}

// Save verifies and writes the config with owner-only permissions.
func (s *Store) Save(c *Config) error {
	if err := c.Verify(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(s.path, b, 0o600)
}

// writeFile writes bytes via a temp file, then atomically replaces the target.
func writeFile(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// ValidRegion reports whether region is one of the supported SES regions.
func ValidRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}
