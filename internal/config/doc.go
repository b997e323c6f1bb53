// Package config reads and writes the Lampions configuration file, by
// default ~/.config/lampions/config.json.
//
// The file holds the AWS region and mail domain chosen at 'lampions init'
// plus the access key and DKIM tokens captured by 'lampions configure'.
// Credentials may optionally be sealed with a passphrase-derived key
// (scrypt + ChaCha20-Poly1305) instead of being stored in the clear.
package config
