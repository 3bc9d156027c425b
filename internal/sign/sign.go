// Package sign implements request signing for the Binance SAPI.
//
// Three schemes are supported, selected once at startup:
//   - ed25519: signs the raw payload directly, base64 output
//   - rsa: SHA-256 digest with PKCS#1 v1.5 padding, base64 output
//   - hmac: HMAC-SHA256 with the shared API secret, hex output
//
// Note the encoding difference: callers must not assume the HMAC variant is
// base64 like the asymmetric ones.
package sign

import (
	"crypto"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Supported algorithm names, as they appear in configuration.
const (
	AlgoEd25519 = "ed25519"
	AlgoRSA     = "rsa"
	AlgoHMAC    = "hmac"
)

// Signer produces a signature string for a canonical request payload.
// Implementations are pure: the same key and payload always yield the same
// output, for all three schemes.
type Signer interface {
	Sign(payload []byte) (string, error)
	Algorithm() string
}

// Config selects the scheme and carries its key material.
type Config struct {
	Algorithm      string
	Secret         string // shared secret, hmac only
	PrivateKeyPath string // PEM file, ed25519/rsa
	Passphrase     string // optional PEM passphrase
}

// New builds the Signer for cfg. Key material is parsed here, once; a bad key
// or a key that does not match the algorithm fails construction, never a later
// Sign call.
func New(cfg Config) (Signer, error) {
	switch cfg.Algorithm {
	case AlgoHMAC:
		if cfg.Secret == "" {
			return nil, fmt.Errorf("hmac signing requires an api secret")
		}
		return &hmacSigner{secret: []byte(cfg.Secret)}, nil

	case AlgoEd25519:
		key, err := LoadPrivateKey(cfg.PrivateKeyPath, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		edKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s is not an ed25519 private key", cfg.PrivateKeyPath)
		}
		return &ed25519Signer{key: edKey}, nil

	case AlgoRSA:
		key, err := LoadPrivateKey(cfg.PrivateKeyPath, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s is not an RSA private key", cfg.PrivateKeyPath)
		}
		return &rsaSigner{key: rsaKey}, nil

	default:
		return nil, fmt.Errorf("unsupported signature algorithm %q", cfg.Algorithm)
	}
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

func (s *ed25519Signer) Algorithm() string { return AlgoEd25519 }

// Sign signs the raw payload bytes directly, without pre-hashing.
func (s *ed25519Signer) Sign(payload []byte) (string, error) {
	sig := ed25519.Sign(s.key, payload)
	return base64.StdEncoding.EncodeToString(sig), nil
}

type rsaSigner struct {
	key *rsa.PrivateKey
}

func (s *rsaSigner) Algorithm() string { return AlgoRSA }

func (s *rsaSigner) Sign(payload []byte) (string, error) {
	hashed := sha256.Sum256(payload)

	// PKCS#1 v1.5 is deterministic; the rand source is unused.
	sig, err := rsa.SignPKCS1v15(nil, s.key, crypto.SHA256, hashed[:])
	if err != nil {
		return "", fmt.Errorf("rsa sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

type hmacSigner struct {
	secret []byte
}

func (s *hmacSigner) Algorithm() string { return AlgoHMAC }

func (s *hmacSigner) Sign(payload []byte) (string, error) {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
