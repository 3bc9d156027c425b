package sign

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/youmark/pkcs8"
)

// LoadPrivateKey loads a PEM-encoded private key from disk. Plain PKCS#8 and
// PKCS#1 are handled by crypto/x509; passphrase-protected PKCS#8 goes through
// youmark/pkcs8, which crypto/x509 cannot decrypt. The returned key is either
// an ed25519.PrivateKey or a *rsa.PrivateKey.
func LoadPrivateKey(path, passphrase string) (crypto.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("private key path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", path)
	}

	if passphrase != "" {
		key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("decrypt private key: %w", err)
		}
		return checkKeyType(key)
	}

	// Try PKCS#8 first (newer format)
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return checkKeyType(key)
	}

	// Fall back to PKCS#1 (older RSA format)
	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return rsaKey, nil
}

func checkKeyType(key any) (crypto.PrivateKey, error) {
	switch k := key.(type) {
	case ed25519.PrivateKey:
		return k, nil
	case *rsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
}
