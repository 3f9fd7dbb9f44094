package oauth2

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
)

// LoadPublicKeys reads RSA public keys given inline as PEM or as @filename
// relative to basePath. A KeyID PEM header names the key; otherwise inline
// keys are named key1, key2, ... and file keys by their base name.
func LoadPublicKeys(basePath string, keys []string) (map[string]any, error) {
	var publicKeys = make(map[string]any)

	for i, key := range keys {
		var (
			block *pem.Block
			kid   string
		)
		if strings.HasPrefix(key, "-----BEGIN ") {
			block, _ = pem.Decode([]byte(key))
			kid = fmt.Sprintf("key%d", i+1)
		} else if strings.HasPrefix(key, "@") {
			var filename = filepath.Join(basePath, key[1:])
			bytes, err := os.ReadFile(filename)
			if err != nil {
				return nil, errors.Trace(err)
			}
			block, _ = pem.Decode(bytes)
			kid = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		} else {
			return nil, errors.New("cannot load key")
		}
		if block == nil {
			return nil, errors.Errorf("no pem block in key %d", i+1)
		}
		if keyID := block.Headers[HeaderKeyID]; keyID != "" {
			kid = keyID
		}

		var rsaPublicKey *rsa.PublicKey

		switch strings.TrimSpace(strings.ToLower(block.Type)) {
		case "rsa private key":
			rsaPrivateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Trace(err)
			}
			rsaPublicKey = &rsaPrivateKey.PublicKey
		case "rsa public key":
			var err error
			rsaPublicKey, err = x509.ParsePKCS1PublicKey(block.Bytes)
			if err != nil {
				return nil, errors.Trace(err)
			}
		case "public key":
			k, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, errors.Trace(err)
			}
			var ok bool
			if rsaPublicKey, ok = k.(*rsa.PublicKey); !ok {
				return nil, errors.New("only rsa keys are supported")
			}
		default:
			return nil, errors.New("unsupported key type: " + block.Type)
		}

		publicKeys[kid] = rsaPublicKey
	}

	return publicKeys, nil
}
