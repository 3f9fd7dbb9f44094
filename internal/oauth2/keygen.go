package oauth2

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/juju/errors"
)

const HeaderKeyID = "KeyID"

// GeneratePrivateKey returns a PEM encoded PKCS #1 RSA key carrying keyID in
// its KeyID header.
func GeneratePrivateKey(keySize int, keyID string) ([]byte, error) {
	var rsaPrivateKey, err = rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, errors.Trace(err)
	}

	asn1 := x509.MarshalPKCS1PrivateKey(rsaPrivateKey)
	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: asn1,
	}
	if keyID != "" {
		block.Headers = map[string]string{
			HeaderKeyID: keyID,
		}
	}
	bytes := pem.EncodeToMemory(block)

	return bytes, nil
}
