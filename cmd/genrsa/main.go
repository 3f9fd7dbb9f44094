package main

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/cwkr/birthday-board/internal/oauth2"
	"github.com/juju/errors"
	"github.com/spf13/pflag"
)

// genrsa creates a signing key for clients of the birthday board. The
// public half, written with --public, goes into the board's keys setting.
func main() {
	var (
		outFilename    string
		publicFilename string
		keyID          string
		keySize        int
	)

	pflag.StringVarP(&outFilename, "out", "o", "", "private key output file")
	pflag.StringVar(&publicFilename, "public", "", "public key output file")
	pflag.StringVar(&keyID, "kid", "", "key id stored in the KeyID pem header")
	pflag.IntVar(&keySize, "size", 2048, "key size")
	pflag.Parse()

	if err := run(outFilename, publicFilename, keyID, keySize); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errors.ErrorStack(err))
		os.Exit(1)
	}
}

func run(outFilename, publicFilename, keyID string, keySize int) error {
	if keySize < 2048 {
		return errors.Errorf("key size %d is less than 2048", keySize)
	}

	var keyBytes, err = oauth2.GeneratePrivateKey(keySize, keyID)
	if err != nil {
		return errors.Trace(err)
	}

	if outFilename == "" {
		fmt.Print(string(keyBytes))
	} else if err := os.WriteFile(outFilename, keyBytes, 0600); err != nil {
		return errors.Trace(err)
	}

	if publicFilename == "" {
		return nil
	}
	var block, _ = pem.Decode(keyBytes)
	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return errors.Trace(err)
	}
	var publicBlock = &pem.Block{
		Type:    "RSA PUBLIC KEY",
		Headers: block.Headers,
		Bytes:   x509.MarshalPKCS1PublicKey(&privateKey.PublicKey),
	}
	return errors.Trace(os.WriteFile(publicFilename, pem.EncodeToMemory(publicBlock), 0644))
}
