// Package cryptox holds the crypto helpers the session cache is built on:
// a machine-bound key derivation and an AES-GCM record cipher.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

// machineSeed is a test seam for uuid.NodeID. The node id is the local
// hardware (MAC) address, so cached sessions written on one machine do not
// decrypt on another; if it changes the cache simply re-creates itself.
var machineSeed = uuid.NodeID

// DeriveMachineKey derives the 32-byte AES key protecting cached session
// records from the local hardware id and a package-fixed salt.
func DeriveMachineKey() []byte {
	return pbkdf2.Key(machineSeed(), []byte("tradekeeper.sessioncache.v1"), 4096, 32, sha256.New)
}

// EncryptRecord serializes v to JSON and encrypts it with AES-GCM under key.
// A fresh 12-byte nonce is generated per call and prepended to the returned
// blob, so the output is a single self-contained byte slice suitable for
// writing to disk.
func EncryptRecord(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptRecord reverses EncryptRecord: it splits the nonce off the blob,
// decrypts and unmarshals the JSON payload into v. Any tampering or a key
// mismatch fails authentication and returns an error.
func DecryptRecord(blob, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	if len(blob) < aesgcm.NonceSize() {
		return ErrMalformedBlob
	}
	nonce, ciphertext := blob[:aesgcm.NonceSize()], blob[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}
