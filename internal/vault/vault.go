// Package vault implementa la capa criptografica del registro de usuarios:
// hash de busqueda pseudonimo, derivacion de clave por password y cifrado
// autenticado de los campos PII recuperables.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

// ErrCrypto es la unica señal de fallo de descifrado. No distingue password
// incorrecta de blob corrupto; esa ambiguedad es deliberada.
var ErrCrypto = errors.New("wrong password or corrupted data")

const (
	saltSize      = 16
	nonceSize     = 12
	keySize       = 32
	keyIterations = 100_000
)

// Vault deriva claves y cifra/descifra PII. La derivacion PBKDF2 es costosa
// en CPU, asi que pasa por un pool acotado para no acaparar goroutines de
// request.
type Vault struct {
	sem chan struct{}
}

// New crea un Vault con hasta workers derivaciones de clave concurrentes.
func New(workers int) *Vault {
	if workers <= 0 {
		workers = 4
	}
	return &Vault{sem: make(chan struct{}, workers)}
}

// Digest devuelve el hash SHA-256 en hex de un texto. Se usa solo como clave
// de busqueda pseudonima; nunca para recuperar el valor original.
func (v *Vault) Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// DeriveKey deriva una clave AES-256 de la password con PBKDF2-SHA256.
func (v *Vault) DeriveKey(password string, salt []byte) []byte {
	v.sem <- struct{}{}
	defer func() { <-v.sem }()
	return pbkdf2.Key([]byte(password), salt, keyIterations, keySize, sha256.New)
}

// Encrypt cifra el texto con AES-GCM bajo una clave derivada de la password.
// Cada llamada genera salt y nonce frescos; el blob resultante empaqueta
// base64(salt ‖ nonce ‖ ciphertext+tag).
func (v *Vault) Encrypt(plaintext, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	aesgcm, err := v.newGCM(password, salt)
	if err != nil {
		return "", err
	}

	ciphertext := aesgcm.Seal(nil, nonce, []byte(plaintext), nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt desempaqueta el blob, re-deriva la clave y abre el ciphertext.
// Cualquier fallo (base64 invalido, blob corto, tag que no verifica) se
// reporta uniformemente como ErrCrypto.
func (v *Vault) Decrypt(blob, password string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrCrypto
	}
	if len(raw) < saltSize+nonceSize {
		return "", ErrCrypto
	}

	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+nonceSize]
	ciphertext := raw[saltSize+nonceSize:]

	aesgcm, err := v.newGCM(password, salt)
	if err != nil {
		return "", ErrCrypto
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCrypto
	}
	return string(plaintext), nil
}

func (v *Vault) newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := v.DeriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
