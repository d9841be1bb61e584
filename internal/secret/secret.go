// Package secret seals the secret word into an opaque, cookie-safe token.
//
// Tokens are base64url(nonce || secretbox(word)). The box key is derived
// from configured key material with HKDF-SHA256, so any string can be used
// as COOKIE_SECRET. A token only opens under the same key material and
// always yields a normalized five-letter word.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/robalobadob/wordul/internal/game"
)

const nonceSize = 24

// ErrMalformed is returned for tokens that are not valid base64, too short,
// or fail authentication.
var ErrMalformed = errors.New("secret: malformed token")

// Sealer seals and opens secret words.
type Sealer struct {
	key [32]byte
}

// NewSealer derives a box key from material.
func NewSealer(material string) (*Sealer, error) {
	if material == "" {
		return nil, errors.New("secret: empty key material")
	}
	s := &Sealer{}
	r := hkdf.New(sha256.New, []byte(material), nil, []byte("wordul secret cookie v1"))
	if _, err := io.ReadFull(r, s.key[:]); err != nil {
		return nil, fmt.Errorf("secret: derive key: %w", err)
	}
	return s, nil
}

// Seal normalizes word and returns its token.
func (s *Sealer) Seal(word string) (string, error) {
	norm, err := game.NormalizeSecret(word)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("secret: nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(norm), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open returns the word sealed in token. A token that opens but does not
// hold a five-letter word is refused with game.ErrInvalidInput.
func (s *Sealer) Open(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) <= nonceSize {
		return "", ErrMalformed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrMalformed
	}
	return game.NormalizeSecret(string(plain))
}
