package secret

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordul/internal/game"
)

func TestSealOpen(t *testing.T) {
	s, err := NewSealer("test material")
	require.NoError(t, err)

	tok, err := s.Seal("APPLE")
	require.NoError(t, err)
	require.NotContains(t, tok, "apple")

	word, err := s.Open(tok)
	require.NoError(t, err)
	require.Equal(t, "apple", word)

	other, err := s.Seal("apple")
	require.NoError(t, err)
	require.NotEqual(t, tok, other, "every seal uses a fresh nonce")
}

func TestSeal_RefusesMalformedWord(t *testing.T) {
	s, err := NewSealer("k")
	require.NoError(t, err)
	_, err = s.Seal("apples")
	require.ErrorIs(t, err, game.ErrInvalidInput)
}

func TestOpen_Rejects(t *testing.T) {
	a, err := NewSealer("key a")
	require.NoError(t, err)
	b, err := NewSealer("key b")
	require.NoError(t, err)

	tok, err := a.Seal("crane")
	require.NoError(t, err)

	_, err = b.Open(tok)
	require.ErrorIs(t, err, ErrMalformed, "wrong key")

	_, err = a.Open("not base64!")
	require.ErrorIs(t, err, ErrMalformed)

	_, err = a.Open("")
	require.ErrorIs(t, err, ErrMalformed)

	_, err = a.Open(tok[:len(tok)-2])
	require.ErrorIs(t, err, ErrMalformed, "truncated")
}

func TestNewSealer_EmptyMaterial(t *testing.T) {
	_, err := NewSealer("")
	require.Error(t, err)
}
