// Package daily selects the secret for a calendar day.
//
// The word index is HMAC-SHA256(salt, YYYY-MM-DD) reduced modulo the answer
// list length, so every player gets the same word on the same UTC day and
// the sequence cannot be predicted without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordul/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	dk := DateKey(date)
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Answer returns the day's secret and its index in the loaded answer list.
func Answer(date time.Time, salt string) (string, int) {
	idx := WordIndex(date, salt, words.Count())
	return words.At(idx), idx
}
