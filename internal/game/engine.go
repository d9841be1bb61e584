// internal/game/engine.go
//
// Guess evaluation and key status aggregation.
//
// Evaluate implements the two-pass scoring algorithm:
//
//	Pass 1: mark exact matches Correct; for every other position count the
//	        secret's letter as still available.
//	Pass 2: for each non-Correct position, mark Present while the letter
//	        still has budget (decrementing it), otherwise Absent.
//
// The order matters when the secret or the guess repeats a letter: an
// exact match never spends budget a misplaced copy could otherwise claim.
package game

import (
	"fmt"
	"strings"
)

// Evaluate scores five letters against the secret. Both must be exactly
// WordLength alphabetic characters; case is ignored.
func Evaluate(letters []string, secret string) (Attempt, error) {
	if len(letters) != WordLength {
		return nil, fmt.Errorf("attempt has %d letters: %w", len(letters), ErrInvalidInput)
	}
	guess := make([]byte, WordLength)
	for i, l := range letters {
		if len(l) != 1 || !isLetter(l[0]) {
			return nil, fmt.Errorf("attempt letter %d %q: %w", i+1, l, ErrInvalidInput)
		}
		guess[i] = lower(l[0])
	}
	answer, err := NormalizeSecret(secret)
	if err != nil {
		return nil, err
	}
	return score(guess, []byte(answer)), nil
}

// EvaluateWord is Evaluate for a guess given as a single string.
func EvaluateWord(guess, secret string) (Attempt, error) {
	if len(guess) != WordLength {
		return nil, fmt.Errorf("attempt %q: %w", guess, ErrInvalidInput)
	}
	return Evaluate(strings.Split(guess, ""), secret)
}

// NormalizeSecret lowercases the secret and checks it is five letters.
func NormalizeSecret(secret string) (string, error) {
	if len(secret) != WordLength {
		return "", fmt.Errorf("secret has %d characters: %w", len(secret), ErrInvalidInput)
	}
	for i := 0; i < len(secret); i++ {
		if !isLetter(secret[i]) {
			return "", fmt.Errorf("secret is not alphabetic: %w", ErrInvalidInput)
		}
	}
	return strings.ToLower(secret), nil
}

// score expects lowercase a–z inputs of equal length.
func score(guess, answer []byte) Attempt {
	out := make(Attempt, WordLength)
	var available [26]int

	for i := 0; i < WordLength; i++ {
		out[i] = Letter{Cell: Cell{ID: SlotIDs[i], Value: string(upper(guess[i]))}}
		if guess[i] == answer[i] {
			out[i].Status = StatusCorrect
		} else {
			available[answer[i]-'a']++
		}
	}

	for i := 0; i < WordLength; i++ {
		if out[i].Status == StatusCorrect {
			continue
		}
		j := guess[i] - 'a'
		if available[j] > 0 {
			out[i].Status = StatusPresent
			available[j]--
		} else {
			out[i].Status = StatusAbsent
		}
	}
	return out
}

// Aggregate folds attempts, in submission order, into the best status seen
// per letter. Precedence is Correct > Present > Absent > unset and a letter
// is never downgraded.
func Aggregate(attempts []Attempt) KeyStatusMap {
	keys := make(KeyStatusMap)
	for _, a := range attempts {
		for _, l := range a {
			if l.Value == "" {
				continue
			}
			r := rune(upper(l.Value[0]))
			if l.Status > keys[r] {
				keys[r] = l.Status
			}
		}
	}
	return keys
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
