// internal/words/words.go
//
// Provides the answer list that secrets are drawn from.
//
// Responsibilities:
//   - Load the answer list from an environment-provided file or fall back to
//     the embedded default.
//   - Supply RandomAnswer, At (daily selection), IsAnswer and Count.
//
// Guesses are never checked against a dictionary; this list only feeds the
// secret supply.
//
// Initialization behavior (Init):
//  1. If WORDS_ANSWERS_FILE is set, load answers from it.
//  2. Otherwise use the embedded `default_answers.txt`.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z); anything else is skipped.
//   • Lists are normalized to lowercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

//go:embed default_answers.txt
var embeddedAnswers string

// fallbackAnswer is used if RandomAnswer is called before Init succeeded.
const fallbackAnswer = "crane"

var (
	initOnce   sync.Once
	answers    []string            // canonical answers
	answersSet map[string]struct{} // answers only
	initialErr error
)

// Init loads the answer list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []string
		if path := os.Getenv("WORDS_ANSWERS_FILE"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				initialErr = err
				return
			}
			defer f.Close()
			if list, err = readWords(f); err != nil {
				initialErr = err
				return
			}
			log.Info().Str("file", path).Int("answers", len(list)).Msg("loaded answer list")
		} else {
			list, _ = readWords(strings.NewReader(embeddedAnswers))
		}

		answers = lo.Uniq(list)
		answersSet = toSet(answers)
		if len(answers) == 0 {
			initialErr = errors.New("words: answers list is empty")
		}
	})
	return initialErr
}

// readWords reads one word per line, lowercases and trims it, and keeps only
// valid 5-letter alphabetic words. Blank lines and # comments are skipped.
func readWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) == 5 && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// RandomAnswer returns a cryptographically random answer from the list.
// If answers are not loaded yet or empty, falls back to "crane".
func RandomAnswer() string {
	if len(answers) == 0 {
		return fallbackAnswer
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(answers))))
	if err != nil {
		log.Warn().Err(err).Msg("random answer, using first entry")
		return answers[0]
	}
	return answers[nBig.Int64()]
}

// At returns the answer at index i modulo the list length.
func At(i int) string {
	if len(answers) == 0 {
		return fallbackAnswer
	}
	if i < 0 {
		i = -i
	}
	return answers[i%len(answers)]
}

// IsAnswer reports whether w is an answer word.
func IsAnswer(w string) bool {
	_, ok := answersSet[strings.ToLower(w)]
	return ok
}

// Count returns the number of loaded answers.
func Count() int {
	return len(answers)
}
