// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new    → pick a secret, issue cookies, clear history
//   - GET  /game        → snapshot of the current game
//   - POST /game/key    → one on-screen keyboard press (letter, enter, backspace)
//   - POST /game/guess  → fill the row with a whole word and submit it
//   - POST /game/reset  → start over with the same secret
//
// Every response is a game snapshot. The answer is only included once the
// game is over.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordul/internal/daily"
	"github.com/robalobadob/wordul/internal/game"
	"github.com/robalobadob/wordul/internal/store"
	"github.com/robalobadob/wordul/internal/words"
)

const maxBody = 4 << 10

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNew)
		r.Get("/", s.handleGet)
		r.With(s.rateLimit).Post("/key", s.handleKey)
		r.With(s.rateLimit).Post("/guess", s.handleGuess)
		r.Post("/reset", s.handleReset)
	})
}

type newGameReq struct {
	Mode   string `json:"mode"`   // "random" (default) | "daily"
	Answer string `json:"answer"` // fixed answer, honoured only with ALLOW_FIXED_ANSWER
}

type keyReq struct {
	Key string `json:"key"`
}

type guessReq struct {
	Guess string `json:"guess"`
}

// gameRes is a snapshot plus the attempt the request produced, if any.
type gameRes struct {
	game.Snapshot
	Mode        string       `json:"mode,omitempty"`
	LastAttempt game.Attempt `json:"lastAttempt,omitempty"`
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// pickSecret chooses the secret for a new game.
func (s *Server) pickSecret(req newGameReq) (string, error) {
	if req.Answer != "" && s.cfg.AllowFixedAnswer {
		return game.NormalizeSecret(req.Answer)
	}
	switch strings.ToLower(req.Mode) {
	case "", "random":
		return words.RandomAnswer(), nil
	case "daily":
		w, _ := daily.Answer(s.now(), s.cfg.DailySalt)
		return w, nil
	}
	return "", game.ErrInvalidInput
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	word, err := s.pickSecret(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input")
		return
	}

	id, err := s.ensurePlayer(w, r)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	s.drafts.Delete(id)
	if err := s.store.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Str("player", id).Msg("clear history")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	sess, err := game.NewSession(word, s.sessionOpts(id)...)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	if err := s.setSecret(w, word); err != nil {
		log.Error().Err(err).Msg("seal secret")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	mode := strings.ToLower(req.Mode)
	if mode == "" {
		mode = "random"
	}
	log.Info().Str("player", id).Str("mode", mode).Msg("new game")
	writeJSON(w, http.StatusOK, gameRes{Snapshot: sess.Snapshot(), Mode: mode})
}

// withSession restores the caller's session, runs fn with the player lock
// held and writes the resulting snapshot.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*game.Session) (game.Attempt, error)) {
	id, ok := s.playerID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no_game")
		return
	}
	word, ok := s.secretFrom(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no_game")
		return
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := store.Resume(r.Context(), s.store, id, word, s.sessionOpts(id)...)
	if err != nil {
		log.Error().Err(err).Str("player", id).Msg("restore session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	s.loadDraft(id, sess)

	var res gameRes
	if fn != nil {
		attempt, err := fn(sess)
		switch {
		case errors.Is(err, game.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input")
			return
		case errors.Is(err, game.ErrIllegalTransition):
			// no-op: answer with the unchanged game
		case err != nil:
			log.Warn().Err(err).Str("player", id).Msg("persist session")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		res.LastAttempt = attempt
		s.saveDraft(id, sess)
	}
	res.Snapshot = sess.Snapshot()
	writeJSON(w, http.StatusOK, res)
}

// loadDraft replays the unsubmitted letters of the active row.
func (s *Server) loadDraft(id string, sess *game.Session) {
	v, ok := s.drafts.Get(id)
	if !ok {
		return
	}
	row, _ := v.([game.WordLength]string)
	for i, ch := range row {
		if ch != "" {
			_ = sess.Insert(game.SlotIDs[i], ch)
		}
	}
}

// saveDraft records the active row, dropping it once it is empty.
func (s *Server) saveDraft(id string, sess *game.Session) {
	var row [game.WordLength]string
	empty := true
	for i, c := range sess.Cells() {
		row[i] = c.Value
		empty = empty && c.Value == ""
	}
	if empty {
		s.drafts.Delete(id)
		return
	}
	s.drafts.Set(id, row, cache.DefaultExpiration)
}

func (s *Server) sessionOpts(id string) []game.Option {
	return []game.Option{game.WithLogger(log.With().Str("player", id).Logger())}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, nil)
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withSession(w, r, func(sess *game.Session) (game.Attempt, error) {
		switch key := strings.ToLower(req.Key); key {
		case "enter":
			return sess.Submit(r.Context())
		case "backspace":
			sess.Backspace()
			return nil, nil
		default:
			_, err := sess.Type(key)
			return nil, err
		}
	})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if len(req.Guess) != game.WordLength {
		writeError(w, http.StatusBadRequest, "invalid_input")
		return
	}
	s.withSession(w, r, func(sess *game.Session) (game.Attempt, error) {
		if sess.Terminal() != game.TerminalNone {
			return nil, game.ErrIllegalTransition
		}
		for i, id := range game.SlotIDs {
			if err := sess.Insert(id, req.Guess[i:i+1]); err != nil {
				return nil, err
			}
		}
		return sess.Submit(r.Context())
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) (game.Attempt, error) {
		return nil, sess.Reset(r.Context())
	})
}
