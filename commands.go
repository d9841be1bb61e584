package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordul/internal/config"
	"github.com/robalobadob/wordul/internal/daily"
	"github.com/robalobadob/wordul/internal/game"
	"github.com/robalobadob/wordul/internal/httpserver"
	"github.com/robalobadob/wordul/internal/store"
	"github.com/robalobadob/wordul/internal/tui"
	"github.com/robalobadob/wordul/internal/words"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "wordul",
	Short:         "A five-letter word guessing game",
	Long:          `wordul serves the game over a JSON API or plays it in the terminal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if cmd.Flags().Changed("db") {
			cfg.DBPath, _ = cmd.Flags().GetString("db")
		}
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		return words.Init()
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	RunE:  runPlay,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "wordul", version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: in-memory, or DB_PATH)")

	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().String("port", "", "listen port (default: PORT or 5175)")
	}

	playCmd.Flags().Bool("daily", false, "play the word of the day")
	playCmd.Flags().String("word", "", "play a fixed word")
	playCmd.Flags().String("log", "", "write logs to this file")

	rootCmd.AddCommand(serveCmd, playCmd, versionCmd)
}

// openStore picks the SQLite store when a database path is configured and
// the in-memory store otherwise.
func openStore(c config.Config) (store.Store, func(), error) {
	if c.DBPath == "" {
		return store.NewMemoryStore(c.SessionTTL), func() {}, nil
	}
	st, err := store.OpenSQLite(c.DBPath, c.SessionTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", c.DBPath, err)
	}
	return st, func() { _ = st.Close() }, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Port = p
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if sq, ok := st.(*store.SQLite); ok {
		go pruneLoop(ctx, sq, time.Hour)
	}

	srv, err := httpserver.New(cfg, st)
	if err != nil {
		return err
	}
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting wordul server")
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return nil
	}
}

// pruneLoop deletes expired histories every interval until ctx is done.
func pruneLoop(ctx context.Context, sq *store.SQLite, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := sq.Prune(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("prune histories")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("pruned expired histories")
			}
		}
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	logPath, _ := cmd.Flags().GetString("log")
	if logPath == "" {
		log.Logger = zerolog.New(io.Discard)
	} else {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := tui.Options{Store: st, RevealDelay: cfg.RevealDelay}
	isDaily, _ := cmd.Flags().GetBool("daily")
	word, _ := cmd.Flags().GetString("word")
	switch {
	case word != "":
		if opts.Secret, err = game.NormalizeSecret(word); err != nil {
			return err
		}
		opts.Key, opts.Title = "play:fixed", "Custom word"
	case isDaily:
		now := time.Now()
		opts.Secret, _ = daily.Answer(now, cfg.DailySalt)
		opts.Key = "daily:" + daily.DateKey(now)
		opts.Title = "Daily " + daily.DateKey(now)
	default:
		opts.Secret = words.RandomAnswer()
		opts.Key, opts.Title = "play:random", "Random word"
	}

	// only the daily game resumes; other games start fresh
	if !isDaily || word != "" {
		if err := st.Delete(ctx, opts.Key); err != nil {
			return err
		}
	}
	return tui.Run(ctx, opts)
}
