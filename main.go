package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

var version = "dev"

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("wordul exited")
		os.Exit(1)
	}
}
