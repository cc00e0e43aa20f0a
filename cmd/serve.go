package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/myansub/subtran/internal/bot"
	"github.com/myansub/subtran/internal/config"
	"github.com/myansub/subtran/internal/detector"
	"github.com/myansub/subtran/internal/pipeline"
	"github.com/myansub/subtran/internal/session"
	"github.com/myansub/subtran/internal/store"
	"github.com/myansub/subtran/internal/translator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Start the bot and poll Telegram for uploads and button presses.

Required environment (or .env file):
  TELEGRAM_BOT_TOKEN   Telegram bot token
  OPENAI_API_KEY       completion endpoint key

Optional:
  SUBTRAN_DB_PATH          sqlite translation memory (disabled when unset)
  SUBTRAN_MODEL            completion model
  SUBTRAN_BASE_URL         OpenAI-compatible endpoint base URL
  SUBTRAN_GATEWAY_TIMEOUT  HTTP timeout for gateway calls (default: none)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

		p, closeFn, err := buildPipeline(cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()

		b, err := bot.New(cfg.TelegramToken, p, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info().Msg("bot stopped")
		return nil
	},
}

// buildPipeline wires the gateway, session store, optional translation
// memory and detector into a pipeline. The returned func closes whatever
// needs closing.
func buildPipeline(cfg *config.Config, logger zerolog.Logger) (*pipeline.Pipeline, func(), error) {
	gateway := translator.NewOpenAIGateway(cfg.OpenAIKey, cfg.BaseURL, cfg.Model, cfg.GatewayTimeout)

	pcfg := pipeline.Config{
		DataDir:  cfg.DataDir,
		WorkRoot: cfg.WorkRoot,
		Detector: detector.New(),
		Logger:   logger,
	}

	closeFn := func() {}
	if cfg.DBPath != "" {
		mem, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		pcfg.Memory = mem
		closeFn = func() { mem.Close() }
		logger.Info().Str("path", cfg.DBPath).Msg("translation memory enabled")
	}

	return pipeline.New(gateway, session.NewStore(), pcfg), closeFn, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
