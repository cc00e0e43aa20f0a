package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "subtran",
	Short: "Telegram subtitle and string-file translation bot",
	Long: `subtran is a Telegram bot that translates subtitle files (.srt, .vtt, .ass),
key=value string files (.str), and ZIP archives of them via an LLM
completion endpoint.

Use "subtran serve" to run the bot, or "subtran translate" to translate a
single file locally without Telegram.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
