package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myansub/subtran/internal/store"
)

var cacheDBPath string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the translation memory",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation memory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(cacheDBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d\nTotal hits: %d\n", stats.TotalEntries, stats.TotalUsage)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all translation memory entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(cacheDBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Clear(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries\n", n)
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDBPath, "db", "subtran.db", "translation memory database path")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
