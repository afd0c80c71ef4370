package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/local/hivebot/internal/bot"
	"github.com/local/hivebot/internal/config"
	"github.com/local/hivebot/internal/secrets"
	"github.com/local/hivebot/internal/storage"
)

const version = "0.1.0"

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hivebot",
		Short: "hivebot — community Discord bot with S3-backed configuration",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🐝 hivebot v%s\n", version)
		},
	})

	var envPath string

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate secrets and remote configuration without connecting",
		Run: func(cmd *cobra.Command, args []string) {
			secs, err := secrets.Load(envPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			raw, err := storage.New(secs).Fetch(cmd.Context(), config.RemoteKey)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if _, err := config.Merge(secs, raw); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Println("secrets and remote configuration look good")
		},
	}
	checkCmd.Flags().StringVar(&envPath, "env", ".env", "Path to the secret file")
	rootCmd.AddCommand(checkCmd)

	var runEnvPath string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and block until the gateway disconnects",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			b, err := bot.Create(ctx, runEnvPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if err := b.Run(ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	runCmd.Flags().StringVar(&runEnvPath, "env", ".env", "Path to the secret file")
	rootCmd.AddCommand(runCmd)

	return rootCmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
